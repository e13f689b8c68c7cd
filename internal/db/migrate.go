package db

import (
	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/list"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/session"
	"taskboard/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&user.User{},
		&session.Session{},
		&board.Board{},
		&board.Member{},
		&list.List{},
		&card.Card{},
		&activity.Record{},
		&notification.Notification{},
		&notification.Preferences{},
	); err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}
