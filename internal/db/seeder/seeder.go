package seeder

import (
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/list"
	"taskboard/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedDemoBoard(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

// seedDemoBoard creates a demo workspace on an empty database: two users, one
// shared board with the classic three lists and a few cards.
func (s *Seeder) seedDemoBoard() error {
	var count int64
	s.db.Model(&board.Board{}).Count(&count)
	if count > 0 {
		s.logger.Info("Boards already exist, skipping seed")
		return nil
	}

	owner := user.User{Name: "Ana", Email: "ana@example.com"}
	member := user.User{Name: "Luis", Email: "luis@example.com"}
	if err := s.db.Create(&owner).Error; err != nil {
		return err
	}
	if err := s.db.Create(&member).Error; err != nil {
		return err
	}

	demo := board.Board{Title: "Proyecto demo", Description: ptr("Tablero de ejemplo"), OwnerID: owner.ID}
	if err := s.db.Create(&demo).Error; err != nil {
		return err
	}
	if err := s.db.Create(&board.Member{BoardID: demo.ID, UserID: member.ID, Role: "member"}).Error; err != nil {
		return err
	}

	lists := []list.List{
		{BoardID: demo.ID, Title: "To Do", Position: 0},
		{BoardID: demo.ID, Title: "Doing", Position: 1},
		{BoardID: demo.ID, Title: "Done", Position: 2},
	}
	if err := s.db.Create(&lists).Error; err != nil {
		return err
	}

	cards := []card.Card{
		{ListID: lists[0].ID, BoardID: demo.ID, Title: "Configurar el entorno", Position: 0},
		{ListID: lists[0].ID, BoardID: demo.ID, Title: "Escribir el README", Position: 1},
		{ListID: lists[1].ID, BoardID: demo.ID, Title: "Diseñar el tablero", Position: 0},
	}
	if err := s.db.Create(&cards).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded demo board",
		zap.Uint64("board_id", demo.ID),
		zap.Int("lists", len(lists)),
		zap.Int("cards", len(cards)),
	)
	return nil
}

func ptr(s string) *string {
	return &s
}
