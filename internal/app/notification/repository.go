package notification

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(n *Notification) error
	GetByUserID(userID uint64, limit, offset int) ([]*Notification, error)
	CountUnread(userID uint64) (int64, error)
	MarkRead(userID, notificationID uint64) error
	MarkAllRead(userID uint64) (int64, error)
	ExistsRecent(userID uint64, notifType string, since time.Time) (bool, error)
	GetPreferences(userID uint64) (*Preferences, error)
	CreatePreferences(p *Preferences) error
	SavePreferences(p *Preferences) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(n *Notification) error {
	return r.db.Create(n).Error
}

func (r *repository) GetByUserID(userID uint64, limit, offset int) ([]*Notification, error) {
	var notifications []*Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *repository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(userID, notificationID uint64) error {
	now := time.Now().UTC()
	result := r.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(userID uint64) (int64, error) {
	now := time.Now().UTC()
	result := r.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *repository) ExistsRecent(userID uint64, notifType string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("user_id = ? AND type = ? AND created_at > ?", userID, notifType, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) GetPreferences(userID uint64) (*Preferences, error) {
	var prefs Preferences
	err := r.db.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *repository) CreatePreferences(p *Preferences) error {
	return r.db.Create(p).Error
}

func (r *repository) SavePreferences(p *Preferences) error {
	return r.db.Save(p).Error
}
