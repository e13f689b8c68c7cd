package activity

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(record *Record) error
	GetByBoardID(boardID uint64, page, limit int) ([]*Record, int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(record *Record) error {
	return r.db.Create(record).Error
}

func (r *repository) GetByBoardID(boardID uint64, page, limit int) ([]*Record, int64, error) {
	var records []*Record

	query := r.db.Model(&Record{}).Where("board_id = ?", boardID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&Record{})
	return result.RowsAffected, result.Error
}
