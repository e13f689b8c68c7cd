package card

import (
	"context"
	"time"

	"taskboard/internal/ordering"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCard(ctx context.Context, card *Card) error
	GetCardByID(id uint64) (*Card, error)
	GetCardsByListID(listID uint64) ([]*Card, error)
	UpdateCard(id uint64, updates map[string]interface{}) error
	MoveCard(id, listID uint64, position int) error
	DeleteCard(id uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateCard appends the card at the end of its list. The list row lock and
// the max-position read share one serializable transaction; a concurrent
// insert into the same list blocks on the lock and reads the updated maximum.
func (r *repository) CreateCard(ctx context.Context, card *Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ordering.LockRow(tx, "lists", card.ListID); err != nil {
			return err
		}
		position, err := ordering.NextPosition(tx, "cards", "list_id", card.ListID)
		if err != nil {
			return err
		}
		card.Position = position
		return tx.Create(card).Error
	}, ordering.Serializable())
}

func (r *repository) GetCardByID(id uint64) (*Card, error) {
	var card Card
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) GetCardsByListID(listID uint64) ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Where("list_id = ?", listID).
		Order("position ASC, created_at ASC").
		Find(&cards).Error
	return cards, err
}

func (r *repository) UpdateCard(id uint64, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	return r.db.Model(&Card{}).Where("id = ?", id).Updates(updates).Error
}

// MoveCard overwrites list and position with caller-supplied values. No
// sibling renumbering on either the source or the target list.
func (r *repository) MoveCard(id, listID uint64, position int) error {
	return r.db.Model(&Card{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"list_id":    listID,
			"position":   position,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) DeleteCard(id uint64) error {
	return r.db.Delete(&Card{}, id).Error
}
