package list

import (
	"context"
	"time"

	"taskboard/internal/ordering"

	"gorm.io/gorm"
)

type Repository interface {
	CreateList(ctx context.Context, list *List) error
	GetListByID(id uint64) (*List, error)
	GetListsByBoardID(boardID uint64) ([]*List, error)
	RenameList(id uint64, title string) error
	MoveList(id uint64, position int) error
	DeleteList(ctx context.Context, id uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateList appends the list at the end of its board. The board row lock and
// the max-position read happen in one serializable transaction, so concurrent
// appends to the same board serialize instead of computing the same position.
func (r *repository) CreateList(ctx context.Context, list *List) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ordering.LockRow(tx, "boards", list.BoardID); err != nil {
			return err
		}
		position, err := ordering.NextPosition(tx, "lists", "board_id", list.BoardID)
		if err != nil {
			return err
		}
		list.Position = position
		return tx.Create(list).Error
	}, ordering.Serializable())
}

func (r *repository) GetListByID(id uint64) (*List, error) {
	var list List
	if err := r.db.First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Positions may collide after moves; created_at breaks ties so iteration
// order stays deterministic.
func (r *repository) GetListsByBoardID(boardID uint64) ([]*List, error) {
	var lists []*List
	err := r.db.
		Where("board_id = ?", boardID).
		Order("position ASC, created_at ASC").
		Find(&lists).Error
	return lists, err
}

func (r *repository) RenameList(id uint64, title string) error {
	return r.db.Model(&List{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now().UTC()}).Error
}

// MoveList overwrites the position with the caller-supplied value. No sibling
// renumbering.
func (r *repository) MoveList(id uint64, position int) error {
	return r.db.Model(&List{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"position": position, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) DeleteList(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM cards WHERE list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&List{}, id).Error
	})
}
