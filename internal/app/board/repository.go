package board

import (
	"gorm.io/gorm"
)

type Repository interface {
	CreateBoard(board *Board) error
	GetBoardByID(id uint64) (*Board, error)
	GetBoardsByUserID(userID uint64) ([]*Board, error)
	HasUserAccess(boardID, userID uint64) (bool, error)
	AddMember(member *Member) error
	RemoveMember(boardID, userID uint64) error
	GetMember(boardID, userID uint64) (*Member, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBoard(board *Board) error {
	return r.db.Create(board).Error
}

func (r *repository) GetBoardByID(id uint64) (*Board, error) {
	var board Board
	if err := r.db.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *repository) GetBoardsByUserID(userID uint64) ([]*Board, error) {
	var boards []*Board
	err := r.db.Table("boards").
		Select("DISTINCT boards.*").
		Joins("LEFT JOIN board_members ON board_members.board_id = boards.id").
		Where("boards.owner_id = ? OR board_members.user_id = ?", userID, userID).
		Order("boards.created_at ASC").
		Find(&boards).Error
	return boards, err
}

func (r *repository) HasUserAccess(boardID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Table("boards").
		Joins("LEFT JOIN board_members ON board_members.board_id = boards.id AND board_members.user_id = ?", userID).
		Where("boards.id = ? AND (boards.owner_id = ? OR board_members.user_id IS NOT NULL)", boardID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) AddMember(member *Member) error {
	return r.db.Create(member).Error
}

func (r *repository) RemoveMember(boardID, userID uint64) error {
	result := r.db.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetMember(boardID, userID uint64) (*Member, error) {
	var member Member
	err := r.db.Where("board_id = ? AND user_id = ?", boardID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
