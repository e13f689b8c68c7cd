package board

import "time"

type Board struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	OwnerID     uint64    `json:"owner_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type Member struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	BoardID   uint64    `json:"board_id" gorm:"not null;uniqueIndex:idx_board_user"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_board_user"`
	Role      string    `json:"role" gorm:"not null;default:'member'"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Member) TableName() string {
	return "board_members"
}

type CreateBoardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

type BoardListResponse struct {
	Boards []*Board `json:"boards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
