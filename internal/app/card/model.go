package card

import "time"

type Card struct {
	ID          uint64     `json:"id" gorm:"primaryKey"`
	ListID      uint64     `json:"list_id" gorm:"not null;index"`
	BoardID     uint64     `json:"board_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Position    int        `json:"position" gorm:"not null"`
	AssignedTo  *uint64    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type CreateCardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *uint64    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// MoveCardRequest carries the caller-computed target list and position. The
// server stores both verbatim; siblings are not renumbered.
type MoveCardRequest struct {
	ListID   uint64 `json:"list_id" binding:"required"`
	Position int    `json:"position" binding:"min=0"`
}

type CardsResponse struct {
	Cards []*Card `json:"cards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
