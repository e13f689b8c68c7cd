package list

import "time"

type List struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	BoardID   uint64    `json:"board_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type CreateListRequest struct {
	Title string `json:"title" binding:"required"`
}

type RenameListRequest struct {
	Title string `json:"title" binding:"required"`
}

// MoveListRequest carries the caller-computed target position. The server
// stores it verbatim; siblings are not renumbered.
type MoveListRequest struct {
	Position int `json:"position" binding:"min=0"`
}

type ListsResponse struct {
	Lists []*List `json:"lists"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
