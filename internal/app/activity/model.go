package activity

import "time"

// Record is the append-only audit row written for every domain mutation.
// Metadata and the two snapshots are stored as JSON text because their shape
// varies per action type. Records are never updated; the only delete path is
// the retention cleanup.
type Record struct {
	ID             uint64    `json:"id" gorm:"primaryKey"`
	UserID         uint64    `json:"user_id" gorm:"not null;index"`
	ActionType     string    `json:"action_type" gorm:"not null"`
	EntityType     string    `json:"entity_type" gorm:"not null"`
	EntityID       uint64    `json:"entity_id" gorm:"not null"`
	BoardID        uint64    `json:"board_id" gorm:"not null;index"`
	Metadata       string    `json:"metadata" gorm:"type:text"`
	PreviousValues *string   `json:"previous_values,omitempty" gorm:"type:text"`
	NewValues      *string   `json:"new_values,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;index;default:CURRENT_TIMESTAMP"`
}

func (Record) TableName() string {
	return "activity_log"
}

// Entry is the input to LogActivity before serialization.
type Entry struct {
	ActorID        uint64
	Action         ActionType
	EntityType     string
	EntityID       uint64
	BoardID        uint64
	Metadata       map[string]interface{}
	PreviousValues map[string]interface{}
	NewValues      map[string]interface{}
}

// FeedItem is the read-side shape of one activity record: the raw record plus
// its formatted sentence and coarse relative age.
type FeedItem struct {
	Record       *Record `json:"record"`
	Message      string  `json:"message"`
	RelativeTime string  `json:"relative_time"`
}

type FeedResponse struct {
	Items      []*FeedItem `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
