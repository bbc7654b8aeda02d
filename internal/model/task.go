package model

import "time"

// Status tracks where a task sits in its lifecycle.
type Status string

const (
	StatusIdea   Status = "Idea"
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// IsValidStatus reports whether s is one of the supported enum values.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusIdea, StatusOpen, StatusClosed:
		return true
	default:
		return false
	}
}

// Task represents a single tracked item in the board.
type Task struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Subject    string    `gorm:"size:255;not null" json:"subject"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Status     Status    `gorm:"size:20;not null;default:'Idea'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Notes      []Note    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}
