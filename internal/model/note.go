package model

import "time"

// Note is a free-text annotation attached to a task. Notes are immutable:
// once written they are never updated or deleted on their own, only removed
// together with their task.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
