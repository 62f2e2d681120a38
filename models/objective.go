package models

import (
	"time"
)

// Objective is a checklist item attached to a job
type Objective struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	Job         Job       `gorm:"foreignKey:JobID" json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Objective model
func (Objective) TableName() string {
	return "objectives"
}
