package models

import (
	"time"
)

// Finalization request statuses
const (
	FinalizationPending  = "pending"
	FinalizationApproved = "approved"
	FinalizationRejected = "rejected"
)

// FinalizationRequest is a user's request to have a job marked complete.
// An admin approves or rejects it; approval completes the job.
type FinalizationRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	Job         Job       `gorm:"foreignKey:JobID" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	RequestDate time.Time `gorm:"not null" json:"request_date"`
	IsApproved  bool      `gorm:"not null;default:false" json:"is_approved"`
	Status      string    `gorm:"not null;default:'pending'" json:"status"` // pending, approved, rejected
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the FinalizationRequest model
func (FinalizationRequest) TableName() string {
	return "job_finalization_requests"
}
