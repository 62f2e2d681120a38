package models

import (
	"time"
)

// Job represents a vehicle repair job for a client
type Job struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ClientName       string    `gorm:"not null" json:"client_name"`
	Vehicle          string    `gorm:"column:car_brand_model" json:"car_brand_model"`
	IssueDescription string    `gorm:"type:text" json:"issue_description"`
	Progress         int       `gorm:"not null;default:0" json:"progress"` // percentage, 0-100
	IsCompleted      bool      `gorm:"not null;default:false" json:"is_completed"`
	UserID           *uint     `gorm:"index" json:"user_id"` // owning employee
	User             *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// Title is the human readable label used in notifications
func (j Job) Title() string {
	if j.Vehicle == "" {
		return j.ClientName
	}
	return j.ClientName + " - " + j.Vehicle
}
