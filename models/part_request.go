package models

import (
	"time"
)

// Part request statuses
const (
	PartRequestPending   = "pending"
	PartRequestFulfilled = "fulfilled"
)

// PartRequest is an employee's request to source a spare part.
// Creating one also creates the Part it points to, unavailable until stocked.
type PartRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       *uint     `gorm:"index" json:"job_id"`          // nullable, requests may name only a vehicle
	Job         *Job      `gorm:"foreignKey:JobID" json:"-"`
	Vehicle     *string   `gorm:"column:car_brand_model" json:"car_brand_model,omitempty"` // nullable, used when no job is referenced
	UserID      uint      `gorm:"not null;index" json:"user_id"` // requesting user
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	PartID      *uint     `gorm:"index" json:"part_id"` // nulled when the part is deleted
	Part        *Part     `gorm:"foreignKey:PartID;constraint:OnDelete:SET NULL" json:"-"`
	PartName    string    `gorm:"not null;index" json:"part_name"`
	RequestDate time.Time `gorm:"not null" json:"request_date"`
	IsUrgent    bool      `gorm:"not null;default:false" json:"is_urgent"`
	Status      string    `gorm:"not null;default:'pending'" json:"status"` // pending, fulfilled
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PartRequest model
func (PartRequest) TableName() string {
	return "part_requests"
}
