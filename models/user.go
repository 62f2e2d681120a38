package models

import (
	"time"
)

// Roles a user can hold. Admins receive shop-wide notifications.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a shop employee or administrator
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Name      string    `json:"name"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`      // nullable, alternative login identifier
	Password  string    `gorm:"not null" json:"-"`                      // stored as given, never serialized
	Role      string    `gorm:"not null;default:'user'" json:"role"`    // "user" or "admin"
	PushToken *string   `json:"-"`                                      // nullable, device token for push delivery
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPushToken reports whether the user registered a device for push delivery
func (u User) HasPushToken() bool {
	return u.PushToken != nil && *u.PushToken != ""
}

// UserProfile is the reduced projection of a user returned by the API
type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Profile returns the public projection of the user
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
