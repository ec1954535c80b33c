package models

import "time"

// Guardian is the profile behind a user with role "guardian". The user
// row and the profile are created inside one transaction.
type Guardian struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:50;not null"`
	LastName     string    `json:"last_name" gorm:"size:50;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Relationship string    `json:"relationship" gorm:"size:30"` // mother | father | guardian ...
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
