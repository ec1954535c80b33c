package models

import "time"

// AuthorizedPerson may pick a student up at the gate. At most one row
// per student has IsPrimary set; setting it flips the others off in the
// same transaction.
type AuthorizedPerson struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentID    uint      `json:"student_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Relationship string    `json:"relationship" gorm:"size:30"`
	Phone        string    `json:"phone" gorm:"size:20"`
	PhotoPath    string    `json:"photo_path" gorm:"size:255"`
	IsPrimary    bool      `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
