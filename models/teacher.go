package models

import "time"

type Teacher struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeNo string    `gorm:"size:20;not null;uniqueIndex" json:"employee_no"`
	FirstName  string    `gorm:"size:50;not null" json:"first_name"`
	LastName   string    `gorm:"size:50;not null" json:"last_name"`
	Phone      string    `gorm:"size:15" json:"phone"`
	Email      string    `gorm:"size:80;not null;uniqueIndex" json:"email"`
	Position   string    `gorm:"size:50" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
