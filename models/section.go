package models

import "time"

type GradeLevel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:30;uniqueIndex;not null"` // e.g. "Grade 7"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section owns its schedule rows and groups students.
type Section struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:60;not null"`
	GradeLevelID uint      `json:"grade_level_id" gorm:"index;not null"`
	AdviserID    *uint     `json:"adviser_id,omitempty"` // teachers.id, optional
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
