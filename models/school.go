package models

import "time"

// School is the single profile row printed on SF2 headers.
type School struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SchoolID   string    `gorm:"size:20;uniqueIndex;not null" json:"school_id"` // DepEd school ID
	Name       string    `gorm:"size:120;not null" json:"name"`
	Region     string    `gorm:"size:60" json:"region"`
	Division   string    `gorm:"size:60" json:"division"`
	District   string    `gorm:"size:60" json:"district"`
	SchoolYear string    `gorm:"size:12" json:"school_year"` // e.g. "2025-2026"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
