package models

import "time"

type Announcement struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Title     string `json:"title" gorm:"size:120;not null"`
	Content   string `json:"content" gorm:"type:text;not null"`
	Priority  string `json:"priority" gorm:"size:10;not null;default:'normal'"` // low | normal | high
	IsActive  bool   `json:"is_active" gorm:"not null;default:true"`

	// Optional visibility window. Null bounds are open-ended.
	PublishAt *time.Time `json:"publish_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
