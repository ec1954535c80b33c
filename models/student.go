package models

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID           uint       `gorm:"primaryKey"                  json:"id"`
	LRN          string     `gorm:"column:lrn;size:12;uniqueIndex;not null" json:"lrn"` // Learner Reference Number
	FirstName    string     `gorm:"size:50;not null"            json:"first_name"`
	LastName     string     `gorm:"size:50;not null"            json:"last_name"`
	Gender       string     `gorm:"size:6;not null"             json:"gender"` // male | female
	BirthDate    *time.Time `json:"date_of_birth,omitempty"`
	SectionID    uint       `gorm:"index;not null"              json:"section_id"`
	GradeLevelID uint       `gorm:"index;not null"              json:"grade_level_id"`
	CardUID      *string    `gorm:"size:64;uniqueIndex"         json:"card_id,omitempty"` // NFC tag, null until registered
	PhotoPath    string     `gorm:"size:255"                    json:"photo_path"`
	Address      string     `gorm:"type:text"                   json:"address"`
	Status       string     `gorm:"size:10;not null;default:'active'" json:"status"` // active | inactive

	Guardians []Guardian `gorm:"many2many:student_guardians" json:"guardians,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
