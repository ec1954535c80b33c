package models

import "time"

// Weekdays accepted on schedule rows. Day values outside this set are a
// hard validation failure before any conflict check runs.
var Weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// Schedule is one class period for a section. Times are zero-padded
// "HH:MM" so lexical comparison matches chronological order. No two
// rows for the same section+day may overlap on [start,end).
type Schedule struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SectionID   uint   `json:"section_id" gorm:"index;not null"`
	Day         string `json:"day" gorm:"size:9;not null"`        // Monday..Sunday
	StartTime   string `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime     string `json:"end_time" gorm:"size:5;not null"`   // HH:MM
	Subject     string `json:"subject" gorm:"size:80;not null"`
	TeacherName string `json:"teacher_name" gorm:"size:100"`
	Room        string `json:"room" gorm:"size:30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
