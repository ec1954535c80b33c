package models

import "time"

// AttendanceStatus is the per-day mark for a student.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid reports whether the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// Attendance is a student's daily record. One row per (student_id, date);
// writes go through an upsert so repeated marks update in place.
type Attendance struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;uniqueIndex:uq_attendance_student_date"`
	Date      string           `json:"date" gorm:"size:10;not null;uniqueIndex:uq_attendance_student_date"` // YYYY-MM-DD
	Status    AttendanceStatus `json:"status" gorm:"size:10;not null"`
	CheckIn   *time.Time       `json:"check_in_time"`
	CheckOut  *time.Time       `json:"check_out_time"`
	Remarks   string           `json:"remarks" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
