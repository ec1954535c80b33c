package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/models"
)

var (
	ErrAttendanceNotFound = errors.New("no attendance record for that date")
	ErrUnknownCard        = errors.New("card is not registered to any student")
	ErrAlreadyCheckedOut  = errors.New("student already checked out today")
)

// AttendanceService owns daily attendance state: one row per
// (student, date), written with upsert semantics. Every successful
// write publishes an attendance.updated event after the commit.
type AttendanceService struct {
	DB  *gorm.DB
	Pub events.Publisher

	// Taps at or after this time of day record as late. "HH:MM".
	LateCutoff string

	// Overridable clock for tests.
	Now func() time.Time
}

func NewAttendanceService(db *gorm.DB, pub events.Publisher, lateCutoff string) *AttendanceService {
	return &AttendanceService{DB: db, Pub: pub, LateCutoff: lateCutoff, Now: time.Now}
}

// NewDailyRecord builds the first record of the day. A non-absent mark
// is a check-in, so it stamps check_in_time.
func NewDailyRecord(studentID uint, date string, status models.AttendanceStatus, remarks string, now time.Time) models.Attendance {
	rec := models.Attendance{
		StudentID: studentID,
		Date:      date,
		Status:    status,
		Remarks:   remarks,
	}
	if status != models.AttendanceAbsent {
		rec.CheckIn = &now
	}
	return rec
}

// Remark overwrites status and remarks on an existing record. Timestamps
// already set are preserved; a correction never rewrites the clock.
func Remark(rec *models.Attendance, status models.AttendanceStatus, remarks string) {
	rec.Status = status
	rec.Remarks = remarks
}

// Record upserts the (student, date) row. Last write wins.
func (s *AttendanceService) Record(studentID uint, date string, status models.AttendanceStatus, remarks string) (models.Attendance, error) {
	var rec models.Attendance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND date = ?", studentID, date).First(&rec).Error
		switch {
		case err == nil:
			Remark(&rec, status, remarks)
			return tx.Save(&rec).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = NewDailyRecord(studentID, date, status, remarks, s.Now())
			return tx.Create(&rec).Error
		default:
			return err
		}
	})
	if err != nil {
		return models.Attendance{}, err
	}
	s.publishUpdated(rec)
	return rec, nil
}

// CheckOut stamps check_out_time on an existing row. Status is left
// untouched; a missing row means no check-in happened and is an error.
func (s *AttendanceService) CheckOut(studentID uint, date string) (models.Attendance, error) {
	var rec models.Attendance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ? AND date = ?", studentID, date).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return err
		}
		now := s.Now()
		rec.CheckOut = &now
		return tx.Save(&rec).Error
	})
	if err != nil {
		return models.Attendance{}, err
	}
	s.publishUpdated(rec)
	return rec, nil
}

// BulkMark applies the same upsert to every active student, optionally
// scoped to one section. The whole batch runs in a single transaction:
// either every row commits or none does.
func (s *AttendanceService) BulkMark(sectionID *uint, date string, status models.AttendanceStatus) ([]models.Attendance, error) {
	var students []models.Student
	q := s.DB.Where("status = ?", "active")
	if sectionID != nil {
		q = q.Where("section_id = ?", *sectionID)
	}
	if err := q.Find(&students).Error; err != nil {
		return nil, err
	}

	out := make([]models.Attendance, 0, len(students))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, st := range students {
			var rec models.Attendance
			err := tx.Where("student_id = ? AND date = ?", st.ID, date).First(&rec).Error
			switch {
			case err == nil:
				Remark(&rec, status, rec.Remarks)
				if err := tx.Save(&rec).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				rec = NewDailyRecord(st.ID, date, status, "", s.Now())
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
			default:
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range out {
		s.publishUpdated(rec)
	}
	return out, nil
}

// TapAction says what a card tap did.
type TapAction string

const (
	TapCheckIn  TapAction = "check_in"
	TapCheckOut TapAction = "check_out"
)

// statusFor classifies a check-in time against the late cutoff.
func (s *AttendanceService) statusFor(now time.Time) models.AttendanceStatus {
	if s.LateCutoff != "" && now.Format("15:04") >= s.LateCutoff {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}

// Tap resolves a card UID and advances the day's state: no record yet
// checks the student in (late when past the cutoff), a row with no
// check-in (pre-marked absent) turns into a check-in, a checked-in
// record checks them out, and a completed record is a conflict.
func (s *AttendanceService) Tap(cardUID string) (TapAction, models.Attendance, models.Student, error) {
	var student models.Student
	if err := s.DB.Where("card_uid = ? AND status = ?", cardUID, "active").First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.Attendance{}, models.Student{}, ErrUnknownCard
		}
		return "", models.Attendance{}, models.Student{}, err
	}

	now := s.Now()
	date := now.Format("2006-01-02")

	var rec models.Attendance
	err := s.DB.Where("student_id = ? AND date = ?", student.ID, date).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec, err = s.Record(student.ID, date, s.statusFor(now), "")
		return TapCheckIn, rec, student, err
	case err != nil:
		return "", models.Attendance{}, models.Student{}, err
	case rec.CheckIn == nil && rec.CheckOut == nil:
		// pre-marked absent; the tap is the day's real check-in
		Remark(&rec, s.statusFor(now), rec.Remarks)
		rec.CheckIn = &now
		if err := s.DB.Save(&rec).Error; err != nil {
			return "", models.Attendance{}, models.Student{}, err
		}
		s.publishUpdated(rec)
		return TapCheckIn, rec, student, nil
	case rec.CheckOut != nil:
		return "", rec, student, ErrAlreadyCheckedOut
	default:
		rec, err = s.CheckOut(student.ID, date)
		return TapCheckOut, rec, student, err
	}
}

func (s *AttendanceService) publishUpdated(rec models.Attendance) {
	if s.Pub == nil {
		return
	}
	s.Pub.Publish(events.New(events.KindAttendanceUpdated, map[string]any{
		"student_id":     rec.StudentID,
		"date":           rec.Date,
		"status":         string(rec.Status),
		"check_in_time":  rec.CheckIn,
		"check_out_time": rec.CheckOut,
		"remarks":        rec.Remarks,
	}))
}
