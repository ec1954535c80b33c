package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Attendance{}, &models.Schedule{}))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, lrn, card string, sectionID uint) models.Student {
	t.Helper()
	s := models.Student{
		LRN: lrn, FirstName: "Juan", LastName: "Cruz", Gender: "male",
		SectionID: sectionID, GradeLevelID: 1, Status: "active",
	}
	if card != "" {
		s.CardUID = &card
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func clockAt(hhmm string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02 15:04", "2026-01-12 "+hhmm)
		return ts
	}
}

func TestRecordUpdatesInPlace(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	st := seedStudent(t, db, "1001", "", 1)

	first, err := svc.Record(st.ID, "2026-01-12", models.AttendancePresent, "")
	require.NoError(t, err)
	require.NotNil(t, first.CheckIn)

	second, err := svc.Record(st.ID, "2026-01-12", models.AttendanceAbsent, "sent home sick")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.AttendanceAbsent, second.Status)
	assert.Equal(t, "sent home sick", second.Remarks)
	require.NotNil(t, second.CheckIn, "re-mark keeps the check-in stamp")
	assert.Equal(t, first.CheckIn.Unix(), second.CheckIn.Unix())

	var cnt int64
	db.Model(&models.Attendance{}).Where("student_id = ?", st.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt, "one row per student and date")
}

func TestCheckOutWithoutRowWritesNothing(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	st := seedStudent(t, db, "1001", "", 1)

	_, err := svc.CheckOut(st.ID, "2026-01-12")
	require.ErrorIs(t, err, ErrAttendanceNotFound)

	var cnt int64
	db.Model(&models.Attendance{}).Count(&cnt)
	assert.Equal(t, int64(0), cnt)
}

func TestBulkMarkCheckInSemantics(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	seedStudent(t, db, "1001", "", 1)
	seedStudent(t, db, "1002", "", 1)
	other := seedStudent(t, db, "1003", "", 2)

	sec := uint(1)
	rows, err := svc.BulkMark(&sec, "2026-01-12", models.AttendancePresent)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, models.AttendancePresent, r.Status)
		assert.NotNil(t, r.CheckIn)
	}

	// re-marking the section absent updates in place, stamps preserved
	rows, err = svc.BulkMark(&sec, "2026-01-12", models.AttendanceAbsent)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, models.AttendanceAbsent, r.Status)
		assert.NotNil(t, r.CheckIn)
	}

	var cnt int64
	db.Model(&models.Attendance{}).Count(&cnt)
	assert.Equal(t, int64(2), cnt)
	db.Model(&models.Attendance{}).Where("student_id = ?", other.ID).Count(&cnt)
	assert.Equal(t, int64(0), cnt, "other section untouched")
}

func TestTapFreshCheckIn(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	svc.Now = clockAt("07:00")
	seedStudent(t, db, "1001", "04:AA:BB", 1)

	action, rec, st, err := svc.Tap("04:AA:BB")
	require.NoError(t, err)
	assert.Equal(t, TapCheckIn, action)
	assert.Equal(t, "1001", st.LRN)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Nil(t, rec.CheckOut)
}

func TestTapAfterAbsentMarkChecksIn(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	svc.Now = clockAt("08:10")
	st := seedStudent(t, db, "1001", "04:AA:BB", 1)

	// teacher bulk-marked the section absent before the student arrived
	_, err := svc.Record(st.ID, "2026-01-12", models.AttendanceAbsent, "")
	require.NoError(t, err)

	action, rec, _, err := svc.Tap("04:AA:BB")
	require.NoError(t, err)
	assert.Equal(t, TapCheckIn, action, "absent row has no check-out transition")
	assert.Equal(t, models.AttendanceLate, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Nil(t, rec.CheckOut)

	action, rec, _, err = svc.Tap("04:AA:BB")
	require.NoError(t, err)
	assert.Equal(t, TapCheckOut, action)
	require.NotNil(t, rec.CheckOut)

	_, _, _, err = svc.Tap("04:AA:BB")
	require.ErrorIs(t, err, ErrAlreadyCheckedOut)

	var cnt int64
	db.Model(&models.Attendance{}).Where("student_id = ?", st.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestTapUnknownCard(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService(db, events.Discard{}, "07:30")
	seedStudent(t, db, "1001", "04:AA:BB", 1)

	_, _, _, err := svc.Tap("FF:FF:FF")
	require.ErrorIs(t, err, ErrUnknownCard)
}
