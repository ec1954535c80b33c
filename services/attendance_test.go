package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyllercodes02/academy-sub000/models"
)

func TestNewDailyRecord(t *testing.T) {
	now := time.Date(2026, 1, 12, 7, 15, 0, 0, time.UTC)

	rec := NewDailyRecord(7, "2026-01-12", models.AttendancePresent, "", now)
	assert.Equal(t, uint(7), rec.StudentID)
	assert.Equal(t, "2026-01-12", rec.Date)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, now, *rec.CheckIn)
	assert.Nil(t, rec.CheckOut)

	rec = NewDailyRecord(7, "2026-01-12", models.AttendanceLate, "traffic", now)
	assert.Equal(t, models.AttendanceLate, rec.Status)
	assert.Equal(t, "traffic", rec.Remarks)
	require.NotNil(t, rec.CheckIn, "late is still a check-in")

	rec = NewDailyRecord(7, "2026-01-12", models.AttendanceAbsent, "sick", now)
	assert.Nil(t, rec.CheckIn, "absent is not a check-in")
	assert.Nil(t, rec.CheckOut)
}

func TestRemarkPreservesTimestamps(t *testing.T) {
	in := time.Date(2026, 1, 12, 7, 15, 0, 0, time.UTC)
	out := time.Date(2026, 1, 12, 16, 0, 0, 0, time.UTC)
	rec := models.Attendance{
		StudentID: 7,
		Date:      "2026-01-12",
		Status:    models.AttendancePresent,
		CheckIn:   &in,
		CheckOut:  &out,
	}

	Remark(&rec, models.AttendanceAbsent, "left early, corrected")

	assert.Equal(t, models.AttendanceAbsent, rec.Status)
	assert.Equal(t, "left early, corrected", rec.Remarks)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, in, *rec.CheckIn)
	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, out, *rec.CheckOut)
}
