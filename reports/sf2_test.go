package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyllercodes02/academy-sub000/models"
)

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(time.January, 2026))
	assert.Equal(t, 28, DaysIn(time.February, 2026))
	assert.Equal(t, 29, DaysIn(time.February, 2024))
	assert.Equal(t, 30, DaysIn(time.April, 2026))
}

func sf2Fixture() ([]models.Student, []models.Attendance) {
	students := []models.Student{
		{ID: 1, LRN: "100001", FirstName: "Juan", LastName: "Cruz", Gender: "male"},
		{ID: 2, LRN: "100002", FirstName: "Pedro", LastName: "Abad", Gender: "male"},
		{ID: 3, LRN: "100003", FirstName: "Maria", LastName: "Reyes", Gender: "female"},
	}
	rows := []models.Attendance{
		{StudentID: 1, Date: "2026-01-01", Status: models.AttendancePresent},
		{StudentID: 1, Date: "2026-01-03", Status: models.AttendancePresent},
		{StudentID: 1, Date: "2026-01-05", Status: models.AttendancePresent},
		{StudentID: 2, Date: "2026-01-01", Status: models.AttendanceLate},
		{StudentID: 2, Date: "2026-01-02", Status: models.AttendanceAbsent},
		{StudentID: 3, Date: "2026-01-01", Status: models.AttendancePresent},
		{StudentID: 3, Date: "2026-01-02", Status: models.AttendancePresent},
		{StudentID: 3, Date: "2026-01-03", Status: models.AttendanceAbsent},
		// previous month, must be ignored
		{StudentID: 1, Date: "2025-12-31", Status: models.AttendanceAbsent},
	}
	return students, rows
}

func TestAggregateMarksAndTotals(t *testing.T) {
	students, rows := sf2Fixture()
	rep := Aggregate(students, rows, time.January, 2026)

	assert.Equal(t, 31, rep.DaysInMonth)
	require.Len(t, rep.Male, 2)
	require.Len(t, rep.Female, 1)

	// male rows sorted by "Last, First"
	abad, cruz := rep.Male[0], rep.Male[1]
	assert.Equal(t, "Abad, Pedro", abad.Name)
	assert.Equal(t, "Cruz, Juan", cruz.Name)

	require.Len(t, cruz.Marks, 31)
	assert.Equal(t, MarkPresent, cruz.Marks[0])
	assert.Equal(t, MarkNone, cruz.Marks[1], "day without a record stays blank")
	assert.Equal(t, MarkPresent, cruz.Marks[2])
	assert.Equal(t, MarkNone, cruz.Marks[3])
	assert.Equal(t, MarkPresent, cruz.Marks[4])
	assert.Equal(t, 3, cruz.Present)
	assert.Equal(t, 0, cruz.Absent, "blank days are never counted absent")
	assert.Equal(t, 0, cruz.Late)

	assert.Equal(t, MarkLate, abad.Marks[0])
	assert.Equal(t, MarkAbsent, abad.Marks[1])
	assert.Equal(t, 1, abad.Late)
	assert.Equal(t, 1, abad.Present, "late counts toward present")
	assert.Equal(t, 1, abad.Absent)

	reyes := rep.Female[0]
	assert.Equal(t, "Reyes, Maria", reyes.Name)
	assert.Equal(t, 2, reyes.Present)
	assert.Equal(t, 1, reyes.Absent)
}

func TestAggregateSummary(t *testing.T) {
	students, rows := sf2Fixture()
	rep := Aggregate(students, rows, time.January, 2026)

	s := rep.Summary
	assert.Equal(t, 2, s.EnrolledMale)
	assert.Equal(t, 1, s.EnrolledFemale)
	// days 1, 2, 3 and 5 have at least one record
	assert.Equal(t, 4, s.SchoolDays)
	// present per day: 3, 1, 1, 1 -> 6 over 4 days
	assert.Equal(t, 1.5, s.AverageDailyAttendance)
	assert.Equal(t, 50.0, s.PercentageAttendance)
	assert.Equal(t, 100.0, s.PercentageEnrolment)
}

func TestAggregateEmptyMonth(t *testing.T) {
	students, _ := sf2Fixture()
	rep := Aggregate(students, nil, time.February, 2026)

	s := rep.Summary
	assert.Equal(t, 0, s.SchoolDays)
	assert.Equal(t, 0.0, s.AverageDailyAttendance)
	assert.Equal(t, 0.0, s.PercentageAttendance)
	for _, row := range append(rep.Male, rep.Female...) {
		assert.Equal(t, 0, row.Present)
		assert.Equal(t, 0, row.Absent)
	}
}

func TestRenderCSV(t *testing.T) {
	students, rows := sf2Fixture()
	rep := Aggregate(students, rows, time.January, 2026)

	out, err := RenderCSV(rep)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	require.NoError(t, err)

	// header + 3 learners + summary
	require.Len(t, recs, 5)
	assert.Len(t, recs[0], 3+31+3)
	assert.Equal(t, "lrn", recs[0][0])
	// male rows come first
	assert.Equal(t, "Abad, Pedro", recs[1][1])
	assert.Equal(t, "Reyes, Maria", recs[3][1])
	assert.Equal(t, "summary", recs[4][0])
}
