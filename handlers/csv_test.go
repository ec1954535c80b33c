package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Cruz, Juan", "Juan", "Cruz"},
		{"  Cruz ,  Juan  ", "Juan", "Cruz"},
		{"Juan Cruz", "Juan", "Cruz"},
		{"Juan Miguel Cruz", "Juan Miguel", "Cruz"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		assert.Equal(t, tc.first, first, "first of %q", tc.in)
		assert.Equal(t, tc.last, last, "last of %q", tc.in)
	}
}

func headerCols(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		cols[h] = i
	}
	return cols
}

func TestParseStudentRow(t *testing.T) {
	cols := headerCols(studentCSVHeader)

	row, err := parseStudentRow(cols, []string{
		"Cruz, Juan", "100000000001", "2014-06-01", "Male", "3", "2",
		"mom@example.com | dad@example.com", "04:AA:BB:CC",
	})
	require.NoError(t, err)
	assert.Equal(t, "Juan", row.FirstName)
	assert.Equal(t, "Cruz", row.LastName)
	assert.Equal(t, "100000000001", row.LRN)
	assert.Equal(t, "male", row.Gender)
	assert.Equal(t, uint(3), row.SectionID)
	assert.Equal(t, uint(2), row.GradeLevelID)
	assert.Equal(t, []string{"mom@example.com", "dad@example.com"}, row.GuardianEmails)
	assert.Equal(t, "04:AA:BB:CC", row.CardUID)

	// optional columns may be blank
	row, err = parseStudentRow(cols, []string{"Cruz, Juan", "1001", "", "female", "3", "2", "", ""})
	require.NoError(t, err)
	assert.Empty(t, row.BirthDate)
	assert.Empty(t, row.GuardianEmails)
	assert.Empty(t, row.CardUID)

	bad := [][]string{
		{"Madonna", "1001", "", "female", "3", "2", "", ""},          // single name
		{"Cruz, Juan", "", "", "female", "3", "2", "", ""},           // missing lrn
		{"Cruz, Juan", "1234567890123", "", "female", "3", "2", "", ""}, // lrn too long
		{"Cruz, Juan", "1001", "", "other", "3", "2", "", ""},        // bad gender
		{"Cruz, Juan", "1001", "01/06/2014", "female", "3", "2", "", ""},
		{"Cruz, Juan", "1001", "", "female", "0", "2", "", ""},
		{"Cruz, Juan", "1001", "", "female", "3", "x", "", ""},
	}
	for _, rec := range bad {
		_, err := parseStudentRow(cols, rec)
		assert.Error(t, err, "record %v", rec)
	}
}

func TestParseScheduleRow(t *testing.T) {
	cols := headerCols(scheduleCSVHeader)

	p, err := parseScheduleRow(cols, []string{"3", "monday", "08:00", "09:30", "Math", "R. Santos", "201"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), p.SectionID)
	assert.Equal(t, "Monday", p.Day, "day is normalized to title case")
	assert.Equal(t, "08:00", p.StartTime)
	assert.Equal(t, "09:30", p.EndTime)
	assert.Equal(t, "Math", p.Subject)

	bad := [][]string{
		{"x", "Monday", "08:00", "09:30", "Math", "", ""},    // section_id
		{"3", "Monday", "08:00", "09:30", "", "", ""},        // subject
		{"3", "Funday", "08:00", "09:30", "Math", "", ""},    // day
		{"3", "Monday", "8:00", "09:30", "Math", "", ""},     // not zero-padded
		{"3", "Monday", "09:30", "08:00", "Math", "", ""},    // reversed range
		{"3", "Monday", "09:00", "09:00", "Math", "", ""},    // empty range
	}
	for _, rec := range bad {
		_, err := parseScheduleRow(cols, rec)
		assert.Error(t, err, "record %v", rec)
	}
}

func TestTitleDay(t *testing.T) {
	assert.Equal(t, "Monday", titleDay("monday"))
	assert.Equal(t, "Monday", titleDay(" MONDAY "))
	assert.Equal(t, "Monday", titleDay("Monday"))
	assert.Equal(t, "", titleDay("  "))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Equal(t, []string{"present", "late"}, splitCSV("present,,late,"))
	assert.Empty(t, splitCSV(""))
}

func TestAtoiOr(t *testing.T) {
	assert.Equal(t, 5, atoiOr("5", 1))
	assert.Equal(t, 1, atoiOr("", 1))
	assert.Equal(t, 1, atoiOr("abc", 1))
}
