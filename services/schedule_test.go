package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kyllercodes02/academy-sub000/models"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"partial overlap right", "10:00", "11:00", "10:30", "11:30", true},
		{"partial overlap left", "10:00", "11:00", "09:30", "10:30", true},
		{"fully contained", "10:00", "11:00", "09:00", "12:00", true},
		{"contains the other", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"back to back after", "10:00", "11:00", "11:00", "12:00", false},
		{"back to back before", "10:00", "11:00", "08:00", "10:00", false},
		{"disjoint", "10:00", "11:00", "08:00", "09:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			// overlap is symmetric
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	assert.NoError(t, ValidateTimeRange("08:00", "09:30"))
	assert.NoError(t, ValidateTimeRange("00:00", "23:59"))

	assert.Error(t, ValidateTimeRange("09:00", "09:00"), "zero-length range")
	assert.Error(t, ValidateTimeRange("10:00", "09:00"), "end before start")
	assert.Error(t, ValidateTimeRange("9:00", "10:00"), "not zero-padded")
	assert.Error(t, ValidateTimeRange("25:00", "26:00"), "hour out of range")
	assert.Error(t, ValidateTimeRange("abc", "10:00"))
	assert.Error(t, ValidateTimeRange("", "10:00"))
}

func TestConflictWithin(t *testing.T) {
	earlier := []models.Schedule{
		{SectionID: 1, Day: "Monday", StartTime: "08:00", EndTime: "09:00"},
		{SectionID: 2, Day: "Monday", StartTime: "08:00", EndTime: "12:00"},
	}

	assert.True(t, conflictWithin(earlier, models.Schedule{
		SectionID: 1, Day: "Monday", StartTime: "08:30", EndTime: "09:30",
	}))
	// other section, same slot
	assert.False(t, conflictWithin(earlier, models.Schedule{
		SectionID: 3, Day: "Monday", StartTime: "08:30", EndTime: "09:30",
	}))
	// other day, same slot
	assert.False(t, conflictWithin(earlier, models.Schedule{
		SectionID: 1, Day: "Tuesday", StartTime: "08:30", EndTime: "09:30",
	}))
	// touching endpoint
	assert.False(t, conflictWithin(earlier, models.Schedule{
		SectionID: 1, Day: "Monday", StartTime: "09:00", EndTime: "10:00",
	}))
	assert.False(t, conflictWithin(nil, models.Schedule{
		SectionID: 1, Day: "Monday", StartTime: "08:00", EndTime: "09:00",
	}))
}
