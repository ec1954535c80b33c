package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, AttendancePresent.Valid())
	assert.True(t, AttendanceAbsent.Valid())
	assert.True(t, AttendanceLate.Valid())

	assert.False(t, AttendanceStatus("").Valid())
	assert.False(t, AttendanceStatus("excused").Valid())
	assert.False(t, AttendanceStatus("Present").Valid())
}
