package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" teacher ")
	assert.True(t, ok)
	assert.Equal(t, RoleTeacher, r)

	_, ok = ParseRole("INSTRUCTOR")
	assert.False(t, ok)
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, LessonCancelled.Valid())
	assert.False(t, LessonStatus("postponed").Valid())
	assert.True(t, AttendanceLate.Valid())
	assert.False(t, AttendanceStatus("excused").Valid())
}

func TestSectionHasSeat(t *testing.T) {
	s := &Section{Capacity: 2}
	assert.True(t, s.HasSeat(1))
	assert.False(t, s.HasSeat(2))
}

func TestAttendanceSummaryRate(t *testing.T) {
	assert.Zero(t, AttendanceSummary{}.Rate())
	assert.InDelta(t, 0.75, AttendanceSummary{Present: 2, Late: 1, Absent: 1, Total: 4}.Rate(), 1e-9)
}
