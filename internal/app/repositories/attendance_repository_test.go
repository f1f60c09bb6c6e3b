package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniattend/internal/app/models"
)

func TestAttendanceUpsertInTransaction(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	note := "bus delay"

	mock.ExpectBegin()
	mock.ExpectQuery("ON CONFLICT \\(lesson_id, student_id\\)").
		WithArgs(int64(4), int64(1), models.AttendancePresent, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(10), now))
	mock.ExpectQuery("ON CONFLICT \\(lesson_id, student_id\\)").
		WithArgs(int64(4), int64(2), models.AttendanceLate, &note).
		WillReturnRows(pgxmock.NewRows([]string{"id", "recorded_at"}).AddRow(int64(11), now))
	mock.ExpectCommit()

	records, err := NewAttendanceRepository(mock).Upsert(context.Background(), 4, []models.AttendanceMark{
		{StudentID: 1, Status: models.AttendancePresent},
		{StudentID: 2, Status: models.AttendanceLate, Note: &note},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(11), records[1].ID)
	assert.Equal(t, models.AttendanceLate, records[1].Status)
}

func TestAttendanceUpsertRollsBack(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO attendance").
		WithArgs(int64(4), int64(1), models.AttendanceAbsent, (*string)(nil)).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := NewAttendanceRepository(mock).Upsert(context.Background(), 4, []models.AttendanceMark{
		{StudentID: 1, Status: models.AttendanceAbsent},
	})
	assert.ErrorIs(t, err, boom)
}

func attendanceRow(note *string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "lesson_id", "student_id", "status", "note", "recorded_at",
		"first_name", "last_name", "email", "student_id",
	}).AddRow(int64(1), int64(4), int64(3), models.AttendanceLate, note, time.Now(),
		"Sam", "Lee", "s@uni.edu", (*string)(nil))
}

func TestAttendanceUpdateStatusKeepsNote(t *testing.T) {
	mock := newMock(t)
	kept := "bus delay"

	mock.ExpectQuery(`^UPDATE attendance SET status = \$1, recorded_at = NOW\(\) WHERE id = \$2 RETURNING id$`).
		WithArgs(models.AttendanceLate, int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("FROM attendance a").WithArgs(int64(1)).
		WillReturnRows(attendanceRow(&kept))

	got, err := NewAttendanceRepository(mock).UpdateStatus(context.Background(), 1, models.AttendanceLate, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Note)
	assert.Equal(t, kept, *got.Note)
}

func TestAttendanceUpdateStatusWithNote(t *testing.T) {
	mock := newMock(t)
	note := "left early"

	mock.ExpectQuery(`^UPDATE attendance SET status = \$1, note = \$2, recorded_at = NOW\(\) WHERE id = \$3 RETURNING id$`).
		WithArgs(models.AttendanceLate, note, int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("FROM attendance a").WithArgs(int64(1)).
		WillReturnRows(attendanceRow(&note))

	_, err := NewAttendanceRepository(mock).UpdateStatus(context.Background(), 1, models.AttendanceLate, &note)
	require.NoError(t, err)
}

func TestAttendanceSummary(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM enrollments e").WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "cname", "present", "absent", "late", "total"}).
			AddRow(int64(1), "A", "CS101", "Intro", int64(3), int64(1), int64(0), int64(4)))

	got, err := NewAttendanceRepository(mock).SummaryByStudent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CS101", got[0].CourseCode)
	assert.InDelta(t, 0.75, got[0].Rate(), 1e-9)
}
