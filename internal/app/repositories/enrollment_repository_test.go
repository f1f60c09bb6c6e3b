package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniattend/internal/pkg/apperrors"
)

func expectSectionLock(mock pgxmock.PgxPoolIface, sectionID, courseID int64, capacity int) {
	mock.ExpectQuery("SELECT course_id, capacity FROM sections WHERE id = \\$1 FOR UPDATE").
		WithArgs(sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "capacity"}).AddRow(courseID, capacity))
}

func TestEnrollInsertsWithinCapacity(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSectionLock(mock, 2, 7, 30)
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("INSERT INTO enrollments").WithArgs(int64(1), int64(7), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "enrolled_at"}).AddRow(int64(99), now))
	mock.ExpectCommit()

	e, err := NewEnrollmentRepository(mock).Enroll(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(99), e.ID)
	assert.Equal(t, int64(7), e.CourseID)
}

func TestEnrollRejectsFullSection(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	expectSectionLock(mock, 2, 7, 30)
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(30)))
	mock.ExpectRollback()

	_, err := NewEnrollmentRepository(mock).Enroll(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrSectionFull)
}

func TestEnrollRejectsSecondSectionOfCourse(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	expectSectionLock(mock, 2, 7, 30)
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := NewEnrollmentRepository(mock).Enroll(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollMissingSection(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sections").WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := NewEnrollmentRepository(mock).Enroll(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM enrollments").WithArgs(int64(2), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewEnrollmentRepository(mock).Unenroll(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEnrolledStudentIDs(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT student_id FROM enrollments").WithArgs(int64(5), int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"student_id"}).AddRow(int64(2)))

	got, err := NewEnrollmentRepository(mock).EnrolledStudentIDs(context.Background(), 5, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true}, got)
}
