package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

type ledgerFixture struct {
	users       *fakeUsers
	courses     *fakeCourses
	sections    *fakeSections
	enrollments *fakeEnrollments
	lessons     *fakeLessons
	attendance  *fakeAttendance

	sectionSvc    SectionService
	lessonSvc     LessonService
	attendanceSvc AttendanceService

	admin, teacher, stranger authz.Identity
	course                   *models.Course
	section                  *models.Section
	students                 []*models.User
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	fx := &ledgerFixture{
		users:      newFakeUsers(),
		courses:    newFakeCourses(),
		sections:   newFakeSections(),
		lessons:    newFakeLessons(),
		attendance: newFakeAttendance(),
	}
	fx.enrollments = newFakeEnrollments(fx.sections)

	authorizer := authz.NewAuthorizationService(fx.courses)
	fx.sectionSvc = NewSectionService(fx.sections, fx.enrollments, fx.users, authorizer)
	fx.lessonSvc = NewLessonService(fx.lessons, fx.sections, authorizer)
	fx.attendanceSvc = NewAttendanceService(fx.attendance, fx.lessons, fx.sections, fx.enrollments, authorizer)

	admin := fx.users.add(models.User{Email: "admin@uni.edu", Role: models.RoleAdmin})
	teacher := fx.users.add(models.User{Email: "t@uni.edu", Role: models.RoleTeacher})
	stranger := fx.users.add(models.User{Email: "o@uni.edu", Role: models.RoleTeacher})
	fx.admin = authz.Identity{ID: admin.ID, Role: admin.Role}
	fx.teacher = authz.Identity{ID: teacher.ID, Role: teacher.Role}
	fx.stranger = authz.Identity{ID: stranger.ID, Role: stranger.Role}

	for _, sid := range []string{"S1", "S2", "S3"} {
		fx.students = append(fx.students, fx.users.add(models.User{Email: sid + "@uni.edu", Role: models.RoleStudent, StudentID: ptr(sid)}))
	}

	fx.course = fx.courses.add(models.Course{Code: "CS101", TeacherID: teacher.ID})
	fx.section = fx.sections.add(models.Section{CourseID: fx.course.ID, Name: "A", Capacity: 2})
	return fx
}

func TestSectionOwnership(t *testing.T) {
	fx := newLedgerFixture(t)
	req := &dto.CreateSectionRequest{Name: "B", CourseID: fx.course.ID, Schedule: "Mon 9:00", Room: "101", Capacity: 30}

	_, err := fx.sectionSvc.Create(bg, fx.stranger, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	s, err := fx.sectionSvc.Create(bg, fx.teacher, req)
	require.NoError(t, err)
	assert.Equal(t, fx.course.ID, s.CourseID)

	_, err = fx.sectionSvc.Update(bg, fx.stranger, s.ID, &dto.UpdateSectionRequest{Room: ptr("202")})
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	updated, err := fx.sectionSvc.Update(bg, fx.admin, s.ID, &dto.UpdateSectionRequest{Room: ptr("202")})
	require.NoError(t, err)
	assert.Equal(t, "202", updated.Room)

	req.CourseID = 999
	_, err = fx.sectionSvc.Create(bg, fx.teacher, req)
	assert.EqualError(t, err, "Course not found")

	before := len(fx.sections.rows)
	_, err = fx.sectionSvc.Create(bg, fx.admin, req)
	assert.EqualError(t, err, "Course not found")
	assert.Len(t, fx.sections.rows, before)
}

func TestEnrollRules(t *testing.T) {
	fx := newLedgerFixture(t)
	s1, s2, s3 := fx.students[0], fx.students[1], fx.students[2]

	_, err := fx.sectionSvc.Enroll(bg, fx.section.ID, s1.ID)
	require.NoError(t, err)

	_, err = fx.sectionSvc.Enroll(bg, fx.section.ID, s1.ID)
	assert.EqualError(t, err, "Student is already enrolled in this course")

	// another section of the same course is still the same course
	other := fx.sections.add(models.Section{CourseID: fx.course.ID, Name: "B", Capacity: 10})
	_, err = fx.sectionSvc.Enroll(bg, other.ID, s1.ID)
	assert.EqualError(t, err, "Student is already enrolled in this course")

	_, err = fx.sectionSvc.Enroll(bg, fx.section.ID, s2.ID)
	require.NoError(t, err)

	_, err = fx.sectionSvc.Enroll(bg, fx.section.ID, s3.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.EqualError(t, err, "Section is full")

	_, err = fx.sectionSvc.Enroll(bg, fx.section.ID, fx.teacher.ID)
	assert.EqualError(t, err, "User is not a student")

	_, err = fx.sectionSvc.Enroll(bg, 999, s3.ID)
	assert.EqualError(t, err, "Section not found")
}

func TestUnenrollAndStudents(t *testing.T) {
	fx := newLedgerFixture(t)
	s1 := fx.students[0]
	_, err := fx.sectionSvc.Enroll(bg, fx.section.ID, s1.ID)
	require.NoError(t, err)

	list, err := fx.sectionSvc.Students(bg, fx.teacher, fx.section.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s1.ID, list[0].ID)

	_, err = fx.sectionSvc.Students(bg, fx.stranger, fx.section.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	require.NoError(t, fx.sectionSvc.Unenroll(bg, fx.section.ID, s1.ID))
	err = fx.sectionSvc.Unenroll(bg, fx.section.ID, s1.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
	assert.EqualError(t, err, "Student is not enrolled in this section")
}

func TestSectionDeleteGuard(t *testing.T) {
	fx := newLedgerFixture(t)
	fx.sections.lessons[fx.section.ID] = 1
	assert.EqualError(t, fx.sectionSvc.Delete(bg, fx.section.ID), "Cannot delete section with existing enrollments or lessons")

	fx.sections.lessons[fx.section.ID] = 0
	require.NoError(t, fx.sectionSvc.Delete(bg, fx.section.ID))
}

func TestLessonTimesAndOwnership(t *testing.T) {
	fx := newLedgerFixture(t)
	req := &dto.CreateLessonRequest{SectionID: fx.section.ID, Date: "2024-03-01", StartTime: "10:00", EndTime: "09:00"}

	_, err := fx.lessonSvc.Create(bg, fx.teacher, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
	assert.EqualError(t, err, "End time must be after start time")

	req.EndTime = "11:30"
	_, err = fx.lessonSvc.Create(bg, fx.stranger, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	lesson, err := fx.lessonSvc.Create(bg, fx.teacher, req)
	require.NoError(t, err)
	assert.Equal(t, models.LessonScheduled, lesson.Status)
	assert.Equal(t, 2024, lesson.Date.Year())

	// only the end time changes, so it is checked against the stored start
	_, err = fx.lessonSvc.Update(bg, fx.teacher, lesson.ID, &dto.UpdateLessonRequest{EndTime: ptr("10:00")})
	assert.EqualError(t, err, "End time must be after start time")

	updated, err := fx.lessonSvc.Update(bg, fx.teacher, lesson.ID, &dto.UpdateLessonRequest{Status: ptr(models.LessonCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.LessonCompleted, updated.Status)

	req.SectionID = 999
	_, err = fx.lessonSvc.Create(bg, fx.teacher, req)
	assert.EqualError(t, err, "Section not found")
}

func TestLessonDeleteGuard(t *testing.T) {
	fx := newLedgerFixture(t)
	lesson := fx.lessons.add(models.Lesson{SectionID: fx.section.ID, StartTime: "09:00", EndTime: "10:00"})
	fx.lessons.attendance[lesson.ID] = 4

	err := fx.lessonSvc.Delete(bg, fx.teacher, lesson.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.EqualError(t, err, "Cannot delete lesson with existing attendance records")

	fx.lessons.attendance[lesson.ID] = 0
	require.NoError(t, fx.lessonSvc.Delete(bg, fx.admin, lesson.ID))
	assert.EqualError(t, fx.lessonSvc.Delete(bg, fx.admin, lesson.ID), "Lesson not found")
}

func TestMarkAttendance(t *testing.T) {
	fx := newLedgerFixture(t)
	s1, s2, s3 := fx.students[0], fx.students[1], fx.students[2]
	for _, s := range []*models.User{s1, s2} {
		_, err := fx.sectionSvc.Enroll(bg, fx.section.ID, s.ID)
		require.NoError(t, err)
	}
	lesson := fx.lessons.add(models.Lesson{SectionID: fx.section.ID, StartTime: "09:00", EndTime: "10:00"})

	_, err := fx.attendanceSvc.Mark(bg, fx.teacher, lesson.ID, &dto.MarkAttendanceRequest{Records: []dto.AttendanceRecordRequest{
		{StudentID: s1.ID, Status: models.AttendancePresent},
		{StudentID: s3.ID, Status: models.AttendancePresent},
	}})
	require.Error(t, err)
	assert.EqualError(t, err, "Student is not enrolled in this lesson's section")
	assert.Empty(t, fx.attendance.rows)

	_, err = fx.attendanceSvc.Mark(bg, fx.stranger, lesson.ID, &dto.MarkAttendanceRequest{Records: []dto.AttendanceRecordRequest{
		{StudentID: s1.ID, Status: models.AttendancePresent},
	}})
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	records, err := fx.attendanceSvc.Mark(bg, fx.teacher, lesson.ID, &dto.MarkAttendanceRequest{Records: []dto.AttendanceRecordRequest{
		{StudentID: s1.ID, Status: models.AttendancePresent},
		{StudentID: s2.ID, Status: models.AttendanceAbsent},
		{StudentID: s1.ID, Status: models.AttendanceLate},
	}})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.AttendanceLate, records[0].Status)

	// marking again updates instead of duplicating
	again, err := fx.attendanceSvc.Mark(bg, fx.teacher, lesson.ID, &dto.MarkAttendanceRequest{Records: []dto.AttendanceRecordRequest{
		{StudentID: s2.ID, Status: models.AttendancePresent},
	}})
	require.NoError(t, err)
	assert.Equal(t, records[1].ID, again[0].ID)
	assert.Len(t, fx.attendance.rows, 2)

	list, err := fx.attendanceSvc.ListByLesson(bg, fx.teacher, lesson.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = fx.attendanceSvc.Mark(bg, fx.teacher, 999, &dto.MarkAttendanceRequest{})
	assert.EqualError(t, err, "Lesson not found")
}

func TestAttendanceUpdateDeleteAndSummary(t *testing.T) {
	fx := newLedgerFixture(t)
	s1 := fx.students[0]
	_, err := fx.sectionSvc.Enroll(bg, fx.section.ID, s1.ID)
	require.NoError(t, err)
	lesson := fx.lessons.add(models.Lesson{SectionID: fx.section.ID, StartTime: "09:00", EndTime: "10:00"})

	records, err := fx.attendanceSvc.Mark(bg, fx.teacher, lesson.ID, &dto.MarkAttendanceRequest{Records: []dto.AttendanceRecordRequest{
		{StudentID: s1.ID, Status: models.AttendanceAbsent},
	}})
	require.NoError(t, err)
	id := records[0].ID

	_, err = fx.attendanceSvc.Update(bg, fx.stranger, id, &dto.UpdateAttendanceRequest{Status: models.AttendancePresent})
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	updated, err := fx.attendanceSvc.Update(bg, fx.teacher, id, &dto.UpdateAttendanceRequest{Status: models.AttendanceLate, Note: ptr("bus")})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, updated.Status)
	assert.Equal(t, "bus", *updated.Note)

	// status only leaves the note alone
	updated, err = fx.attendanceSvc.Update(bg, fx.teacher, id, &dto.UpdateAttendanceRequest{Status: models.AttendanceLate})
	require.NoError(t, err)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "bus", *updated.Note)

	summary, err := fx.attendanceSvc.Summary(bg, s1.ID)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(1), summary[0].Late)
	assert.InDelta(t, 1.0, summary[0].Rate, 0.0001)

	mine, info, err := fx.attendanceSvc.ListMine(bg, s1.ID, repositories.LessonFilter{}, helpers.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, int64(1), info.Total)

	require.NoError(t, fx.attendanceSvc.Delete(bg, id))
	assert.EqualError(t, fx.attendanceSvc.Delete(bg, id), "Attendance record not found")
	_, err = fx.attendanceSvc.Update(bg, fx.teacher, id, &dto.UpdateAttendanceRequest{Status: models.AttendancePresent})
	assert.EqualError(t, err, "Attendance record not found")
}
