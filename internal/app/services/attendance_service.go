package services

import (
	"context"
	"fmt"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// AttendanceService defines the interface for attendance operations
type AttendanceService interface {
	ListByLesson(ctx context.Context, who authz.Identity, lessonID int64) ([]*models.Attendance, error)
	Mark(ctx context.Context, who authz.Identity, lessonID int64, req *dto.MarkAttendanceRequest) ([]*models.Attendance, error)
	ListMine(ctx context.Context, studentID int64, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Attendance, dto.PaginationInfo, error)
	Summary(ctx context.Context, studentID int64) ([]dto.AttendanceSummaryResponse, error)
	Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateAttendanceRequest) (*models.Attendance, error)
	Delete(ctx context.Context, id int64) error
}

type attendanceServiceImpl struct {
	attendance  AttendanceStore
	lessons     LessonStore
	sections    SectionStore
	enrollments EnrollmentStore
	authorizer  CourseAuthorizer
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendance AttendanceStore,
	lessons LessonStore,
	sections SectionStore,
	enrollments EnrollmentStore,
	authorizer CourseAuthorizer,
) AttendanceService {
	return &attendanceServiceImpl{
		attendance:  attendance,
		lessons:     lessons,
		sections:    sections,
		enrollments: enrollments,
		authorizer:  authorizer,
	}
}

// authorizeLesson loads a lesson and checks that who manages its course
func (s *attendanceServiceImpl) authorizeLesson(ctx context.Context, who authz.Identity, lessonID int64) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, lookupErr(err, "Lesson not found", "lesson", lessonID)
	}
	if _, err := authorizeSection(ctx, s.sections, s.authorizer, who, lesson.SectionID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *attendanceServiceImpl) ListByLesson(ctx context.Context, who authz.Identity, lessonID int64) ([]*models.Attendance, error) {
	if _, err := s.authorizeLesson(ctx, who, lessonID); err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson attendance: %w", err)
	}
	return records, nil
}

// Mark records attendance for several students of one lesson. A student
// listed twice keeps the last entry.
func (s *attendanceServiceImpl) Mark(ctx context.Context, who authz.Identity, lessonID int64, req *dto.MarkAttendanceRequest) ([]*models.Attendance, error) {
	lesson, err := s.authorizeLesson(ctx, who, lessonID)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(req.Records))
	marks := make([]models.AttendanceMark, 0, len(req.Records))
	for _, r := range req.Records {
		mark := models.AttendanceMark{StudentID: r.StudentID, Status: r.Status, Note: r.Note}
		if i, seen := index[r.StudentID]; seen {
			marks[i] = mark
			continue
		}
		index[r.StudentID] = len(marks)
		marks = append(marks, mark)
	}

	ids := make([]int64, 0, len(marks))
	for _, m := range marks {
		ids = append(ids, m.StudentID)
	}
	enrolled, err := s.enrollments.EnrolledStudentIDs(ctx, lesson.SectionID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !enrolled[id] {
			return nil, apperrors.NewBadRequestError("Student is not enrolled in this lesson's section")
		}
	}

	records, err := s.attendance.Upsert(ctx, lessonID, marks)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", lessonID).Msg("Error marking attendance")
		return nil, err
	}

	logger.Info().Int64("lessonID", lessonID).Int("records", len(records)).Int64("by", who.ID).Msg("Attendance marked")
	return records, nil
}

func (s *attendanceServiceImpl) ListMine(ctx context.Context, studentID int64, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Attendance, dto.PaginationInfo, error) {
	records, total, err := s.attendance.ListByStudent(ctx, studentID, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list student attendance: %w", err)
	}
	return records, helpers.NewPaginationInfo(total, p), nil
}

func (s *attendanceServiceImpl) Summary(ctx context.Context, studentID int64) ([]dto.AttendanceSummaryResponse, error) {
	summaries, err := s.attendance.SummaryByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return dto.NewAttendanceSummaryResponses(summaries), nil
}

func (s *attendanceServiceImpl) Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateAttendanceRequest) (*models.Attendance, error) {
	current, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Attendance record not found", "attendance", id)
	}
	if _, err := s.authorizeLesson(ctx, who, current.LessonID); err != nil {
		return nil, err
	}

	record, err := s.attendance.UpdateStatus(ctx, id, req.Status, req.Note)
	if err != nil {
		return nil, lookupErr(err, "Attendance record not found", "attendance", id)
	}
	return record, nil
}

func (s *attendanceServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.attendance.Delete(ctx, id); err != nil {
		return lookupErr(err, "Attendance record not found", "attendance", id)
	}
	logger.Info().Int64("attendanceID", id).Msg("Attendance record deleted")
	return nil
}
