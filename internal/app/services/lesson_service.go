package services

import (
	"context"
	"fmt"
	"time"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// LessonService defines the interface for lesson operations
type LessonService interface {
	List(ctx context.Context, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Lesson, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	Create(ctx context.Context, who authz.Identity, req *dto.CreateLessonRequest) (*models.Lesson, error)
	Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, who authz.Identity, id int64) error
}

type lessonServiceImpl struct {
	lessons    LessonStore
	sections   SectionStore
	authorizer CourseAuthorizer
}

// NewLessonService creates a new LessonService
func NewLessonService(lessons LessonStore, sections SectionStore, authorizer CourseAuthorizer) LessonService {
	return &lessonServiceImpl{lessons: lessons, sections: sections, authorizer: authorizer}
}

func (s *lessonServiceImpl) List(ctx context.Context, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Lesson, dto.PaginationInfo, error) {
	lessons, total, err := s.lessons.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, helpers.NewPaginationInfo(total, p), nil
}

func (s *lessonServiceImpl) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Lesson not found", "lesson", id)
	}
	return lesson, nil
}

// authorizeSection loads a section and checks that who manages its course
func authorizeSection(ctx context.Context, sections SectionStore, authorizer CourseAuthorizer, who authz.Identity, sectionID int64) (*models.Section, error) {
	section, err := sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, lookupErr(err, "Section not found", "section", sectionID)
	}
	if err := authorizer.AuthorizeCourse(ctx, who, section.CourseID); err != nil {
		return nil, err
	}
	return section, nil
}

// checkTimes requires end after start; both are zero-padded HH:MM
func checkTimes(start, end string) error {
	if end <= start {
		return apperrors.NewValidationError("endTime", "End time must be after start time")
	}
	return nil
}

func parseLessonDate(s string) (time.Time, error) {
	d, err := helpers.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date", "date must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func (s *lessonServiceImpl) Create(ctx context.Context, who authz.Identity, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := authorizeSection(ctx, s.sections, s.authorizer, who, req.SectionID); err != nil {
		return nil, err
	}

	date, err := parseLessonDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := checkTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		SectionID: req.SectionID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Topic:     req.Topic,
	}
	if req.Status != nil {
		lesson.Status = *req.Status
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	logger.Info().Int64("lessonID", lesson.ID).Int64("sectionID", lesson.SectionID).Int64("by", who.ID).Msg("Lesson created")
	return lesson, nil
}

func (s *lessonServiceImpl) Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeSection(ctx, s.sections, s.authorizer, who, current.SectionID); err != nil {
		return nil, err
	}

	changes := repositories.LessonChanges{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Topic:     req.Topic,
		Status:    req.Status,
	}
	if req.Date != nil {
		date, err := parseLessonDate(*req.Date)
		if err != nil {
			return nil, err
		}
		changes.Date = &date
	}

	start, end := current.StartTime, current.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := checkTimes(start, end); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.Update(ctx, id, changes)
	if err != nil {
		return nil, lookupErr(err, "Lesson not found", "lesson", id)
	}
	return lesson, nil
}

func (s *lessonServiceImpl) Delete(ctx context.Context, who authz.Identity, id int64) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := authorizeSection(ctx, s.sections, s.authorizer, who, current.SectionID); err != nil {
		return err
	}

	n, err := s.lessons.CountAttendance(ctx, id)
	if err := guardNoChildren(n, err, "Cannot delete lesson with existing attendance records"); err != nil {
		return err
	}

	if err := s.lessons.Delete(ctx, id); err != nil {
		return lookupErr(err, "Lesson not found", "lesson", id)
	}

	logger.Info().Int64("lessonID", id).Int64("by", who.ID).Msg("Lesson deleted")
	return nil
}
