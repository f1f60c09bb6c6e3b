package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/dberrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// SectionService defines the interface for sections and their enrollments
type SectionService interface {
	List(ctx context.Context, filter repositories.SectionFilter, p helpers.PageParams) ([]*models.Section, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	Create(ctx context.Context, who authz.Identity, req *dto.CreateSectionRequest) (*models.Section, error)
	Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateSectionRequest) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
	Enroll(ctx context.Context, sectionID, studentID int64) (*models.Enrollment, error)
	Unenroll(ctx context.Context, sectionID, studentID int64) error
	Students(ctx context.Context, who authz.Identity, sectionID int64) ([]*models.UserSummary, error)
}

type sectionServiceImpl struct {
	sections    SectionStore
	enrollments EnrollmentStore
	users       UserStore
	authorizer  CourseAuthorizer
}

// NewSectionService creates a new SectionService
func NewSectionService(sections SectionStore, enrollments EnrollmentStore, users UserStore, authorizer CourseAuthorizer) SectionService {
	return &sectionServiceImpl{
		sections:    sections,
		enrollments: enrollments,
		users:       users,
		authorizer:  authorizer,
	}
}

func (s *sectionServiceImpl) List(ctx context.Context, filter repositories.SectionFilter, p helpers.PageParams) ([]*models.Section, dto.PaginationInfo, error) {
	sections, total, err := s.sections.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, helpers.NewPaginationInfo(total, p), nil
}

func (s *sectionServiceImpl) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Section not found", "section", id)
	}
	return section, nil
}

func (s *sectionServiceImpl) Create(ctx context.Context, who authz.Identity, req *dto.CreateSectionRequest) (*models.Section, error) {
	// also resolves the course, so a missing course surfaces as 404 here
	if err := s.authorizer.AuthorizeCourse(ctx, who, req.CourseID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID: req.CourseID,
		Name:     strings.TrimSpace(req.Name),
		Schedule: strings.TrimSpace(req.Schedule),
		Room:     strings.TrimSpace(req.Room),
		Capacity: req.Capacity,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}

	logger.Info().Int64("sectionID", section.ID).Int64("courseID", section.CourseID).Int64("by", who.ID).Msg("Section created")
	return section, nil
}

func (s *sectionServiceImpl) Update(ctx context.Context, who authz.Identity, id int64, req *dto.UpdateSectionRequest) (*models.Section, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.AuthorizeCourse(ctx, who, current.CourseID); err != nil {
		return nil, err
	}

	section, err := s.sections.Update(ctx, id, repositories.SectionChanges{
		Name:     trimmed(req.Name),
		Schedule: trimmed(req.Schedule),
		Room:     trimmed(req.Room),
		Capacity: req.Capacity,
	})
	if err != nil {
		return nil, lookupErr(err, "Section not found", "section", id)
	}
	return section, nil
}

func (s *sectionServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := sum(
		func() (int64, error) { return s.sections.CountEnrollments(ctx, id) },
		func() (int64, error) { return s.sections.CountLessons(ctx, id) },
	)
	if err := guardNoChildren(n, err, "Cannot delete section with existing enrollments or lessons"); err != nil {
		return err
	}

	if err := s.sections.Delete(ctx, id); err != nil {
		return lookupErr(err, "Section not found", "section", id)
	}

	logger.Info().Int64("sectionID", id).Msg("Section deleted")
	return nil
}

func (s *sectionServiceImpl) Enroll(ctx context.Context, sectionID, studentID int64) (*models.Enrollment, error) {
	if _, err := s.GetByID(ctx, sectionID); err != nil {
		return nil, err
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", studentID)
	}
	if !student.IsStudent() {
		return nil, apperrors.NewBadRequestError("User is not a student")
	}

	enrollment, err := s.enrollments.Enroll(ctx, studentID, sectionID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrSectionFull):
		return nil, apperrors.NewBadRequestError("Section is full")
	case errors.Is(err, repositories.ErrAlreadyEnrolled), dberrors.IsUniqueViolation(err):
		return nil, apperrors.NewConflictError("Student is already enrolled in this course")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, apperrors.NewResourceNotFoundError("Section not found")
	default:
		logger.Error().Err(err).Int64("sectionID", sectionID).Int64("studentID", studentID).Msg("Error enrolling student")
		return nil, err
	}

	logger.Info().Int64("sectionID", sectionID).Int64("studentID", studentID).Msg("Student enrolled")
	return enrollment, nil
}

func (s *sectionServiceImpl) Unenroll(ctx context.Context, sectionID, studentID int64) error {
	if _, err := s.GetByID(ctx, sectionID); err != nil {
		return err
	}

	if err := s.enrollments.Unenroll(ctx, studentID, sectionID); err != nil {
		return lookupErr(err, "Student is not enrolled in this section", "section", sectionID)
	}

	logger.Info().Int64("sectionID", sectionID).Int64("studentID", studentID).Msg("Student unenrolled")
	return nil
}

func (s *sectionServiceImpl) Students(ctx context.Context, who authz.Identity, sectionID int64) ([]*models.UserSummary, error) {
	section, err := s.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.AuthorizeCourse(ctx, who, section.CourseID); err != nil {
		return nil, err
	}

	students, err := s.enrollments.ListStudentsBySection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section students: %w", err)
	}
	return students, nil
}
