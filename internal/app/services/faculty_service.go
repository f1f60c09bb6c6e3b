package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// FacultyService defines the interface for faculty operations
type FacultyService interface {
	List(ctx context.Context, filter repositories.FacultyFilter, p helpers.PageParams) ([]*models.Faculty, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	Create(ctx context.Context, req *dto.CreateFacultyRequest) (*models.Faculty, error)
	Update(ctx context.Context, id int64, req *dto.UpdateFacultyRequest) (*models.Faculty, error)
	Delete(ctx context.Context, id int64) error
}

// facultyServiceImpl implements FacultyService
type facultyServiceImpl struct {
	faculties FacultyStore
}

// NewFacultyService creates a new FacultyService
func NewFacultyService(faculties FacultyStore) FacultyService {
	return &facultyServiceImpl{faculties: faculties}
}

func (s *facultyServiceImpl) List(ctx context.Context, filter repositories.FacultyFilter, p helpers.PageParams) ([]*models.Faculty, dto.PaginationInfo, error) {
	faculties, total, err := s.faculties.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list faculties: %w", err)
	}
	return faculties, helpers.NewPaginationInfo(total, p), nil
}

func (s *facultyServiceImpl) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	faculty, err := s.faculties.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Faculty not found", "faculty", id)
	}
	return faculty, nil
}

func (s *facultyServiceImpl) Create(ctx context.Context, req *dto.CreateFacultyRequest) (*models.Faculty, error) {
	name := strings.TrimSpace(req.Name)

	taken, err := s.faculties.NameExists(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("Faculty with this name already exists")
	}

	faculty := &models.Faculty{Name: name, Description: req.Description}
	if err := s.faculties.Create(ctx, faculty); err != nil {
		return nil, err
	}

	logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty created")
	return faculty, nil
}

func (s *facultyServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateFacultyRequest) (*models.Faculty, error) {
	current, err := s.faculties.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Faculty not found", "faculty", id)
	}

	changes := repositories.FacultyChanges{Description: req.Description}
	if name := trimmed(req.Name); name != nil && *name != current.Name {
		taken, err := s.faculties.NameExists(ctx, *name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflictError("Faculty with this name already exists")
		}
		changes.Name = name
	}

	faculty, err := s.faculties.Update(ctx, id, changes)
	if err != nil {
		return nil, lookupErr(err, "Faculty not found", "faculty", id)
	}
	return faculty, nil
}

func (s *facultyServiceImpl) Delete(ctx context.Context, id int64) error {
	exists, err := s.faculties.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Faculty not found")
	}

	n, err := s.faculties.CountDepartments(ctx, id)
	if err := guardNoChildren(n, err, "Cannot delete faculty with existing departments"); err != nil {
		return err
	}

	if err := s.faculties.Delete(ctx, id); err != nil {
		return lookupErr(err, "Faculty not found", "faculty", id)
	}

	logger.Info().Int64("facultyID", id).Msg("Faculty deleted")
	return nil
}
