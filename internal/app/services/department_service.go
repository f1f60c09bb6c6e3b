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

// DepartmentService defines the interface for department operations
type DepartmentService interface {
	List(ctx context.Context, filter repositories.DepartmentFilter, p helpers.PageParams) ([]*models.Department, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
}

type departmentServiceImpl struct {
	departments DepartmentStore
	faculties   FacultyStore
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departments DepartmentStore, faculties FacultyStore) DepartmentService {
	return &departmentServiceImpl{departments: departments, faculties: faculties}
}

func (s *departmentServiceImpl) List(ctx context.Context, filter repositories.DepartmentFilter, p helpers.PageParams) ([]*models.Department, dto.PaginationInfo, error) {
	departments, total, err := s.departments.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, helpers.NewPaginationInfo(total, p), nil
}

func (s *departmentServiceImpl) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Department not found", "department", id)
	}
	return department, nil
}

func (s *departmentServiceImpl) requireFaculty(ctx context.Context, id int64) error {
	exists, err := s.faculties.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Faculty not found")
	}
	return nil
}

func (s *departmentServiceImpl) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.requireFaculty(ctx, req.FacultyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.departments.NameExistsInFaculty(ctx, name, req.FacultyID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("Department with this name already exists in this faculty")
	}

	department := &models.Department{
		Name:        name,
		FacultyID:   req.FacultyID,
		Description: req.Description,
	}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, err
	}

	logger.Info().Int64("departmentID", department.ID).Int64("facultyID", department.FacultyID).Msg("Department created")
	return department, nil
}

func (s *departmentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	current, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Department not found", "department", id)
	}

	changes := repositories.DepartmentChanges{Description: req.Description}

	facultyID := current.FacultyID
	if req.FacultyID != nil && *req.FacultyID != current.FacultyID {
		if err := s.requireFaculty(ctx, *req.FacultyID); err != nil {
			return nil, err
		}
		facultyID = *req.FacultyID
		changes.FacultyID = &facultyID
	}

	name := current.Name
	if n := trimmed(req.Name); n != nil && *n != current.Name {
		name = *n
		changes.Name = n
	}

	// names are unique per faculty, so moving faculties re-checks too
	if changes.Name != nil || changes.FacultyID != nil {
		taken, err := s.departments.NameExistsInFaculty(ctx, name, facultyID, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflictError("Department with this name already exists in this faculty")
		}
	}

	department, err := s.departments.Update(ctx, id, changes)
	if err != nil {
		return nil, lookupErr(err, "Department not found", "department", id)
	}
	return department, nil
}

func (s *departmentServiceImpl) Delete(ctx context.Context, id int64) error {
	exists, err := s.departments.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Department not found")
	}

	n, err := s.departments.CountCourses(ctx, id)
	if err := guardNoChildren(n, err, "Cannot delete department with existing courses"); err != nil {
		return err
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		return lookupErr(err, "Department not found", "department", id)
	}

	logger.Info().Int64("departmentID", id).Msg("Department deleted")
	return nil
}
