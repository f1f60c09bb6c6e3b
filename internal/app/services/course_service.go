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

// CourseService defines the interface for course operations
type CourseService interface {
	List(ctx context.Context, filter repositories.CourseFilter, p helpers.PageParams) ([]*models.Course, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	TeacherCourses(ctx context.Context, teacherID int64) ([]*models.Course, error)
	StudentCourses(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
}

type courseServiceImpl struct {
	courses     CourseStore
	departments DepartmentStore
	users       UserStore
	enrollments EnrollmentStore
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, departments DepartmentStore, users UserStore, enrollments EnrollmentStore) CourseService {
	return &courseServiceImpl{
		courses:     courses,
		departments: departments,
		users:       users,
		enrollments: enrollments,
	}
}

func (s *courseServiceImpl) List(ctx context.Context, filter repositories.CourseFilter, p helpers.PageParams) ([]*models.Course, dto.PaginationInfo, error) {
	courses, total, err := s.courses.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, helpers.NewPaginationInfo(total, p), nil
}

func (s *courseServiceImpl) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Course not found", "course", id)
	}
	return course, nil
}

func (s *courseServiceImpl) requireDepartment(ctx context.Context, id int64) error {
	exists, err := s.departments.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Department not found")
	}
	return nil
}

func (s *courseServiceImpl) requireTeacher(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return lookupErr(err, "Teacher not found", "user", id)
	}
	if user.Role != models.RoleTeacher {
		return apperrors.NewBadRequestError("User is not a teacher")
	}
	return nil
}

func (s *courseServiceImpl) requireFreeCode(ctx context.Context, code string, excluded int64) error {
	taken, err := s.courses.CodeExists(ctx, code, excluded)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflictError("Course with this code already exists")
	}
	return nil
}

func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.requireDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.requireTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if err := s.requireFreeCode(ctx, code, 0); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:         code,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		TeacherID:    req.TeacherID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	return course, nil
}

func (s *courseServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	current, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Course not found", "course", id)
	}

	changes := repositories.CourseChanges{
		Name:        trimmed(req.Name),
		Description: req.Description,
		Credits:     req.Credits,
	}

	if req.DepartmentID != nil && *req.DepartmentID != current.DepartmentID {
		if err := s.requireDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		changes.DepartmentID = req.DepartmentID
	}

	if req.TeacherID != nil && *req.TeacherID != current.TeacherID {
		if err := s.requireTeacher(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
		changes.TeacherID = req.TeacherID
	}

	if code := trimmed(req.Code); code != nil && *code != current.Code {
		if err := s.requireFreeCode(ctx, *code, id); err != nil {
			return nil, err
		}
		changes.Code = code
	}

	course, err := s.courses.Update(ctx, id, changes)
	if err != nil {
		return nil, lookupErr(err, "Course not found", "course", id)
	}
	return course, nil
}

func (s *courseServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.courses.TeacherOf(ctx, id); err != nil {
		return lookupErr(err, "Course not found", "course", id)
	}

	n, err := sum(
		func() (int64, error) { return s.courses.CountSections(ctx, id) },
		func() (int64, error) { return s.courses.CountEnrollments(ctx, id) },
	)
	if err := guardNoChildren(n, err, "Cannot delete course with existing sections or enrollments"); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return lookupErr(err, "Course not found", "course", id)
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// TeacherCourses lists the courses taught by teacherID
func (s *courseServiceImpl) TeacherCourses(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher courses: %w", err)
	}
	return courses, nil
}

// StudentCourses lists the enrollments of studentID with course and section
func (s *courseServiceImpl) StudentCourses(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student courses: %w", err)
	}
	return enrollments, nil
}
