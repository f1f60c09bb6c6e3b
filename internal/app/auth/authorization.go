package auth

import (
	"context"
	"errors"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// Identity is the authenticated caller
type Identity struct {
	ID    int64
	Email string
	Role  models.Role
}

// RoleSet is a bitmask of roles
type RoleSet uint8

const (
	adminBit RoleSet = 1 << iota
	teacherBit
	studentBit
)

// Predefined role sets used by the route table
var (
	AdminOnly      = Allow(models.RoleAdmin)
	TeacherOrAdmin = Allow(models.RoleTeacher, models.RoleAdmin)
	StudentOnly    = Allow(models.RoleStudent)
	Anyone         = Allow(models.Roles...)
)

// bit maps a role to its flag. Unknown roles have no flag.
func bit(r models.Role) RoleSet {
	switch r {
	case models.RoleAdmin:
		return adminBit
	case models.RoleTeacher:
		return teacherBit
	case models.RoleStudent:
		return studentBit
	default:
		return 0
	}
}

// Allow builds a RoleSet from roles
func Allow(roles ...models.Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= bit(r)
	}
	return s
}

// Permits reports whether r belongs to the set
func (s RoleSet) Permits(r models.Role) bool {
	b := bit(r)
	return b != 0 && s&b != 0
}

// CourseTeacherLookup resolves the teacher of a course
type CourseTeacherLookup interface {
	TeacherOf(ctx context.Context, courseID int64) (int64, error)
}

// AuthorizationService enforces ownership of course resources
type AuthorizationService struct {
	courses CourseTeacherLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courses CourseTeacherLookup) *AuthorizationService {
	return &AuthorizationService{courses: courses}
}

// CanManage reports whether who may manage resources of a course taught by teacherID
func CanManage(who Identity, teacherID int64) bool {
	switch who.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return who.ID == teacherID
	default:
		return false
	}
}

// AuthorizeCourse returns a forbidden error unless who may manage the course.
// Sections, lessons and attendance of a course are managed by its teacher or an admin.
// The course is resolved for every role, so a missing course is a 404 even for admins.
func (s *AuthorizationService) AuthorizeCourse(ctx context.Context, who Identity, courseID int64) error {
	teacherID, err := s.courses.TeacherOf(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("Course not found")
		}
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error resolving course teacher")
		return err
	}

	if !CanManage(who, teacherID) {
		return apperrors.NewForbiddenError("You can only manage courses you teach")
	}
	return nil
}
