package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/auth"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// UserService defines the interface for admin user management
type UserService interface {
	List(ctx context.Context, filter repositories.UserFilter, p helpers.PageParams) ([]*models.User, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userServiceImpl struct {
	users    UserStore
	accounts *accountCreator
}

// NewUserService creates a new UserService
func NewUserService(users UserStore) UserService {
	return &userServiceImpl{
		users:    users,
		accounts: newAccountCreator(users),
	}
}

func (s *userServiceImpl) List(ctx context.Context, filter repositories.UserFilter, p helpers.PageParams) ([]*models.User, dto.PaginationInfo, error) {
	users, total, err := s.users.List(ctx, filter, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, helpers.NewPaginationInfo(total, p), nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", id)
	}
	return user, nil
}

func (s *userServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	return s.accounts.create(ctx, req)
}

func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", id)
	}

	changes := repositories.UserChanges{
		FirstName: trimmed(req.FirstName),
		LastName:  trimmed(req.LastName),
		Role:      req.Role,
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != current.Email {
			taken, err := s.users.EmailExists(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.NewConflictError("User with this email already exists")
			}
			changes.Email = &email
		}
	}

	role := current.Role
	if req.Role != nil {
		role = *req.Role
	}

	if current.Role == models.RoleTeacher && role != models.RoleTeacher {
		// courses.teacher_id must keep pointing at a teacher
		n, err := s.users.CountTaughtCourses(ctx, id)
		if err := guardNoChildren(n, err, "Cannot change role of a teacher with assigned courses"); err != nil {
			return nil, err
		}
	}

	switch {
	case role != models.RoleStudent:
		// only students carry a student number
		changes.ClearStudentID = current.StudentID != nil
	case req.StudentID != nil:
		studentID := strings.TrimSpace(*req.StudentID)
		if current.StudentID == nil || *current.StudentID != studentID {
			taken, err := s.users.StudentIDExists(ctx, studentID, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.NewConflictError("Student with this ID already exists")
			}
			changes.StudentID = &studentID
		}
	case current.StudentID == nil:
		return nil, apperrors.NewValidationError("studentId", "Student ID is required for student accounts")
	}

	user, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", id)
	}

	logger.Info().Int64("userID", id).Str("role", string(user.Role)).Msg("User updated")
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return lookupErr(err, "User not found", "user", id)
	}

	n, err := s.users.CountDependents(ctx, id)
	if err := guardNoChildren(n, err, "Cannot delete user with existing courses, enrollments or attendance"); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return lookupErr(err, "User not found", "user", id)
	}

	logger.Info().Int64("userID", id).Msg("User deleted")
	return nil
}

// accountCreator holds the rules shared by public registration and admin creation
type accountCreator struct {
	users UserStore
	hash  func(string) (string, error)
}

func newAccountCreator(users UserStore) *accountCreator {
	return &accountCreator{users: users, hash: auth.HashPassword}
}

func (a *accountCreator) create(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := a.users.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("User with this email already exists")
	}

	var studentID *string
	if req.Role == models.RoleStudent {
		if req.StudentID == nil || strings.TrimSpace(*req.StudentID) == "" {
			return nil, apperrors.NewValidationError("studentId", "Student ID is required for student accounts")
		}
		sid := strings.TrimSpace(*req.StudentID)
		taken, err := a.users.StudentIDExists(ctx, sid, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflictError("Student with this ID already exists")
		}
		studentID = &sid
	}

	hash, err := a.hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		StudentID: studentID,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
