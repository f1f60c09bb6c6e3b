package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/db"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

var userColumns = []string{
	"u.id", "u.email", "u.password", "u.first_name", "u.last_name",
	"u.role", "u.student_id", "u.created_at", "u.updated_at",
}

// UserRepository handles database operations related to users
type UserRepository struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{db: conn}
}

// UserChanges holds the columns to update. Nil fields are left untouched.
type UserChanges struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Role           *models.Role
	StudentID      *string
	ClearStudentID bool
}

func (c UserChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Email != nil {
		m["email"] = strings.ToLower(*c.Email)
	}
	if c.FirstName != nil {
		m["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		m["last_name"] = *c.LastName
	}
	if c.Role != nil {
		m["role"] = *c.Role
	}
	switch {
	case c.ClearStudentID:
		m["student_id"] = nil
	case c.StudentID != nil:
		m["student_id"] = *c.StudentID
	}
	return m
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Role, &u.StudentID, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return psql.Select(userColumns...).From("users u")
}

// Create inserts a user and fills its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)

	sql, args, err := psql.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role", "student_id").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.StudentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.selectUsers().Where(squirrel.Eq{"u.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.selectUsers().Where(squirrel.Eq{"u.email": strings.ToLower(email)}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// EmailExists checks whether another user already uses email
func (r *UserRepository) EmailExists(ctx context.Context, email string, excluded int64) (bool, error) {
	b := psql.Select("1").From("users").Where(squirrel.Eq{"email": strings.ToLower(email)})
	return exists(ctx, r.db, excludeID(b, "id", excluded))
}

// StudentIDExists checks whether another user already has studentID
func (r *UserRepository) StudentIDExists(ctx context.Context, studentID string, excluded int64) (bool, error) {
	b := psql.Select("1").From("users").Where(squirrel.Eq{"student_id": studentID})
	return exists(ctx, r.db, excludeID(b, "id", excluded))
}

// Update applies changes and returns the stored row
func (r *UserRepository) Update(ctx context.Context, id int64, changes UserChanges) (*models.User, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "users", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return updateReturningID(ctx, r.db, "users", id, map[string]interface{}{"password": hash})
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "users", id)
}

// List returns one page of users matching filter and the total match count
func (r *UserRepository) List(ctx context.Context, filter UserFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("users u").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return []*models.User{}, 0, nil
	}

	sql, args, err := page(r.selectUsers().Where(pred).OrderBy("u.created_at DESC", "u.id DESC"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, p.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// CountDependents counts taught courses, enrollments and attendance records of a user
func (r *UserRepository) CountDependents(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM courses WHERE teacher_id = $1) +
			(SELECT COUNT(*) FROM enrollments WHERE student_id = $1) +
			(SELECT COUNT(*) FROM attendance WHERE student_id = $1)`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user dependents: %w", err)
	}
	return n, nil
}

// CountTaughtCourses counts the courses assigned to a teacher
func (r *UserRepository) CountTaughtCourses(ctx context.Context, teacherID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("courses").Where(squirrel.Eq{"teacher_id": teacherID}))
}
