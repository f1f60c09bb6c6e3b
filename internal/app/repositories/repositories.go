package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/uniattend/internal/db"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

// psql builds statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Enrollment errors
var (
	ErrSectionFull     = errors.New("section is full")
	ErrAlreadyEnrolled = errors.New("student already enrolled in course")
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	FacultyRepository    *FacultyRepository
	DepartmentRepository *DepartmentRepository
	CourseRepository     *CourseRepository
	SectionRepository    *SectionRepository
	EnrollmentRepository *EnrollmentRepository
	LessonRepository     *LessonRepository
	AttendanceRepository *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(conn),
		FacultyRepository:    NewFacultyRepository(conn),
		DepartmentRepository: NewDepartmentRepository(conn),
		CourseRepository:     NewCourseRepository(conn),
		SectionRepository:    NewSectionRepository(conn),
		EnrollmentRepository: NewEnrollmentRepository(conn),
		LessonRepository:     NewLessonRepository(conn),
		AttendanceRepository: NewAttendanceRepository(conn),
	}
}

// notFound maps pgx.ErrNoRows to apperrors.ErrResourceNotFound
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrResourceNotFound
	}
	return err
}

// exists wraps b in SELECT EXISTS(...)
func exists(ctx context.Context, conn db.DBTX, b squirrel.SelectBuilder) (bool, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var found bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS("+sql+")", args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// count runs a single-value COUNT query
func count(ctx context.Context, conn db.DBTX, b squirrel.SelectBuilder) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// page applies LIMIT/OFFSET
func page(b squirrel.SelectBuilder, p helpers.PageParams) squirrel.SelectBuilder {
	return b.Limit(uint64(p.Limit)).Offset(p.Offset())
}

// excludeID adds "id <> excluded" when excluded is set
func excludeID(b squirrel.SelectBuilder, column string, excluded int64) squirrel.SelectBuilder {
	if excluded > 0 {
		return b.Where(squirrel.NotEq{column: excluded})
	}
	return b
}

// updateReturningID runs an UPDATE built from changes and reports whether a row matched
func updateReturningID(ctx context.Context, conn db.DBTX, table string, id int64, changes map[string]interface{}) error {
	changes["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := psql.Update(table).
		SetMap(changes).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", table, err)
	}

	var updated int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		return notFound(err)
	}
	return nil
}

// deleteByID deletes one row by id
func deleteByID(ctx context.Context, conn db.DBTX, table string, id int64) error {
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
