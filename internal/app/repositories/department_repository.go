package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/db"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db db.DBTX
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(conn db.DBTX) *DepartmentRepository {
	return &DepartmentRepository{db: conn}
}

// DepartmentChanges holds the columns to update
type DepartmentChanges struct {
	Name        *string
	Description *string
	FacultyID   *int64
}

func (c DepartmentChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Name != nil {
		m["name"] = *c.Name
	}
	if c.Description != nil {
		m["description"] = *c.Description
	}
	if c.FacultyID != nil {
		m["faculty_id"] = *c.FacultyID
	}
	return m
}

func (r *DepartmentRepository) selectDepartments() squirrel.SelectBuilder {
	return psql.Select(
		"d.id", "d.faculty_id", "d.name", "d.description", "d.created_at", "d.updated_at",
		"f.id", "f.name",
		"(SELECT COUNT(*) FROM courses c WHERE c.department_id = d.id) AS course_count",
	).From("departments d").
		Join("faculties f ON f.id = d.faculty_id")
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	var f models.FacultyRef
	var courses int64
	if err := row.Scan(
		&d.ID, &d.FacultyID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		&f.ID, &f.Name, &courses,
	); err != nil {
		return nil, notFound(err)
	}
	d.Faculty = &f
	d.CourseCount = &courses
	return &d, nil
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := psql.Insert("departments").
		Columns("name", "description", "faculty_id").
		Values(department.Name, department.Description, department.FacultyID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert department: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt); err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID retrieves a department with its faculty and courses
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	sql, args, err := r.selectDepartments().Where(squirrel.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	department, err := scanDepartment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	department.Courses, err = r.courses(ctx, id)
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (r *DepartmentRepository) courses(ctx context.Context, departmentID int64) ([]*models.Course, error) {
	sql, args, err := psql.Select(
		"c.id", "c.code", "c.name", "c.description", "c.credits", "c.department_id", "c.teacher_id",
		"c.created_at", "c.updated_at",
	).From("courses c").
		Where(squirrel.Eq{"c.department_id": departmentID}).
		OrderBy("c.code").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list department courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &c.Description, &c.Credits, &c.DepartmentID, &c.TeacherID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

// List returns one page of departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context, filter DepartmentFilter, p helpers.PageParams) ([]*models.Department, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("departments d").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}
	if total == 0 {
		return []*models.Department{}, 0, nil
	}

	sql, args, err := page(r.selectDepartments().Where(pred).OrderBy("d.name", "d.id"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	departments := make([]*models.Department, 0, p.Limit)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		departments = append(departments, d)
	}
	return departments, total, rows.Err()
}

// Update applies changes and returns the stored department
func (r *DepartmentRepository) Update(ctx context.Context, id int64, changes DepartmentChanges) (*models.Department, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "departments", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a department by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "departments", id)
}

// NameExistsInFaculty checks the (name, faculty) uniqueness scope
func (r *DepartmentRepository) NameExistsInFaculty(ctx context.Context, name string, facultyID, excluded int64) (bool, error) {
	b := psql.Select("1").From("departments").Where(squirrel.Eq{"name": name, "faculty_id": facultyID})
	return exists(ctx, r.db, excludeID(b, "id", excluded))
}

// CountCourses counts the courses of a department
func (r *DepartmentRepository) CountCourses(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("courses").Where(squirrel.Eq{"department_id": id}))
}

// Exists reports whether a department with id exists
func (r *DepartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, psql.Select("1").From("departments").Where(squirrel.Eq{"id": id}))
}
