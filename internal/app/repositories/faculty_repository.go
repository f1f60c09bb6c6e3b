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

// FacultyRepository handles database operations for faculties
type FacultyRepository struct {
	db db.DBTX
}

// NewFacultyRepository creates a new faculty repository
func NewFacultyRepository(conn db.DBTX) *FacultyRepository {
	return &FacultyRepository{db: conn}
}

// FacultyChanges holds the columns to update
type FacultyChanges struct {
	Name        *string
	Description *string
}

func (c FacultyChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Name != nil {
		m["name"] = *c.Name
	}
	if c.Description != nil {
		m["description"] = *c.Description
	}
	return m
}

func (r *FacultyRepository) selectFaculties() squirrel.SelectBuilder {
	return psql.Select(
		"f.id", "f.name", "f.description", "f.created_at", "f.updated_at",
		"(SELECT COUNT(*) FROM departments d WHERE d.faculty_id = f.id) AS department_count",
	).From("faculties f")
}

func scanFaculty(row pgx.Row) (*models.Faculty, error) {
	var f models.Faculty
	var departments int64
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt, &f.UpdatedAt, &departments); err != nil {
		return nil, notFound(err)
	}
	f.DepartmentCount = &departments
	return &f, nil
}

// Create creates a new faculty
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := psql.Insert("faculties").
		Columns("name", "description").
		Values(faculty.Name, faculty.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert faculty: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.CreatedAt, &faculty.UpdatedAt); err != nil {
		return fmt.Errorf("insert faculty: %w", err)
	}
	return nil
}

// GetByID retrieves a faculty with its departments
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.selectFaculties().Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	faculty, err := scanFaculty(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	faculty.Departments, err = r.departments(ctx, id)
	if err != nil {
		return nil, err
	}
	return faculty, nil
}

// departments lists the departments of a faculty with their course counts
func (r *FacultyRepository) departments(ctx context.Context, facultyID int64) ([]*models.Department, error) {
	sql, args, err := psql.Select(
		"d.id", "d.faculty_id", "d.name", "d.description", "d.created_at", "d.updated_at",
		"(SELECT COUNT(*) FROM courses c WHERE c.department_id = d.id) AS course_count",
	).From("departments d").
		Where(squirrel.Eq{"d.faculty_id": facultyID}).
		OrderBy("d.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list faculty departments: %w", err)
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		var d models.Department
		var courses int64
		if err := rows.Scan(&d.ID, &d.FacultyID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &courses); err != nil {
			return nil, err
		}
		d.CourseCount = &courses
		departments = append(departments, &d)
	}
	return departments, rows.Err()
}

// List returns one page of faculties ordered by name
func (r *FacultyRepository) List(ctx context.Context, filter FacultyFilter, p helpers.PageParams) ([]*models.Faculty, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("faculties f").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count faculties: %w", err)
	}
	if total == 0 {
		return []*models.Faculty{}, 0, nil
	}

	sql, args, err := page(r.selectFaculties().Where(pred).OrderBy("f.name"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list faculties: %w", err)
	}
	defer rows.Close()

	faculties := make([]*models.Faculty, 0, p.Limit)
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, 0, err
		}
		faculties = append(faculties, f)
	}
	return faculties, total, rows.Err()
}

// Update applies changes and returns the stored faculty
func (r *FacultyRepository) Update(ctx context.Context, id int64, changes FacultyChanges) (*models.Faculty, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "faculties", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a faculty by ID
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "faculties", id)
}

// NameExists checks if a faculty other than excluded already has name
func (r *FacultyRepository) NameExists(ctx context.Context, name string, excluded int64) (bool, error) {
	b := psql.Select("1").From("faculties").Where(squirrel.Eq{"name": name})
	return exists(ctx, r.db, excludeID(b, "id", excluded))
}

// CountDepartments counts the departments of a faculty
func (r *FacultyRepository) CountDepartments(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("departments").Where(squirrel.Eq{"faculty_id": id}))
}

// Exists reports whether a faculty with id exists
func (r *FacultyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, psql.Select("1").From("faculties").Where(squirrel.Eq{"id": id}))
}
