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

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db db.DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{db: conn}
}

// CourseChanges holds the columns to update
type CourseChanges struct {
	Code         *string
	Name         *string
	Description  *string
	Credits      *int
	DepartmentID *int64
	TeacherID    *int64
}

func (c CourseChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Code != nil {
		m["code"] = *c.Code
	}
	if c.Name != nil {
		m["name"] = *c.Name
	}
	if c.Description != nil {
		m["description"] = *c.Description
	}
	if c.Credits != nil {
		m["credits"] = *c.Credits
	}
	if c.DepartmentID != nil {
		m["department_id"] = *c.DepartmentID
	}
	if c.TeacherID != nil {
		m["teacher_id"] = *c.TeacherID
	}
	return m
}

// selectCourses joins the department, faculty and teacher of each course
func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.code", "c.name", "c.description", "c.credits", "c.department_id", "c.teacher_id",
		"c.created_at", "c.updated_at",
		"d.name", "f.id", "f.name",
		"t.first_name", "t.last_name", "t.email",
		"(SELECT COUNT(*) FROM sections s WHERE s.course_id = c.id) AS section_count",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count",
	).From("courses c").
		Join("departments d ON d.id = c.department_id").
		Join("faculties f ON f.id = d.faculty_id").
		Join("users t ON t.id = c.teacher_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	dept := models.DepartmentRef{Faculty: &models.FacultyRef{}}
	teacher := models.UserSummary{}
	var sections, enrollments int64

	if err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Description, &c.Credits, &c.DepartmentID, &c.TeacherID,
		&c.CreatedAt, &c.UpdatedAt,
		&dept.Name, &dept.Faculty.ID, &dept.Faculty.Name,
		&teacher.FirstName, &teacher.LastName, &teacher.Email,
		&sections, &enrollments,
	); err != nil {
		return nil, notFound(err)
	}

	dept.ID = c.DepartmentID
	teacher.ID = c.TeacherID
	c.Department = &dept
	c.Teacher = &teacher
	c.SectionCount = &sections
	c.EnrollmentCount = &enrollments
	return &c, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, b squirrel.SelectBuilder, capacity int) ([]*models.Course, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0, capacity)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Insert("courses").
		Columns("code", "name", "description", "credits", "department_id", "teacher_id").
		Values(course.Code, course.Name, course.Description, course.Credits, course.DepartmentID, course.TeacherID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert course: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// GetByID retrieves a course with its department, faculty, teacher and sections
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourses().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	course.Sections, err = r.sections(ctx, id)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) sections(ctx context.Context, courseID int64) ([]*models.Section, error) {
	sql, args, err := psql.Select(
		"s.id", "s.course_id", "s.name", "s.schedule", "s.room", "s.capacity", "s.created_at", "s.updated_at",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.section_id = s.id) AS enrollment_count",
	).From("sections s").
		Where(squirrel.Eq{"s.course_id": courseID}).
		OrderBy("s.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list course sections: %w", err)
	}
	defer rows.Close()

	sections := make([]*models.Section, 0)
	for rows.Next() {
		var s models.Section
		var enrolled int64
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Name, &s.Schedule, &s.Room, &s.Capacity, &s.CreatedAt, &s.UpdatedAt, &enrolled); err != nil {
			return nil, err
		}
		s.EnrollmentCount = &enrolled
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

// List returns one page of courses ordered by code
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, p helpers.PageParams) ([]*models.Course, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("courses c").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	if total == 0 {
		return []*models.Course{}, 0, nil
	}

	courses, err := r.queryCourses(ctx, page(r.selectCourses().Where(pred).OrderBy("c.code"), p), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByTeacher returns every course taught by teacherID
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	return r.queryCourses(ctx, r.selectCourses().Where(squirrel.Eq{"c.teacher_id": teacherID}).OrderBy("c.code"), 0)
}

// Update applies changes and returns the stored course
func (r *CourseRepository) Update(ctx context.Context, id int64, changes CourseChanges) (*models.Course, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "courses", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a course by ID
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "courses", id)
}

// CodeExists checks whether a course other than excluded uses code
func (r *CourseRepository) CodeExists(ctx context.Context, code string, excluded int64) (bool, error) {
	b := psql.Select("1").From("courses").Where(squirrel.Eq{"code": code})
	return exists(ctx, r.db, excludeID(b, "id", excluded))
}

// CountSections counts the sections of a course
func (r *CourseRepository) CountSections(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("sections").Where(squirrel.Eq{"course_id": id}))
}

// CountEnrollments counts the enrollments of a course
func (r *CourseRepository) CountEnrollments(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("enrollments").Where(squirrel.Eq{"course_id": id}))
}

// TeacherOf returns the teacher id of a course
func (r *CourseRepository) TeacherOf(ctx context.Context, courseID int64) (int64, error) {
	sql, args, err := psql.Select("teacher_id").From("courses").Where(squirrel.Eq{"id": courseID}).ToSql()
	if err != nil {
		return 0, err
	}

	var teacherID int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&teacherID); err != nil {
		return 0, notFound(err)
	}
	return teacherID, nil
}
