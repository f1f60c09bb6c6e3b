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

// SectionRepository handles database operations for course sections
type SectionRepository struct {
	db db.DBTX
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(conn db.DBTX) *SectionRepository {
	return &SectionRepository{db: conn}
}

// SectionChanges holds the columns to update
type SectionChanges struct {
	Name     *string
	Schedule *string
	Room     *string
	Capacity *int
}

func (c SectionChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Name != nil {
		m["name"] = *c.Name
	}
	if c.Schedule != nil {
		m["schedule"] = *c.Schedule
	}
	if c.Room != nil {
		m["room"] = *c.Room
	}
	if c.Capacity != nil {
		m["capacity"] = *c.Capacity
	}
	return m
}

func (r *SectionRepository) selectSections() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.course_id", "s.name", "s.schedule", "s.room", "s.capacity", "s.created_at", "s.updated_at",
		"c.code", "c.name", "c.teacher_id",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.section_id = s.id) AS enrollment_count",
	).From("sections s").
		Join("courses c ON c.id = s.course_id")
}

func scanSection(row pgx.Row) (*models.Section, error) {
	var s models.Section
	var course models.CourseRef
	var enrolled int64
	if err := row.Scan(
		&s.ID, &s.CourseID, &s.Name, &s.Schedule, &s.Room, &s.Capacity, &s.CreatedAt, &s.UpdatedAt,
		&course.Code, &course.Name, &course.TeacherID, &enrolled,
	); err != nil {
		return nil, notFound(err)
	}
	course.ID = s.CourseID
	s.Course = &course
	s.EnrollmentCount = &enrolled
	return &s, nil
}

// Create creates a new section
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	sql, args, err := psql.Insert("sections").
		Columns("name", "course_id", "schedule", "room", "capacity").
		Values(section.Name, section.CourseID, section.Schedule, section.Room, section.Capacity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert section: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt); err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

// GetByID retrieves a section with its course and enrollment count
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	sql, args, err := r.selectSections().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSection(r.db.QueryRow(ctx, sql, args...))
}

// List returns one page of sections
func (r *SectionRepository) List(ctx context.Context, filter SectionFilter, p helpers.PageParams) ([]*models.Section, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("sections s").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}
	if total == 0 {
		return []*models.Section{}, 0, nil
	}

	sql, args, err := page(r.selectSections().Where(pred).OrderBy("c.code", "s.name"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	sections := make([]*models.Section, 0, p.Limit)
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, 0, err
		}
		sections = append(sections, s)
	}
	return sections, total, rows.Err()
}

// Update applies changes and returns the stored section
func (r *SectionRepository) Update(ctx context.Context, id int64, changes SectionChanges) (*models.Section, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "sections", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a section by ID
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "sections", id)
}

// CountEnrollments counts the students enrolled in a section
func (r *SectionRepository) CountEnrollments(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("enrollments").Where(squirrel.Eq{"section_id": id}))
}

// CountLessons counts the lessons of a section
func (r *SectionRepository) CountLessons(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("lessons").Where(squirrel.Eq{"section_id": id}))
}
