package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/db"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

var lessonColumns = []string{
	"l.id", "l.section_id", "l.date", "l.start_time", "l.end_time", "l.topic", "l.status",
	"l.created_at", "l.updated_at",
}

// LessonRepository handles database operations for lessons
type LessonRepository struct {
	db db.DBTX
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(conn db.DBTX) *LessonRepository {
	return &LessonRepository{db: conn}
}

// LessonChanges holds the columns to update
type LessonChanges struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Topic     *string
	Status    *models.LessonStatus
}

func (c LessonChanges) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.Date != nil {
		m["date"] = *c.Date
	}
	if c.StartTime != nil {
		m["start_time"] = *c.StartTime
	}
	if c.EndTime != nil {
		m["end_time"] = *c.EndTime
	}
	if c.Topic != nil {
		m["topic"] = *c.Topic
	}
	if c.Status != nil {
		m["status"] = *c.Status
	}
	return m
}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var l models.Lesson
	if err := row.Scan(
		&l.ID, &l.SectionID, &l.Date, &l.StartTime, &l.EndTime, &l.Topic, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// Create creates a new lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.Status == "" {
		lesson.Status = models.LessonScheduled
	}

	sql, args, err := psql.Insert("lessons").
		Columns("section_id", "date", "start_time", "end_time", "topic", "status").
		Values(lesson.SectionID, lesson.Date, lesson.StartTime, lesson.EndTime, lesson.Topic, lesson.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert lesson: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt); err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

// GetByID retrieves a lesson by ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := psql.Select(lessonColumns...).From("lessons l").Where(squirrel.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanLesson(r.db.QueryRow(ctx, sql, args...))
}

// List returns one page of lessons, most recent first
func (r *LessonRepository) List(ctx context.Context, filter LessonFilter, p helpers.PageParams) ([]*models.Lesson, int64, error) {
	pred := filter.Predicate()

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("lessons l").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}
	if total == 0 {
		return []*models.Lesson{}, 0, nil
	}

	sql, args, err := page(psql.Select(lessonColumns...).From("lessons l").Where(pred).
		OrderBy("l.date DESC", "l.start_time DESC"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*models.Lesson, 0, p.Limit)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, 0, err
		}
		lessons = append(lessons, l)
	}
	return lessons, total, rows.Err()
}

// Update applies changes and returns the stored lesson
func (r *LessonRepository) Update(ctx context.Context, id int64, changes LessonChanges) (*models.Lesson, error) {
	if m := changes.setMap(); len(m) > 0 {
		if err := updateReturningID(ctx, r.db, "lessons", id, m); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a lesson by ID
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "lessons", id)
}

// CountAttendance counts the attendance records of a lesson
func (r *LessonRepository) CountAttendance(ctx context.Context, id int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("attendance").Where(squirrel.Eq{"lesson_id": id}))
}
