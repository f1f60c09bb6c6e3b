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

const upsertAttendanceSQL = `
	INSERT INTO attendance (lesson_id, student_id, status, note)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (lesson_id, student_id)
	DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, recorded_at = NOW()
	RETURNING id, recorded_at`

// AttendanceRepository handles attendance records
type AttendanceRepository struct {
	db db.DBTX
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(conn db.DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: conn}
}

func (r *AttendanceRepository) selectWithStudent() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.lesson_id", "a.student_id", "a.status", "a.note", "a.recorded_at",
		"u.first_name", "u.last_name", "u.email", "u.student_id",
	).From("attendance a").
		Join("users u ON u.id = a.student_id")
}

func scanAttendanceWithStudent(row pgx.Row) (*models.Attendance, error) {
	var a models.Attendance
	var s models.UserSummary
	if err := row.Scan(
		&a.ID, &a.LessonID, &a.StudentID, &a.Status, &a.Note, &a.RecordedAt,
		&s.FirstName, &s.LastName, &s.Email, &s.StudentID,
	); err != nil {
		return nil, notFound(err)
	}
	s.ID = a.StudentID
	a.Student = &s
	return &a, nil
}

// Upsert records marks for a lesson in one transaction. An existing record of
// the same student is overwritten.
func (r *AttendanceRepository) Upsert(ctx context.Context, lessonID int64, marks []models.AttendanceMark) ([]*models.Attendance, error) {
	records := make([]*models.Attendance, 0, len(marks))

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, m := range marks {
			a := &models.Attendance{LessonID: lessonID, StudentID: m.StudentID, Status: m.Status, Note: m.Note}
			if err := tx.QueryRow(ctx, upsertAttendanceSQL, lessonID, m.StudentID, m.Status, m.Note).
				Scan(&a.ID, &a.RecordedAt); err != nil {
				return fmt.Errorf("upsert attendance for student %d: %w", m.StudentID, err)
			}
			records = append(records, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID retrieves an attendance record with its student
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*models.Attendance, error) {
	sql, args, err := r.selectWithStudent().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAttendanceWithStudent(r.db.QueryRow(ctx, sql, args...))
}

// ListByLesson returns every record of a lesson ordered by student name
func (r *AttendanceRepository) ListByLesson(ctx context.Context, lessonID int64) ([]*models.Attendance, error) {
	sql, args, err := r.selectWithStudent().
		Where(squirrel.Eq{"a.lesson_id": lessonID}).
		OrderBy("u.last_name", "u.first_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list lesson attendance: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendanceWithStudent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListByStudent returns one page of a student's records with their lessons
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64, filter LessonFilter, p helpers.PageParams) ([]*models.Attendance, int64, error) {
	pred := squirrel.And{squirrel.Eq{"a.student_id": studentID}, filter.Predicate()}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("attendance a").
		Join("lessons l ON l.id = a.lesson_id").Where(pred))
	if err != nil {
		return nil, 0, fmt.Errorf("count student attendance: %w", err)
	}
	if total == 0 {
		return []*models.Attendance{}, 0, nil
	}

	cols := append([]string{"a.id", "a.lesson_id", "a.student_id", "a.status", "a.note", "a.recorded_at"}, lessonColumns...)
	sql, args, err := page(psql.Select(cols...).From("attendance a").
		Join("lessons l ON l.id = a.lesson_id").
		Where(pred).
		OrderBy("l.date DESC", "l.start_time DESC"), p).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list student attendance: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Attendance, 0, p.Limit)
	for rows.Next() {
		var a models.Attendance
		var l models.Lesson
		if err := rows.Scan(
			&a.ID, &a.LessonID, &a.StudentID, &a.Status, &a.Note, &a.RecordedAt,
			&l.ID, &l.SectionID, &l.Date, &l.StartTime, &l.EndTime, &l.Topic, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		a.Lesson = &l
		records = append(records, &a)
	}
	return records, total, rows.Err()
}

// UpdateStatus changes a single record. A nil note keeps the stored one.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus, note *string) (*models.Attendance, error) {
	b := psql.Update("attendance").Set("status", status)
	if note != nil {
		b = b.Set("note", *note)
	}
	sql, args, err := b.Set("recorded_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		return nil, notFound(err)
	}
	return r.GetByID(ctx, id)
}

// Delete deletes an attendance record
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "attendance", id)
}

// SummaryByStudent aggregates a student's records per enrolled section
func (r *AttendanceRepository) SummaryByStudent(ctx context.Context, studentID int64) ([]models.AttendanceSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.name, c.code, c.name,
			COUNT(a.id) FILTER (WHERE a.status = 'present'),
			COUNT(a.id) FILTER (WHERE a.status = 'absent'),
			COUNT(a.id) FILTER (WHERE a.status = 'late'),
			COUNT(a.id)
		FROM enrollments e
		JOIN sections s ON s.id = e.section_id
		JOIN courses c ON c.id = e.course_id
		LEFT JOIN lessons l ON l.section_id = s.id
		LEFT JOIN attendance a ON a.lesson_id = l.id AND a.student_id = e.student_id
		WHERE e.student_id = $1
		GROUP BY s.id, s.name, c.code, c.name
		ORDER BY c.code`, studentID)
	if err != nil {
		return nil, fmt.Errorf("summarize attendance: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.AttendanceSummary, 0)
	for rows.Next() {
		var s models.AttendanceSummary
		if err := rows.Scan(&s.SectionID, &s.SectionName, &s.CourseCode, &s.CourseName,
			&s.Present, &s.Absent, &s.Late, &s.Total); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
