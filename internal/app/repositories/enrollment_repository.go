package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/db"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
)

// EnrollmentRepository handles student enrollments into sections
type EnrollmentRepository struct {
	db db.DBTX
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(conn db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: conn}
}

// Enroll adds studentID to sectionID. The section row is locked so that
// concurrent enrollments cannot exceed its capacity.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, sectionID int64) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{StudentID: studentID, SectionID: sectionID}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx, `SELECT course_id, capacity FROM sections WHERE id = $1 FOR UPDATE`, sectionID).
			Scan(&enrollment.CourseID, &capacity)
		if err != nil {
			return notFound(err)
		}

		already, err := exists(ctx, tx, psql.Select("1").From("enrollments").
			Where(squirrel.Eq{"student_id": studentID, "course_id": enrollment.CourseID}))
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyEnrolled
		}

		enrolled, err := count(ctx, tx, psql.Select("COUNT(*)").From("enrollments").Where(squirrel.Eq{"section_id": sectionID}))
		if err != nil {
			return err
		}
		if enrolled >= int64(capacity) {
			return ErrSectionFull
		}

		sql, args, err := psql.Insert("enrollments").
			Columns("student_id", "course_id", "section_id").
			Values(studentID, enrollment.CourseID, sectionID).
			Suffix("RETURNING id, enrolled_at").
			ToSql()
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.EnrolledAt)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Unenroll removes a student from a section
func (r *EnrollmentRepository) Unenroll(ctx context.Context, studentID, sectionID int64) error {
	sql, args, err := psql.Delete("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "section_id": sectionID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// EnrolledStudentIDs returns the subset of studentIDs enrolled in a section
func (r *EnrollmentRepository) EnrolledStudentIDs(ctx context.Context, sectionID int64, studentIDs []int64) (map[int64]bool, error) {
	sql, args, err := psql.Select("student_id").From("enrollments").
		Where(squirrel.Eq{"section_id": sectionID, "student_id": studentIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrolled students: %w", err)
	}
	defer rows.Close()

	enrolled := make(map[int64]bool, len(studentIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		enrolled[id] = true
	}
	return enrolled, rows.Err()
}

// ListByStudent returns the enrollments of a student with course and section
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	sql, args, err := psql.Select(
		"e.id", "e.student_id", "e.course_id", "e.section_id", "e.enrolled_at",
		"c.code", "c.name", "c.teacher_id",
		"s.name", "s.schedule", "s.room",
	).From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Join("sections s ON s.id = e.section_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("c.code").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var course models.CourseRef
		var section models.SectionRef
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.SectionID, &e.EnrolledAt,
			&course.Code, &course.Name, &course.TeacherID,
			&section.Name, &section.Schedule, &section.Room,
		); err != nil {
			return nil, err
		}
		course.ID = e.CourseID
		section.ID = e.SectionID
		e.Course = &course
		e.Section = &section
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

// ListStudentsBySection returns the students enrolled in a section
func (r *EnrollmentRepository) ListStudentsBySection(ctx context.Context, sectionID int64) ([]*models.UserSummary, error) {
	sql, args, err := psql.Select("u.id", "u.first_name", "u.last_name", "u.email", "u.student_id").
		From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Where(squirrel.Eq{"e.section_id": sectionID}).
		OrderBy("u.last_name", "u.first_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list section students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.UserSummary, 0)
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.StudentID); err != nil {
			return nil, err
		}
		students = append(students, &s)
	}
	return students, rows.Err()
}
