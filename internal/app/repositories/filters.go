package repositories

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/uniattend/internal/app/models"
)

// Filter turns optional query parameters into a WHERE predicate
type Filter interface {
	Predicate() squirrel.Sqlizer
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// search matches term case-insensitively as a substring of any of columns
func search(term *string, columns ...string) squirrel.Sqlizer {
	if term == nil || strings.TrimSpace(*term) == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(*term)) + "%"

	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

// and combines the non-nil parts
func and(parts ...squirrel.Sqlizer) squirrel.And {
	out := squirrel.And{}
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func eq[T any](column string, v *T) squirrel.Sqlizer {
	if v == nil {
		return nil
	}
	return squirrel.Eq{column: *v}
}

// UserFilter filters the user list
type UserFilter struct {
	Role   *models.Role
	Search *string
}

func (f UserFilter) Predicate() squirrel.Sqlizer {
	return and(
		eq("u.role", f.Role),
		search(f.Search, "u.email", "u.first_name", "u.last_name", "u.student_id"),
	)
}

// FacultyFilter filters the faculty list
type FacultyFilter struct {
	Search *string
}

func (f FacultyFilter) Predicate() squirrel.Sqlizer {
	return and(search(f.Search, "f.name", "f.description"))
}

// DepartmentFilter filters the department list
type DepartmentFilter struct {
	FacultyID *int64
	Search    *string
}

func (f DepartmentFilter) Predicate() squirrel.Sqlizer {
	return and(
		eq("d.faculty_id", f.FacultyID),
		search(f.Search, "d.name", "d.description"),
	)
}

// CourseFilter filters the course list
type CourseFilter struct {
	DepartmentID *int64
	TeacherID    *int64
	Search       *string
}

func (f CourseFilter) Predicate() squirrel.Sqlizer {
	return and(
		eq("c.department_id", f.DepartmentID),
		eq("c.teacher_id", f.TeacherID),
		search(f.Search, "c.code", "c.name", "c.description"),
	)
}

// SectionFilter filters the section list
type SectionFilter struct {
	CourseID *int64
	Search   *string
}

func (f SectionFilter) Predicate() squirrel.Sqlizer {
	return and(
		eq("s.course_id", f.CourseID),
		search(f.Search, "s.name", "s.room", "s.schedule"),
	)
}

// LessonFilter filters lessons by section, status and date range (inclusive)
type LessonFilter struct {
	SectionID *int64
	Status    *models.LessonStatus
	From      *time.Time
	To        *time.Time
}

func (f LessonFilter) Predicate() squirrel.Sqlizer {
	var from, to squirrel.Sqlizer
	if f.From != nil {
		from = squirrel.GtOrEq{"l.date": *f.From}
	}
	if f.To != nil {
		to = squirrel.LtOrEq{"l.date": *f.To}
	}
	return and(eq("l.section_id", f.SectionID), eq("l.status", f.Status), from, to)
}
