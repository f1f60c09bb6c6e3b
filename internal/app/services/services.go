package services

import (
	"context"
	"errors"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// UserStore is the persistence required for accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string, excluded int64) (bool, error)
	StudentIDExists(ctx context.Context, studentID string, excluded int64) (bool, error)
	Update(ctx context.Context, id int64, changes repositories.UserChanges) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repositories.UserFilter, p helpers.PageParams) ([]*models.User, int64, error)
	CountDependents(ctx context.Context, id int64) (int64, error)
	CountTaughtCourses(ctx context.Context, teacherID int64) (int64, error)
}

// FacultyStore is the persistence required for faculties
type FacultyStore interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	List(ctx context.Context, filter repositories.FacultyFilter, p helpers.PageParams) ([]*models.Faculty, int64, error)
	Update(ctx context.Context, id int64, changes repositories.FacultyChanges) (*models.Faculty, error)
	Delete(ctx context.Context, id int64) error
	NameExists(ctx context.Context, name string, excluded int64) (bool, error)
	CountDepartments(ctx context.Context, id int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// DepartmentStore is the persistence required for departments
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context, filter repositories.DepartmentFilter, p helpers.PageParams) ([]*models.Department, int64, error)
	Update(ctx context.Context, id int64, changes repositories.DepartmentChanges) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
	NameExistsInFaculty(ctx context.Context, name string, facultyID, excluded int64) (bool, error)
	CountCourses(ctx context.Context, id int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// CourseStore is the persistence required for courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter, p helpers.PageParams) ([]*models.Course, int64, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Course, error)
	Update(ctx context.Context, id int64, changes repositories.CourseChanges) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	CodeExists(ctx context.Context, code string, excluded int64) (bool, error)
	CountSections(ctx context.Context, id int64) (int64, error)
	CountEnrollments(ctx context.Context, id int64) (int64, error)
	TeacherOf(ctx context.Context, courseID int64) (int64, error)
}

// SectionStore is the persistence required for sections
type SectionStore interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	List(ctx context.Context, filter repositories.SectionFilter, p helpers.PageParams) ([]*models.Section, int64, error)
	Update(ctx context.Context, id int64, changes repositories.SectionChanges) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
	CountEnrollments(ctx context.Context, id int64) (int64, error)
	CountLessons(ctx context.Context, id int64) (int64, error)
}

// EnrollmentStore is the persistence required for enrollments
type EnrollmentStore interface {
	Enroll(ctx context.Context, studentID, sectionID int64) (*models.Enrollment, error)
	Unenroll(ctx context.Context, studentID, sectionID int64) error
	EnrolledStudentIDs(ctx context.Context, sectionID int64, studentIDs []int64) (map[int64]bool, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListStudentsBySection(ctx context.Context, sectionID int64) ([]*models.UserSummary, error)
}

// LessonStore is the persistence required for lessons
type LessonStore interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	List(ctx context.Context, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Lesson, int64, error)
	Update(ctx context.Context, id int64, changes repositories.LessonChanges) (*models.Lesson, error)
	Delete(ctx context.Context, id int64) error
	CountAttendance(ctx context.Context, id int64) (int64, error)
}

// AttendanceStore is the persistence required for attendance records
type AttendanceStore interface {
	Upsert(ctx context.Context, lessonID int64, marks []models.AttendanceMark) ([]*models.Attendance, error)
	GetByID(ctx context.Context, id int64) (*models.Attendance, error)
	ListByLesson(ctx context.Context, lessonID int64) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID int64, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Attendance, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus, note *string) (*models.Attendance, error)
	Delete(ctx context.Context, id int64) error
	SummaryByStudent(ctx context.Context, studentID int64) ([]models.AttendanceSummary, error)
}

// CourseAuthorizer decides whether a caller may manage a course's resources
type CourseAuthorizer interface {
	AuthorizeCourse(ctx context.Context, who authz.Identity, courseID int64) error
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// lookupErr maps a not-found store error to msg and logs anything else
func lookupErr(err error, msg, entity string, id int64) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(msg)
	}
	logger.Error().Err(err).Str("entity", entity).Int64("id", id).Msg("Error loading entity")
	return err
}

// guardNoChildren rejects a delete while dependents remain
func guardNoChildren(n int64, err error, msg string) error {
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.NewBadRequestError(msg)
	}
	return nil
}

// sum adds counts, keeping the first error
func sum(counts ...func() (int64, error)) (int64, error) {
	var total int64
	for _, c := range counts {
		n, err := c()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
