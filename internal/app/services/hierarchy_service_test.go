package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
)

func TestFacultyNameUniqueness(t *testing.T) {
	faculties := newFakeFaculties()
	svc := NewFacultyService(faculties)

	eng, err := svc.Create(bg, &dto.CreateFacultyRequest{Name: " Engineering "})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", eng.Name)

	_, err = svc.Create(bg, &dto.CreateFacultyRequest{Name: "Engineering"})
	assert.EqualError(t, err, "Faculty with this name already exists")

	sci, err := svc.Create(bg, &dto.CreateFacultyRequest{Name: "Science"})
	require.NoError(t, err)

	_, err = svc.Update(bg, sci.ID, &dto.UpdateFacultyRequest{Name: ptr("Engineering")})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	// renaming to its own name is not a conflict
	_, err = svc.Update(bg, eng.ID, &dto.UpdateFacultyRequest{Name: ptr("Engineering"), Description: ptr("d")})
	require.NoError(t, err)

	_, err = svc.Update(bg, 99, &dto.UpdateFacultyRequest{})
	assert.EqualError(t, err, "Faculty not found")
}

func TestFacultyDeleteGuard(t *testing.T) {
	faculties := newFakeFaculties()
	svc := NewFacultyService(faculties)
	f, err := svc.Create(bg, &dto.CreateFacultyRequest{Name: "Engineering"})
	require.NoError(t, err)

	faculties.departments[f.ID] = 1
	assert.EqualError(t, svc.Delete(bg, f.ID), "Cannot delete faculty with existing departments")

	faculties.departments[f.ID] = 0
	require.NoError(t, svc.Delete(bg, f.ID))
	assert.EqualError(t, svc.Delete(bg, f.ID), "Faculty not found")
}

func TestDepartmentNameScopedToFaculty(t *testing.T) {
	faculties := newFakeFaculties()
	departments := newFakeDepartments()
	svc := NewDepartmentService(departments, faculties)

	eng, _ := NewFacultyService(faculties).Create(bg, &dto.CreateFacultyRequest{Name: "Engineering"})
	sci, _ := NewFacultyService(faculties).Create(bg, &dto.CreateFacultyRequest{Name: "Science"})

	_, err := svc.Create(bg, &dto.CreateDepartmentRequest{Name: "Math", FacultyID: eng.ID})
	require.NoError(t, err)

	_, err = svc.Create(bg, &dto.CreateDepartmentRequest{Name: "Math", FacultyID: eng.ID})
	assert.EqualError(t, err, "Department with this name already exists in this faculty")

	other, err := svc.Create(bg, &dto.CreateDepartmentRequest{Name: "Math", FacultyID: sci.ID})
	require.NoError(t, err)

	// moving into a faculty that already has the name conflicts
	_, err = svc.Update(bg, other.ID, &dto.UpdateDepartmentRequest{FacultyID: ptr(eng.ID)})
	assert.EqualError(t, err, "Department with this name already exists in this faculty")

	_, err = svc.Create(bg, &dto.CreateDepartmentRequest{Name: "Physics", FacultyID: 42})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
	assert.EqualError(t, err, "Faculty not found")
}

func TestDepartmentDeleteGuard(t *testing.T) {
	faculties := newFakeFaculties()
	departments := newFakeDepartments()
	svc := NewDepartmentService(departments, faculties)
	f, _ := NewFacultyService(faculties).Create(bg, &dto.CreateFacultyRequest{Name: "Engineering"})
	d, err := svc.Create(bg, &dto.CreateDepartmentRequest{Name: "Math", FacultyID: f.ID})
	require.NoError(t, err)

	departments.courses[d.ID] = 3
	assert.EqualError(t, svc.Delete(bg, d.ID), "Cannot delete department with existing courses")
}

type courseFixture struct {
	svc         CourseService
	courses     *fakeCourses
	users       *fakeUsers
	departments *fakeDepartments
	deptID      int64
	teacher     *models.User
	student     *models.User
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	fx := &courseFixture{
		courses:     newFakeCourses(),
		users:       newFakeUsers(),
		departments: newFakeDepartments(),
	}
	fx.svc = NewCourseService(fx.courses, fx.departments, fx.users, newFakeEnrollments(newFakeSections()))
	require.NoError(t, fx.departments.Create(bg, &models.Department{Name: "Math", FacultyID: 1}))
	fx.deptID = fx.departments.next
	fx.teacher = fx.users.add(models.User{Email: "t@uni.edu", Role: models.RoleTeacher})
	fx.student = fx.users.add(models.User{Email: "s@uni.edu", Role: models.RoleStudent, StudentID: ptr("S1")})
	return fx
}

func (fx *courseFixture) request(code string, teacherID int64) *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{Code: code, Name: "Calculus", DepartmentID: fx.deptID, TeacherID: teacherID, Credits: 4}
}

func TestCourseCreateChecksReferences(t *testing.T) {
	fx := newCourseFixture(t)

	_, err := fx.svc.Create(bg, fx.request("MATH101", fx.student.ID))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.EqualError(t, err, "User is not a teacher")

	_, err = fx.svc.Create(bg, fx.request("MATH101", 999))
	assert.EqualError(t, err, "Teacher not found")

	req := fx.request("MATH101", fx.teacher.ID)
	req.DepartmentID = 77
	_, err = fx.svc.Create(bg, req)
	assert.EqualError(t, err, "Department not found")

	c, err := fx.svc.Create(bg, fx.request("MATH101", fx.teacher.ID))
	require.NoError(t, err)
	assert.Equal(t, fx.teacher.ID, c.TeacherID)

	_, err = fx.svc.Create(bg, fx.request("MATH101", fx.teacher.ID))
	assert.EqualError(t, err, "Course with this code already exists")
}

func TestCourseUpdateAndDelete(t *testing.T) {
	fx := newCourseFixture(t)
	a, err := fx.svc.Create(bg, fx.request("A1", fx.teacher.ID))
	require.NoError(t, err)
	b, err := fx.svc.Create(bg, fx.request("B1", fx.teacher.ID))
	require.NoError(t, err)

	_, err = fx.svc.Update(bg, b.ID, &dto.UpdateCourseRequest{Code: ptr("A1")})
	assert.EqualError(t, err, "Course with this code already exists")

	_, err = fx.svc.Update(bg, b.ID, &dto.UpdateCourseRequest{TeacherID: ptr(fx.student.ID)})
	assert.EqualError(t, err, "User is not a teacher")

	updated, err := fx.svc.Update(bg, b.ID, &dto.UpdateCourseRequest{Code: ptr("B1"), Credits: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Credits)

	fx.courses.enrollments[a.ID] = 1
	assert.EqualError(t, fx.svc.Delete(bg, a.ID), "Cannot delete course with existing sections or enrollments")
	require.NoError(t, fx.svc.Delete(bg, b.ID))
	assert.EqualError(t, fx.svc.Delete(bg, b.ID), "Course not found")
}

func TestTeacherCourses(t *testing.T) {
	fx := newCourseFixture(t)
	other := fx.users.add(models.User{Email: "o@uni.edu", Role: models.RoleTeacher})
	_, err := fx.svc.Create(bg, fx.request("A1", fx.teacher.ID))
	require.NoError(t, err)
	_, err = fx.svc.Create(bg, fx.request("B1", other.ID))
	require.NoError(t, err)

	mine, err := fx.svc.TeacherCourses(bg, fx.teacher.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A1", mine[0].Code)
}
