package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

var bg = context.Background()

func ptr[T any](v T) *T { return &v }

func fastHash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

// window slices a sorted result the way LIMIT/OFFSET would
func window[T any](all []T, p helpers.PageParams) ([]T, int64) {
	total := int64(len(all))
	start := int(p.Offset())
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func sortedKeys[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type fakeUsers struct {
	rows       map[int64]*models.User
	dependents map[int64]int64
	courses    map[int64]int64
	next       int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[int64]*models.User{}, dependents: map[int64]int64{}, courses: map[int64]int64{}}
}

func (f *fakeUsers) add(u models.User) *models.User {
	f.next++
	u.ID = f.next
	f.rows[u.ID] = &u
	return &u
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.next++
	u.ID = f.next
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeUsers) EmailExists(_ context.Context, email string, excluded int64) (bool, error) {
	for _, u := range f.rows {
		if u.Email == email && u.ID != excluded {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) StudentIDExists(_ context.Context, studentID string, excluded int64) (bool, error) {
	for _, u := range f.rows {
		if u.StudentID != nil && *u.StudentID == studentID && u.ID != excluded {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Update(ctx context.Context, id int64, c repositories.UserChanges) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.StudentID != nil {
		u.StudentID = c.StudentID
	}
	if c.ClearStudentID {
		u.StudentID = nil
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := f.rows[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context, filter repositories.UserFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	var all []*models.User
	for _, id := range sortedKeys(f.rows) {
		u := f.rows[id]
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		all = append(all, u)
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeUsers) CountDependents(_ context.Context, id int64) (int64, error) {
	return f.dependents[id], nil
}

func (f *fakeUsers) CountTaughtCourses(_ context.Context, teacherID int64) (int64, error) {
	return f.courses[teacherID], nil
}

type fakeFaculties struct {
	rows        map[int64]*models.Faculty
	departments map[int64]int64
	next        int64
}

func newFakeFaculties() *fakeFaculties {
	return &fakeFaculties{rows: map[int64]*models.Faculty{}, departments: map[int64]int64{}}
}

func (f *fakeFaculties) Create(_ context.Context, fa *models.Faculty) error {
	f.next++
	fa.ID = f.next
	cp := *fa
	f.rows[fa.ID] = &cp
	return nil
}

func (f *fakeFaculties) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	fa, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *fa
	return &cp, nil
}

func (f *fakeFaculties) List(_ context.Context, _ repositories.FacultyFilter, p helpers.PageParams) ([]*models.Faculty, int64, error) {
	var all []*models.Faculty
	for _, id := range sortedKeys(f.rows) {
		all = append(all, f.rows[id])
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeFaculties) Update(ctx context.Context, id int64, c repositories.FacultyChanges) (*models.Faculty, error) {
	fa, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Name != nil {
		fa.Name = *c.Name
	}
	if c.Description != nil {
		fa.Description = c.Description
	}
	return f.GetByID(ctx, id)
}

func (f *fakeFaculties) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeFaculties) NameExists(_ context.Context, name string, excluded int64) (bool, error) {
	for _, fa := range f.rows {
		if fa.Name == name && fa.ID != excluded {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFaculties) CountDepartments(_ context.Context, id int64) (int64, error) {
	return f.departments[id], nil
}

func (f *fakeFaculties) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

type fakeDepartments struct {
	rows    map[int64]*models.Department
	courses map[int64]int64
	next    int64
}

func newFakeDepartments() *fakeDepartments {
	return &fakeDepartments{rows: map[int64]*models.Department{}, courses: map[int64]int64{}}
}

func (f *fakeDepartments) Create(_ context.Context, d *models.Department) error {
	f.next++
	d.ID = f.next
	cp := *d
	f.rows[d.ID] = &cp
	return nil
}

func (f *fakeDepartments) GetByID(_ context.Context, id int64) (*models.Department, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDepartments) List(_ context.Context, filter repositories.DepartmentFilter, p helpers.PageParams) ([]*models.Department, int64, error) {
	var all []*models.Department
	for _, id := range sortedKeys(f.rows) {
		d := f.rows[id]
		if filter.FacultyID != nil && d.FacultyID != *filter.FacultyID {
			continue
		}
		all = append(all, d)
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeDepartments) Update(ctx context.Context, id int64, c repositories.DepartmentChanges) (*models.Department, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Name != nil {
		d.Name = *c.Name
	}
	if c.FacultyID != nil {
		d.FacultyID = *c.FacultyID
	}
	if c.Description != nil {
		d.Description = c.Description
	}
	return f.GetByID(ctx, id)
}

func (f *fakeDepartments) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeDepartments) NameExistsInFaculty(_ context.Context, name string, facultyID, excluded int64) (bool, error) {
	for _, d := range f.rows {
		if d.Name == name && d.FacultyID == facultyID && d.ID != excluded {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDepartments) CountCourses(_ context.Context, id int64) (int64, error) {
	return f.courses[id], nil
}

func (f *fakeDepartments) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

type fakeCourses struct {
	rows        map[int64]*models.Course
	sections    map[int64]int64
	enrollments map[int64]int64
	next        int64
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{
		rows:        map[int64]*models.Course{},
		sections:    map[int64]int64{},
		enrollments: map[int64]int64{},
	}
}

func (f *fakeCourses) add(c models.Course) *models.Course {
	f.next++
	c.ID = f.next
	f.rows[c.ID] = &c
	return &c
}

func (f *fakeCourses) Create(_ context.Context, c *models.Course) error {
	f.next++
	c.ID = f.next
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) List(_ context.Context, filter repositories.CourseFilter, p helpers.PageParams) ([]*models.Course, int64, error) {
	var all []*models.Course
	for _, id := range sortedKeys(f.rows) {
		c := f.rows[id]
		if filter.TeacherID != nil && c.TeacherID != *filter.TeacherID {
			continue
		}
		all = append(all, c)
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeCourses) ListByTeacher(_ context.Context, teacherID int64) ([]*models.Course, error) {
	out := []*models.Course{}
	for _, id := range sortedKeys(f.rows) {
		if f.rows[id].TeacherID == teacherID {
			out = append(out, f.rows[id])
		}
	}
	return out, nil
}

func (f *fakeCourses) Update(ctx context.Context, id int64, c repositories.CourseChanges) (*models.Course, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Code != nil {
		row.Code = *c.Code
	}
	if c.Name != nil {
		row.Name = *c.Name
	}
	if c.Credits != nil {
		row.Credits = *c.Credits
	}
	if c.DepartmentID != nil {
		row.DepartmentID = *c.DepartmentID
	}
	if c.TeacherID != nil {
		row.TeacherID = *c.TeacherID
	}
	return f.GetByID(ctx, id)
}

func (f *fakeCourses) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCourses) CodeExists(_ context.Context, code string, excluded int64) (bool, error) {
	for _, c := range f.rows {
		if c.Code == code && c.ID != excluded {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourses) CountSections(_ context.Context, id int64) (int64, error) {
	return f.sections[id], nil
}

func (f *fakeCourses) CountEnrollments(_ context.Context, id int64) (int64, error) {
	return f.enrollments[id], nil
}

func (f *fakeCourses) TeacherOf(_ context.Context, courseID int64) (int64, error) {
	c, ok := f.rows[courseID]
	if !ok {
		return 0, apperrors.ErrResourceNotFound
	}
	return c.TeacherID, nil
}

type fakeSections struct {
	rows    map[int64]*models.Section
	lessons map[int64]int64
	next    int64
}

func newFakeSections() *fakeSections {
	return &fakeSections{rows: map[int64]*models.Section{}, lessons: map[int64]int64{}}
}

func (f *fakeSections) add(s models.Section) *models.Section {
	f.next++
	s.ID = f.next
	f.rows[s.ID] = &s
	return &s
}

func (f *fakeSections) Create(_ context.Context, s *models.Section) error {
	f.next++
	s.ID = f.next
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSections) GetByID(_ context.Context, id int64) (*models.Section, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSections) List(_ context.Context, filter repositories.SectionFilter, p helpers.PageParams) ([]*models.Section, int64, error) {
	var all []*models.Section
	for _, id := range sortedKeys(f.rows) {
		s := f.rows[id]
		if filter.CourseID != nil && s.CourseID != *filter.CourseID {
			continue
		}
		all = append(all, s)
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeSections) Update(ctx context.Context, id int64, c repositories.SectionChanges) (*models.Section, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Name != nil {
		s.Name = *c.Name
	}
	if c.Schedule != nil {
		s.Schedule = *c.Schedule
	}
	if c.Room != nil {
		s.Room = *c.Room
	}
	if c.Capacity != nil {
		s.Capacity = *c.Capacity
	}
	return f.GetByID(ctx, id)
}

func (f *fakeSections) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeSections) CountEnrollments(_ context.Context, id int64) (int64, error) {
	var n int64
	if s, ok := f.rows[id]; ok && s.EnrollmentCount != nil {
		n = *s.EnrollmentCount
	}
	return n, nil
}

func (f *fakeSections) CountLessons(_ context.Context, id int64) (int64, error) {
	return f.lessons[id], nil
}

type enrollmentKey struct{ student, section int64 }

// fakeEnrollments mirrors the capacity and one-section-per-course rules of the
// transactional repository
type fakeEnrollments struct {
	sections *fakeSections
	rows     map[enrollmentKey]*models.Enrollment
	next     int64
}

func newFakeEnrollments(sections *fakeSections) *fakeEnrollments {
	return &fakeEnrollments{sections: sections, rows: map[enrollmentKey]*models.Enrollment{}}
}

func (f *fakeEnrollments) Enroll(_ context.Context, studentID, sectionID int64) (*models.Enrollment, error) {
	section, ok := f.sections.rows[sectionID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	var inSection int64
	for k, e := range f.rows {
		if k.student == studentID && e.CourseID == section.CourseID {
			return nil, repositories.ErrAlreadyEnrolled
		}
		if k.section == sectionID {
			inSection++
		}
	}
	if !section.HasSeat(inSection) {
		return nil, repositories.ErrSectionFull
	}
	f.next++
	e := &models.Enrollment{ID: f.next, StudentID: studentID, SectionID: sectionID, CourseID: section.CourseID}
	f.rows[enrollmentKey{studentID, sectionID}] = e
	return e, nil
}

func (f *fakeEnrollments) Unenroll(_ context.Context, studentID, sectionID int64) error {
	k := enrollmentKey{studentID, sectionID}
	if _, ok := f.rows[k]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeEnrollments) EnrolledStudentIDs(_ context.Context, sectionID int64, studentIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range studentIDs {
		if _, ok := f.rows[enrollmentKey{id, sectionID}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeEnrollments) ListByStudent(_ context.Context, studentID int64) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for k, e := range f.rows {
		if k.student == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) ListStudentsBySection(_ context.Context, sectionID int64) ([]*models.UserSummary, error) {
	out := []*models.UserSummary{}
	for k := range f.rows {
		if k.section == sectionID {
			out = append(out, &models.UserSummary{ID: k.student})
		}
	}
	return out, nil
}

type fakeLessons struct {
	rows       map[int64]*models.Lesson
	attendance map[int64]int64
	next       int64
}

func newFakeLessons() *fakeLessons {
	return &fakeLessons{rows: map[int64]*models.Lesson{}, attendance: map[int64]int64{}}
}

func (f *fakeLessons) add(l models.Lesson) *models.Lesson {
	f.next++
	l.ID = f.next
	f.rows[l.ID] = &l
	return &l
}

func (f *fakeLessons) Create(_ context.Context, l *models.Lesson) error {
	if l.Status == "" {
		l.Status = models.LessonScheduled
	}
	f.next++
	l.ID = f.next
	cp := *l
	f.rows[l.ID] = &cp
	return nil
}

func (f *fakeLessons) GetByID(_ context.Context, id int64) (*models.Lesson, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLessons) List(_ context.Context, filter repositories.LessonFilter, p helpers.PageParams) ([]*models.Lesson, int64, error) {
	var all []*models.Lesson
	for _, id := range sortedKeys(f.rows) {
		l := f.rows[id]
		if filter.SectionID != nil && l.SectionID != *filter.SectionID {
			continue
		}
		all = append(all, l)
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeLessons) Update(ctx context.Context, id int64, c repositories.LessonChanges) (*models.Lesson, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.Date != nil {
		l.Date = *c.Date
	}
	if c.StartTime != nil {
		l.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		l.EndTime = *c.EndTime
	}
	if c.Topic != nil {
		l.Topic = c.Topic
	}
	if c.Status != nil {
		l.Status = *c.Status
	}
	return f.GetByID(ctx, id)
}

func (f *fakeLessons) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeLessons) CountAttendance(_ context.Context, id int64) (int64, error) {
	return f.attendance[id], nil
}

type attendanceKey struct{ lesson, student int64 }

type fakeAttendance struct {
	rows map[int64]*models.Attendance
	keys map[attendanceKey]int64
	next int64
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{rows: map[int64]*models.Attendance{}, keys: map[attendanceKey]int64{}}
}

func (f *fakeAttendance) Upsert(_ context.Context, lessonID int64, marks []models.AttendanceMark) ([]*models.Attendance, error) {
	out := make([]*models.Attendance, 0, len(marks))
	for _, m := range marks {
		k := attendanceKey{lessonID, m.StudentID}
		id, ok := f.keys[k]
		if !ok {
			f.next++
			id = f.next
			f.keys[k] = id
		}
		a := &models.Attendance{ID: id, LessonID: lessonID, StudentID: m.StudentID, Status: m.Status, Note: m.Note}
		f.rows[id] = a
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttendance) GetByID(_ context.Context, id int64) (*models.Attendance, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendance) ListByLesson(_ context.Context, lessonID int64) ([]*models.Attendance, error) {
	out := []*models.Attendance{}
	for _, id := range sortedKeys(f.rows) {
		if f.rows[id].LessonID == lessonID {
			out = append(out, f.rows[id])
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListByStudent(_ context.Context, studentID int64, _ repositories.LessonFilter, p helpers.PageParams) ([]*models.Attendance, int64, error) {
	var all []*models.Attendance
	for _, id := range sortedKeys(f.rows) {
		if f.rows[id].StudentID == studentID {
			all = append(all, f.rows[id])
		}
	}
	out, total := window(all, p)
	return out, total, nil
}

func (f *fakeAttendance) UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus, note *string) (*models.Attendance, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	a.Status = status
	if note != nil {
		a.Note = note
	}
	return f.GetByID(ctx, id)
}

func (f *fakeAttendance) Delete(_ context.Context, id int64) error {
	a, ok := f.rows[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.keys, attendanceKey{a.LessonID, a.StudentID})
	delete(f.rows, id)
	return nil
}

func (f *fakeAttendance) SummaryByStudent(_ context.Context, studentID int64) ([]models.AttendanceSummary, error) {
	bySection := map[int64]*models.AttendanceSummary{}
	for _, a := range f.rows {
		if a.StudentID != studentID {
			continue
		}
		s, ok := bySection[a.LessonID]
		if !ok {
			s = &models.AttendanceSummary{SectionID: a.LessonID}
			bySection[a.LessonID] = s
		}
		switch a.Status {
		case models.AttendancePresent:
			s.Present++
		case models.AttendanceAbsent:
			s.Absent++
		case models.AttendanceLate:
			s.Late++
		}
		s.Total++
	}
	out := []models.AttendanceSummary{}
	for _, id := range sortedKeys(bySection) {
		out = append(out, *bySection[id])
	}
	return out, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u *models.User) (string, error) {
	return "token-for-" + u.Email, nil
}
