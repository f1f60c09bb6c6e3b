package routes

import (
	"github.com/gin-gonic/gin"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/controllers"
	"github.com/yigit/uniattend/internal/middleware"
)

// Controllers groups the HTTP handlers mounted under /api
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Faculty    *controllers.FacultyController
	Department *controllers.DepartmentController
	Course     *controllers.CourseController
	Section    *controllers.SectionController
	Lesson     *controllers.LessonController
	Attendance *controllers.AttendanceController
}

// SetupRouter configures all application routes
func SetupRouter(router gin.IRouter, h Controllers, authMiddleware *middleware.AuthMiddleware) {
	// guard authenticates the caller and then checks its role against set
	guard := func(set authz.RoleSet) gin.HandlerFunc {
		return middleware.Pipeline(authMiddleware.Authenticate, middleware.Authorize(set))
	}
	authenticated := guard(authz.Anyone)
	admin := guard(authz.AdminOnly)
	staff := guard(authz.TeacherOrAdmin)
	student := guard(authz.StudentOnly)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/profile", authenticated, h.Auth.GetProfile)
		auth.PUT("/profile", authenticated, h.Auth.UpdateProfile)
		auth.PUT("/change-password", authenticated, h.Auth.ChangePassword)
	}

	users := api.Group("/users", admin)
	{
		users.GET("", h.User.GetUsers)
		users.POST("", h.User.CreateUser)
		users.GET("/:id", h.User.GetUser)
		users.PUT("/:id", h.User.UpdateUser)
		users.DELETE("/:id", h.User.DeleteUser)
	}

	faculties := api.Group("/faculties")
	{
		faculties.GET("", authenticated, h.Faculty.GetFaculties)
		faculties.GET("/:id", authenticated, h.Faculty.GetFacultyByID)
		faculties.POST("", admin, h.Faculty.CreateFaculty)
		faculties.PUT("/:id", admin, h.Faculty.UpdateFaculty)
		faculties.DELETE("/:id", admin, h.Faculty.DeleteFaculty)
	}

	departments := api.Group("/departments")
	{
		departments.GET("", authenticated, h.Department.GetDepartments)
		departments.GET("/:id", authenticated, h.Department.GetDepartmentByID)
		departments.POST("", admin, h.Department.CreateDepartment)
		departments.PUT("/:id", admin, h.Department.UpdateDepartment)
		departments.DELETE("/:id", admin, h.Department.DeleteDepartment)
	}

	courses := api.Group("/courses")
	{
		// static segments are registered before /:id
		courses.GET("/my-courses/teacher", staff, h.Course.GetTeacherCourses)
		courses.GET("/my-courses/student", authenticated, h.Course.GetStudentCourses)
		courses.GET("", authenticated, h.Course.GetCourses)
		courses.GET("/:id", authenticated, h.Course.GetCourseByID)
		courses.POST("", admin, h.Course.CreateCourse)
		courses.PUT("/:id", admin, h.Course.UpdateCourse)
		courses.DELETE("/:id", admin, h.Course.DeleteCourse)
	}

	sections := api.Group("/sections")
	{
		sections.GET("", authenticated, h.Section.GetSections)
		sections.GET("/:id", authenticated, h.Section.GetSectionByID)
		sections.POST("", staff, h.Section.CreateSection)
		sections.PUT("/:id", staff, h.Section.UpdateSection)
		sections.DELETE("/:id", admin, h.Section.DeleteSection)
		sections.POST("/:id/enroll", admin, h.Section.EnrollStudent)
		sections.DELETE("/:id/unenroll", admin, h.Section.UnenrollStudent)
		sections.GET("/:id/students", staff, h.Section.GetSectionStudents)
	}

	lessons := api.Group("/lessons")
	{
		lessons.GET("", authenticated, h.Lesson.GetLessons)
		lessons.GET("/:id", authenticated, h.Lesson.GetLessonByID)
		lessons.POST("", staff, h.Lesson.CreateLesson)
		lessons.PUT("/:id", staff, h.Lesson.UpdateLesson)
		lessons.DELETE("/:id", staff, h.Lesson.DeleteLesson)
	}

	attendance := api.Group("/attendance")
	{
		attendance.GET("/lessons/:lessonId", staff, h.Attendance.GetLessonAttendance)
		attendance.POST("/lessons/:lessonId", staff, h.Attendance.MarkAttendance)
		attendance.GET("/me", student, h.Attendance.GetMyAttendance)
		attendance.GET("/me/summary", student, h.Attendance.GetMySummary)
		attendance.PUT("/:id", staff, h.Attendance.UpdateAttendance)
		attendance.DELETE("/:id", admin, h.Attendance.DeleteAttendance)
	}
}
