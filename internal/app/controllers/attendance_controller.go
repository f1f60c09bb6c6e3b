package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/services"
	"github.com/yigit/uniattend/internal/middleware"
)

// AttendanceController handles attendance records
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// GetLessonAttendance lists the attendance of a lesson
// @Summary Lesson attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Lesson not found"
// @Router /attendance/lessons/{lessonId} [get]
func (c *AttendanceController) GetLessonAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "lessonId")
	if !ok {
		return
	}

	records, err := c.attendanceService.ListByLesson(ctx.Request.Context(), who, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attendance": records}, ""))
}

// MarkAttendance records attendance for many students at once
// @Summary Bulk mark attendance
// @Description Existing records for the same student and lesson are overwritten.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID" Format(int64) minimum(1)
// @Param request body dto.MarkAttendanceRequest true "Attendance records"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "Attendance marked successfully"
// @Failure 400 {object} dto.APIResponse "Invalid data or student not enrolled"
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Lesson not found"
// @Router /attendance/lessons/{lessonId} [post]
func (c *AttendanceController) MarkAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "lessonId")
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	records, err := c.attendanceService.Mark(ctx.Request.Context(), who, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attendance": records}, "Attendance marked successfully"))
}

// GetMyAttendance lists the caller's own attendance records
// @Summary My attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param sectionId query int false "Section filter"
// @Param from query string false "First date, inclusive (YYYY-MM-DD)"
// @Param to query string false "Last date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=object} "data holds attendance and pagination"
// @Router /attendance/me [get]
func (c *AttendanceController) GetMyAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	p, ok := pageParams(ctx)
	if !ok {
		return
	}

	filter, err := lessonFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	records, pagination, err := c.attendanceService.ListMine(ctx.Request.Context(), who.ID, filter, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("attendance", records, pagination))
}

// GetMySummary returns per-section attendance counts for the caller
// @Summary My attendance summary
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceSummaryResponse}
// @Router /attendance/me/summary [get]
func (c *AttendanceController) GetMySummary(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	summary, err := c.attendanceService.Summary(ctx.Request.Context(), who.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"summary": summary}, ""))
}

// UpdateAttendance changes the status or note of one record
// @Summary Update an attendance record
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID" Format(int64) minimum(1)
// @Param request body dto.UpdateAttendanceRequest true "New status and note"
// @Success 200 {object} dto.APIResponse{data=models.Attendance} "Attendance updated successfully"
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Attendance record not found"
// @Router /attendance/{id} [put]
func (c *AttendanceController) UpdateAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.Update(ctx.Request.Context(), who, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attendance": record}, "Attendance updated successfully"))
}

// DeleteAttendance removes an attendance record
// @Summary Delete an attendance record
// @Tags attendance
// @Security BearerAuth
// @Param id path int true "Attendance ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Attendance deleted successfully"
// @Router /attendance/{id} [delete]
func (c *AttendanceController) DeleteAttendance(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendanceService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Attendance deleted successfully"))
}
