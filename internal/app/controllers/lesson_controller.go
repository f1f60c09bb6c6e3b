package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/services"
	"github.com/yigit/uniattend/internal/middleware"
)

// LessonController handles lesson scheduling
type LessonController struct {
	lessonService services.LessonService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService) *LessonController {
	return &LessonController{lessonService: lessonService}
}

// GetLessons lists lessons
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param sectionId query int false "Section filter"
// @Param status query string false "Lesson status" Enums(scheduled, completed, cancelled)
// @Param from query string false "First date, inclusive (YYYY-MM-DD)"
// @Param to query string false "Last date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=object} "data holds lessons and pagination"
// @Failure 400 {object} dto.APIResponse
// @Router /lessons [get]
func (c *LessonController) GetLessons(ctx *gin.Context) {
	p, ok := pageParams(ctx)
	if !ok {
		return
	}

	filter, err := lessonFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lessons, pagination, err := c.lessonService.List(ctx.Request.Context(), filter, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("lessons", lessons, pagination))
}

// GetLessonByID returns a lesson
// @Summary Get lesson details
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Lesson}
// @Failure 404 {object} dto.APIResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLessonByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.lessonService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"lesson": lesson}, ""))
}

// CreateLesson schedules a lesson in a section
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLessonRequest true "Lesson information"
// @Success 201 {object} dto.APIResponse{data=models.Lesson} "Lesson created successfully"
// @Failure 400 {object} dto.APIResponse "Invalid data or end time before start time"
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Section not found"
// @Router /lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.lessonService.Create(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"lesson": lesson}, "Lesson created successfully"))
}

// UpdateLesson updates a lesson
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Param request body dto.UpdateLessonRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson updated successfully"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.lessonService.Update(ctx.Request.Context(), who, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"lesson": lesson}, "Lesson updated successfully"))
}

// DeleteLesson deletes a lesson with no attendance recorded
// @Summary Delete a lesson
// @Tags lessons
// @Security BearerAuth
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Lesson deleted successfully"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.lessonService.Delete(ctx.Request.Context(), who, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Lesson deleted successfully"))
}
