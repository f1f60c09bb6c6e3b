package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/app/services"
	"github.com/yigit/uniattend/internal/middleware"
)

// SectionController handles sections and enrollment
type SectionController struct {
	sectionService services.SectionService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService services.SectionService) *SectionController {
	return &SectionController{sectionService: sectionService}
}

// GetSections lists sections
// @Summary List sections
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param courseId query int false "Course filter"
// @Param search query string false "Search over name, schedule and room"
// @Success 200 {object} dto.APIResponse{data=object} "data holds sections and pagination"
// @Router /sections [get]
func (c *SectionController) GetSections(ctx *gin.Context) {
	p, ok := pageParams(ctx)
	if !ok {
		return
	}

	courseID, err := queryInt64(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filter := repositories.SectionFilter{CourseID: courseID, Search: queryString(ctx, "search")}
	sections, pagination, err := c.sectionService.List(ctx.Request.Context(), filter, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("sections", sections, pagination))
}

// GetSectionByID returns a section with its course and enrollment count
// @Summary Get section details
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Section}
// @Failure 404 {object} dto.APIResponse "Section not found"
// @Router /sections/{id} [get]
func (c *SectionController) GetSectionByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	section, err := c.sectionService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"section": section}, ""))
}

// CreateSection creates a section of a course the caller teaches
// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section information"
// @Success 201 {object} dto.APIResponse{data=models.Section} "Section created successfully"
// @Failure 400 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Not the course teacher"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.CreateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.Create(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"section": section}, "Section created successfully"))
}

// UpdateSection updates a section
// @Summary Update a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Param request body dto.UpdateSectionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Section} "Section updated successfully"
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id} [put]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.Update(ctx.Request.Context(), who, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"section": section}, "Section updated successfully"))
}

// DeleteSection deletes a section without enrollments or lessons
// @Summary Delete a section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Section deleted successfully"
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.sectionService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Section deleted successfully"))
}

// EnrollStudent adds a student to a section
// @Summary Enroll a student
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Param request body dto.EnrollmentRequest true "Student to enroll"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Student enrolled successfully"
// @Failure 400 {object} dto.APIResponse "Section full, already enrolled or not a student"
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id}/enroll [post]
func (c *SectionController) EnrollStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.sectionService.Enroll(ctx.Request.Context(), id, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"enrollment": enrollment}, "Student enrolled successfully"))
}

// UnenrollStudent removes a student from a section
// @Summary Unenroll a student
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Param request body dto.EnrollmentRequest true "Student to remove"
// @Success 200 {object} dto.APIResponse "Student unenrolled successfully"
// @Failure 404 {object} dto.APIResponse "Student is not enrolled in this section"
// @Router /sections/{id}/unenroll [delete]
func (c *SectionController) UnenrollStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.sectionService.Unenroll(ctx.Request.Context(), id, req.StudentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student unenrolled successfully"))
}

// GetSectionStudents lists the students of a section
// @Summary Section students
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.UserSummary}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /sections/{id}/students [get]
func (c *SectionController) GetSectionStudents(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	students, err := c.sectionService.Students(ctx.Request.Context(), who, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"students": students}, ""))
}
