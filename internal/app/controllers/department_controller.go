package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/app/services"
	"github.com/yigit/uniattend/internal/middleware"
)

// DepartmentController handles department-related operations
type DepartmentController struct {
	departmentService services.DepartmentService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService services.DepartmentService) *DepartmentController {
	return &DepartmentController{departmentService: departmentService}
}

// GetDepartments lists departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param facultyId query int false "Faculty filter"
// @Param search query string false "Free text search"
// @Success 200 {object} dto.APIResponse{data=object} "data holds departments and pagination"
// @Failure 400 {object} dto.APIResponse
// @Router /departments [get]
func (c *DepartmentController) GetDepartments(ctx *gin.Context) {
	p, ok := pageParams(ctx)
	if !ok {
		return
	}

	facultyID, err := queryInt64(ctx, "facultyId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filter := repositories.DepartmentFilter{FacultyID: facultyID, Search: queryString(ctx, "search")}
	departments, pagination, err := c.departmentService.List(ctx.Request.Context(), filter, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("departments", departments, pagination))
}

// GetDepartmentByID returns a department with its faculty and courses
// @Summary Get department details
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Department}
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartmentByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	department, err := c.departmentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"department": department}, ""))
}

// CreateDepartment handles department creation
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created successfully"
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Faculty not found"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"department": department}, "Department created successfully"))
}

// UpdateDepartment updates a department
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID" Format(int64) minimum(1)
// @Param request body dto.UpdateDepartmentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department updated successfully"
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /departments/{id} [put]
func (c *DepartmentController) UpdateDepartment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"department": department}, "Department updated successfully"))
}

// DeleteDepartment deletes a department without courses
// @Summary Delete a department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Department deleted successfully"
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /departments/{id} [delete]
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.departmentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Department deleted successfully"))
}
