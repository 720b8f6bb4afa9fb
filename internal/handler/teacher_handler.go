package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

// TeacherHandler handles teacher management and class assignment endpoints.
type TeacherHandler struct {
	teacherService *service.TeacherService
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// ListTeachers godoc
// GET /api/v1/admin/teachers?page=1&per_page=20
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage := pageQuery(c)

	teachers, pagination, err := h.teacherService.List(c.Request.Context(), claims.InstitutionID, page, perPage)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"teachers": teachers}, pagination)
}

// GetTeacher godoc
// GET /api/v1/admin/teachers/:id
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	teacher, err := h.teacherService.Get(c.Request.Context(), id, claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// CreateTeacher godoc
// POST /api/v1/admin/teachers
// Creates a teacher account, optionally assigning a homeroom class.
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	teacher, err := h.teacherService.Create(c.Request.Context(), claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"teacher": teacher})
}

// UpdateTeacher godoc
// PUT /api/v1/admin/teachers/:id
// Updates a teacher's profile and homeroom assignment. Passing class_id null
// vacates the assignment; a different class reassigns atomically.
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	teacher, err := h.teacherService.Update(c.Request.Context(), id, claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// DeleteTeacher godoc
// DELETE /api/v1/admin/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.teacherService.Delete(c.Request.Context(), id, claims.InstitutionID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
