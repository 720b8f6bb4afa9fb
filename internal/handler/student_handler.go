package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

// StudentHandler handles student record endpoints. Every operation is
// scoped to the caller's institution and the active academic session.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/v1/admin/students?class_id=N&page=1&per_page=20
// Lists students of the active session, optionally filtered by class.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage := pageQuery(c)

	var classID *int
	if raw := c.Query("class_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		classID = &id
	}

	students, pagination, err := h.studentService.List(c.Request.Context(), claims.InstitutionID, classID, page, perPage)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// GetStudent godoc
// GET /api/v1/admin/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	student, err := h.studentService.Get(c.Request.Context(), id, claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/admin/students
// Creates a student record pinned to the active session.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	student, err := h.studentService.Create(c.Request.Context(), claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/admin/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	student, err := h.studentService.Update(c.Request.Context(), id, claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/admin/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.studentService.Delete(c.Request.Context(), id, claims.InstitutionID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
