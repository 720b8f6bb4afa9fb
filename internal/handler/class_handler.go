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

// ClassHandler handles admin-facing class management.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/admin/classes?session_id=N
// Lists classes of one session. Without session_id, the active session.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID := 0
	if raw := c.Query("session_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		sessionID = id
	}

	classes, err := h.classService.List(c.Request.Context(), claims.InstitutionID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/admin/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	class, err := h.classService.Get(c.Request.Context(), id, claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/admin/classes
// Creates a class in the institution's active session.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	class, err := h.classService.Create(c.Request.Context(), claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/admin/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	class, err := h.classService.Update(c.Request.Context(), id, claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// FreezeClass godoc
// POST /api/v1/admin/classes/:id/freeze
func (h *ClassHandler) FreezeClass(c *gin.Context) {
	h.setFrozen(c, true)
}

// UnfreezeClass godoc
// POST /api/v1/admin/classes/:id/unfreeze
func (h *ClassHandler) UnfreezeClass(c *gin.Context) {
	h.setFrozen(c, false)
}

func (h *ClassHandler) setFrozen(c *gin.Context, frozen bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	class, err := h.classService.SetFrozen(c.Request.Context(), id, claims.InstitutionID, frozen)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/admin/classes/:id
// Deletes a class. Fails while students or teachers still reference it.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.classService.Delete(c.Request.Context(), id, claims.InstitutionID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
