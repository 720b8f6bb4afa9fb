package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

// SessionHandler handles academic session lifecycle endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ListSessions godoc
// GET /api/v1/admin/sessions
// Lists every academic session of the admin's institution, newest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessions, err := h.sessionService.List(c.Request.Context(), claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// GetActiveSession godoc
// GET /api/v1/admin/sessions/active
// Returns the institution's currently active session.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	session, err := h.sessionService.GetActive(c.Request.Context(), claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// GetSession godoc
// GET /api/v1/admin/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	session, err := h.sessionService.Get(c.Request.Context(), id, claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// CreateSession godoc
// POST /api/v1/admin/sessions
// Creates a new academic session, optionally activating it in the same unit.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	// The datetime binding tag already guarantees the layout.
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	session, err := h.sessionService.Create(c.Request.Context(), claims.InstitutionID, req.Name, start, end, req.Activate)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// ActivateSession godoc
// POST /api/v1/admin/sessions/:id/activate
// Makes the session the institution's single active session.
func (h *SessionHandler) ActivateSession(c *gin.Context) {
	h.lifecycle(c, h.sessionService.Activate)
}

// DeactivateSession godoc
// POST /api/v1/admin/sessions/:id/deactivate
// Leaves the institution with no active session.
func (h *SessionHandler) DeactivateSession(c *gin.Context) {
	h.lifecycle(c, h.sessionService.Deactivate)
}

// ArchiveSession godoc
// POST /api/v1/admin/sessions/:id/archive
func (h *SessionHandler) ArchiveSession(c *gin.Context) {
	h.lifecycle(c, h.sessionService.Archive)
}

// UnarchiveSession godoc
// POST /api/v1/admin/sessions/:id/unarchive
func (h *SessionHandler) UnarchiveSession(c *gin.Context) {
	h.lifecycle(c, h.sessionService.Unarchive)
}

func (h *SessionHandler) lifecycle(c *gin.Context, op func(ctx context.Context, id, institutionID int) (*model.AcademicSession, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	session, err := op(c.Request.Context(), id, claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
