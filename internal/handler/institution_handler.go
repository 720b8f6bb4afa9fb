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

// InstitutionHandler handles tenant administration endpoints. All routes
// are gated behind the super admin permission.
type InstitutionHandler struct {
	institutionService *service.InstitutionService
	adminService       *service.AdminService
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(institutionService *service.InstitutionService, adminService *service.AdminService) *InstitutionHandler {
	return &InstitutionHandler{
		institutionService: institutionService,
		adminService:       adminService,
	}
}

// GetInstitution godoc
// GET /api/v1/admin/institution
// Returns the caller's own institution.
func (h *InstitutionHandler) GetInstitution(c *gin.Context) {
	claims := middleware.GetClaims(c)

	inst, err := h.institutionService.Get(c.Request.Context(), claims.InstitutionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institution": inst})
}

// CreateInstitution godoc
// POST /api/v1/admin/institutions
func (h *InstitutionHandler) CreateInstitution(c *gin.Context) {
	var req model.CreateInstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.institutionService.Create(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"institution": inst})
}

// FreezeInstitution godoc
// POST /api/v1/admin/institution/freeze
// Puts the caller's institution in read-only mode.
func (h *InstitutionHandler) FreezeInstitution(c *gin.Context) {
	h.setFrozen(c, true)
}

// UnfreezeInstitution godoc
// POST /api/v1/admin/institution/unfreeze
func (h *InstitutionHandler) UnfreezeInstitution(c *gin.Context) {
	h.setFrozen(c, false)
}

func (h *InstitutionHandler) setFrozen(c *gin.Context, frozen bool) {
	claims := middleware.GetClaims(c)

	inst, err := h.institutionService.SetFrozen(c.Request.Context(), claims.InstitutionID, frozen)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institution": inst})
}

// CreateAdmin godoc
// POST /api/v1/admin/admins
// Registers an admin account for the caller's institution.
func (h *InstitutionHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	// Admins are always created inside the caller's own institution.
	req.InstitutionID = claims.InstitutionID

	admin, err := h.adminService.Create(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"admin": admin})
}
