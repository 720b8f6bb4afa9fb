package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	adminService *service.AdminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, adminService *service.AdminService) *AuthHandler {
	return &AuthHandler{authService: authService, adminService: adminService}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns JWT scoped to the admin's institution.
// Repeated failures from one address trigger a temporary lockout.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	addr := c.ClientIP()
	if err := h.authService.CheckLoginAllowed(c.Request.Context(), addr); err != nil {
		if errors.Is(err, service.ErrTooManyAttempts) {
			response.Fail(c, http.StatusTooManyRequests, response.ErrTooManyAttempts)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	admin, err := h.adminService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		_ = h.authService.RegisterFailedLogin(c.Request.Context(), addr)
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		_ = h.authService.RegisterFailedLogin(c.Request.Context(), addr)
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateAdminToken(c.Request.Context(), admin.ID, admin.InstitutionID, admin.Permissions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	_ = h.authService.ClearFailedLogins(c.Request.Context(), addr)

	response.Success(c, http.StatusOK, model.AdminLoginResponse{
		Token: token,
		Admin: *admin,
	})
}

// Logout godoc
// POST /api/v1/admin/auth/logout
// Removes the admin's registered session so the current token stops working.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetAdminSession(c.Request.Context(), claims.AdminID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/admin/auth/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.Get(c.Request.Context(), claims.AdminID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
