package service

import (
	"context"
	"errors"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// AdminService manages admin accounts.
type AdminService struct {
	admins AdminStore
	auth   *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, auth *AuthService) *AdminService {
	return &AdminService{admins: admins, auth: auth}
}

// Get retrieves one admin by id.
func (s *AdminService) Get(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Admin tidak ditemukan.")
		}
		return nil, err
	}
	return admin, nil
}

// GetByEmail retrieves one admin by email. Used by the login flow, so the
// not-found case returns the raw sentinel instead of a user-facing error.
func (s *AdminService) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return s.admins.GetByEmail(ctx, email)
}

// Create registers a new admin account for an institution.
func (s *AdminService) Create(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	permissions := req.Permissions
	if len(permissions) == 0 {
		permissions = []string{model.PermissionSuperAdmin}
	}
	for _, p := range permissions {
		if !model.IsKnownPermission(p) {
			return nil, apperror.Validation("VALIDATION_ERROR", "Permission tidak dikenal: "+p)
		}
	}

	admin := &model.Admin{
		InstitutionID: req.InstitutionID,
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Permissions:   permissions,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("DUPLICATE_EMAIL", "Email sudah digunakan.").Wrap(err)
		}
		return nil, err
	}
	return admin, nil
}
