package service

import (
	"context"
	"errors"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// InstitutionService handles tenant administration.
type InstitutionService struct {
	institutions InstitutionStore
}

// NewInstitutionService creates a new InstitutionService.
func NewInstitutionService(institutions InstitutionStore) *InstitutionService {
	return &InstitutionService{institutions: institutions}
}

// Get retrieves one institution.
func (s *InstitutionService) Get(ctx context.Context, id int) (*model.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Institusi tidak ditemukan.")
		}
		return nil, err
	}
	return inst, nil
}

// List retrieves all institutions.
func (s *InstitutionService) List(ctx context.Context) ([]model.Institution, error) {
	institutions, err := s.institutions.List(ctx)
	if err != nil {
		return nil, err
	}
	if institutions == nil {
		institutions = []model.Institution{}
	}
	return institutions, nil
}

// Create registers a new institution.
func (s *InstitutionService) Create(ctx context.Context, req *model.CreateInstitutionRequest) (*model.Institution, error) {
	inst := &model.Institution{
		Name:   req.Name,
		Status: model.InstitutionStatusActive,
	}
	if err := s.institutions.Create(ctx, inst); err != nil {
		if errors.Is(err, repository.ErrDuplicateInstitutionName) {
			return nil, apperror.Conflict("DUPLICATE_INSTITUTION_NAME", "Nama institusi sudah digunakan.").Wrap(err)
		}
		return nil, err
	}
	return inst, nil
}

// SetFrozen toggles the institution-wide read-only switch.
func (s *InstitutionService) SetFrozen(ctx context.Context, id int, frozen bool) (*model.Institution, error) {
	if err := s.institutions.SetFrozen(ctx, id, frozen); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Institusi tidak ditemukan.")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}
