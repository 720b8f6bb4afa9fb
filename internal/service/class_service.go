package service

import (
	"context"
	"errors"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// ClassService is the scoped record service for classes. New classes are
// always pinned to the active session; changes to a class require its
// session to still be the active one, and freeze toggles are only legal on
// active-session classes.
type ClassService struct {
	classes  ClassStore
	sessions SessionStore
	guard    *Guard
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, sessions SessionStore, guard *Guard) *ClassService {
	return &ClassService{classes: classes, sessions: sessions, guard: guard}
}

// Create inserts a class into the active session.
func (s *ClassService) Create(ctx context.Context, institutionID int, req *model.CreateClassRequest) (*model.Class, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ClassStatusActive
	}

	class := &model.Class{
		InstitutionID: institutionID,
		SessionID:     active.ID,
		Name:          req.Name,
		Status:        status,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicateClassName) {
			return nil, duplicateClassName().Wrap(err)
		}
		return nil, err
	}
	return class, nil
}

// Update renames a class or changes its lifecycle status. The class must
// belong to the active session.
func (s *ClassService) Update(ctx context.Context, id, institutionID int, req *model.CreateClassRequest) (*model.Class, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	class, err := s.requireActiveSessionClass(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}

	class.Name = req.Name
	if req.Status != "" {
		class.Status = req.Status
	}
	if err := s.classes.Update(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicateClassName) {
			return nil, duplicateClassName().Wrap(err)
		}
		return nil, err
	}
	return class, nil
}

// SetFrozen freezes or unfreezes a class. Only classes of the active
// session may be toggled.
func (s *ClassService) SetFrozen(ctx context.Context, id, institutionID int, frozen bool) (*model.Class, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	class, err := s.requireActiveSessionClass(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}

	if err := s.classes.SetFrozen(ctx, id, institutionID, frozen); err != nil {
		return nil, err
	}
	class.Frozen = frozen
	return class, nil
}

// Delete removes an unfrozen active-session class. Student foreign keys
// block deletion while records reference it.
func (s *ClassService) Delete(ctx context.Context, id, institutionID int) error {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return err
	}
	class, err := s.requireActiveSessionClass(ctx, id, institutionID)
	if err != nil {
		return err
	}
	if err := s.guard.AssertClassNotFrozen(class, OpDelete); err != nil {
		return err
	}

	if err := s.classes.Delete(ctx, id, institutionID); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return apperror.Conflict("DEPENDENCY_EXISTS", "Kelas masih memiliki siswa dan tidak dapat dihapus.").Wrap(err)
		}
		return err
	}
	return nil
}

// Get retrieves one class scoped by institution.
func (s *ClassService) Get(ctx context.Context, id, institutionID int) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, id, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Kelas tidak ditemukan.")
		}
		return nil, err
	}
	return class, nil
}

// List retrieves classes of one session; sessionID 0 means the active
// session. Historical and archived sessions stay readable.
func (s *ClassService) List(ctx context.Context, institutionID, sessionID int) ([]model.Class, error) {
	if sessionID == 0 {
		active, err := s.guard.ActiveSession(ctx, institutionID)
		if err != nil {
			return nil, err
		}
		sessionID = active.ID
	} else {
		if _, err := s.sessions.GetByID(ctx, sessionID, institutionID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, sessionNotFound()
			}
			return nil, err
		}
	}

	classes, err := s.classes.ListBySession(ctx, institutionID, sessionID)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []model.Class{}
	}
	return classes, nil
}

func (s *ClassService) requireActiveSessionClass(ctx context.Context, id, institutionID int) (*model.Class, error) {
	class, err := s.Get(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if class.SessionID != active.ID {
		return nil, classNotInActiveSession()
	}
	return class, nil
}

func duplicateClassName() *apperror.Error {
	return apperror.Conflict("DUPLICATE_CLASS_NAME", "Nama kelas sudah digunakan pada sesi ini.")
}
