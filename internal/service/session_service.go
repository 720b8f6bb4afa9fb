package service

import (
	"context"
	"errors"
	"time"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// SessionService owns the academic session lifecycle: create, activate,
// deactivate, archive, unarchive. Activation sequences "deactivate all,
// activate one" as a single atomic unit so two sessions are never active at
// once; the partial unique index backs the sequence under races and in
// sequential fallback mode.
type SessionService struct {
	sessions SessionStore
	guard    *Guard
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions SessionStore, guard *Guard) *SessionService {
	return &SessionService{sessions: sessions, guard: guard}
}

// Create inserts a new session. With activate set, the creation and the
// deactivation of any currently active session happen as one atomic unit;
// otherwise the session is created inactive.
func (s *SessionService) Create(ctx context.Context, institutionID int, name string, start, end time.Time, activate bool) (*model.AcademicSession, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, apperror.Validation("INVALID_DATE_RANGE", "Tanggal mulai harus sebelum tanggal selesai.")
	}

	exists, err := s.sessions.NameExists(ctx, institutionID, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("DUPLICATE_SESSION_NAME", "Nama sesi sudah digunakan pada institusi ini.")
	}

	session := &model.AcademicSession{
		InstitutionID: institutionID,
		Name:          name,
		StartDate:     start,
		EndDate:       end,
	}
	if err := s.sessions.Create(ctx, session, activate); err != nil {
		return nil, translateSessionConflict(err)
	}
	return session, nil
}

// Activate makes the target session the institution's single active
// session, deactivating every other one atomically.
func (s *SessionService) Activate(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	if session.Archived {
		return nil, apperror.InvalidState("SESSION_ARCHIVED", "Sesi arsip tidak dapat diaktifkan.")
	}

	if err := s.sessions.ActivateExclusive(ctx, id, institutionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sessionNotFound()
		}
		return nil, translateSessionConflict(err)
	}
	return s.getSession(ctx, id, institutionID)
}

// Deactivate clears the active flag on one session, leaving others alone.
func (s *SessionService) Deactivate(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, apperror.InvalidState("SESSION_NOT_ACTIVE", "Sesi tidak sedang aktif.")
	}

	if err := s.sessions.Deactivate(ctx, id, institutionID); err != nil {
		return nil, err
	}
	return s.getSession(ctx, id, institutionID)
}

// Archive marks an inactive session permanently read-only. Active sessions
// must be deactivated first.
func (s *SessionService) Archive(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	if session.IsActive {
		return nil, apperror.InvalidState("SESSION_STILL_ACTIVE", "Sesi aktif tidak dapat diarsipkan; nonaktifkan terlebih dahulu.")
	}
	if session.Archived {
		return nil, apperror.InvalidState("SESSION_ARCHIVED", "Sesi sudah diarsipkan.")
	}

	now := time.Now()
	if err := s.sessions.SetArchived(ctx, id, institutionID, true, &now); err != nil {
		return nil, err
	}
	return s.getSession(ctx, id, institutionID)
}

// Unarchive clears the archive marker; the session stays inactive.
func (s *SessionService) Unarchive(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	if !session.Archived {
		return nil, apperror.InvalidState("SESSION_NOT_ARCHIVED", "Sesi tidak berstatus arsip.")
	}

	if err := s.sessions.SetArchived(ctx, id, institutionID, false, nil); err != nil {
		return nil, err
	}
	return s.getSession(ctx, id, institutionID)
}

// GetActive returns the institution's unique active session.
func (s *SessionService) GetActive(ctx context.Context, institutionID int) (*model.AcademicSession, error) {
	return s.guard.ActiveSession(ctx, institutionID)
}

// Get returns one session scoped by institution.
func (s *SessionService) Get(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	return s.getSession(ctx, id, institutionID)
}

// List returns all sessions of the institution.
func (s *SessionService) List(ctx context.Context, institutionID int) ([]model.AcademicSession, error) {
	sessions, err := s.sessions.List(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.AcademicSession{}
	}
	return sessions, nil
}

func (s *SessionService) getSession(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	session, err := s.sessions.GetByID(ctx, id, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sessionNotFound()
		}
		return nil, err
	}
	return session, nil
}

func sessionNotFound() error {
	return apperror.NotFound("NOT_FOUND", "Sesi akademik tidak ditemukan.")
}

// translateSessionConflict maps store-level duplicate signals onto the same
// Conflict taxonomy the pre-checks produce, so callers see one error shape
// regardless of which path caught the race.
func translateSessionConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSessionName):
		return apperror.Conflict("DUPLICATE_SESSION_NAME", "Nama sesi sudah digunakan pada institusi ini.").Wrap(err)
	case errors.Is(err, repository.ErrActiveSessionExists):
		return apperror.Conflict("ACTIVE_SESSION_EXISTS", "Sesi lain sudah aktif; ulangi permintaan.").Wrap(err)
	}
	return err
}
