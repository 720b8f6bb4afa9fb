package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// Operation tags a mutation so freeze rejections carry a message naming
// what was attempted. The tag changes the message only, never the check.
type Operation string

const (
	OpCreate  Operation = "menambah data"
	OpUpdate  Operation = "mengubah data"
	OpDelete  Operation = "menghapus data"
	OpPromote Operation = "mempromosikan siswa"
	OpAssign  Operation = "menugaskan guru"
)

// Guard bundles the assert predicates every mutating operation runs before
// writing: institution writable, active session resolved, class not frozen.
// Keeping them here keeps the invariant set auditable in one place.
type Guard struct {
	institutions InstitutionStore
	sessions     SessionStore
	classes      ClassStore
}

// NewGuard creates a new Guard.
func NewGuard(institutions InstitutionStore, sessions SessionStore, classes ClassStore) *Guard {
	return &Guard{institutions: institutions, sessions: sessions, classes: classes}
}

// RequireWritableInstitution fails when the institution is missing,
// disabled, or under the institution-wide freeze.
func (g *Guard) RequireWritableInstitution(ctx context.Context, institutionID int) error {
	inst, err := g.institutions.GetByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("NOT_FOUND", "Institusi tidak ditemukan.")
		}
		return err
	}
	if inst.Status != "active" {
		return apperror.InvalidState("INSTITUTION_DISABLED", "Institusi sedang dinonaktifkan.")
	}
	if inst.Frozen {
		return apperror.InvalidState("INSTITUTION_FROZEN", "Institusi sedang dibekukan dan hanya dapat dibaca.")
	}
	return nil
}

// ActiveSession resolves the institution's unique active session. Every
// operation re-resolves it; there is deliberately no cached copy, so
// concurrent activation can never serve a stale session.
func (g *Guard) ActiveSession(ctx context.Context, institutionID int) (*model.AcademicSession, error) {
	s, err := g.sessions.GetActive(ctx, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NO_ACTIVE_SESSION", "Tidak ada sesi akademik yang sedang aktif.")
		}
		return nil, err
	}
	// Archived sessions must never be flagged active; treat it as a
	// consistency fault rather than serving the session.
	if s.Archived {
		return nil, apperror.InvalidState("ACTIVE_SESSION_ARCHIVED", "Sesi aktif berstatus arsip; hubungi administrator.")
	}
	return s, nil
}

// AssertClassNotFrozen rejects the operation when the class is frozen.
func (g *Guard) AssertClassNotFrozen(c *model.Class, op Operation) error {
	if c.Frozen {
		return apperror.InvalidState("CLASS_FROZEN",
			fmt.Sprintf("Kelas %s sedang dibekukan: tidak dapat %s.", c.Name, op))
	}
	return nil
}

// ResolveClass loads a class scoped strictly by institution, so
// cross-tenant ids resolve to the same not-found as absence. No freeze
// assertion; callers that mutate the class want ResolveClassNotFrozen.
func (g *Guard) ResolveClass(ctx context.Context, classID, institutionID int) (*model.Class, error) {
	c, err := g.classes.GetByID(ctx, classID, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Kelas tidak ditemukan.")
		}
		return nil, err
	}
	return c, nil
}

// ResolveClassNotFrozen loads a class the same way and then asserts it is
// not frozen.
func (g *Guard) ResolveClassNotFrozen(ctx context.Context, classID, institutionID int, op Operation) (*model.Class, error) {
	c, err := g.ResolveClass(ctx, classID, institutionID)
	if err != nil {
		return nil, err
	}
	if err := g.AssertClassNotFrozen(c, op); err != nil {
		return nil, err
	}
	return c, nil
}
