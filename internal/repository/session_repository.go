package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const sessionColumns = `id, institution_id, name, start_date, end_date, is_active, archived, archived_at, created_at, updated_at`

// SessionRepository handles academic session data access. The standing
// invariant "at most one active session per institution" lives in the
// partial unique index academic_sessions_one_active_idx; every multi-record
// sequence here orders its writes so the index can at worst leave zero
// active sessions, never two.
type SessionRepository struct {
	pool   *pgxpool.Pool
	atomic *AtomicRunner
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool, atomic *AtomicRunner) *SessionRepository {
	return &SessionRepository{pool: pool, atomic: atomic}
}

func scanSession(row interface{ Scan(dest ...any) error }, s *model.AcademicSession) error {
	return row.Scan(&s.ID, &s.InstitutionID, &s.Name, &s.StartDate, &s.EndDate,
		&s.IsActive, &s.Archived, &s.ArchivedAt, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a session scoped by institution. A session owned by a
// different institution yields ErrNotFound, indistinguishable from absence.
func (r *SessionRepository) GetByID(ctx context.Context, id, institutionID int) (*model.AcademicSession, error) {
	s := &model.AcademicSession{}
	err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM academic_sessions WHERE id = $1 AND institution_id = $2`,
		id, institutionID), s)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetActive retrieves the institution's unique active session.
func (r *SessionRepository) GetActive(ctx context.Context, institutionID int) (*model.AcademicSession, error) {
	s := &model.AcademicSession{}
	err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM academic_sessions WHERE institution_id = $1 AND is_active`,
		institutionID), s)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// NameExists reports whether the institution already has a session with the
// given name, excluding excludeID (0 to exclude nothing).
func (r *SessionRepository) NameExists(ctx context.Context, institutionID int, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM academic_sessions WHERE institution_id = $1 AND name = $2 AND id <> $3)`,
		institutionID, name, excludeID,
	).Scan(&exists)
	return exists, err
}

// List retrieves all sessions of an institution, newest first.
func (r *SessionRepository) List(ctx context.Context, institutionID int) ([]model.AcademicSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM academic_sessions WHERE institution_id = $1 ORDER BY start_date DESC, id DESC`,
		institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.AcademicSession
	for rows.Next() {
		var s model.AcademicSession
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Create inserts a new session. When activate is set, the insert and the
// deactivation of any currently active session happen as one atomic unit:
// deactivate first, then insert active, so a failed insert can only leave
// the institution with no active session.
func (r *SessionRepository) Create(ctx context.Context, s *model.AcademicSession, activate bool) error {
	err := r.atomic.Run(ctx, func(q Querier) error {
		if activate {
			if _, err := q.Exec(ctx,
				`UPDATE academic_sessions SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
				 WHERE institution_id = $1 AND is_active`,
				s.InstitutionID); err != nil {
				return err
			}
		}
		return q.QueryRow(ctx,
			`INSERT INTO academic_sessions (institution_id, name, start_date, end_date, is_active)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at, updated_at`,
			s.InstitutionID, s.Name, s.StartDate, s.EndDate, activate,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	})
	if err != nil {
		return translateSessionUnique(err)
	}
	s.IsActive = activate
	return nil
}

// ActivateExclusive atomically deactivates every other session of the
// institution and activates the target. The target must exist, belong to
// the institution, and not be archived.
func (r *SessionRepository) ActivateExclusive(ctx context.Context, id, institutionID int) error {
	err := r.atomic.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx,
			`UPDATE academic_sessions SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
			 WHERE institution_id = $1 AND is_active AND id <> $2`,
			institutionID, id); err != nil {
			return err
		}
		tag, err := q.Exec(ctx,
			`UPDATE academic_sessions SET is_active = TRUE, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $1 AND institution_id = $2 AND NOT archived`,
			id, institutionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translateSessionUnique(err)
}

// Deactivate clears the active flag on one session without touching others.
func (r *SessionRepository) Deactivate(ctx context.Context, id, institutionID int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE academic_sessions SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND institution_id = $2`,
		id, institutionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetArchived sets or clears the archived marker and timestamp.
func (r *SessionRepository) SetArchived(ctx context.Context, id, institutionID int, archived bool, archivedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE academic_sessions SET archived = $1, archived_at = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND institution_id = $4`,
		archived, archivedAt, id, institutionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateSessionUnique(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "academic_sessions_institution_name_key":
		return ErrDuplicateSessionName
	case "academic_sessions_one_active_idx":
		return ErrActiveSessionExists
	}
	return err
}
