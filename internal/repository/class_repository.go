package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const classColumns = `id, institution_id, session_id, name, frozen, status, created_at, updated_at`

// ClassRepository handles class data access. Every lookup is scoped by
// institution so cross-tenant ids resolve to ErrNotFound.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row interface{ Scan(dest ...any) error }, c *model.Class) error {
	return row.Scan(&c.ID, &c.InstitutionID, &c.SessionID, &c.Name, &c.Frozen,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a class scoped by institution.
func (r *ClassRepository) GetByID(ctx context.Context, id, institutionID int) (*model.Class, error) {
	c := &model.Class{}
	err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1 AND institution_id = $2`,
		id, institutionID), c)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetByName retrieves a class by name within one session. Name is unique
// per (institution, session) so at most one row matches.
func (r *ClassRepository) GetByName(ctx context.Context, institutionID, sessionID int, name string) (*model.Class, error) {
	c := &model.Class{}
	err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE institution_id = $1 AND session_id = $2 AND name = $3`,
		institutionID, sessionID, name), c)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListBySession retrieves all classes of one session.
func (r *ClassRepository) ListBySession(ctx context.Context, institutionID, sessionID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE institution_id = $1 AND session_id = $2 ORDER BY name`,
		institutionID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (institution_id, session_id, name, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.InstitutionID, c.SessionID, c.Name, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translateClassUnique(err)
}

// Update modifies a class's name and status. Session assignment is
// immutable and not part of the statement.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND institution_id = $4`,
		c.Name, c.Status, c.ID, c.InstitutionID)
	if err != nil {
		return translateClassUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFrozen sets or clears the freeze flag.
func (r *ClassRepository) SetFrozen(ctx context.Context, id, institutionID int, frozen bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET frozen = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND institution_id = $3`,
		frozen, id, institutionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a class. Foreign keys on students block deletion while
// student records reference it.
func (r *ClassRepository) Delete(ctx context.Context, id, institutionID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE id = $1 AND institution_id = $2`, id, institutionID)
	if err != nil {
		if foreignKeyViolation(err) {
			return ErrHasDependents
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateClassUnique(err error) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == "classes_institution_session_name_key" {
		return ErrDuplicateClassName
	}
	return err
}
