package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const institutionColumns = `id, name, frozen, status, created_at, updated_at`

// InstitutionRepository handles institution (tenant) data access.
type InstitutionRepository struct {
	pool *pgxpool.Pool
}

// NewInstitutionRepository creates a new InstitutionRepository.
func NewInstitutionRepository(pool *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{pool: pool}
}

func scanInstitution(row interface{ Scan(dest ...any) error }, i *model.Institution) error {
	return row.Scan(&i.ID, &i.Name, &i.Frozen, &i.Status, &i.CreatedAt, &i.UpdatedAt)
}

// GetByID retrieves an institution.
func (r *InstitutionRepository) GetByID(ctx context.Context, id int) (*model.Institution, error) {
	i := &model.Institution{}
	err := scanInstitution(r.pool.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id), i)
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

// List retrieves all institutions.
func (r *InstitutionRepository) List(ctx context.Context) ([]model.Institution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+institutionColumns+` FROM institutions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []model.Institution
	for rows.Next() {
		var i model.Institution
		if err := scanInstitution(rows, &i); err != nil {
			return nil, err
		}
		institutions = append(institutions, i)
	}
	return institutions, rows.Err()
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, i *model.Institution) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO institutions (name, status) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		i.Name, i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if constraint, ok := uniqueViolation(err); ok && constraint == "institutions_name_key" {
		return ErrDuplicateInstitutionName
	}
	return err
}

// SetFrozen sets or clears the institution-wide read-only switch.
func (r *InstitutionRepository) SetFrozen(ctx context.Context, id int, frozen bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE institutions SET frozen = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		frozen, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the institution lifecycle status.
func (r *InstitutionRepository) SetStatus(ctx context.Context, id int, status model.InstitutionStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE institutions SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
