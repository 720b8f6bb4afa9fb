package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const adminColumns = `id, institution_id, email, name, password_hash, permissions, created_at, updated_at`

// AdminRepository handles admin account data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func scanAdmin(row interface{ Scan(dest ...any) error }, a *model.Admin) error {
	return row.Scan(&a.ID, &a.InstitutionID, &a.Email, &a.Name, &a.PasswordHash,
		&a.Permissions, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id), a)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// GetByEmail retrieves an admin by their unique email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email), a)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (institution_id, email, name, password_hash, permissions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		a.InstitutionID, a.Email, a.Name, a.PasswordHash, a.Permissions,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if constraint, ok := uniqueViolation(err); ok && constraint == "admins_email_key" {
		return ErrDuplicateEmail
	}
	return err
}
