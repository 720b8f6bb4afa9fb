package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const teacherColumns = `id, institution_id, class_id, name, email, phone, password_hash, status, created_at, updated_at`

// TeacherRepository handles teacher data access. The partial unique index
// teachers_class_active_idx guarantees at most one active teacher per class.
type TeacherRepository struct {
	pool   *pgxpool.Pool
	atomic *AtomicRunner
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool, atomic *AtomicRunner) *TeacherRepository {
	return &TeacherRepository{pool: pool, atomic: atomic}
}

func scanTeacher(row interface{ Scan(dest ...any) error }, t *model.Teacher) error {
	return row.Scan(&t.ID, &t.InstitutionID, &t.ClassID, &t.Name, &t.Email, &t.Phone,
		&t.PasswordHash, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a teacher scoped by institution.
func (r *TeacherRepository) GetByID(ctx context.Context, id, institutionID int) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := scanTeacher(r.pool.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = $1 AND institution_id = $2`,
		id, institutionID), t)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// FindActiveByClass retrieves the active teacher assigned to a class, or
// ErrNotFound when the class is vacant.
func (r *TeacherRepository) FindActiveByClass(ctx context.Context, institutionID, classID int) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := scanTeacher(r.pool.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teachers
		 WHERE institution_id = $1 AND class_id = $2 AND status = $3`,
		institutionID, classID, model.TeacherStatusActive), t)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// FindAssignedByEmail retrieves an active teacher sharing the given email
// whose assigned class belongs to sessionID, excluding excludeID. Used to
// block double-booking one teacher identity across two classes of the
// active session.
func (r *TeacherRepository) FindAssignedByEmail(ctx context.Context, institutionID int, email string, sessionID, excludeID int) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := scanTeacher(r.pool.QueryRow(ctx,
		`SELECT t.id, t.institution_id, t.class_id, t.name, t.email, t.phone,
		        t.password_hash, t.status, t.created_at, t.updated_at
		 FROM teachers t
		 JOIN classes c ON c.id = t.class_id
		 WHERE t.institution_id = $1 AND t.email = $2 AND t.status = $3
		   AND c.session_id = $4 AND t.id <> $5`,
		institutionID, email, model.TeacherStatusActive, sessionID, excludeID), t)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListPaginated retrieves teachers with pagination.
func (r *TeacherRepository) ListPaginated(ctx context.Context, institutionID, limit, offset int) ([]model.Teacher, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM teachers WHERE institution_id = $1`, institutionID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE institution_id = $1
		 ORDER BY name LIMIT $2 OFFSET $3`,
		institutionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := scanTeacher(rows, &t); err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, t)
	}
	return teachers, total, rows.Err()
}

// Create inserts a new teacher, with class assignment when set.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (institution_id, class_id, name, email, phone, password_hash, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		t.InstitutionID, t.ClassID, t.Name, t.Email, t.Phone, t.PasswordHash, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translateTeacherUnique(err)
}

// Update modifies a teacher's profile fields, leaving class assignment to
// AssignClass.
func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE teachers SET name = $1, email = $2, phone = $3, status = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 AND institution_id = $6`,
		t.Name, t.Email, t.Phone, t.Status, t.ID, t.InstitutionID)
	if err != nil {
		return translateTeacherUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword updates a teacher's password hash.
func (r *TeacherRepository) UpdatePassword(ctx context.Context, id, institutionID int, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE teachers SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND institution_id = $3`,
		passwordHash, id, institutionID)
	return err
}

// AssignClass atomically reassigns a teacher: first clear the class
// reference on any other teacher row still pointing at the target class
// (stale or inactive occupants), then set the target on this teacher. The
// vacate-first order means an interrupted sequential fallback leaves a
// vacated class and no assignment, never a double assignment;
// teachers_class_active_idx is the backstop under races.
// classID nil vacates the teacher's current assignment.
func (r *TeacherRepository) AssignClass(ctx context.Context, id, institutionID int, classID *int) error {
	err := r.atomic.Run(ctx, func(q Querier) error {
		if classID != nil {
			if _, err := q.Exec(ctx,
				`UPDATE teachers SET class_id = NULL, updated_at = CURRENT_TIMESTAMP
				 WHERE institution_id = $1 AND class_id = $2 AND id <> $3`,
				institutionID, *classID, id); err != nil {
				return err
			}
		}
		tag, err := q.Exec(ctx,
			`UPDATE teachers SET class_id = $1, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $2 AND institution_id = $3`,
			classID, id, institutionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translateTeacherUnique(err)
}

// Delete removes a teacher permanently.
func (r *TeacherRepository) Delete(ctx context.Context, id, institutionID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM teachers WHERE id = $1 AND institution_id = $2`, id, institutionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateTeacherUnique(err error) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == "teachers_class_active_idx" {
		return ErrClassTaken
	}
	return err
}
