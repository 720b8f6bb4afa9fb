package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/siakad-backend/internal/model"
)

const studentColumns = `id, institution_id, session_id, class_id, nis, name, gender, religion,
	guardian_father, guardian_mother, phone, address, created_at, updated_at`

// StudentRepository handles student data access. NIS uniqueness per
// (institution, session) lives in students_institution_session_nis_key.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row interface{ Scan(dest ...any) error }, s *model.Student) error {
	return row.Scan(&s.ID, &s.InstitutionID, &s.SessionID, &s.ClassID, &s.NIS, &s.Name,
		&s.Gender, &s.Religion, &s.GuardianFather, &s.GuardianMother,
		&s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a student scoped by institution.
func (r *StudentRepository) GetByID(ctx context.Context, id, institutionID int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1 AND institution_id = $2`,
		id, institutionID), s)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// NISExists reports whether the NIS is already taken within one session,
// excluding excludeID (0 to exclude nothing).
func (r *StudentRepository) NISExists(ctx context.Context, institutionID, sessionID int, nis string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students
		  WHERE institution_id = $1 AND session_id = $2 AND nis = $3 AND id <> $4)`,
		institutionID, sessionID, nis, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListPaginated retrieves students of one session with pagination and an
// optional class filter.
func (r *StudentRepository) ListPaginated(ctx context.Context, institutionID, sessionID int, classID *int, limit, offset int) ([]model.Student, int, error) {
	where := ` WHERE institution_id = $1 AND session_id = $2`
	args := []any{institutionID, sessionID}
	if classID != nil {
		where += ` AND class_id = $3`
		args = append(args, *classID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argIdx := len(args) + 1
	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// ListBySession retrieves every student of one session.
func (r *StudentRepository) ListBySession(ctx context.Context, institutionID, sessionID int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE institution_id = $1 AND session_id = $2 ORDER BY name`,
		institutionID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ListByIDs retrieves students by id, scoped by institution. Missing ids
// are simply absent from the result.
func (r *StudentRepository) ListByIDs(ctx context.Context, institutionID int, ids []int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE institution_id = $1 AND id = ANY($2) ORDER BY name`,
		institutionID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create inserts a new student. The caller decides the session pin; the
// constraint rejects concurrent duplicate NIS creation even when the
// pre-check race loses.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (institution_id, session_id, class_id, nis, name, gender, religion,
		  guardian_father, guardian_mother, phone, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		s.InstitutionID, s.SessionID, s.ClassID, s.NIS, s.Name, s.Gender, s.Religion,
		s.GuardianFather, s.GuardianMother, s.Phone, s.Address,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translateStudentUnique(err)
}

// Update modifies a student's fields. Session assignment is immutable and
// deliberately absent from the statement.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET class_id = $1, nis = $2, name = $3, gender = $4, religion = $5,
		  guardian_father = $6, guardian_mother = $7, phone = $8, address = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10 AND institution_id = $11`,
		s.ClassID, s.NIS, s.Name, s.Gender, s.Religion,
		s.GuardianFather, s.GuardianMother, s.Phone, s.Address, s.ID, s.InstitutionID)
	if err != nil {
		return translateStudentUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a student permanently.
func (r *StudentRepository) Delete(ctx context.Context, id, institutionID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM students WHERE id = $1 AND institution_id = $2`, id, institutionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateStudentUnique(err error) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == "students_institution_session_nis_key" {
		return ErrDuplicateNIS
	}
	return err
}
