package service

import (
	"context"
	"errors"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
	"github.com/stemsi/siakad-backend/internal/response"
	"golang.org/x/crypto/bcrypt"
)

// TeacherService handles teacher accounts and class assignment. Two
// invariants hold together: a class has at most one active teacher, and a
// teacher identity (email) holds at most one class within the active
// session. Reassignment vacates and assigns as one atomic unit.
type TeacherService struct {
	teachers   TeacherStore
	guard      *Guard
	bcryptCost int
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(teachers TeacherStore, guard *Guard, bcryptCost int) *TeacherService {
	return &TeacherService{teachers: teachers, guard: guard, bcryptCost: bcryptCost}
}

// Create inserts a new teacher with a hashed password, running the
// assignment checks when a class is requested.
func (s *TeacherService) Create(ctx context.Context, institutionID int, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}

	if req.ClassID != nil {
		if err := s.checkAssignment(ctx, institutionID, *req.ClassID, req.Email, 0); err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		InstitutionID: institutionID,
		ClassID:       req.ClassID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PasswordHash:  string(hashed),
		Status:        model.TeacherStatusActive,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrClassTaken) {
			return nil, classAlreadyAssigned().Wrap(err)
		}
		return nil, err
	}
	return teacher, nil
}

// Update modifies a teacher's profile and, when the class changed, runs the
// atomic reassignment. Password updates only when provided.
func (s *TeacherService) Update(ctx context.Context, id, institutionID int, req *model.UpdateTeacherRequest) (*model.Teacher, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	teacher, err := s.getTeacher(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}

	classChanged := !equalClassRef(teacher.ClassID, req.ClassID)
	if classChanged {
		// Vacating a frozen class is a staff reassignment too and is
		// blocked the same way as assigning into one.
		if teacher.ClassID != nil {
			if _, err := s.guard.ResolveClassNotFrozen(ctx, *teacher.ClassID, institutionID, OpAssign); err != nil {
				return nil, err
			}
		}
		if req.ClassID != nil {
			// The teacher's own current assignment is excluded: moving
			// from class A to B is legal even though, before the write,
			// this identity already holds a class in the active session.
			if err := s.checkAssignment(ctx, institutionID, *req.ClassID, req.Email, teacher.ID); err != nil {
				return nil, err
			}
		}
	} else if req.Email != teacher.Email && teacher.ClassID != nil {
		// An email change while the class stays put is an identity move:
		// the new email must not already hold another class of the active
		// session, or one identity would reference two classes.
		if err := s.checkIdentityFree(ctx, institutionID, *teacher.ClassID, req.Email, teacher.ID); err != nil {
			return nil, err
		}
	}

	teacher.Name = req.Name
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Status = req.Status
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.teachers.UpdatePassword(ctx, id, institutionID, string(hashed)); err != nil {
			return nil, err
		}
	}

	if classChanged {
		if err := s.teachers.AssignClass(ctx, id, institutionID, req.ClassID); err != nil {
			if errors.Is(err, repository.ErrClassTaken) {
				return nil, classAlreadyAssigned().Wrap(err)
			}
			return nil, err
		}
		teacher.ClassID = req.ClassID
	}
	return teacher, nil
}

// Delete removes a teacher permanently.
func (s *TeacherService) Delete(ctx context.Context, id, institutionID int) error {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return err
	}
	if _, err := s.getTeacher(ctx, id, institutionID); err != nil {
		return err
	}
	return s.teachers.Delete(ctx, id, institutionID)
}

// Get retrieves one teacher.
func (s *TeacherService) Get(ctx context.Context, id, institutionID int) (*model.Teacher, error) {
	return s.getTeacher(ctx, id, institutionID)
}

// List retrieves teachers with pagination.
func (s *TeacherService) List(ctx context.Context, institutionID, page, perPage int) ([]model.Teacher, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	teachers, total, err := s.teachers.ListPaginated(ctx, institutionID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return teachers, pagination, nil
}

// checkAssignment runs both assignment invariants against a target class:
// the class must belong to the active session and be unfrozen, must not
// already have an active teacher, and the teacher identity (email) must not
// already hold another class of the active session. excludeTeacherID keeps
// the record's own current assignment out of both checks.
func (s *TeacherService) checkAssignment(ctx context.Context, institutionID, classID int, email string, excludeTeacherID int) error {
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return err
	}

	class, err := s.guard.ResolveClassNotFrozen(ctx, classID, institutionID, OpAssign)
	if err != nil {
		return err
	}
	if class.SessionID != active.ID {
		return classNotInActiveSession()
	}

	occupant, err := s.teachers.FindActiveByClass(ctx, institutionID, classID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if occupant != nil && occupant.ID != excludeTeacherID {
		return classAlreadyAssigned()
	}

	other, err := s.teachers.FindAssignedByEmail(ctx, institutionID, email, active.ID, excludeTeacherID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if other != nil {
		return teacherAlreadyAssigned()
	}
	return nil
}

// checkIdentityFree asserts the email holds no class of the active session
// beyond the record's own. The identity invariant binds within the active
// session only, so a teacher keeping a historical class may take any email,
// and so may anyone while no session is active.
func (s *TeacherService) checkIdentityFree(ctx context.Context, institutionID, classID int, email string, excludeTeacherID int) error {
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		if apperror.CodeOf(err) == "NO_ACTIVE_SESSION" {
			return nil
		}
		return err
	}
	class, err := s.guard.ResolveClass(ctx, classID, institutionID)
	if err != nil {
		return err
	}
	if class.SessionID != active.ID {
		return nil
	}

	other, err := s.teachers.FindAssignedByEmail(ctx, institutionID, email, active.ID, excludeTeacherID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if other != nil {
		return teacherAlreadyAssigned()
	}
	return nil
}

func (s *TeacherService) getTeacher(ctx context.Context, id, institutionID int) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Guru tidak ditemukan.")
		}
		return nil, err
	}
	return teacher, nil
}

func classAlreadyAssigned() *apperror.Error {
	return apperror.Conflict("CLASS_ALREADY_ASSIGNED", "Kelas sudah memiliki guru yang ditugaskan.")
}

func teacherAlreadyAssigned() *apperror.Error {
	return apperror.Conflict("TEACHER_ALREADY_ASSIGNED", "Guru sudah ditugaskan pada kelas lain di sesi aktif.")
}

func equalClassRef(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
