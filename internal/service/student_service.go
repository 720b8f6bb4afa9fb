package service

import (
	"context"
	"errors"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
	"github.com/stemsi/siakad-backend/internal/response"
)

// StudentService is the scoped record service for students. Every mutation
// resolves the institution's active session first and pins or validates the
// record against it; a record whose session has moved on is read-only here.
type StudentService struct {
	students StudentStore
	sessions SessionStore
	guard    *Guard
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, sessions SessionStore, guard *Guard) *StudentService {
	return &StudentService{students: students, sessions: sessions, guard: guard}
}

// Create inserts a new student pinned to the active session. The target
// class must belong to that session and not be frozen; NIS must be unique
// within (institution, active session). The database constraint rejects
// concurrent duplicates even when this pre-check races.
func (s *StudentService) Create(ctx context.Context, institutionID int, req *model.CreateStudentRequest) (*model.Student, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	class, err := s.guard.ResolveClassNotFrozen(ctx, req.ClassID, institutionID, OpCreate)
	if err != nil {
		return nil, err
	}
	if class.SessionID != active.ID {
		return nil, classNotInActiveSession()
	}

	taken, err := s.students.NISExists(ctx, institutionID, active.ID, req.NIS, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateNIS()
	}

	student := &model.Student{
		InstitutionID:  institutionID,
		SessionID:      active.ID,
		ClassID:        class.ID,
		NIS:            req.NIS,
		Name:           req.Name,
		Gender:         req.Gender,
		Religion:       req.Religion,
		GuardianFather: req.GuardianFather,
		GuardianMother: req.GuardianMother,
		Phone:          req.Phone,
		Address:        req.Address,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateNIS) {
			return nil, duplicateNIS().Wrap(err)
		}
		return nil, err
	}
	return student, nil
}

// Update modifies a student record. The record's session must still be the
// active session; its session pin itself is immutable (the request carries
// no session field, so any attempt is dropped before it gets here).
func (s *StudentService) Update(ctx context.Context, id, institutionID int, req *model.UpdateStudentRequest) (*model.Student, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}
	student, err := s.getStudent(ctx, id, institutionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireActiveRecordSession(ctx, student, institutionID); err != nil {
		return nil, err
	}

	// Current class must accept mutations before anything changes.
	if _, err := s.guard.ResolveClassNotFrozen(ctx, student.ClassID, institutionID, OpUpdate); err != nil {
		return nil, err
	}

	if req.ClassID != student.ClassID {
		newClass, err := s.guard.ResolveClassNotFrozen(ctx, req.ClassID, institutionID, OpUpdate)
		if err != nil {
			return nil, err
		}
		if newClass.SessionID != student.SessionID {
			return nil, classNotInActiveSession()
		}
	}

	if req.NIS != student.NIS {
		taken, err := s.students.NISExists(ctx, institutionID, student.SessionID, req.NIS, student.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateNIS()
		}
	}

	student.ClassID = req.ClassID
	student.NIS = req.NIS
	student.Name = req.Name
	student.Gender = req.Gender
	student.Religion = req.Religion
	student.GuardianFather = req.GuardianFather
	student.GuardianMother = req.GuardianMother
	student.Phone = req.Phone
	student.Address = req.Address

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateNIS) {
			return nil, duplicateNIS().Wrap(err)
		}
		return nil, err
	}
	return student, nil
}

// Delete removes a student permanently, under the same session and freeze
// checks as Update.
func (s *StudentService) Delete(ctx context.Context, id, institutionID int) error {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return err
	}
	student, err := s.getStudent(ctx, id, institutionID)
	if err != nil {
		return err
	}
	if err := s.requireActiveRecordSession(ctx, student, institutionID); err != nil {
		return err
	}
	if _, err := s.guard.ResolveClassNotFrozen(ctx, student.ClassID, institutionID, OpDelete); err != nil {
		return err
	}
	return s.students.Delete(ctx, id, institutionID)
}

// Get retrieves one student. Reads are allowed whatever the record's
// session state.
func (s *StudentService) Get(ctx context.Context, id, institutionID int) (*model.Student, error) {
	return s.getStudent(ctx, id, institutionID)
}

// List retrieves students of the active session with pagination and an
// optional class filter; the filter class must belong to the active
// session.
func (s *StudentService) List(ctx context.Context, institutionID int, classID *int, page, perPage int) ([]model.Student, *response.Pagination, error) {
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return nil, nil, err
	}

	if classID != nil {
		class, err := s.guard.classes.GetByID(ctx, *classID, institutionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, apperror.NotFound("NOT_FOUND", "Kelas tidak ditemukan.")
			}
			return nil, nil, err
		}
		if class.SessionID != active.ID {
			return nil, nil, classNotInActiveSession()
		}
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	students, total, err := s.students.ListPaginated(ctx, institutionID, active.ID, classID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return students, pagination, nil
}

func (s *StudentService) getStudent(ctx context.Context, id, institutionID int) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message whether the id is absent or owned by another
			// institution.
			return nil, apperror.NotFound("NOT_FOUND", "Siswa tidak ditemukan.")
		}
		return nil, err
	}
	return student, nil
}

// requireActiveRecordSession fails unless the record's session is still the
// institution's active session, distinguishing archived from merely
// inactive for a clearer message.
func (s *StudentService) requireActiveRecordSession(ctx context.Context, student *model.Student, institutionID int) error {
	active, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return err
	}
	if student.SessionID == active.ID {
		return nil
	}

	recordSession, err := s.sessions.GetByID(ctx, student.SessionID, institutionID)
	if err == nil && recordSession.Archived {
		return apperror.InvalidState("SESSION_ARCHIVED", "Data berada pada sesi arsip dan hanya dapat dibaca.")
	}
	return apperror.InvalidState("SESSION_NOT_ACTIVE", "Data berada pada sesi yang tidak aktif dan hanya dapat dibaca.")
}

func classNotInActiveSession() error {
	return apperror.InvalidState("CLASS_NOT_IN_ACTIVE_SESSION", "Kelas tidak berada pada sesi aktif.")
}

func duplicateNIS() *apperror.Error {
	return apperror.Conflict("DUPLICATE_NIS", "NIS sudah digunakan pada sesi ini.")
}
