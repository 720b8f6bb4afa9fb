package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// nisSuffixAttempts bounds collision retries when deriving a promoted NIS.
const nisSuffixAttempts = 5

// PromotionService copies student records from a historical session into
// the active session. The source record is never touched; each promoted
// student is a new row in the target session. Failures are collected per
// record; the batch only fails as a whole when its setup is invalid,
// before any per-record work begins.
type PromotionService struct {
	students StudentStore
	sessions SessionStore
	classes  ClassStore
	guard    *Guard
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(students StudentStore, sessions SessionStore, classes ClassStore, guard *Guard) *PromotionService {
	return &PromotionService{students: students, sessions: sessions, classes: classes, guard: guard}
}

// Promote runs one promotion batch.
func (s *PromotionService) Promote(ctx context.Context, institutionID int, req *model.PromoteStudentsRequest) (*model.PromotionResult, error) {
	if err := s.guard.RequireWritableInstitution(ctx, institutionID); err != nil {
		return nil, err
	}

	source, err := s.sessions.GetByID(ctx, req.SourceSessionID, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sessionNotFound()
		}
		return nil, err
	}
	if source.IsActive {
		return nil, apperror.InvalidState("SOURCE_SESSION_ACTIVE", "Sesi sumber masih aktif; nonaktifkan terlebih dahulu.")
	}
	if source.Archived {
		return nil, apperror.InvalidState("SOURCE_SESSION_ARCHIVED", "Sesi sumber sudah diarsipkan.")
	}

	target, err := s.guard.ActiveSession(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if target.ID != req.TargetSessionID {
		return nil, apperror.InvalidState("TARGET_SESSION_NOT_ACTIVE", "Sesi tujuan bukan sesi yang sedang aktif.")
	}

	students, err := s.selectStudents(ctx, institutionID, source.ID, req.StudentIDs)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperror.NotFound("NO_STUDENTS_TO_PROMOTE", "Tidak ada siswa untuk dipromosikan.")
	}

	var explicitTarget *model.Class
	if req.TargetClassID != nil {
		explicitTarget, err = s.resolveExplicitTarget(ctx, institutionID, target.ID, *req.TargetClassID, req.SkipFrozenCheck)
		if err != nil {
			return nil, err
		}
	}

	result := &model.PromotionResult{
		TotalCount: len(students),
		Promoted:   []model.Student{},
		Errors:     []model.PromotionError{},
	}

	// Per-class caches so a big batch does not re-resolve every row.
	sourceClasses := map[int]*model.Class{}
	targetByName := map[string]*model.Class{}

	for i := range students {
		student := &students[i]

		srcClass, err := s.sourceClass(ctx, sourceClasses, student.ClassID, institutionID)
		if err != nil {
			reason := "Kelas asal tidak ditemukan."
			if !errors.Is(err, repository.ErrNotFound) {
				reason = "Gagal memuat kelas asal."
			}
			result.Errors = append(result.Errors, promotionError(student, reason))
			continue
		}
		if !req.SkipFrozenCheck && srcClass.Frozen {
			result.Errors = append(result.Errors, promotionError(student,
				fmt.Sprintf("Kelas asal %s sedang dibekukan.", srcClass.Name)))
			continue
		}

		destClass := explicitTarget
		if destClass == nil {
			destClass, err = s.matchTargetByName(ctx, targetByName, srcClass, institutionID, target.ID)
			if err != nil {
				reason := fmt.Sprintf("Kelas %s tidak ditemukan pada sesi tujuan.", srcClass.Name)
				if !errors.Is(err, repository.ErrNotFound) {
					reason = "Gagal memuat kelas tujuan."
				}
				result.Errors = append(result.Errors, promotionError(student, reason))
				continue
			}
		}

		nis, reason := s.resolveNIS(ctx, student, institutionID, target, req.PreserveNIS)
		if reason != "" {
			result.Errors = append(result.Errors, promotionError(student, reason))
			continue
		}

		// New record in the target session; the explicit field list keeps
		// the copy complete under compilation rather than reflection.
		promoted := &model.Student{
			InstitutionID:  institutionID,
			SessionID:      target.ID,
			ClassID:        destClass.ID,
			NIS:            nis,
			Name:           student.Name,
			Gender:         student.Gender,
			Religion:       student.Religion,
			GuardianFather: student.GuardianFather,
			GuardianMother: student.GuardianMother,
			Phone:          student.Phone,
			Address:        student.Address,
		}
		if err := s.students.Create(ctx, promoted); err != nil {
			// A constraint firing after the pre-check passed is the same
			// duplicate, surfaced reactively; report it in the same terms.
			if errors.Is(err, repository.ErrDuplicateNIS) {
				result.Errors = append(result.Errors, promotionError(student, "NIS sudah digunakan pada sesi tujuan."))
				continue
			}
			result.Errors = append(result.Errors, promotionError(student, "Gagal menyimpan data siswa."))
			continue
		}

		result.Promoted = append(result.Promoted, *promoted)
		result.PromotedCount++
	}

	return result, nil
}

// selectStudents picks the batch: an explicit id list (every id must belong
// to the source session) or the whole source session.
func (s *PromotionService) selectStudents(ctx context.Context, institutionID, sourceSessionID int, ids []int) ([]model.Student, error) {
	if len(ids) == 0 {
		return s.students.ListBySession(ctx, institutionID, sourceSessionID)
	}

	students, err := s.students.ListByIDs(ctx, institutionID, ids)
	if err != nil {
		return nil, err
	}
	if len(students) != len(ids) {
		return nil, apperror.Validation("STUDENTS_NOT_IN_SOURCE", "Sebagian siswa tidak ditemukan.")
	}
	for _, st := range students {
		if st.SessionID != sourceSessionID {
			return nil, apperror.Validation("STUDENTS_NOT_IN_SOURCE", "Semua siswa harus berasal dari sesi sumber.")
		}
	}
	return students, nil
}

func (s *PromotionService) resolveExplicitTarget(ctx context.Context, institutionID, targetSessionID, classID int, skipFrozenCheck bool) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, classID, institutionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("NOT_FOUND", "Kelas tujuan tidak ditemukan.")
		}
		return nil, err
	}
	if class.SessionID != targetSessionID {
		return nil, apperror.InvalidState("CLASS_NOT_IN_ACTIVE_SESSION", "Kelas tujuan tidak berada pada sesi aktif.")
	}
	if !skipFrozenCheck {
		if err := s.guard.AssertClassNotFrozen(class, OpPromote); err != nil {
			return nil, err
		}
	}
	return class, nil
}

func (s *PromotionService) sourceClass(ctx context.Context, cache map[int]*model.Class, classID, institutionID int) (*model.Class, error) {
	if c, ok := cache[classID]; ok {
		return c, nil
	}
	c, err := s.classes.GetByID(ctx, classID, institutionID)
	if err != nil {
		return nil, err
	}
	cache[classID] = c
	return c, nil
}

// matchTargetByName finds the equally-named class in the target session
// with matching lifecycle status. Class names are unique per session, so a
// found match is authoritative.
func (s *PromotionService) matchTargetByName(ctx context.Context, cache map[string]*model.Class, srcClass *model.Class, institutionID, targetSessionID int) (*model.Class, error) {
	if c, ok := cache[srcClass.Name]; ok {
		if c == nil || c.Status != srcClass.Status {
			return nil, repository.ErrNotFound
		}
		return c, nil
	}
	c, err := s.classes.GetByName(ctx, institutionID, targetSessionID, srcClass.Name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			cache[srcClass.Name] = nil
		}
		return nil, err
	}
	cache[srcClass.Name] = c
	if c.Status != srcClass.Status {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

// resolveNIS determines the promoted record's NIS. With preserve set the
// original NIS is mandatory and a collision fails this student; otherwise
// collisions get a short suffix derived from the target session's name,
// bumped numerically while still colliding. A non-empty reason fails the
// record and goes straight into the result.
func (s *PromotionService) resolveNIS(ctx context.Context, student *model.Student, institutionID int, target *model.AcademicSession, preserve bool) (nis, reason string) {
	taken, err := s.students.NISExists(ctx, institutionID, target.ID, student.NIS, 0)
	if err != nil {
		return "", "Gagal memeriksa NIS pada sesi tujuan."
	}
	if !taken {
		return student.NIS, ""
	}
	if preserve {
		return "", "NIS sudah digunakan pada sesi tujuan."
	}

	suffix := sessionSuffix(target.Name)
	for attempt := 0; attempt < nisSuffixAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s", student.NIS, suffix)
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%s%d", student.NIS, suffix, attempt+1)
		}
		taken, err := s.students.NISExists(ctx, institutionID, target.ID, candidate, 0)
		if err != nil {
			return "", "Gagal memeriksa NIS pada sesi tujuan."
		}
		if !taken {
			return candidate, ""
		}
	}
	return "", "Tidak dapat menentukan NIS unik pada sesi tujuan."
}

// sessionSuffix derives a short tag from a session name: the first four
// alphanumeric characters, e.g. "2025/2026" → "2025".
func sessionSuffix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
			if b.Len() >= 4 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "promosi"
	}
	return b.String()
}

func promotionError(student *model.Student, reason string) model.PromotionError {
	return model.PromotionError{StudentID: student.ID, NIS: student.NIS, Reason: reason}
}
