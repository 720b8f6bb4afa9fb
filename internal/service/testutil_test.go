package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
)

// memDB backs the in-memory store fakes. It enforces the same uniqueness
// rules as the database schema so reactive-constraint paths are reachable
// in tests.
type memDB struct {
	mu           sync.Mutex
	institutions map[int]model.Institution
	sessions     map[int]model.AcademicSession
	classes      map[int]model.Class
	students     map[int]model.Student
	teachers     map[int]model.Teacher
	lastID       int
}

func newMemDB() *memDB {
	return &memDB{
		institutions: map[int]model.Institution{},
		sessions:     map[int]model.AcademicSession{},
		classes:      map[int]model.Class{},
		students:     map[int]model.Student{},
		teachers:     map[int]model.Teacher{},
	}
}

func (db *memDB) nextID() int {
	db.lastID++
	return db.lastID
}

// ─── InstitutionStore ───────────────────────────────────────────────────────

type fakeInstitutions struct{ db *memDB }

func (f *fakeInstitutions) GetByID(_ context.Context, id int) (*model.Institution, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	inst, ok := f.db.institutions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inst, nil
}

func (f *fakeInstitutions) List(_ context.Context) ([]model.Institution, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]model.Institution, 0, len(f.db.institutions))
	for _, inst := range f.db.institutions {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInstitutions) Create(_ context.Context, i *model.Institution) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.institutions {
		if existing.Name == i.Name {
			return repository.ErrDuplicateInstitutionName
		}
	}
	i.ID = f.db.nextID()
	f.db.institutions[i.ID] = *i
	return nil
}

func (f *fakeInstitutions) SetFrozen(_ context.Context, id int, frozen bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	inst, ok := f.db.institutions[id]
	if !ok {
		return repository.ErrNotFound
	}
	inst.Frozen = frozen
	f.db.institutions[id] = inst
	return nil
}

func (f *fakeInstitutions) SetStatus(_ context.Context, id int, status model.InstitutionStatus) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	inst, ok := f.db.institutions[id]
	if !ok {
		return repository.ErrNotFound
	}
	inst.Status = status
	f.db.institutions[id] = inst
	return nil
}

// ─── SessionStore ───────────────────────────────────────────────────────────

type fakeSessions struct{ db *memDB }

func (f *fakeSessions) GetByID(_ context.Context, id, institutionID int) (*model.AcademicSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok || s.InstitutionID != institutionID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) GetActive(_ context.Context, institutionID int) (*model.AcademicSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.sessions {
		if s.InstitutionID == institutionID && s.IsActive {
			out := s
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSessions) NameExists(_ context.Context, institutionID int, name string, excludeID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.sessions {
		if s.InstitutionID == institutionID && s.Name == name && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) List(_ context.Context, institutionID int) ([]model.AcademicSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.AcademicSession
	for _, s := range f.db.sessions {
		if s.InstitutionID == institutionID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeSessions) Create(_ context.Context, s *model.AcademicSession, activate bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.sessions {
		if existing.InstitutionID == s.InstitutionID && existing.Name == s.Name {
			return repository.ErrDuplicateSessionName
		}
	}
	if activate {
		for id, existing := range f.db.sessions {
			if existing.InstitutionID == s.InstitutionID && existing.IsActive {
				existing.IsActive = false
				f.db.sessions[id] = existing
			}
		}
	}
	s.ID = f.db.nextID()
	s.IsActive = activate
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.db.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessions) ActivateExclusive(_ context.Context, id, institutionID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	target, ok := f.db.sessions[id]
	if !ok || target.InstitutionID != institutionID || target.Archived {
		return repository.ErrNotFound
	}
	for sid, s := range f.db.sessions {
		if s.InstitutionID == institutionID && s.IsActive && sid != id {
			s.IsActive = false
			f.db.sessions[sid] = s
		}
	}
	target.IsActive = true
	f.db.sessions[id] = target
	return nil
}

func (f *fakeSessions) Deactivate(_ context.Context, id, institutionID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok || s.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	s.IsActive = false
	f.db.sessions[id] = s
	return nil
}

func (f *fakeSessions) SetArchived(_ context.Context, id, institutionID int, archived bool, archivedAt *time.Time) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok || s.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	s.Archived = archived
	s.ArchivedAt = archivedAt
	f.db.sessions[id] = s
	return nil
}

// ─── ClassStore ─────────────────────────────────────────────────────────────

type fakeClasses struct {
	db *memDB

	// Injectable faults for exercising infrastructure failure paths.
	getErr  error
	nameErr error
}

func (f *fakeClasses) GetByID(_ context.Context, id, institutionID int) (*model.Class, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.classes[id]
	if !ok || c.InstitutionID != institutionID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeClasses) GetByName(_ context.Context, institutionID, sessionID int, name string) (*model.Class, error) {
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.classes {
		if c.InstitutionID == institutionID && c.SessionID == sessionID && c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClasses) ListBySession(_ context.Context, institutionID, sessionID int) ([]model.Class, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Class
	for _, c := range f.db.classes {
		if c.InstitutionID == institutionID && c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClasses) Create(_ context.Context, c *model.Class) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.classes {
		if existing.InstitutionID == c.InstitutionID && existing.SessionID == c.SessionID && existing.Name == c.Name {
			return repository.ErrDuplicateClassName
		}
	}
	c.ID = f.db.nextID()
	f.db.classes[c.ID] = *c
	return nil
}

func (f *fakeClasses) Update(_ context.Context, c *model.Class) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	existing, ok := f.db.classes[c.ID]
	if !ok || existing.InstitutionID != c.InstitutionID {
		return repository.ErrNotFound
	}
	for _, other := range f.db.classes {
		if other.ID != c.ID && other.InstitutionID == c.InstitutionID && other.SessionID == c.SessionID && other.Name == c.Name {
			return repository.ErrDuplicateClassName
		}
	}
	f.db.classes[c.ID] = *c
	return nil
}

func (f *fakeClasses) SetFrozen(_ context.Context, id, institutionID int, frozen bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.classes[id]
	if !ok || c.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	c.Frozen = frozen
	f.db.classes[id] = c
	return nil
}

func (f *fakeClasses) Delete(_ context.Context, id, institutionID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.classes[id]
	if !ok || c.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	for _, st := range f.db.students {
		if st.ClassID == id {
			return repository.ErrHasDependents
		}
	}
	for _, t := range f.db.teachers {
		if t.ClassID != nil && *t.ClassID == id {
			return repository.ErrHasDependents
		}
	}
	delete(f.db.classes, id)
	return nil
}

// ─── StudentStore ───────────────────────────────────────────────────────────

type fakeStudents struct{ db *memDB }

func (f *fakeStudents) GetByID(_ context.Context, id, institutionID int) (*model.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.students[id]
	if !ok || s.InstitutionID != institutionID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStudents) NISExists(_ context.Context, institutionID, sessionID int, nis string, excludeID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.nisTakenLocked(institutionID, sessionID, nis, excludeID), nil
}

func (f *fakeStudents) nisTakenLocked(institutionID, sessionID int, nis string, excludeID int) bool {
	for _, s := range f.db.students {
		if s.InstitutionID == institutionID && s.SessionID == sessionID && s.NIS == nis && s.ID != excludeID {
			return true
		}
	}
	return false
}

func (f *fakeStudents) ListPaginated(_ context.Context, institutionID, sessionID int, classID *int, limit, offset int) ([]model.Student, int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var all []model.Student
	for _, s := range f.db.students {
		if s.InstitutionID != institutionID || s.SessionID != sessionID {
			continue
		}
		if classID != nil && s.ClassID != *classID {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeStudents) ListBySession(_ context.Context, institutionID, sessionID int) ([]model.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Student
	for _, s := range f.db.students {
		if s.InstitutionID == institutionID && s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStudents) ListByIDs(_ context.Context, institutionID int, ids []int) ([]model.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Student
	for _, id := range ids {
		if s, ok := f.db.students[id]; ok && s.InstitutionID == institutionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudents) Create(_ context.Context, s *model.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.nisTakenLocked(s.InstitutionID, s.SessionID, s.NIS, 0) {
		return repository.ErrDuplicateNIS
	}
	s.ID = f.db.nextID()
	f.db.students[s.ID] = *s
	return nil
}

func (f *fakeStudents) Update(_ context.Context, s *model.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	existing, ok := f.db.students[s.ID]
	if !ok || existing.InstitutionID != s.InstitutionID {
		return repository.ErrNotFound
	}
	if f.nisTakenLocked(s.InstitutionID, s.SessionID, s.NIS, s.ID) {
		return repository.ErrDuplicateNIS
	}
	f.db.students[s.ID] = *s
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id, institutionID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.students[id]
	if !ok || s.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	delete(f.db.students, id)
	return nil
}

// ─── TeacherStore ───────────────────────────────────────────────────────────

type fakeTeachers struct{ db *memDB }

func (f *fakeTeachers) GetByID(_ context.Context, id, institutionID int) (*model.Teacher, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.teachers[id]
	if !ok || t.InstitutionID != institutionID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTeachers) FindActiveByClass(_ context.Context, institutionID, classID int) (*model.Teacher, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, t := range f.db.teachers {
		if t.InstitutionID == institutionID && t.Status == model.TeacherStatusActive &&
			t.ClassID != nil && *t.ClassID == classID {
			out := t
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTeachers) FindAssignedByEmail(_ context.Context, institutionID int, email string, sessionID, excludeID int) (*model.Teacher, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, t := range f.db.teachers {
		if t.InstitutionID != institutionID || t.Email != email || t.ID == excludeID {
			continue
		}
		if t.Status != model.TeacherStatusActive || t.ClassID == nil {
			continue
		}
		if c, ok := f.db.classes[*t.ClassID]; ok && c.SessionID == sessionID {
			out := t
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTeachers) ListPaginated(_ context.Context, institutionID, limit, offset int) ([]model.Teacher, int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var all []model.Teacher
	for _, t := range f.db.teachers {
		if t.InstitutionID == institutionID {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeTeachers) Create(_ context.Context, t *model.Teacher) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if t.ClassID != nil && t.Status == model.TeacherStatusActive {
		for _, other := range f.db.teachers {
			if other.Status == model.TeacherStatusActive && other.ClassID != nil && *other.ClassID == *t.ClassID {
				return repository.ErrClassTaken
			}
		}
	}
	t.ID = f.db.nextID()
	f.db.teachers[t.ID] = *t
	return nil
}

func (f *fakeTeachers) Update(_ context.Context, t *model.Teacher) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	existing, ok := f.db.teachers[t.ID]
	if !ok || existing.InstitutionID != t.InstitutionID {
		return repository.ErrNotFound
	}
	// Profile update keeps the stored assignment; AssignClass owns it.
	t.ClassID = existing.ClassID
	f.db.teachers[t.ID] = *t
	return nil
}

func (f *fakeTeachers) UpdatePassword(_ context.Context, id, institutionID int, passwordHash string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.teachers[id]
	if !ok || t.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	t.PasswordHash = passwordHash
	f.db.teachers[id] = t
	return nil
}

func (f *fakeTeachers) AssignClass(_ context.Context, id, institutionID int, classID *int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	target, ok := f.db.teachers[id]
	if !ok || target.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	if classID != nil {
		// Vacate any other row pointing at the class before assigning.
		for tid, t := range f.db.teachers {
			if tid != id && t.ClassID != nil && *t.ClassID == *classID {
				t.ClassID = nil
				f.db.teachers[tid] = t
			}
		}
	}
	target.ClassID = classID
	f.db.teachers[id] = target
	return nil
}

func (f *fakeTeachers) Delete(_ context.Context, id, institutionID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.teachers[id]
	if !ok || t.InstitutionID != institutionID {
		return repository.ErrNotFound
	}
	delete(f.db.teachers, id)
	return nil
}

// ─── Fixture ────────────────────────────────────────────────────────────────

// fixture wires every service against one shared in-memory database.
type fixture struct {
	db      *memDB
	classes *fakeClasses

	guard      *Guard
	sessionSvc *SessionService
	classSvc   *ClassService
	studentSvc *StudentService
	teacherSvc *TeacherService
	promoteSvc *PromotionService

	instID int
}

func newFixture() *fixture {
	db := newMemDB()
	institutions := &fakeInstitutions{db}
	sessions := &fakeSessions{db}
	classes := &fakeClasses{db: db}
	students := &fakeStudents{db}
	teachers := &fakeTeachers{db}

	guard := NewGuard(institutions, sessions, classes)

	f := &fixture{
		db:         db,
		classes:    classes,
		guard:      guard,
		sessionSvc: NewSessionService(sessions, guard),
		classSvc:   NewClassService(classes, sessions, guard),
		studentSvc: NewStudentService(students, sessions, guard),
		teacherSvc: NewTeacherService(teachers, guard, 4),
		promoteSvc: NewPromotionService(students, sessions, classes, guard),
	}
	f.instID = f.seedInstitution("SMA Uji Coba", false)
	return f
}

func (f *fixture) seedInstitution(name string, frozen bool) int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.nextID()
	f.db.institutions[id] = model.Institution{
		ID:     id,
		Name:   name,
		Frozen: frozen,
		Status: model.InstitutionStatusActive,
	}
	return id
}

func (f *fixture) seedSession(institutionID int, name string, active, archived bool) *model.AcademicSession {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.nextID()
	s := model.AcademicSession{
		ID:            id,
		InstitutionID: institutionID,
		Name:          name,
		StartDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:      active,
		Archived:      archived,
	}
	f.db.sessions[id] = s
	return &s
}

func (f *fixture) seedClass(institutionID, sessionID int, name string, frozen bool) *model.Class {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.nextID()
	c := model.Class{
		ID:            id,
		InstitutionID: institutionID,
		SessionID:     sessionID,
		Name:          name,
		Frozen:        frozen,
		Status:        model.ClassStatusActive,
	}
	f.db.classes[id] = c
	return &c
}

func (f *fixture) seedStudent(institutionID, sessionID, classID int, nis, name string) *model.Student {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.nextID()
	s := model.Student{
		ID:            id,
		InstitutionID: institutionID,
		SessionID:     sessionID,
		ClassID:       classID,
		NIS:           nis,
		Name:          name,
		Gender:        model.GenderMale,
		Religion:      model.ReligionIslam,
	}
	f.db.students[id] = s
	return &s
}

func (f *fixture) seedTeacher(institutionID int, classID *int, name, email string) *model.Teacher {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.nextID()
	t := model.Teacher{
		ID:            id,
		InstitutionID: institutionID,
		ClassID:       classID,
		Name:          name,
		Email:         email,
		Status:        model.TeacherStatusActive,
	}
	f.db.teachers[id] = t
	return &t
}

func (f *fixture) freezeInstitution(id int) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	inst := f.db.institutions[id]
	inst.Frozen = true
	f.db.institutions[id] = inst
}
