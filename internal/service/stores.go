package service

import (
	"context"
	"time"

	"github.com/stemsi/siakad-backend/internal/model"
)

// Store interfaces consumed by the services. The concrete implementations
// live in internal/repository; tests substitute in-memory fakes.

// InstitutionStore persists institutions.
type InstitutionStore interface {
	GetByID(ctx context.Context, id int) (*model.Institution, error)
	List(ctx context.Context) ([]model.Institution, error)
	Create(ctx context.Context, i *model.Institution) error
	SetFrozen(ctx context.Context, id int, frozen bool) error
	SetStatus(ctx context.Context, id int, status model.InstitutionStatus) error
}

// SessionStore persists academic sessions and owns the "at most one active
// session per institution" constraint.
type SessionStore interface {
	GetByID(ctx context.Context, id, institutionID int) (*model.AcademicSession, error)
	GetActive(ctx context.Context, institutionID int) (*model.AcademicSession, error)
	NameExists(ctx context.Context, institutionID int, name string, excludeID int) (bool, error)
	List(ctx context.Context, institutionID int) ([]model.AcademicSession, error)
	Create(ctx context.Context, s *model.AcademicSession, activate bool) error
	ActivateExclusive(ctx context.Context, id, institutionID int) error
	Deactivate(ctx context.Context, id, institutionID int) error
	SetArchived(ctx context.Context, id, institutionID int, archived bool, archivedAt *time.Time) error
}

// ClassStore persists classes.
type ClassStore interface {
	GetByID(ctx context.Context, id, institutionID int) (*model.Class, error)
	GetByName(ctx context.Context, institutionID, sessionID int, name string) (*model.Class, error)
	ListBySession(ctx context.Context, institutionID, sessionID int) ([]model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	SetFrozen(ctx context.Context, id, institutionID int, frozen bool) error
	Delete(ctx context.Context, id, institutionID int) error
}

// StudentStore persists students.
type StudentStore interface {
	GetByID(ctx context.Context, id, institutionID int) (*model.Student, error)
	NISExists(ctx context.Context, institutionID, sessionID int, nis string, excludeID int) (bool, error)
	ListPaginated(ctx context.Context, institutionID, sessionID int, classID *int, limit, offset int) ([]model.Student, int, error)
	ListBySession(ctx context.Context, institutionID, sessionID int) ([]model.Student, error)
	ListByIDs(ctx context.Context, institutionID int, ids []int) ([]model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id, institutionID int) error
}

// TeacherStore persists teachers and owns the atomic vacate-then-assign
// sequence.
type TeacherStore interface {
	GetByID(ctx context.Context, id, institutionID int) (*model.Teacher, error)
	FindActiveByClass(ctx context.Context, institutionID, classID int) (*model.Teacher, error)
	FindAssignedByEmail(ctx context.Context, institutionID int, email string, sessionID, excludeID int) (*model.Teacher, error)
	ListPaginated(ctx context.Context, institutionID, limit, offset int) ([]model.Teacher, int, error)
	Create(ctx context.Context, t *model.Teacher) error
	Update(ctx context.Context, t *model.Teacher) error
	UpdatePassword(ctx context.Context, id, institutionID int, passwordHash string) error
	AssignClass(ctx context.Context, id, institutionID int, classID *int) error
	Delete(ctx context.Context, id, institutionID int) error
}

// AdminStore persists admin accounts.
type AdminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}
