package model

import "time"

// AcademicSession represents a named, dated academic period (tahun ajaran)
// scoped to one institution. At most one session per institution is active
// at any instant; the database enforces this with a partial unique index and
// the lifecycle service sequences activation atomically.
type AcademicSession struct {
	ID            int        `json:"id"`
	InstitutionID int        `json:"institution_id"`
	Name          string     `json:"name"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	IsActive      bool       `json:"is_active"`
	Archived      bool       `json:"archived"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateSessionRequest is the payload for creating an academic session.
// Dates use the YYYY-MM-DD form. When Activate is set, creation and the
// deactivation of the currently active session happen as one atomic unit.
type CreateSessionRequest struct {
	Name      string `json:"name" binding:"required,min=4,max=50"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Activate  bool   `json:"activate"`
}
