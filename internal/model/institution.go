package model

import "time"

// InstitutionStatus enumerates institution lifecycle states.
type InstitutionStatus string

const (
	InstitutionStatusActive   InstitutionStatus = "active"
	InstitutionStatusDisabled InstitutionStatus = "disabled"
)

// Institution is the tenant root. Every session, class, student and teacher
// belongs to exactly one institution, and every query is scoped by its id.
type Institution struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Frozen is the institution-wide read-only switch. While set, every
	// mutating operation on the institution's data is rejected.
	Frozen    bool              `json:"frozen"`
	Status    InstitutionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateInstitutionRequest is the payload for registering a new institution.
type CreateInstitutionRequest struct {
	Name string `json:"name" binding:"required,min=3,max=150"`
}
