package model

import "time"

// ClassStatus enumerates class lifecycle states.
type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusInactive ClassStatus = "inactive"
)

// Class represents a school class group within one academic session.
// Name is unique per (institution, session). A frozen class rejects every
// create/update/delete of its students and every teacher assignment
// targeting it; freeze is independent of session archival.
type Class struct {
	ID            int         `json:"id"`
	InstitutionID int         `json:"institution_id"`
	SessionID     int         `json:"session_id"`
	Name          string      `json:"name"`
	Frozen        bool        `json:"frozen"`
	Status        ClassStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CreateClassRequest is the payload for creating or updating a class.
// New classes are always pinned to the institution's active session.
type CreateClassRequest struct {
	Name   string      `json:"name" binding:"required,min=1,max=50"`
	Status ClassStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}
