package model

import "time"

// TeacherStatus enumerates teacher lifecycle states.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
)

// Teacher represents a staff member of one institution, optionally assigned
// as homeroom teacher (wali kelas) of one class. Two standing invariants
// hold: at most one active teacher references a given class, and a teacher
// identity (matched by email) is assigned to at most one class within the
// institution's active session.
type Teacher struct {
	ID            int           `json:"id"`
	InstitutionID int           `json:"institution_id"`
	ClassID       *int          `json:"class_id,omitempty"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	PasswordHash  string        `json:"-"`
	Status        TeacherStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreateTeacherRequest is the payload for creating a new teacher account.
type CreateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	ClassID  *int   `json:"class_id"`
}

// UpdateTeacherRequest is the payload for updating an existing teacher.
// ClassID nil vacates the current assignment.
type UpdateTeacherRequest struct {
	Name     string        `json:"name" binding:"required,min=2,max=100"`
	Email    string        `json:"email" binding:"required,email,max=255"`
	Phone    string        `json:"phone" binding:"omitempty,max=30"`
	Password string        `json:"password" binding:"omitempty,min=6,max=128"`
	Status   TeacherStatus `json:"status" binding:"required,oneof=active inactive"`
	ClassID  *int          `json:"class_id"`
}
