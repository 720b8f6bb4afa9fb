package model

import "time"

// Gender represents the student's gender.
type Gender string

const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

// Religion represents the student's recognized religion.
type Religion string

const (
	ReligionIslam    Religion = "Islam"
	ReligionKristen  Religion = "Kristen"
	ReligionKatolik  Religion = "Katolik"
	ReligionHindu    Religion = "Hindu"
	ReligionBuddha   Religion = "Buddha"
	ReligionKonghucu Religion = "Konghucu"
)

// Student represents a student record within one academic session.
// NIS is unique per (institution, session); the same NIS may recur across
// sessions of the same institution. SessionID is immutable after creation;
// moving a student into another session only happens through promotion,
// which inserts a new record and leaves this one untouched.
type Student struct {
	ID             int       `json:"id"`
	InstitutionID  int       `json:"institution_id"`
	SessionID      int       `json:"session_id"`
	ClassID        int       `json:"class_id"`
	NIS            string    `json:"nis"`
	Name           string    `json:"name"`
	Gender         Gender    `json:"gender"`
	Religion       Religion  `json:"religion"`
	GuardianFather string    `json:"guardian_father"`
	GuardianMother string    `json:"guardian_mother"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student record.
// The record is pinned to the institution's active session; no session field
// is accepted.
type CreateStudentRequest struct {
	NIS            string   `json:"nis" binding:"required,min=4,max=30"`
	Name           string   `json:"name" binding:"required,min=2,max=100"`
	Gender         Gender   `json:"gender" binding:"required,oneof=Laki-laki Perempuan"`
	Religion       Religion `json:"religion" binding:"required,oneof=Islam Kristen Katolik Hindu Buddha Konghucu"`
	GuardianFather string   `json:"guardian_father" binding:"omitempty,max=100"`
	GuardianMother string   `json:"guardian_mother" binding:"omitempty,max=100"`
	Phone          string   `json:"phone" binding:"omitempty,max=30"`
	Address        string   `json:"address" binding:"omitempty,max=500"`
	ClassID        int      `json:"class_id" binding:"required"`
}

// UpdateStudentRequest is the payload for updating an existing student.
// Any session field in the incoming JSON is simply not represented here and
// therefore dropped.
type UpdateStudentRequest struct {
	NIS            string   `json:"nis" binding:"required,min=4,max=30"`
	Name           string   `json:"name" binding:"required,min=2,max=100"`
	Gender         Gender   `json:"gender" binding:"required,oneof=Laki-laki Perempuan"`
	Religion       Religion `json:"religion" binding:"required,oneof=Islam Kristen Katolik Hindu Buddha Konghucu"`
	GuardianFather string   `json:"guardian_father" binding:"omitempty,max=100"`
	GuardianMother string   `json:"guardian_mother" binding:"omitempty,max=100"`
	Phone          string   `json:"phone" binding:"omitempty,max=30"`
	Address        string   `json:"address" binding:"omitempty,max=500"`
	ClassID        int      `json:"class_id" binding:"required"`
}
