package dto

import (
	"encoding/json"

	"github.com/noah-isme/slms-api/internal/models"
)

// SubmitAdmissionRequest is the full applicant payload of an admission.
type SubmitAdmissionRequest struct {
	models.ApplicantProfile
	DesiredDepartmentID string `json:"desiredDepartmentId" validate:"required,uuid"`
	Session             string `json:"session" validate:"required,session"`
	Shift               string `json:"shift" validate:"required,shift"`
}

// SaveDraftRequest stores an unvalidated wizard snapshot.
type SaveDraftRequest struct {
	Step int             `json:"step" validate:"gte=0,lte=20"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// ApproveAdmissionRequest carries the enrollment details a reviewer supplies.
type ApproveAdmissionRequest struct {
	CurrentRegistrationNumber string      `json:"currentRegistrationNumber" validate:"required,max=64"`
	DepartmentID              string      `json:"departmentId" validate:"omitempty,uuid"`
	Semester                  int         `json:"semester" validate:"omitempty,min=1,max=8"`
	CurrentGroup              string      `json:"currentGroup" validate:"max=32"`
	EnrollmentDate            models.Date `json:"enrollmentDate"`
	Notes                     string      `json:"notes"`
}

// RejectAdmissionRequest requires reviewer notes.
type RejectAdmissionRequest struct {
	Notes string `json:"notes"`
}

// DocumentURL is a signed, expiring download link.
type DocumentURL struct {
	Field     string `json:"field"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
