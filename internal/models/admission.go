package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AdmissionStatus captures the review state of a submitted admission.
type AdmissionStatus string

const (
	AdmissionStatusPending  AdmissionStatus = "pending"
	AdmissionStatusApproved AdmissionStatus = "approved"
	AdmissionStatusRejected AdmissionStatus = "rejected"
)

// Shift values shared by admissions, students and routines.
const (
	ShiftMorning = "Morning"
	ShiftDay     = "Day"
	ShiftEvening = "Evening"
)

// DocumentMap maps an upload field name to its stored relative path.
type DocumentMap map[string]string

// Value implements driver.Valuer.
func (m DocumentMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return jsonValue(map[string]string(m))
}

// Scan implements sql.Scanner.
func (m *DocumentMap) Scan(src interface{}) error {
	out := map[string]string{}
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// DraftPayload is the unvalidated JSON a user saves between wizard steps.
type DraftPayload json.RawMessage

// Value implements driver.Valuer.
func (p DraftPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return []byte(p), nil
}

// Scan implements sql.Scanner.
func (p *DraftPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append((*p)[:0], v...)
	case string:
		*p = DraftPayload(v)
	}
	return nil
}

// MarshalJSON emits the stored document as-is.
func (p DraftPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

// UnmarshalJSON keeps the raw document.
func (p *DraftPayload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)
	return nil
}

// Admission is an application for enrollment. A user owns at most one submitted
// admission and at most one draft, never both at once.
type Admission struct {
	ID            string       `db:"id" json:"id"`
	ApplicationID string       `db:"application_id" json:"applicationId"`
	UserID        string       `db:"user_id" json:"userId"`
	IsDraft       bool         `db:"is_draft" json:"isDraft"`
	DraftStep     int          `db:"draft_step" json:"draftStep"`
	DraftData     DraftPayload `db:"draft_data" json:"draftData,omitempty"`
	ApplicantProfile
	DesiredDepartmentID *string         `db:"desired_department_id" json:"desiredDepartmentId,omitempty"`
	Session             string          `db:"session" json:"session"`
	Shift               string          `db:"shift" json:"shift"`
	Documents           DocumentMap     `db:"documents" json:"documents"`
	Status              AdmissionStatus `db:"status" json:"status"`
	SubmittedAt         *time.Time      `db:"submitted_at" json:"submittedAt,omitempty"`
	ReviewedAt          *time.Time      `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewedBy          *string         `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewNotes         *string         `db:"review_notes" json:"reviewNotes,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updatedAt"`
}

// AdmissionFilter constrains staff listings.
type AdmissionFilter struct {
	Status       AdmissionStatus
	DepartmentID string
	Session      string
	Search       string
	Page         int
	PageSize     int
}
