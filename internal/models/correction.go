package models

import (
	"database/sql/driver"
	"time"
)

// CorrectionStatus captures workflow states for correction requests.
type CorrectionStatus string

const (
	CorrectionStatusPending  CorrectionStatus = "pending"
	CorrectionStatusApproved CorrectionStatus = "approved"
	CorrectionStatusRejected CorrectionStatus = "rejected"
)

// DocumentList is a JSON array of stored document paths.
type DocumentList []string

func (l DocumentList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return jsonValue([]string(l))
}

func (l *DocumentList) Scan(src interface{}) error {
	var out []string
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// CorrectionRequest asks for one field of a student record to be changed.
type CorrectionRequest struct {
	ID                  string           `db:"id" json:"id"`
	StudentID           string           `db:"student_id" json:"studentId"`
	RequestedBy         string           `db:"requested_by" json:"requestedBy"`
	FieldName           string           `db:"field_name" json:"fieldName"`
	CurrentValue        string           `db:"current_value" json:"currentValue"`
	RequestedValue      string           `db:"requested_value" json:"requestedValue"`
	Reason              string           `db:"reason" json:"reason"`
	SupportingDocuments DocumentList     `db:"supporting_documents" json:"supportingDocuments"`
	Status              CorrectionStatus `db:"status" json:"status"`
	ReviewedBy          *string          `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt          *time.Time       `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewNotes         *string          `db:"review_notes" json:"reviewNotes,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updatedAt"`
}

// CorrectionFilter constrains listing queries.
type CorrectionFilter struct {
	Status      []CorrectionStatus
	StudentID   string
	RequestedBy string
	Limit       int
	Offset      int
}
