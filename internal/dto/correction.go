package dto

// CreateCorrectionRequest asks for one student field to change.
type CreateCorrectionRequest struct {
	StudentID           string   `json:"studentId" validate:"required,uuid"`
	FieldName           string   `json:"fieldName" validate:"required"`
	RequestedValue      string   `json:"requestedValue" validate:"required"`
	Reason              string   `json:"reason" validate:"required"`
	SupportingDocuments []string `json:"supportingDocuments"`
}

// ReviewCorrectionRequest carries reviewer notes.
type ReviewCorrectionRequest struct {
	Notes string `json:"notes"`
}
