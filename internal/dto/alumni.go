package dto

import "github.com/noah-isme/slms-api/internal/models"

// UpdateAlumniRequest is a partial update of profile fields.
type UpdateAlumniRequest struct {
	AlumniType   *models.AlumniType `json:"alumniType" validate:"omitempty,oneof=recent established"`
	Bio          *string            `json:"bio" validate:"omitempty,max=2000"`
	CurrentEmail *string            `json:"currentEmail" validate:"omitempty,email"`
	CurrentPhone *string            `json:"currentPhone" validate:"omitempty,mobile11"`
	LinkedInURL  *string            `json:"linkedinUrl" validate:"omitempty,url"`
}

// ChangeSupportRequest moves an alumnus to another support category.
type ChangeSupportRequest struct {
	Category models.SupportCategory `json:"category" validate:"required"`
	Notes    string                 `json:"notes"`
}
