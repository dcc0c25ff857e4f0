package dto

// DepartmentRequest creates or updates a department.
type DepartmentRequest struct {
	Code            string `json:"code" validate:"required,alphanum,max=10"`
	Name            string `json:"name" validate:"required,max=128"`
	Head            string `json:"head" validate:"max=128"`
	EstablishedYear *int   `json:"establishedYear" validate:"omitempty,min=1900,max=2100"`
}
