package dto

import "github.com/noah-isme/slms-api/internal/models"

// UpdateStudentRequest is a partial update of enrollment and contact fields.
type UpdateStudentRequest struct {
	Semester           *int                  `json:"semester" validate:"omitempty,min=1,max=8"`
	Status             *models.StudentStatus `json:"status" validate:"omitempty,oneof=active inactive graduated discontinued"`
	Shift              *string               `json:"shift" validate:"omitempty,shift"`
	CurrentGroup       *string               `json:"currentGroup" validate:"omitempty,max=32"`
	DiscontinuedReason *string               `json:"discontinuedReason"`
	LastSemester       *int                  `json:"lastSemester" validate:"omitempty,min=1,max=8"`
	Email              *string               `json:"email" validate:"omitempty,email"`
	MobileStudent      *string               `json:"mobileStudent" validate:"omitempty,mobile11"`
	GuardianMobile     *string               `json:"guardianMobile" validate:"omitempty,mobile11"`
	PresentAddress     *models.Address       `json:"presentAddress" validate:"omitempty"`
}

// RecordResultResponse reports the student after a result write.
type RecordResultResponse struct {
	Student        *models.Student `json:"student"`
	AlumniEligible bool            `json:"alumniEligible"`
}

// PromoteStudentRequest creates the alumni profile of a student.
type PromoteStudentRequest struct {
	AlumniType      models.AlumniType      `json:"alumniType" validate:"required,oneof=recent established"`
	GraduationYear  int                    `json:"graduationYear" validate:"required,min=2000,max=2100"`
	SupportCategory models.SupportCategory `json:"supportCategory" validate:"required,oneof=no_support_needed need_extra_support low_income job_seeking higher_education_support"`
	Notes           string                 `json:"notes"`
}

// ClassRank is the position of a student in its section.
type ClassRank struct {
	StudentID string  `json:"studentId"`
	Rank      int     `json:"rank"`
	Of        int     `json:"of"`
	GPA       float64 `json:"gpa"`
}

// FixOrphansResult lists students reverted to active.
type FixOrphansResult struct {
	Repaired []string `json:"repaired"`
}
