package dto

import "github.com/noah-isme/slms-api/internal/models"

// CriteriaRequest creates or replaces a stipend criteria.
type CriteriaRequest struct {
	Name            string                 `json:"name" validate:"required,max=128"`
	Description     string                 `json:"description"`
	DepartmentID    *string                `json:"departmentId" validate:"omitempty,uuid"`
	Semester        *int                   `json:"semester" validate:"omitempty,min=1,max=8"`
	Shift           *string                `json:"shift" validate:"omitempty,shift"`
	Session         *string                `json:"session" validate:"omitempty,session"`
	MinAttendance   float64                `json:"minAttendance" validate:"gte=0,lte=100"`
	MinGPA          *float64               `json:"minGpa" validate:"omitempty,gte=0,lte=4"`
	PassRequirement models.PassRequirement `json:"passRequirement" validate:"required,pass_requirement"`
	IsActive        *bool                  `json:"isActive"`
}

// CalculateRequest evaluates students against a stored criteria or ad-hoc thresholds.
// Filters left empty fall back to the criteria's own filters.
type CalculateRequest struct {
	CriteriaID      string                 `form:"criteria" validate:"omitempty,uuid"`
	MinAttendance   *float64               `form:"minAttendance" validate:"omitempty,gte=0,lte=100"`
	MinGPA          *float64               `form:"minGpa" validate:"omitempty,gte=0,lte=4"`
	PassRequirement models.PassRequirement `form:"passRequirement" validate:"omitempty,pass_requirement"`
	DepartmentID    string                 `form:"department" validate:"omitempty,uuid"`
	Semester        int                    `form:"semester" validate:"omitempty,min=1,max=8"`
	Shift           string                 `form:"shift" validate:"omitempty,shift"`
	Session         string                 `form:"session" validate:"omitempty,session"`
	Search          string                 `form:"search"`
}

// EligibilityResult is the verdict for one student.
type EligibilityResult struct {
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	RollNumber   string `json:"rollNumber"`
	DepartmentID string `json:"departmentId"`
	Semester     int    `json:"semester"`
	Shift        string `json:"shift"`
	models.EligibilityMetrics
	MissingResult bool     `json:"missingResult"`
	IsEligible    bool     `json:"isEligible"`
	Reasons       []string `json:"reasons,omitempty"`
	Rank          int      `json:"rank,omitempty"`
}

// EligibilityStats aggregates a calculation run over the eligible set.
type EligibilityStats struct {
	TotalEvaluated    int     `json:"totalEvaluated"`
	TotalEligible     int     `json:"totalEligible"`
	AverageAttendance float64 `json:"averageAttendance"`
	AverageGPA        float64 `json:"averageGpa"`
	AllPassCount      int     `json:"allPassCount"`
	ReferredCount     int     `json:"referredCount"`
}

// CalculationResult is the output of a calculate run. Eligible holds ranked students.
type CalculationResult struct {
	Criteria   models.StipendCriteria `json:"criteria"`
	Eligible   []EligibilityResult    `json:"eligible"`
	Ineligible []EligibilityResult    `json:"ineligible"`
	Stats      EligibilityStats       `json:"stats"`
}

// SaveEligibilityRequest persists snapshots for the given students.
type SaveEligibilityRequest struct {
	CriteriaID string   `json:"criteriaId" validate:"required,uuid"`
	StudentIDs []string `json:"studentIds" validate:"required,min=1,max=2000,dive,uuid"`
}
