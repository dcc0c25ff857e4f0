package models

import "time"

// PassRequirement bounds how many referred subjects a stipend allows.
type PassRequirement string

const (
	PassAllPass     PassRequirement = "all_pass"
	PassOneReferred PassRequirement = "1_referred"
	PassTwoReferred PassRequirement = "2_referred"
	PassAny         PassRequirement = "any"
)

// StipendCriteria defines who qualifies for a stipend.
type StipendCriteria struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	DepartmentID    *string         `db:"department_id" json:"departmentId,omitempty"`
	Semester        *int            `db:"semester" json:"semester,omitempty"`
	Shift           *string         `db:"shift" json:"shift,omitempty"`
	Session         *string         `db:"session" json:"session,omitempty"`
	MinAttendance   float64         `db:"min_attendance" json:"minAttendance"`
	MinGPA          *float64        `db:"min_gpa" json:"minGpa,omitempty"`
	PassRequirement PassRequirement `db:"pass_requirement" json:"passRequirement"`
	IsActive        bool            `db:"is_active" json:"isActive"`
	CreatedBy       *string         `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// EligibilityMetrics are the derived values an eligibility verdict is based on.
type EligibilityMetrics struct {
	AttendancePercentage float64 `db:"attendance_percentage" json:"attendancePercentage"`
	GPA                  float64 `db:"gpa" json:"gpa"`
	CGPA                 float64 `db:"cgpa" json:"cgpa"`
	ReferredSubjects     int     `db:"referred_subjects" json:"referredSubjects"`
	TotalSubjects        int     `db:"total_subjects" json:"totalSubjects"`
	PassedSubjects       int     `db:"passed_subjects" json:"passedSubjects"`
}

// StipendEligibility is a persisted eligibility snapshot for (student, criteria).
type StipendEligibility struct {
	ID         string `db:"id" json:"id"`
	StudentID  string `db:"student_id" json:"studentId"`
	CriteriaID string `db:"criteria_id" json:"criteriaId"`
	EligibilityMetrics
	Rank        *int       `db:"rank" json:"rank,omitempty"`
	IsEligible  bool       `db:"is_eligible" json:"isEligible"`
	IsApproved  bool       `db:"is_approved" json:"isApproved"`
	ApprovedBy  *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	EvaluatedAt time.Time  `db:"evaluated_at" json:"evaluatedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	StudentName string `db:"student_name" json:"studentName,omitempty"`
	RollNumber  string `db:"roll_number" json:"rollNumber,omitempty"`
}
