package models

import "time"

// UserRole represents the roles issued by the auth service.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	RoleCaptain UserRole = "CAPTAIN"
)

// StudentEligible reports whether the role may apply for admission.
func (r UserRole) StudentEligible() bool {
	return r == RoleStudent || r == RoleCaptain
}

// Staff reports whether the role reviews academic workflows.
func (r UserRole) Staff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// UserAdmissionStatus mirrors the state of a user's admission on the user row.
type UserAdmissionStatus string

const (
	UserAdmissionNotStarted UserAdmissionStatus = "not_started"
	UserAdmissionPending    UserAdmissionStatus = "pending"
	UserAdmissionApproved   UserAdmissionStatus = "approved"
	UserAdmissionRejected   UserAdmissionStatus = "rejected"
)

// User is the local projection of an account managed by the auth service.
type User struct {
	ID               string              `db:"id" json:"id"`
	Email            string              `db:"email" json:"email"`
	FullName         string              `db:"full_name" json:"fullName"`
	Role             UserRole            `db:"role" json:"role"`
	StudentID        *string             `db:"student_id" json:"studentId,omitempty"`
	AdmissionStatus  UserAdmissionStatus `db:"admission_status" json:"admissionStatus"`
	RelatedProfileID *string             `db:"related_profile_id" json:"relatedProfileId,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updatedAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
