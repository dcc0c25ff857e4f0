package models

import "time"

// AttendanceStatus is the workflow state of an attendance record.
type AttendanceStatus string

const (
	AttendanceStatusDraft    AttendanceStatus = "draft"
	AttendanceStatusPending  AttendanceStatus = "pending"
	AttendanceStatusApproved AttendanceStatus = "approved"
	AttendanceStatusRejected AttendanceStatus = "rejected"
	AttendanceStatusDirect   AttendanceStatus = "direct"
)

// Authoritative reports whether the record counts in student-visible aggregates.
func (s AttendanceStatus) Authoritative() bool {
	return s == AttendanceStatusApproved || s == AttendanceStatusDirect
}

// AuthoritativeAttendanceStatuses lists the statuses counted by summaries.
var AuthoritativeAttendanceStatuses = []AttendanceStatus{AttendanceStatusApproved, AttendanceStatusDirect}

// AttendanceRecord captures presence of one student for one subject on one date.
type AttendanceRecord struct {
	ID              string           `db:"id" json:"id"`
	StudentID       string           `db:"student_id" json:"studentId"`
	SubjectCode     string           `db:"subject_code" json:"subjectCode"`
	SubjectName     string           `db:"subject_name" json:"subjectName"`
	Semester        int              `db:"semester" json:"semester"`
	ClassRoutineID  *string          `db:"class_routine_id" json:"classRoutineId,omitempty"`
	Date            Date             `db:"date" json:"date"`
	IsPresent       bool             `db:"is_present" json:"isPresent"`
	Status          AttendanceStatus `db:"status" json:"status"`
	RecordedBy      string           `db:"recorded_by" json:"recordedBy"`
	ApprovedBy      *string          `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time       `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason *string          `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// AttendanceFilter constrains attendance listings.
type AttendanceFilter struct {
	StudentID      string
	SubjectCode    string
	ClassRoutineID string
	Semester       int
	RecordedBy     string
	Statuses       []AttendanceStatus
	From           *Date
	To             *Date
	Limit          int
	Offset         int
}

// SubjectAttendanceSummary is the per-subject aggregate shown to students.
type SubjectAttendanceSummary struct {
	SubjectCode string  `db:"subject_code" json:"subjectCode"`
	SubjectName string  `db:"subject_name" json:"subjectName"`
	Total       int     `db:"total" json:"total"`
	Present     int     `db:"present" json:"present"`
	Percentage  float64 `db:"-" json:"percentage"`
}

// ClassRoutine is a weekly timetable slot that attendance can reference.
type ClassRoutine struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"departmentId"`
	Session      string    `db:"session" json:"session"`
	Semester     int       `db:"semester" json:"semester"`
	Shift        string    `db:"shift" json:"shift"`
	SubjectCode  string    `db:"subject_code" json:"subjectCode"`
	SubjectName  string    `db:"subject_name" json:"subjectName"`
	TeacherID    *string   `db:"teacher_id" json:"teacherId,omitempty"`
	DayOfWeek    int       `db:"day_of_week" json:"dayOfWeek"`
	StartTime    string    `db:"start_time" json:"startTime"`
	EndTime      string    `db:"end_time" json:"endTime"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ClassRoutineFilter constrains routine listings.
type ClassRoutineFilter struct {
	DepartmentID string
	Session      string
	Semester     int
	Shift        string
}
