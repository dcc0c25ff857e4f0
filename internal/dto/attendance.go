package dto

import "github.com/noah-isme/slms-api/internal/models"

// AttendanceEntry is one record of a bulk attendance write.
type AttendanceEntry struct {
	StudentID      string       `json:"studentId" validate:"required,uuid"`
	SubjectCode    string       `json:"subjectCode" validate:"max=32"`
	SubjectName    string       `json:"subjectName"`
	Semester       int          `json:"semester" validate:"omitempty,min=1,max=8"`
	ClassRoutineID *string      `json:"classRoutineId" validate:"omitempty,uuid"`
	Date           *models.Date `json:"date"`
	IsPresent      bool         `json:"isPresent"`
}

// RecordAttendanceRequest writes one or many records; routine and date act as defaults.
type RecordAttendanceRequest struct {
	ClassRoutineID *string           `json:"classRoutineId" validate:"omitempty,uuid"`
	Date           *models.Date      `json:"date"`
	Draft          bool              `json:"draft"`
	Records        []AttendanceEntry `json:"records" validate:"required,min=1,max=500,dive"`
}

// SkippedAttendance explains why an entry was not written.
type SkippedAttendance struct {
	StudentID string `json:"studentId"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
}

// RecordAttendanceResult lists saved and skipped entries.
type RecordAttendanceResult struct {
	Saved   []models.AttendanceRecord `json:"saved"`
	Skipped []SkippedAttendance       `json:"skipped"`
}

// AttendanceDecisionRequest approves or rejects pending records in one batch.
type AttendanceDecisionRequest struct {
	Action          string   `json:"action" validate:"required,oneof=approve reject"`
	AttendanceIDs   []string `json:"attendance_ids" validate:"required,min=1,max=500,dive,uuid"`
	RejectionReason string   `json:"rejection_reason"`
}

// SubmitAttendanceRequest promotes drafts to pending.
type SubmitAttendanceRequest struct {
	AttendanceIDs []string `json:"attendance_ids" validate:"required,min=1,max=500,dive,uuid"`
}

// AttendanceDecisionResult reports how many records moved.
type AttendanceDecisionResult struct {
	Action  string `json:"action"`
	Updated int64  `json:"updated"`
}

// CreateRoutineRequest defines a weekly class slot.
type CreateRoutineRequest struct {
	DepartmentID string  `json:"departmentId" validate:"required,uuid"`
	Session      string  `json:"session" validate:"required,session"`
	Semester     int     `json:"semester" validate:"required,min=1,max=8"`
	Shift        string  `json:"shift" validate:"required,shift"`
	SubjectCode  string  `json:"subjectCode" validate:"required,max=32"`
	SubjectName  string  `json:"subjectName" validate:"required"`
	TeacherID    *string `json:"teacherId" validate:"omitempty,uuid"`
	DayOfWeek    int     `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime    string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime      string  `json:"endTime" validate:"required,datetime=15:04"`
}
