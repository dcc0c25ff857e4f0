package models

import (
	"database/sql/driver"
	"sort"
	"time"
)

// StudentStatus captures the enrollment state of a student.
type StudentStatus string

const (
	StudentStatusActive       StudentStatus = "active"
	StudentStatusInactive     StudentStatus = "inactive"
	StudentStatusGraduated    StudentStatus = "graduated"
	StudentStatusDiscontinued StudentStatus = "discontinued"
)

// FinalSemester is the last semester of the diploma programme.
const FinalSemester = 8

// ResultType classifies a semester outcome.
type ResultType string

const (
	ResultTypeGPA      ResultType = "gpa"
	ResultTypeFailed   ResultType = "failed"
	ResultTypeReferred ResultType = "referred"
)

// SubjectGrade is one graded subject inside a semester result.
type SubjectGrade struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name"`
	Credit     float64 `json:"credit" validate:"gte=0"`
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"gradePoint" validate:"gte=0,lte=4"`
}

// SemesterResult is the published outcome of one semester.
type SemesterResult struct {
	Semester         int            `json:"semester" validate:"required,min=1,max=8"`
	Year             int            `json:"year" validate:"required,min=2000,max=2100"`
	ResultType       ResultType     `json:"resultType" validate:"required,oneof=gpa failed referred"`
	GPA              float64        `json:"gpa" validate:"gte=0,lte=4"`
	CGPA             *float64       `json:"cgpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	Subjects         []SubjectGrade `json:"subjects" validate:"dive"`
	ReferredSubjects []string       `json:"referredSubjects"`
}

// Completed reports whether the semester was passed with a GPA.
func (r SemesterResult) Completed() bool {
	return r.ResultType == ResultTypeGPA
}

// EffectiveCGPA falls back to the semester GPA when no CGPA was published.
func (r SemesterResult) EffectiveCGPA() float64 {
	if r.CGPA != nil {
		return *r.CGPA
	}
	return r.GPA
}

// SemesterResults is the ordered result history of a student.
type SemesterResults []SemesterResult

// Value implements driver.Valuer.
func (r SemesterResults) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return jsonValue([]SemesterResult(r))
}

// Scan implements sql.Scanner.
func (r *SemesterResults) Scan(src interface{}) error {
	var out []SemesterResult
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*r = out
	return nil
}

// For returns the entry for a semester.
func (r SemesterResults) For(semester int) (SemesterResult, bool) {
	for _, entry := range r {
		if entry.Semester == semester {
			return entry, true
		}
	}
	return SemesterResult{}, false
}

// Latest returns the entry with the highest semester number.
func (r SemesterResults) Latest() (SemesterResult, bool) {
	if len(r) == 0 {
		return SemesterResult{}, false
	}
	latest := r[0]
	for _, entry := range r[1:] {
		if entry.Semester > latest.Semester {
			latest = entry
		}
	}
	return latest, true
}

// Upsert replaces the entry for result.Semester or appends it, keeping the list ordered.
func (r SemesterResults) Upsert(result SemesterResult) SemesterResults {
	out := make(SemesterResults, 0, len(r)+1)
	for _, entry := range r {
		if entry.Semester != result.Semester {
			out = append(out, entry)
		}
	}
	out = append(out, result)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Semester < out[j].Semester })
	return out
}

// AllCompleted reports whether semesters 1..FinalSemester all have a completed result.
func (r SemesterResults) AllCompleted() bool {
	for sem := 1; sem <= FinalSemester; sem++ {
		entry, ok := r.For(sem)
		if !ok || !entry.Completed() {
			return false
		}
	}
	return true
}

// SubjectAttendance aggregates presence for one subject in a semester.
type SubjectAttendance struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name"`
	Present    int     `json:"present" validate:"gte=0"`
	Total      int     `json:"total" validate:"gte=0"`
	Percentage float64 `json:"percentage"`
}

// SemesterAttendance is the attendance summary of one semester.
type SemesterAttendance struct {
	Semester          int                 `json:"semester" validate:"required,min=1,max=8"`
	Year              int                 `json:"year" validate:"required,min=2000,max=2100"`
	Subjects          []SubjectAttendance `json:"subjects" validate:"dive"`
	AveragePercentage *float64            `json:"averagePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// SemesterAttendances is the ordered attendance history of a student.
type SemesterAttendances []SemesterAttendance

// Value implements driver.Valuer.
func (a SemesterAttendances) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return jsonValue([]SemesterAttendance(a))
}

// Scan implements sql.Scanner.
func (a *SemesterAttendances) Scan(src interface{}) error {
	var out []SemesterAttendance
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

// For returns the entry for a semester.
func (a SemesterAttendances) For(semester int) (SemesterAttendance, bool) {
	for _, entry := range a {
		if entry.Semester == semester {
			return entry, true
		}
	}
	return SemesterAttendance{}, false
}

// Upsert replaces the entry for entry.Semester or appends it, keeping the list ordered.
func (a SemesterAttendances) Upsert(entry SemesterAttendance) SemesterAttendances {
	out := make(SemesterAttendances, 0, len(a)+1)
	for _, existing := range a {
		if existing.Semester != entry.Semester {
			out = append(out, existing)
		}
	}
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Semester < out[j].Semester })
	return out
}

// Student is the aggregate root of an enrolled student.
type Student struct {
	ID          string  `db:"id" json:"id"`
	UserID      *string `db:"user_id" json:"userId,omitempty"`
	AdmissionID *string `db:"admission_id" json:"admissionId,omitempty"`
	ApplicantProfile
	DepartmentID              string              `db:"department_id" json:"departmentId"`
	Session                   string              `db:"session" json:"session"`
	Shift                     string              `db:"shift" json:"shift"`
	CurrentGroup              string              `db:"current_group" json:"currentGroup"`
	Semester                  int                 `db:"semester" json:"semester"`
	EnrollmentDate            Date                `db:"enrollment_date" json:"enrollmentDate"`
	CurrentRollNumber         string              `db:"current_roll_number" json:"currentRollNumber"`
	CurrentRegistrationNumber string              `db:"current_registration_number" json:"currentRegistrationNumber"`
	Status                    StudentStatus       `db:"status" json:"status"`
	SemesterResults           SemesterResults     `db:"semester_results" json:"semesterResults"`
	SemesterAttendance        SemesterAttendances `db:"semester_attendance" json:"semesterAttendance"`
	DiscontinuedReason        *string             `db:"discontinued_reason" json:"discontinuedReason,omitempty"`
	LastSemester              *int                `db:"last_semester" json:"lastSemester,omitempty"`
	CreatedAt                 time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt                 time.Time           `db:"updated_at" json:"updatedAt"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	DepartmentID string
	Semester     int
	Shift        string
	Session      string
	Status       StudentStatus
	Search       string
	Page         int
	PageSize     int
}
