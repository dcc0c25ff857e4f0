package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Unique constraint names referenced by services to classify conflicts.
const (
	ConstraintDepartmentCode        = "departments_code_key"
	ConstraintDepartmentName        = "departments_name_key"
	ConstraintAdmissionUserSubmit   = "admissions_user_submitted_key"
	ConstraintAdmissionUserDraft    = "admissions_user_draft_key"
	ConstraintAdmissionApplication  = "admissions_application_id_key"
	ConstraintStudentRollNumber     = "students_current_roll_number_key"
	ConstraintStudentRegistration   = "students_current_registration_number_key"
	ConstraintAlumniStudent         = "alumni_student_id_key"
	ConstraintMarksUnique           = "marks_records_unique_key"
	ConstraintCorrectionPending     = "correction_requests_pending_key"
	ConstraintStipendCriteriaName   = "stipend_criteria_name_key"
	ConstraintAttendanceRoutineDate = "attendance_routine_unique"
	ConstraintAttendanceSubjectDate = "attendance_subject_unique"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique violation, optionally on one
// of the given constraints.
func IsUniqueViolation(err error, constraints ...string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pqUniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, name := range constraints {
		if pqErr.Constraint == name {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation
}
