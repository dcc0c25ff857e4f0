package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

const studentColumns = `id, user_id, admission_id, ` + profileColumns + `,
	department_id, session, shift, current_group, semester, enrollment_date, current_roll_number,
	current_registration_number, status, semester_results, semester_attendance, discontinued_reason, last_semester,
	created_at, updated_at`

// correctableColumns maps correction field names onto student columns that may be rewritten.
var correctableColumns = map[string]string{
	"full_name_bangla":     "full_name_bangla",
	"full_name_english":    "full_name_english",
	"father_name":          "father_name",
	"father_nid":           "father_nid",
	"mother_name":          "mother_name",
	"mother_nid":           "mother_nid",
	"date_of_birth":        "date_of_birth",
	"birth_certificate_no": "birth_certificate_no",
	"gender":               "gender",
	"religion":             "religion",
	"blood_group":          "blood_group",
	"nationality":          "nationality",
	"email":                "email",
	"mobile_student":       "mobile_student",
	"guardian_name":        "guardian_name",
	"guardian_relation":    "guardian_relation",
	"guardian_mobile":      "guardian_mobile",
	"ssc_board":            "ssc_board",
	"ssc_roll":             "ssc_roll",
	"ssc_registration":     "ssc_registration",
	"ssc_group":            "ssc_group",
	"ssc_institution":      "ssc_institution",
	"current_group":        "current_group",
	"shift":                "shift",
}

// CorrectableField reports whether a correction request may target field.
func CorrectableField(field string) bool {
	_, ok := correctableColumns[field]
	return ok
}

// StudentRepository manages persistence for the student aggregate.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	if student.SemesterResults == nil {
		student.SemesterResults = models.SemesterResults{}
	}
	if student.SemesterAttendance == nil {
		student.SemesterAttendance = models.SemesterAttendances{}
	}
	query := `INSERT INTO students (id, user_id, admission_id, ` + profileColumns + `,
	department_id, session, shift, current_group, semester, enrollment_date, current_roll_number,
	current_registration_number, status, semester_results, semester_attendance, created_at, updated_at)
	VALUES (:id, :user_id, :admission_id, ` + profileBindings + `,
	:department_id, :session, :shift, :current_group, :semester, :enrollment_date, :current_roll_number,
	:current_registration_number, :status, :semester_results, :semester_attendance, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) get(ctx context.Context, suffix string, args ...interface{}) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + suffix
	var student models.Student
	if err := conn(ctx, r.db).GetContext(ctx, &student, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.get(ctx, `id = $1`, id)
}

// FindByIDForUpdate fetches and row-locks a student inside the current transaction.
func (r *StudentRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return r.get(ctx, `id = $1 FOR UPDATE`, id)
}

// FindByUserID returns the student profile linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.get(ctx, `user_id = $1`, userID)
}

func applyStudentFilter(builder squirrel.SelectBuilder, filter models.StudentFilter) squirrel.SelectBuilder {
	if filter.DepartmentID != "" {
		builder = builder.Where(squirrel.Eq{"department_id": filter.DepartmentID})
	}
	if filter.Semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": filter.Semester})
	}
	if filter.Shift != "" {
		builder = builder.Where(squirrel.Eq{"shift": filter.Shift})
	}
	if filter.Session != "" {
		builder = builder.Where(squirrel.Eq{"session": filter.Session})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name_english": pattern},
			squirrel.ILike{"current_roll_number": pattern},
		})
	}
	return builder
}

// List returns a page of students matching the filter and the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	_, size, offset := normalizePage(filter.Page, filter.PageSize, 20, 100)

	countQuery, countArgs, err := applyStudentFilter(psql.Select("COUNT(*)").From("students"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build student count: %w", err)
	}
	var total int
	if err := conn(ctx, r.db).GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query, args, err := applyStudentFilter(psql.Select(studentColumns).From("students"), filter).
		OrderBy("current_roll_number").
		Limit(uint64(size)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build student list: %w", err)
	}
	var students []models.Student
	if err := conn(ctx, r.db).SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// Scan returns every student matching the filter, ordered by roll number.
func (r *StudentRepository) Scan(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query, args, err := applyStudentFilter(psql.Select(studentColumns).From("students"), filter).
		OrderBy("current_roll_number").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build student scan: %w", err)
	}
	var students []models.Student
	if err := conn(ctx, r.db).SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("scan students: %w", err)
	}
	return students, nil
}

// ListPeers returns active students sharing a department, semester and shift.
func (r *StudentRepository) ListPeers(ctx context.Context, departmentID string, semester int, shift string) ([]models.Student, error) {
	return r.Scan(ctx, models.StudentFilter{
		DepartmentID: departmentID,
		Semester:     semester,
		Shift:        shift,
		Status:       models.StudentStatusActive,
	})
}

// LockScope serialises roll-number generation for a (department, session) until the transaction ends.
func (r *StudentRepository) LockScope(ctx context.Context, departmentID, session string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, departmentID+"|"+session); err != nil {
		return fmt.Errorf("lock student scope: %w", err)
	}
	return nil
}

// CountInScope counts students enrolled in a department and session.
func (r *StudentRepository) CountInScope(ctx context.Context, departmentID, session string) (int, error) {
	var count int
	if err := conn(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE department_id = $1 AND session = $2`, departmentID, session); err != nil {
		return 0, fmt.Errorf("count students in scope: %w", err)
	}
	return count, nil
}

// RollExists reports whether a roll number is taken.
func (r *StudentRepository) RollExists(ctx context.Context, roll string) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM students WHERE current_roll_number = $1)`, roll); err != nil {
		return false, fmt.Errorf("check roll number: %w", err)
	}
	return exists, nil
}

// RegistrationExists reports whether a registration number is taken.
func (r *StudentRepository) RegistrationExists(ctx context.Context, registration string) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM students WHERE current_registration_number = $1)`, registration); err != nil {
		return false, fmt.Errorf("check registration number: %w", err)
	}
	return exists, nil
}

// Update persists the mutable enrollment columns of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET shift = :shift, current_group = :current_group, semester = :semester,
	status = :status, discontinued_reason = :discontinued_reason, last_semester = :last_semester,
	email = :email, mobile_student = :mobile_student, guardian_mobile = :guardian_mobile,
	present_address = :present_address, updated_at = :updated_at
	WHERE id = :id`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateResults replaces the embedded semester results.
func (r *StudentRepository) UpdateResults(ctx context.Context, id string, results models.SemesterResults) error {
	return r.exec(ctx, "update student results", `UPDATE students SET semester_results = $2, updated_at = $3 WHERE id = $1`, id, results, time.Now().UTC())
}

// UpdateAttendance replaces the embedded semester attendance.
func (r *StudentRepository) UpdateAttendance(ctx context.Context, id string, attendance models.SemesterAttendances) error {
	return r.exec(ctx, "update student attendance", `UPDATE students SET semester_attendance = $2, updated_at = $3 WHERE id = $1`, id, attendance, time.Now().UTC())
}

// UpdateStatus sets the enrollment status.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	return r.exec(ctx, "update student status", `UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
}

// FieldValue reads the textual value of a correctable field.
func (r *StudentRepository) FieldValue(ctx context.Context, id, field string) (string, error) {
	column, ok := correctableColumns[field]
	if !ok {
		return "", fmt.Errorf("field %q is not correctable", field)
	}
	var value string
	query := fmt.Sprintf(`SELECT COALESCE(%s::text, '') FROM students WHERE id = $1`, column)
	if err := conn(ctx, r.db).GetContext(ctx, &value, query, id); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("read student field: %w", err)
	}
	return value, nil
}

// UpdateField writes a correctable field. Date columns accept YYYY-MM-DD text.
func (r *StudentRepository) UpdateField(ctx context.Context, id, field, value string) error {
	column, ok := correctableColumns[field]
	if !ok {
		return fmt.Errorf("field %q is not correctable", field)
	}
	var arg interface{} = value
	if column == "date_of_birth" {
		date, err := models.ParseDate(value)
		if err != nil {
			return err
		}
		arg = date
	}
	query := fmt.Sprintf(`UPDATE students SET %s = $2, updated_at = $3 WHERE id = $1`, column)
	return r.exec(ctx, "update student field", query, id, arg, time.Now().UTC())
}

// RevertOrphanedGraduates sets graduated students without an alumni row back to active
// and returns their ids.
func (r *StudentRepository) RevertOrphanedGraduates(ctx context.Context) ([]string, error) {
	const query = `UPDATE students s SET status = 'active', updated_at = $1
	WHERE s.status = 'graduated' AND NOT EXISTS (SELECT 1 FROM alumni a WHERE a.student_id = s.id)
	RETURNING s.id`
	var ids []string
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("revert orphaned graduates: %w", err)
	}
	return ids, nil
}

func (r *StudentRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
