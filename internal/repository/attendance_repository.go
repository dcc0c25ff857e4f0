package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/slms-api/internal/models"
)

const attendanceColumns = `id, student_id, subject_code, subject_name, semester, class_routine_id, date, is_present, status,
	recorded_by, approved_by, approved_at, rejection_reason, created_at, updated_at`

// AttendanceRepository persists attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts a record or updates the one holding the same (student, routine-or-subject, date)
// key. With protect set, records already approved or directly entered are left untouched and
// Upsert reports false.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord, protect bool) (bool, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	target := `(student_id, subject_code, date) WHERE class_routine_id IS NULL`
	if record.ClassRoutineID != nil {
		target = `(student_id, class_routine_id, date) WHERE class_routine_id IS NOT NULL`
	}
	guard := ""
	if protect {
		guard = ` WHERE attendance_records.status NOT IN ('approved', 'direct')`
	}
	query := `INSERT INTO attendance_records (id, student_id, subject_code, subject_name, semester, class_routine_id, date,
	is_present, status, recorded_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	ON CONFLICT ` + target + ` DO UPDATE SET is_present = EXCLUDED.is_present, status = EXCLUDED.status,
	recorded_by = EXCLUDED.recorded_by, subject_code = EXCLUDED.subject_code, subject_name = EXCLUDED.subject_name,
	semester = EXCLUDED.semester, approved_by = NULL, approved_at = NULL, rejection_reason = NULL,
	updated_at = EXCLUDED.updated_at` + guard + `
	RETURNING id, created_at`

	var stored struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := conn(ctx, r.db).GetContext(ctx, &stored, query,
		record.ID, record.StudentID, record.SubjectCode, record.SubjectName, record.Semester, record.ClassRoutineID,
		record.Date, record.IsPresent, record.Status, record.RecordedBy, now,
	)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upsert attendance: %w", err)
	}
	record.ID = stored.ID
	record.CreatedAt = stored.CreatedAt
	record.UpdatedAt = now
	return true, nil
}

// FindByIDsForUpdate locks the given records in id order.
func (r *AttendanceRepository) FindByIDsForUpdate(ctx context.Context, ids []string) ([]models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	var records []models.AttendanceRecord
	if err := conn(ctx, r.db).SelectContext(ctx, &records, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("lock attendance records: %w", err)
	}
	return records, nil
}

// Approve moves pending records to approved and stamps the approver.
func (r *AttendanceRepository) Approve(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error) {
	const query = `UPDATE attendance_records SET status = 'approved', approved_by = $2, approved_at = $3, updated_at = $3
	WHERE id = ANY($1) AND status = 'pending'`
	return r.execCount(ctx, "approve attendance", query, pq.Array(ids), approverID, at)
}

// Reject moves pending records to rejected with a reason.
func (r *AttendanceRepository) Reject(ctx context.Context, ids []string, reviewerID, reason string, at time.Time) (int64, error) {
	const query = `UPDATE attendance_records SET status = 'rejected', approved_by = $2, rejection_reason = $3, updated_at = $4
	WHERE id = ANY($1) AND status = 'pending'`
	return r.execCount(ctx, "reject attendance", query, pq.Array(ids), reviewerID, reason, at)
}

// SubmitDrafts moves the author's drafts to pending.
func (r *AttendanceRepository) SubmitDrafts(ctx context.Context, ids []string, authorID string) (int64, error) {
	const query = `UPDATE attendance_records SET status = 'pending', updated_at = $3
	WHERE id = ANY($1) AND status = 'draft' AND recorded_by = $2`
	return r.execCount(ctx, "submit attendance drafts", query, pq.Array(ids), authorID, time.Now().UTC())
}

func (r *AttendanceRepository) execCount(ctx context.Context, op, query string, args ...interface{}) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows: %w", op, err)
	}
	return rows, nil
}

// List returns attendance rows matching the filter, newest date first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	builder := psql.Select(attendanceColumns).From("attendance_records")
	if filter.StudentID != "" {
		builder = builder.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.SubjectCode != "" {
		builder = builder.Where(squirrel.Eq{"subject_code": filter.SubjectCode})
	}
	if filter.ClassRoutineID != "" {
		builder = builder.Where(squirrel.Eq{"class_routine_id": filter.ClassRoutineID})
	}
	if filter.Semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": filter.Semester})
	}
	if filter.RecordedBy != "" {
		builder = builder.Where(squirrel.Eq{"recorded_by": filter.RecordedBy})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": *filter.To})
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query, args, err := builder.OrderBy("date DESC", "subject_code", "student_id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build attendance list: %w", err)
	}

	var records []models.AttendanceRecord
	if err := conn(ctx, r.db).SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Summary aggregates a student's authoritative attendance per subject.
func (r *AttendanceRepository) Summary(ctx context.Context, studentID string, semester int) ([]models.SubjectAttendanceSummary, error) {
	builder := psql.Select(
		"subject_code",
		"MAX(subject_name) AS subject_name",
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE is_present) AS present",
	).From("attendance_records").
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.Eq{"status": statusStrings(models.AuthoritativeAttendanceStatuses)})
	if semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": semester})
	}
	query, args, err := builder.GroupBy("subject_code").OrderBy("subject_code").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build attendance summary: %w", err)
	}

	var rows []models.SubjectAttendanceSummary
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("summarise attendance: %w", err)
	}
	for i := range rows {
		if rows[i].Total > 0 {
			rows[i].Percentage = float64(rows[i].Present) / float64(rows[i].Total) * 100
		}
	}
	return rows, nil
}

func statusStrings(statuses []models.AttendanceStatus) []string {
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status)
	}
	return out
}
