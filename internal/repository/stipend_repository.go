package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

const criteriaColumns = `id, name, description, department_id, semester, shift, session, min_attendance, min_gpa,
	pass_requirement, is_active, created_by, created_at, updated_at`

const eligibilityColumns = `e.id, e.student_id, e.criteria_id, e.attendance_percentage, e.gpa, e.cgpa, e.referred_subjects,
	e.total_subjects, e.passed_subjects, e.rank, e.is_eligible, e.is_approved, e.approved_by, e.approved_at,
	e.evaluated_at, e.created_at, e.updated_at, s.full_name_english AS student_name, s.current_roll_number AS roll_number`

// StipendRepository persists stipend criteria and eligibility snapshots.
type StipendRepository struct {
	db *sqlx.DB
}

// NewStipendRepository constructs the repository.
func NewStipendRepository(db *sqlx.DB) *StipendRepository {
	return &StipendRepository{db: db}
}

// CreateCriteria inserts a criteria row.
func (r *StipendRepository) CreateCriteria(ctx context.Context, criteria *models.StipendCriteria) error {
	if criteria.ID == "" {
		criteria.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	criteria.CreatedAt = now
	criteria.UpdatedAt = now
	const query = `INSERT INTO stipend_criteria (id, name, description, department_id, semester, shift, session,
	min_attendance, min_gpa, pass_requirement, is_active, created_by, created_at, updated_at)
	VALUES (:id, :name, :description, :department_id, :semester, :shift, :session,
	:min_attendance, :min_gpa, :pass_requirement, :is_active, :created_by, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, criteria); err != nil {
		return fmt.Errorf("create stipend criteria: %w", err)
	}
	return nil
}

// UpdateCriteria persists mutable criteria columns.
func (r *StipendRepository) UpdateCriteria(ctx context.Context, criteria *models.StipendCriteria) error {
	criteria.UpdatedAt = time.Now().UTC()
	const query = `UPDATE stipend_criteria SET name = :name, description = :description, department_id = :department_id,
	semester = :semester, shift = :shift, session = :session, min_attendance = :min_attendance, min_gpa = :min_gpa,
	pass_requirement = :pass_requirement, is_active = :is_active, updated_at = :updated_at
	WHERE id = :id`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, criteria)
	if err != nil {
		return fmt.Errorf("update stipend criteria: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindCriteriaByID fetches criteria by identifier.
func (r *StipendRepository) FindCriteriaByID(ctx context.Context, id string) (*models.StipendCriteria, error) {
	var criteria models.StipendCriteria
	if err := conn(ctx, r.db).GetContext(ctx, &criteria, `SELECT `+criteriaColumns+` FROM stipend_criteria WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &criteria, nil
}

// ListCriteria returns criteria ordered by name.
func (r *StipendRepository) ListCriteria(ctx context.Context, activeOnly bool) ([]models.StipendCriteria, error) {
	query := `SELECT ` + criteriaColumns + ` FROM stipend_criteria`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`
	var criteria []models.StipendCriteria
	if err := conn(ctx, r.db).SelectContext(ctx, &criteria, query); err != nil {
		return nil, fmt.Errorf("list stipend criteria: %w", err)
	}
	return criteria, nil
}

// UpsertEligibility stores the latest snapshot for (student, criteria). Approval state is preserved.
func (r *StipendRepository) UpsertEligibility(ctx context.Context, eligibility *models.StipendEligibility) error {
	if eligibility.ID == "" {
		eligibility.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	eligibility.CreatedAt = now
	eligibility.UpdatedAt = now
	const query = `INSERT INTO stipend_eligibility (id, student_id, criteria_id, attendance_percentage, gpa, cgpa,
	referred_subjects, total_subjects, passed_subjects, is_eligible, evaluated_at, created_at, updated_at)
	VALUES (:id, :student_id, :criteria_id, :attendance_percentage, :gpa, :cgpa,
	:referred_subjects, :total_subjects, :passed_subjects, :is_eligible, :evaluated_at, :created_at, :updated_at)
	ON CONFLICT ON CONSTRAINT stipend_eligibility_student_criteria_key DO UPDATE SET
	attendance_percentage = EXCLUDED.attendance_percentage, gpa = EXCLUDED.gpa, cgpa = EXCLUDED.cgpa,
	referred_subjects = EXCLUDED.referred_subjects, total_subjects = EXCLUDED.total_subjects,
	passed_subjects = EXCLUDED.passed_subjects, is_eligible = EXCLUDED.is_eligible,
	evaluated_at = EXCLUDED.evaluated_at, updated_at = EXCLUDED.updated_at`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, eligibility); err != nil {
		return fmt.Errorf("upsert stipend eligibility: %w", err)
	}
	return nil
}

// Rerank recomputes ranks over every eligible row of a criteria by (gpa desc, attendance desc, roll asc).
// Ineligible rows lose their rank.
func (r *StipendRepository) Rerank(ctx context.Context, criteriaID string) error {
	db := conn(ctx, r.db)
	const clear = `UPDATE stipend_eligibility SET rank = NULL WHERE criteria_id = $1 AND NOT is_eligible`
	if _, err := db.ExecContext(ctx, clear, criteriaID); err != nil {
		return fmt.Errorf("clear stipend ranks: %w", err)
	}
	const rank = `UPDATE stipend_eligibility e SET rank = ranked.position
	FROM (
		SELECT se.id, ROW_NUMBER() OVER (ORDER BY se.gpa DESC, se.attendance_percentage DESC, s.current_roll_number ASC) AS position
		FROM stipend_eligibility se JOIN students s ON s.id = se.student_id
		WHERE se.criteria_id = $1 AND se.is_eligible
	) ranked
	WHERE e.id = ranked.id`
	if _, err := db.ExecContext(ctx, rank, criteriaID); err != nil {
		return fmt.Errorf("rank stipend eligibility: %w", err)
	}
	return nil
}

// ListEligibility returns saved rows of a criteria ordered by rank.
func (r *StipendRepository) ListEligibility(ctx context.Context, criteriaID string) ([]models.StipendEligibility, error) {
	query := `SELECT ` + eligibilityColumns + ` FROM stipend_eligibility e JOIN students s ON s.id = e.student_id
	WHERE e.criteria_id = $1 ORDER BY e.rank ASC NULLS LAST, s.current_roll_number`
	var rows []models.StipendEligibility
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, criteriaID); err != nil {
		return nil, fmt.Errorf("list stipend eligibility: %w", err)
	}
	return rows, nil
}

// FindEligibilityByID fetches one saved row.
func (r *StipendRepository) FindEligibilityByID(ctx context.Context, id string) (*models.StipendEligibility, error) {
	query := `SELECT ` + eligibilityColumns + ` FROM stipend_eligibility e JOIN students s ON s.id = e.student_id WHERE e.id = $1`
	var row models.StipendEligibility
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get stipend eligibility: %w", err)
	}
	return &row, nil
}

// SetApproval flips the approval flag. Approver and timestamp are cleared when unapproving.
func (r *StipendRepository) SetApproval(ctx context.Context, id string, approved bool, approverID *string, at *time.Time) error {
	const query = `UPDATE stipend_eligibility SET is_approved = $2, approved_by = $3, approved_at = $4, updated_at = $5 WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, approved, approverID, at, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set stipend approval: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
