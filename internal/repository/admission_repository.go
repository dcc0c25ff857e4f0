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

// profileColumns are the applicant fields shared by admissions and students.
const profileColumns = `full_name_bangla, full_name_english, father_name, father_nid, mother_name, mother_nid,
	date_of_birth, birth_certificate_no, gender, religion, blood_group, nationality, email, mobile_student,
	guardian_name, guardian_relation, guardian_mobile, present_address, permanent_address,
	ssc_board, ssc_roll, ssc_registration, ssc_passing_year, ssc_gpa, ssc_group, ssc_institution`

const profileBindings = `:full_name_bangla, :full_name_english, :father_name, :father_nid, :mother_name, :mother_nid,
	:date_of_birth, :birth_certificate_no, :gender, :religion, :blood_group, :nationality, :email, :mobile_student,
	:guardian_name, :guardian_relation, :guardian_mobile, :present_address, :permanent_address,
	:ssc_board, :ssc_roll, :ssc_registration, :ssc_passing_year, :ssc_gpa, :ssc_group, :ssc_institution`

const profileAssignments = `full_name_bangla = :full_name_bangla, full_name_english = :full_name_english,
	father_name = :father_name, father_nid = :father_nid, mother_name = :mother_name, mother_nid = :mother_nid,
	date_of_birth = :date_of_birth, birth_certificate_no = :birth_certificate_no, gender = :gender,
	religion = :religion, blood_group = :blood_group, nationality = :nationality, email = :email,
	mobile_student = :mobile_student, guardian_name = :guardian_name, guardian_relation = :guardian_relation,
	guardian_mobile = :guardian_mobile, present_address = :present_address, permanent_address = :permanent_address,
	ssc_board = :ssc_board, ssc_roll = :ssc_roll, ssc_registration = :ssc_registration,
	ssc_passing_year = :ssc_passing_year, ssc_gpa = :ssc_gpa, ssc_group = :ssc_group, ssc_institution = :ssc_institution`

const admissionColumns = `id, application_id, user_id, is_draft, draft_step, draft_data, ` + profileColumns + `,
	desired_department_id, session, shift, documents, status, submitted_at, reviewed_at, reviewed_by, review_notes,
	created_at, updated_at`

// AdmissionRepository persists admissions and drafts.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs the repository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

func (r *AdmissionRepository) get(ctx context.Context, where string, args ...interface{}) (*models.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admissions WHERE ` + where
	var admission models.Admission
	if err := conn(ctx, r.db).GetContext(ctx, &admission, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get admission: %w", err)
	}
	return &admission, nil
}

// FindByID returns a submitted admission by its UUID.
func (r *AdmissionRepository) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	return r.get(ctx, `id = $1 AND NOT is_draft`, id)
}

// FindByIDForUpdate locks the admission row for the enclosing transaction.
func (r *AdmissionRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Admission, error) {
	return r.get(ctx, `id = $1 AND NOT is_draft FOR UPDATE`, id)
}

// FindByApplicationID returns a submitted admission by its human identifier.
func (r *AdmissionRepository) FindByApplicationID(ctx context.Context, applicationID string) (*models.Admission, error) {
	return r.get(ctx, `application_id = $1 AND NOT is_draft`, applicationID)
}

// FindSubmittedByUser returns the user's non-draft admission.
func (r *AdmissionRepository) FindSubmittedByUser(ctx context.Context, userID string) (*models.Admission, error) {
	return r.get(ctx, `user_id = $1 AND NOT is_draft`, userID)
}

// FindDraftByUser returns the user's draft.
func (r *AdmissionRepository) FindDraftByUser(ctx context.Context, userID string) (*models.Admission, error) {
	return r.get(ctx, `user_id = $1 AND is_draft`, userID)
}

// Create inserts a submitted admission.
func (r *AdmissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	if admission.ID == "" {
		admission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admission.CreatedAt = now
	admission.UpdatedAt = now
	if admission.Documents == nil {
		admission.Documents = models.DocumentMap{}
	}
	query := `INSERT INTO admissions (id, application_id, user_id, is_draft, draft_step, draft_data, ` + profileColumns + `,
	desired_department_id, session, shift, documents, status, submitted_at, created_at, updated_at)
	VALUES (:id, :application_id, :user_id, :is_draft, :draft_step, :draft_data, ` + profileBindings + `,
	:desired_department_id, :session, :shift, :documents, :status, :submitted_at, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, admission); err != nil {
		return fmt.Errorf("create admission: %w", err)
	}
	return nil
}

// UpdateSubmission overwrites the applicant payload and submission time of an admission.
func (r *AdmissionRepository) UpdateSubmission(ctx context.Context, admission *models.Admission) error {
	admission.UpdatedAt = time.Now().UTC()
	query := `UPDATE admissions SET ` + profileAssignments + `,
	desired_department_id = :desired_department_id, session = :session, shift = :shift,
	submitted_at = :submitted_at, updated_at = :updated_at
	WHERE id = :id AND NOT is_draft`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, admission)
	if err != nil {
		return fmt.Errorf("update admission submission: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Review moves a pending admission to status. It reports false when the admission was no longer pending.
func (r *AdmissionRepository) Review(ctx context.Context, id string, status models.AdmissionStatus, reviewerID string, notes *string, at time.Time) (bool, error) {
	const query = `UPDATE admissions SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = $5
	WHERE id = $1 AND status = 'pending' AND NOT is_draft`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, status, reviewerID, notes, at)
	if err != nil {
		return false, fmt.Errorf("review admission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check admission review rows: %w", err)
	}
	return rows > 0, nil
}

// Reopen returns a rejected admission to pending and clears review metadata.
func (r *AdmissionRepository) Reopen(ctx context.Context, id string, at time.Time) (bool, error) {
	const query = `UPDATE admissions SET status = 'pending', reviewed_by = NULL, review_notes = NULL, reviewed_at = NULL,
	submitted_at = $2, updated_at = $2
	WHERE id = $1 AND status = 'rejected' AND NOT is_draft`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("reopen admission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check admission reopen rows: %w", err)
	}
	return rows > 0, nil
}

// UpdateDocuments replaces the documents map.
func (r *AdmissionRepository) UpdateDocuments(ctx context.Context, id string, documents models.DocumentMap) error {
	const query = `UPDATE admissions SET documents = $2, updated_at = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, documents, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update admission documents: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertDraft creates or replaces the user's draft.
func (r *AdmissionRepository) UpsertDraft(ctx context.Context, userID, applicationID string, step int, data models.DraftPayload) (*models.Admission, error) {
	now := time.Now().UTC()
	query := `INSERT INTO admissions (id, application_id, user_id, is_draft, draft_step, draft_data, created_at, updated_at)
	VALUES ($1, $2, $3, TRUE, $4, $5, $6, $6)
	ON CONFLICT (user_id) WHERE is_draft DO UPDATE SET draft_step = EXCLUDED.draft_step, draft_data = EXCLUDED.draft_data,
	application_id = EXCLUDED.application_id, updated_at = EXCLUDED.updated_at
	RETURNING ` + admissionColumns
	var draft models.Admission
	if err := conn(ctx, r.db).GetContext(ctx, &draft, query, uuid.NewString(), applicationID, userID, step, data, now); err != nil {
		return nil, fmt.Errorf("upsert admission draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes the user's draft and reports whether one existed.
func (r *AdmissionRepository) DeleteDraft(ctx context.Context, userID string) (bool, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM admissions WHERE user_id = $1 AND is_draft`, userID)
	if err != nil {
		return false, fmt.Errorf("delete admission draft: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check draft delete rows: %w", err)
	}
	return rows > 0, nil
}

func applyAdmissionFilter(builder squirrel.SelectBuilder, filter models.AdmissionFilter) squirrel.SelectBuilder {
	builder = builder.Where(squirrel.Eq{"is_draft": false})
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DepartmentID != "" {
		builder = builder.Where(squirrel.Eq{"desired_department_id": filter.DepartmentID})
	}
	if filter.Session != "" {
		builder = builder.Where(squirrel.Eq{"session": filter.Session})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name_english": pattern},
			squirrel.ILike{"application_id": pattern},
			squirrel.ILike{"ssc_roll": pattern},
		})
	}
	return builder
}

// List returns submitted admissions for staff review, newest submission first.
func (r *AdmissionRepository) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	_, size, offset := normalizePage(filter.Page, filter.PageSize, 20, 100)

	countQuery, countArgs, err := applyAdmissionFilter(psql.Select("COUNT(*)").From("admissions"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build admission count: %w", err)
	}
	var total int
	if err := conn(ctx, r.db).GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count admissions: %w", err)
	}

	query, args, err := applyAdmissionFilter(psql.Select(admissionColumns).From("admissions"), filter).
		OrderBy("submitted_at DESC NULLS LAST", "id").
		Limit(uint64(size)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build admission list: %w", err)
	}
	var admissions []models.Admission
	if err := conn(ctx, r.db).SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admissions: %w", err)
	}
	return admissions, total, nil
}
