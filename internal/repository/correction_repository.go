package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

const correctionColumns = `id, student_id, requested_by, field_name, current_value, requested_value, reason,
	supporting_documents, status, reviewed_by, reviewed_at, review_notes, created_at, updated_at`

// CorrectionRepository persists correction request workflow data.
type CorrectionRepository struct {
	db *sqlx.DB
}

// NewCorrectionRepository constructs the repository.
func NewCorrectionRepository(db *sqlx.DB) *CorrectionRepository {
	return &CorrectionRepository{db: db}
}

// Create inserts a new pending request.
func (r *CorrectionRepository) Create(ctx context.Context, request *models.CorrectionRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.CorrectionStatusPending
	}
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now
	if request.SupportingDocuments == nil {
		request.SupportingDocuments = models.DocumentList{}
	}
	const query = `INSERT INTO correction_requests
	(id, student_id, requested_by, field_name, current_value, requested_value, reason, supporting_documents, status, created_at, updated_at)
	VALUES (:id, :student_id, :requested_by, :field_name, :current_value, :requested_value, :reason, :supporting_documents, :status, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create correction request: %w", err)
	}
	return nil
}

func (r *CorrectionRepository) get(ctx context.Context, where string, args ...interface{}) (*models.CorrectionRequest, error) {
	var request models.CorrectionRequest
	if err := conn(ctx, r.db).GetContext(ctx, &request, `SELECT `+correctionColumns+` FROM correction_requests WHERE `+where, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get correction request: %w", err)
	}
	return &request, nil
}

// GetByID fetches a request by identifier.
func (r *CorrectionRepository) GetByID(ctx context.Context, id string) (*models.CorrectionRequest, error) {
	return r.get(ctx, `id = $1`, id)
}

// GetByIDForUpdate fetches and locks a request.
func (r *CorrectionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.CorrectionRequest, error) {
	return r.get(ctx, `id = $1 FOR UPDATE`, id)
}

// HasPending reports whether a pending request exists for (student, field).
func (r *CorrectionRepository) HasPending(ctx context.Context, studentID, field string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM correction_requests WHERE student_id = $1 AND field_name = $2 AND status = 'pending')`
	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, studentID, field); err != nil {
		return false, fmt.Errorf("check pending correction: %w", err)
	}
	return exists, nil
}

// List returns requests matching the filter, latest first.
func (r *CorrectionRepository) List(ctx context.Context, filter models.CorrectionFilter) ([]models.CorrectionRequest, error) {
	builder := psql.Select(correctionColumns).From("correction_requests")
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			statuses[i] = string(status)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.StudentID != "" {
		builder = builder.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.RequestedBy != "" {
		builder = builder.Where(squirrel.Eq{"requested_by": filter.RequestedBy})
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query, args, err := builder.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build correction list: %w", err)
	}
	var requests []models.CorrectionRequest
	if err := conn(ctx, r.db).SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list correction requests: %w", err)
	}
	return requests, nil
}

// Review closes a pending request. It reports false when the request was no longer pending.
func (r *CorrectionRepository) Review(ctx context.Context, id string, status models.CorrectionStatus, reviewerID string, notes *string, at time.Time) (bool, error) {
	const query = `UPDATE correction_requests SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = $5
	WHERE id = $1 AND status = 'pending'`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, status, reviewerID, notes, at)
	if err != nil {
		return false, fmt.Errorf("review correction request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check correction review rows: %w", err)
	}
	return rows > 0, nil
}
