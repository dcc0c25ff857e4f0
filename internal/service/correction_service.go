package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/repository"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type correctionStore interface {
	Create(ctx context.Context, request *models.CorrectionRequest) error
	GetByID(ctx context.Context, id string) (*models.CorrectionRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.CorrectionRequest, error)
	HasPending(ctx context.Context, studentID, field string) (bool, error)
	List(ctx context.Context, filter models.CorrectionFilter) ([]models.CorrectionRequest, error)
	Review(ctx context.Context, id string, status models.CorrectionStatus, reviewerID string, notes *string, at time.Time) (bool, error)
}

type correctableStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error)
	FieldValue(ctx context.Context, id, field string) (string, error)
	UpdateField(ctx context.Context, id, field, value string) error
}

// fieldRules validates requested values of fields with a constrained format.
var fieldRules = map[string]string{
	"email":           "email",
	"mobile_student":  "mobile11",
	"guardian_mobile": "mobile11",
	"shift":           "shift",
	"gender":          "oneof=male female other",
}

// CorrectionService handles requests to change fields of a student record and their review.
type CorrectionService struct {
	tx          txRunner
	corrections correctionStore
	students    correctableStudentStore
	audit       auditLogger
	cache       cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// CorrectionServiceOption configures the service.
type CorrectionServiceOption func(*CorrectionService)

// WithCorrectionCache invalidates cached stipend calculations when an approval edits a student.
func WithCorrectionCache(cache cacheInvalidator) CorrectionServiceOption {
	return func(s *CorrectionService) {
		s.cache = cache
	}
}

// WithCorrectionMetrics records review transitions.
func WithCorrectionMetrics(metrics *MetricsService) CorrectionServiceOption {
	return func(s *CorrectionService) {
		s.metrics = metrics
	}
}

// WithCorrectionClock overrides the time source.
func WithCorrectionClock(now func() time.Time) CorrectionServiceOption {
	return func(s *CorrectionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCorrectionService constructs the service with defaults.
func NewCorrectionService(tx txRunner, corrections correctionStore, students correctableStudentStore, audit auditLogger, logger *zap.Logger, opts ...CorrectionServiceOption) *CorrectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CorrectionService{
		tx:          tx,
		corrections: corrections,
		students:    students,
		audit:       audit,
		validator:   NewValidator(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *CorrectionService) checkValue(field, value string) error {
	if field == "date_of_birth" {
		if _, err := models.ParseDate(value); err != nil {
			return appErrors.Validation("date_of_birth must be YYYY-MM-DD")
		}
		return nil
	}
	if rule, ok := fieldRules[field]; ok {
		if err := s.validator.Var(value, rule); err != nil {
			return appErrors.Validation("requested value is not a valid " + field)
		}
	}
	return nil
}

// Create files a pending correction. Students may only target their own record, and only one
// pending request per (student, field) may exist.
func (s *CorrectionService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateCorrectionRequest) (*models.CorrectionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid correction request")
	}
	field := strings.ToLower(strings.TrimSpace(req.FieldName))
	if !repository.CorrectableField(field) {
		return nil, appErrors.Validation("field " + field + " cannot be corrected")
	}
	value := strings.TrimSpace(req.RequestedValue)
	if err := s.checkValue(field, value); err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if !actor.Role.Staff() && (student.UserID == nil || *student.UserID != actor.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another user")
	}

	pending, err := s.corrections.HasPending(ctx, student.ID, field)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending corrections")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a correction for this field is already pending")
	}
	current, err := s.students.FieldValue(ctx, student.ID, field)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to read current value")
	}
	if current == value {
		return nil, appErrors.Validation("requested value matches the current value")
	}

	request := &models.CorrectionRequest{
		StudentID:           student.ID,
		RequestedBy:         actor.UserID,
		FieldName:           field,
		CurrentValue:        current,
		RequestedValue:      value,
		Reason:              strings.TrimSpace(req.Reason),
		SupportingDocuments: models.DocumentList(req.SupportingDocuments),
		Status:              models.CorrectionStatusPending,
	}
	if err := s.corrections.Create(ctx, request); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintCorrectionPending) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a correction for this field is already pending")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create correction request")
	}
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionCorrectionCreate, "student", student.ID, map[string]interface{}{
		"field":          field,
		"requestedValue": value,
	}))
	return request, nil
}

// List returns requests visible to the caller. Non-staff only see their own.
func (s *CorrectionService) List(ctx context.Context, actor *models.JWTClaims, filter models.CorrectionFilter) ([]models.CorrectionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Staff() {
		filter.RequestedBy = actor.UserID
	}
	requests, err := s.corrections.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list correction requests")
	}
	if requests == nil {
		requests = []models.CorrectionRequest{}
	}
	return requests, nil
}

// Get returns one request, enforcing ownership for non-staff.
func (s *CorrectionService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.CorrectionRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.corrections.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "correction request not found", "failed to load correction request")
	}
	if !actor.Role.Staff() && request.RequestedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "correction request belongs to another user")
	}
	return request, nil
}

// Approve writes the requested value onto the student and closes the request in one transaction.
func (s *CorrectionService) Approve(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error) {
	return s.review(ctx, actor, id, models.CorrectionStatusApproved, req)
}

// Reject closes the request without touching the student. Notes are required.
func (s *CorrectionService) Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, appErrors.Validation("notes are required when rejecting")
	}
	return s.review(ctx, actor, id, models.CorrectionStatusRejected, req)
}

func (s *CorrectionService) review(ctx context.Context, actor *models.JWTClaims, id string, status models.CorrectionStatus, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		notes = &trimmed
	}

	var request *models.CorrectionRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.corrections.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if request.Status != models.CorrectionStatusPending {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "correction request already reviewed")
		}
		if status == models.CorrectionStatusApproved {
			if _, err := s.students.FindByIDForUpdate(ctx, request.StudentID); err != nil {
				return err
			}
			if err := s.students.UpdateField(ctx, request.StudentID, request.FieldName, request.RequestedValue); err != nil {
				return err
			}
		}
		now := s.now()
		updated, err := s.corrections.Review(ctx, request.ID, status, actor.UserID, notes, now)
		if err != nil {
			return err
		}
		if !updated {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "correction request already reviewed")
		}
		reviewer := actor.UserID
		request.Status = status
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		request.ReviewNotes = notes
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "correction request not found")
		}
		return nil, passThrough(err, "failed to review correction request")
	}

	if status == models.CorrectionStatusApproved {
		invalidateStipendCalculations(ctx, s.cache, s.logger)
	}
	s.metrics.RecordTransition("correction", string(status))
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionCorrectionReview, "correction_request", request.ID, map[string]interface{}{
		"status": status,
		"field":  request.FieldName,
		"notes":  notes,
	}))
	return request, nil
}
