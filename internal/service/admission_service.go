package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/repository"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type admissionStore interface {
	FindByID(ctx context.Context, id string) (*models.Admission, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Admission, error)
	FindByApplicationID(ctx context.Context, applicationID string) (*models.Admission, error)
	FindSubmittedByUser(ctx context.Context, userID string) (*models.Admission, error)
	FindDraftByUser(ctx context.Context, userID string) (*models.Admission, error)
	Create(ctx context.Context, admission *models.Admission) error
	UpdateSubmission(ctx context.Context, admission *models.Admission) error
	Review(ctx context.Context, id string, status models.AdmissionStatus, reviewerID string, notes *string, at time.Time) (bool, error)
	Reopen(ctx context.Context, id string, at time.Time) (bool, error)
	UpdateDocuments(ctx context.Context, id string, documents models.DocumentMap) error
	UpsertDraft(ctx context.Context, userID, applicationID string, step int, data models.DraftPayload) (*models.Admission, error)
	DeleteDraft(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error)
}

type admissionUserStore interface {
	Sync(ctx context.Context, claims *models.JWTClaims) (*models.User, error)
	UpdateAdmissionStatus(ctx context.Context, id string, status models.UserAdmissionStatus, relatedProfileID *string) error
}

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type enrollmentStore interface {
	LockScope(ctx context.Context, departmentID, session string) error
	CountInScope(ctx context.Context, departmentID, session string) (int, error)
	RollExists(ctx context.Context, roll string) (bool, error)
	RegistrationExists(ctx context.Context, registration string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// AdmissionConfig tunes identifier derivation.
type AdmissionConfig struct {
	ApplicationIDPrefix   string
	RollNumberMaxAttempts int
}

// AdmissionService drives admissions from draft to an enrolled student.
type AdmissionService struct {
	tx          txRunner
	admissions  admissionStore
	users       admissionUserStore
	departments departmentReader
	students    enrollmentStore
	audit       auditLogger
	cache       cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         AdmissionConfig
	now         func() time.Time
}

// AdmissionServiceOption configures the service.
type AdmissionServiceOption func(*AdmissionService)

// WithAdmissionCache invalidates cached stipend calculations once a student is enrolled.
func WithAdmissionCache(cache cacheInvalidator) AdmissionServiceOption {
	return func(s *AdmissionService) {
		s.cache = cache
	}
}

// WithAdmissionMetrics records workflow transitions.
func WithAdmissionMetrics(metrics *MetricsService) AdmissionServiceOption {
	return func(s *AdmissionService) {
		s.metrics = metrics
	}
}

// WithAdmissionClock overrides the time source.
func WithAdmissionClock(now func() time.Time) AdmissionServiceOption {
	return func(s *AdmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAdmissionService constructs the service.
func NewAdmissionService(tx txRunner, admissions admissionStore, users admissionUserStore, departments departmentReader, students enrollmentStore, audit auditLogger, cfg AdmissionConfig, logger *zap.Logger, opts ...AdmissionServiceOption) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ApplicationIDPrefix == "" {
		cfg.ApplicationIDPrefix = "STU"
	}
	svc := &AdmissionService{
		tx:          tx,
		admissions:  admissions,
		users:       users,
		departments: departments,
		students:    students,
		audit:       audit,
		validator:   NewValidator(),
		logger:      logger,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *AdmissionService) applicationID(user *models.User, sscRoll string) string {
	if user.StudentID != nil && strings.TrimSpace(*user.StudentID) != "" {
		return strings.TrimSpace(*user.StudentID)
	}
	sscRoll = strings.TrimSpace(sscRoll)
	if sscRoll == "" {
		sscRoll = "DRAFT"
	}
	return fmt.Sprintf("%s-%s", s.cfg.ApplicationIDPrefix, sscRoll)
}

func requireApplicant(actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.Role.StudentEligible() {
		return appErrors.Clone(appErrors.ErrInvalidRole, "only students may apply for admission")
	}
	return nil
}

// Submit creates the caller's admission, or refreshes it while it is still pending.
// Approved and rejected admissions are returned unchanged. Any draft is discarded.
func (s *AdmissionService) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitAdmissionRequest) (*models.Admission, error) {
	if err := requireApplicant(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid admission payload")
	}
	if _, err := s.departments.FindByID(ctx, req.DesiredDepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Validation("desired department does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	var (
		result  *models.Admission
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.Sync(ctx, actor)
		if err != nil {
			return err
		}
		existing, err := s.admissions.FindSubmittedByUser(ctx, user.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		now := s.now()
		departmentID := req.DesiredDepartmentID

		switch {
		case existing == nil:
			admission := &models.Admission{
				ApplicationID:       s.applicationID(user, req.SSCRoll),
				UserID:              user.ID,
				ApplicantProfile:    req.ApplicantProfile,
				DesiredDepartmentID: &departmentID,
				Session:             req.Session,
				Shift:               req.Shift,
				Documents:           models.DocumentMap{},
				Status:              models.AdmissionStatusPending,
				SubmittedAt:         &now,
			}
			if draft, err := s.admissions.FindDraftByUser(ctx, user.ID); err == nil && len(draft.Documents) > 0 {
				admission.Documents = draft.Documents
			}
			if err := s.admissions.Create(ctx, admission); err != nil {
				if repository.IsUniqueViolation(err, repository.ConstraintAdmissionApplication) {
					return appErrors.Clone(appErrors.ErrConflict, "application id already in use")
				}
				if repository.IsUniqueViolation(err, repository.ConstraintAdmissionUserSubmit) {
					return appErrors.Clone(appErrors.ErrConflict, "admission already submitted")
				}
				return err
			}
			result, changed = admission, true
		case existing.Status == models.AdmissionStatusPending:
			existing.ApplicantProfile = req.ApplicantProfile
			existing.DesiredDepartmentID = &departmentID
			existing.Session = req.Session
			existing.Shift = req.Shift
			existing.SubmittedAt = &now
			if err := s.admissions.UpdateSubmission(ctx, existing); err != nil {
				return err
			}
			result, changed = existing, true
		default:
			result = existing
		}

		if _, err := s.admissions.DeleteDraft(ctx, user.ID); err != nil {
			return err
		}
		if changed {
			return s.users.UpdateAdmissionStatus(ctx, user.ID, models.UserAdmissionPending, nil)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to submit admission")
	}

	if changed {
		s.metrics.RecordTransition("admission", string(models.AdmissionStatusPending))
		s.logger.Info("admission submitted", zap.String("admission_id", result.ID), zap.String("user_id", actor.UserID))
		emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAdmissionSubmit, "admission", result.ID, map[string]interface{}{
			"applicationId": result.ApplicationID,
			"status":        result.Status,
		}))
	}
	return result, nil
}

// SaveDraft stores the caller's wizard progress. Denied once an admission was submitted.
func (s *AdmissionService) SaveDraft(ctx context.Context, actor *models.JWTClaims, req dto.SaveDraftRequest) (*models.Admission, error) {
	if err := requireApplicant(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid draft payload")
	}
	if !json.Valid(req.Data) {
		return nil, appErrors.Validation("draft data must be valid JSON")
	}

	var draft *models.Admission
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.Sync(ctx, actor)
		if err != nil {
			return err
		}
		if _, err := s.admissions.FindSubmittedByUser(ctx, user.ID); err == nil {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "an admission has already been submitted")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		var probe struct {
			SSCRoll string `json:"sscRoll"`
		}
		_ = json.Unmarshal(req.Data, &probe)
		draft, err = s.admissions.UpsertDraft(ctx, user.ID, s.applicationID(user, probe.SSCRoll), req.Step, models.DraftPayload(req.Data))
		return err
	})
	if err != nil {
		return nil, passThrough(err, "failed to save draft")
	}
	return draft, nil
}

// GetDraft returns the caller's draft.
func (s *AdmissionService) GetDraft(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error) {
	if err := requireApplicant(actor); err != nil {
		return nil, err
	}
	draft, err := s.admissions.FindDraftByUser(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "no draft saved", "failed to load draft")
	}
	return draft, nil
}

// ClearDraft deletes the caller's draft.
func (s *AdmissionService) ClearDraft(ctx context.Context, actor *models.JWTClaims) error {
	if err := requireApplicant(actor); err != nil {
		return err
	}
	deleted, err := s.admissions.DeleteDraft(ctx, actor.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear draft")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "no draft saved")
	}
	return nil
}

// Lookup resolves an admission by UUID first, then by application id.
func (s *AdmissionService) Lookup(ctx context.Context, ref string) (*models.Admission, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		admission, err := s.admissions.FindByID(ctx, ref)
		if err == nil {
			return admission, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
		}
	}
	admission, err := s.admissions.FindByApplicationID(ctx, ref)
	if err != nil {
		return nil, lookupError(err, "admission not found", "failed to load admission")
	}
	return admission, nil
}

// Get returns an admission visible to the caller: staff see all, applicants only their own.
func (s *AdmissionService) Get(ctx context.Context, actor *models.JWTClaims, ref string) (*models.Admission, error) {
	admission, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Staff() && admission.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admission belongs to another user")
	}
	return admission, nil
}

// Mine returns the caller's submitted admission.
func (s *AdmissionService) Mine(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error) {
	admission, err := s.admissions.FindSubmittedByUser(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "no admission submitted", "failed to load admission")
	}
	return admission, nil
}

// List returns submitted admissions for reviewers.
func (s *AdmissionService) List(ctx context.Context, actor *models.JWTClaims, filter models.AdmissionFilter) ([]models.Admission, *models.Pagination, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}
	items, total, err := s.admissions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admissions")
	}
	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Approve enrolls the applicant: it allocates a roll number, creates the student, closes the
// admission and links the user, all in one transaction.
func (s *AdmissionService) Approve(ctx context.Context, actor *models.JWTClaims, ref string, req dto.ApproveAdmissionRequest) (*models.Student, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	req.CurrentRegistrationNumber = strings.TrimSpace(req.CurrentRegistrationNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid approval payload")
	}
	target, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}

	var student *models.Student
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		admission, err := s.admissions.FindByIDForUpdate(ctx, target.ID)
		if err != nil {
			return err
		}
		if admission.Status != models.AdmissionStatusPending {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "admission has already been reviewed")
		}

		departmentID := req.DepartmentID
		if departmentID == "" && admission.DesiredDepartmentID != nil {
			departmentID = *admission.DesiredDepartmentID
		}
		if departmentID == "" {
			return appErrors.Validation("admission has no department")
		}
		department, err := s.departments.FindByID(ctx, departmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Validation("department does not exist")
			}
			return err
		}
		year, err := sessionYear(admission.Session)
		if err != nil {
			return appErrors.Validation(err.Error())
		}

		taken, err := s.students.RegistrationExists(ctx, req.CurrentRegistrationNumber)
		if err != nil {
			return err
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, "registration number already in use")
		}

		if err := s.students.LockScope(ctx, department.ID, admission.Session); err != nil {
			return err
		}
		count, err := s.students.CountInScope(ctx, department.ID, admission.Session)
		if err != nil {
			return err
		}
		roll, err := NextRollNumber(ctx, s.students, department.Code, year, count, s.cfg.RollNumberMaxAttempts)
		if err != nil {
			return err
		}

		now := s.now()
		semester := req.Semester
		if semester == 0 {
			semester = 1
		}
		enrolled := req.EnrollmentDate
		if enrolled.IsZero() {
			enrolled = models.NewDate(now)
		}
		userID, admissionID := admission.UserID, admission.ID
		student = &models.Student{
			UserID:                    &userID,
			AdmissionID:               &admissionID,
			ApplicantProfile:          admission.ApplicantProfile,
			DepartmentID:              department.ID,
			Session:                   admission.Session,
			Shift:                     admission.Shift,
			CurrentGroup:              req.CurrentGroup,
			Semester:                  semester,
			EnrollmentDate:            enrolled,
			CurrentRollNumber:         roll,
			CurrentRegistrationNumber: req.CurrentRegistrationNumber,
			Status:                    models.StudentStatusActive,
		}
		if err := s.students.Create(ctx, student); err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintStudentRollNumber, repository.ConstraintStudentRegistration) {
				return appErrors.Clone(appErrors.ErrConflict, "roll or registration number already in use")
			}
			return err
		}

		var notes *string
		if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
			notes = &trimmed
		}
		ok, err := s.admissions.Review(ctx, admission.ID, models.AdmissionStatusApproved, actor.UserID, notes, now)
		if err != nil {
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "admission has already been reviewed")
		}
		return s.users.UpdateAdmissionStatus(ctx, admission.UserID, models.UserAdmissionApproved, &student.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, passThrough(err, "failed to approve admission")
	}

	invalidateStipendCalculations(ctx, s.cache, s.logger)
	s.metrics.RecordTransition("admission", string(models.AdmissionStatusApproved))
	s.logger.Info("admission approved",
		zap.String("admission_id", target.ID),
		zap.String("student_id", student.ID),
		zap.String("roll", student.CurrentRollNumber),
	)
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAdmissionApprove, "admission", target.ID, map[string]interface{}{
		"studentId":  student.ID,
		"rollNumber": student.CurrentRollNumber,
	}))
	return student, nil
}

// Reject closes a pending admission. Notes are mandatory.
func (s *AdmissionService) Reject(ctx context.Context, actor *models.JWTClaims, ref string, req dto.RejectAdmissionRequest) (*models.Admission, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "rejection requires notes")
	}
	target, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}

	var admission *models.Admission
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		admission, err = s.admissions.FindByIDForUpdate(ctx, target.ID)
		if err != nil {
			return err
		}
		if admission.Status != models.AdmissionStatusPending {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "admission has already been reviewed")
		}
		now := s.now()
		ok, err := s.admissions.Review(ctx, admission.ID, models.AdmissionStatusRejected, actor.UserID, &notes, now)
		if err != nil {
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrAlreadyProcessed, "admission has already been reviewed")
		}
		reviewer := actor.UserID
		admission.Status = models.AdmissionStatusRejected
		admission.ReviewedBy = &reviewer
		admission.ReviewNotes = &notes
		admission.ReviewedAt = &now
		return s.users.UpdateAdmissionStatus(ctx, admission.UserID, models.UserAdmissionRejected, nil)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, passThrough(err, "failed to reject admission")
	}

	s.metrics.RecordTransition("admission", string(models.AdmissionStatusRejected))
	s.logger.Info("admission rejected", zap.String("admission_id", admission.ID))
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAdmissionReject, "admission", admission.ID, map[string]interface{}{
		"notes": notes,
	}))
	return admission, nil
}

// Reapply returns the caller's rejected admission to pending.
func (s *AdmissionService) Reapply(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error) {
	if err := requireApplicant(actor); err != nil {
		return nil, err
	}

	var admission *models.Admission
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.admissions.FindSubmittedByUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if existing.Status != models.AdmissionStatusRejected {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "only rejected admissions can be reopened")
		}
		now := s.now()
		ok, err := s.admissions.Reopen(ctx, existing.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "only rejected admissions can be reopened")
		}
		existing.Status = models.AdmissionStatusPending
		existing.ReviewedBy = nil
		existing.ReviewNotes = nil
		existing.ReviewedAt = nil
		existing.SubmittedAt = &now
		admission = existing
		return s.users.UpdateAdmissionStatus(ctx, existing.UserID, models.UserAdmissionPending, nil)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no admission submitted")
		}
		return nil, passThrough(err, "failed to reapply")
	}

	s.metrics.RecordTransition("admission", string(models.AdmissionStatusPending))
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAdmissionReapply, "admission", admission.ID, nil))
	return admission, nil
}
