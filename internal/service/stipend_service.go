package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/repository"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/export"
)

const (
	stipendCachePrefix  = "stipend:calc:"
	stipendCachePattern = stipendCachePrefix + "*"
)

type stipendStore interface {
	CreateCriteria(ctx context.Context, criteria *models.StipendCriteria) error
	UpdateCriteria(ctx context.Context, criteria *models.StipendCriteria) error
	FindCriteriaByID(ctx context.Context, id string) (*models.StipendCriteria, error)
	ListCriteria(ctx context.Context, activeOnly bool) ([]models.StipendCriteria, error)
	UpsertEligibility(ctx context.Context, eligibility *models.StipendEligibility) error
	Rerank(ctx context.Context, criteriaID string) error
	ListEligibility(ctx context.Context, criteriaID string) ([]models.StipendEligibility, error)
	FindEligibilityByID(ctx context.Context, id string) (*models.StipendEligibility, error)
	SetApproval(ctx context.Context, id string, approved bool, approverID *string, at *time.Time) error
}

type studentScanner interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Scan(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type calculationCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type pdfRenderer interface {
	Render(doc export.Document, data export.Dataset) ([]byte, error)
}

// StipendService evaluates students against stipend criteria and keeps saved, ranked snapshots.
type StipendService struct {
	tx        txRunner
	stipends  stipendStore
	students  studentScanner
	cache     calculationCache
	cacheTTL  time.Duration
	renderer  pdfRenderer
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// StipendServiceOption configures the service.
type StipendServiceOption func(*StipendService)

// WithStipendCache caches calculation runs for ttl.
func WithStipendCache(cache calculationCache, ttl time.Duration) StipendServiceOption {
	return func(s *StipendService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithStipendMetrics records calculation latency and approvals.
func WithStipendMetrics(metrics *MetricsService) StipendServiceOption {
	return func(s *StipendService) {
		s.metrics = metrics
	}
}

// WithStipendRenderer overrides the roster renderer.
func WithStipendRenderer(renderer pdfRenderer) StipendServiceOption {
	return func(s *StipendService) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithStipendClock overrides the time source.
func WithStipendClock(now func() time.Time) StipendServiceOption {
	return func(s *StipendService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStipendService constructs the service.
func NewStipendService(tx txRunner, stipends stipendStore, students studentScanner, audit auditLogger, logger *zap.Logger, opts ...StipendServiceOption) *StipendService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StipendService{
		tx:        tx,
		stipends:  stipends,
		students:  students,
		renderer:  export.NewPDFExporter(),
		audit:     audit,
		validator: NewValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *StipendService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, stipendCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stipend cache", zap.Error(err))
	}
}

func applyCriteriaRequest(criteria *models.StipendCriteria, req dto.CriteriaRequest) {
	criteria.Name = strings.TrimSpace(req.Name)
	criteria.Description = strings.TrimSpace(req.Description)
	criteria.DepartmentID = req.DepartmentID
	criteria.Semester = req.Semester
	criteria.Shift = req.Shift
	criteria.Session = req.Session
	criteria.MinAttendance = req.MinAttendance
	criteria.MinGPA = req.MinGPA
	criteria.PassRequirement = req.PassRequirement
	if req.IsActive != nil {
		criteria.IsActive = *req.IsActive
	}
}

// CreateCriteria stores a new criteria. Names are unique.
func (s *StipendService) CreateCriteria(ctx context.Context, actor *models.JWTClaims, req dto.CriteriaRequest) (*models.StipendCriteria, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid stipend criteria")
	}
	createdBy := actor.UserID
	criteria := &models.StipendCriteria{IsActive: true, CreatedBy: &createdBy}
	applyCriteriaRequest(criteria, req)
	if err := s.stipends.CreateCriteria(ctx, criteria); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintStipendCriteriaName) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "stipend criteria name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create stipend criteria")
	}
	return criteria, nil
}

// UpdateCriteria replaces a criteria's definition. Cached calculations are dropped.
func (s *StipendService) UpdateCriteria(ctx context.Context, actor *models.JWTClaims, id string, req dto.CriteriaRequest) (*models.StipendCriteria, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid stipend criteria")
	}
	criteria, err := s.stipends.FindCriteriaByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}
	applyCriteriaRequest(criteria, req)
	if err := s.stipends.UpdateCriteria(ctx, criteria); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintStipendCriteriaName) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "stipend criteria name already exists")
		}
		return nil, lookupError(err, "stipend criteria not found", "failed to update stipend criteria")
	}
	s.invalidate(ctx)
	return criteria, nil
}

// GetCriteria returns one criteria.
func (s *StipendService) GetCriteria(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendCriteria, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	criteria, err := s.stipends.FindCriteriaByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}
	return criteria, nil
}

// ListCriteria returns stored criteria.
func (s *StipendService) ListCriteria(ctx context.Context, actor *models.JWTClaims, activeOnly bool) ([]models.StipendCriteria, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	criteria, err := s.stipends.ListCriteria(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stipend criteria")
	}
	if criteria == nil {
		criteria = []models.StipendCriteria{}
	}
	return criteria, nil
}

// resolveCriteria loads the stored criteria, or builds an ad-hoc one, and applies request overrides.
func (s *StipendService) resolveCriteria(ctx context.Context, req dto.CalculateRequest) (models.StipendCriteria, error) {
	criteria := models.StipendCriteria{Name: "ad-hoc", PassRequirement: models.PassAny, IsActive: true}
	if req.CriteriaID != "" {
		stored, err := s.stipends.FindCriteriaByID(ctx, req.CriteriaID)
		if err != nil {
			return criteria, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
		}
		criteria = *stored
	}
	if req.MinAttendance != nil {
		criteria.MinAttendance = *req.MinAttendance
	}
	if req.MinGPA != nil {
		criteria.MinGPA = req.MinGPA
	}
	if req.PassRequirement != "" {
		criteria.PassRequirement = req.PassRequirement
	}
	return criteria, nil
}

func calculationFilter(criteria models.StipendCriteria, req dto.CalculateRequest) models.StudentFilter {
	filter := models.StudentFilter{
		DepartmentID: req.DepartmentID,
		Semester:     req.Semester,
		Shift:        req.Shift,
		Session:      req.Session,
		Status:       models.StudentStatusActive,
		Search:       strings.TrimSpace(req.Search),
	}
	if filter.DepartmentID == "" && criteria.DepartmentID != nil {
		filter.DepartmentID = *criteria.DepartmentID
	}
	if filter.Semester == 0 && criteria.Semester != nil {
		filter.Semester = *criteria.Semester
	}
	if filter.Shift == "" && criteria.Shift != nil {
		filter.Shift = *criteria.Shift
	}
	if filter.Session == "" && criteria.Session != nil {
		filter.Session = *criteria.Session
	}
	return filter
}

// inCalculationScope reports whether student would be picked up by a calculation run with filter.
func inCalculationScope(student *models.Student, filter models.StudentFilter) bool {
	switch {
	case student.Status != filter.Status:
		return false
	case filter.DepartmentID != "" && student.DepartmentID != filter.DepartmentID:
		return false
	case filter.Semester != 0 && student.Semester != filter.Semester:
		return false
	case filter.Shift != "" && student.Shift != filter.Shift:
		return false
	case filter.Session != "" && student.Session != filter.Session:
		return false
	}
	return true
}

func calculationKey(criteria models.StipendCriteria, filter models.StudentFilter) (string, error) {
	payload, err := json.Marshal(struct {
		ID              string
		UpdatedAt       time.Time
		MinAttendance   float64
		MinGPA          *float64
		PassRequirement models.PassRequirement
		Filter          models.StudentFilter
	}{criteria.ID, criteria.UpdatedAt, criteria.MinAttendance, criteria.MinGPA, criteria.PassRequirement, filter})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return stipendCachePrefix + hex.EncodeToString(sum[:]), nil
}

// Calculate evaluates every active student in scope. Eligible students are ranked by
// (gpa desc, attendance desc, roll asc); stats describe the eligible set.
func (s *StipendService) Calculate(ctx context.Context, actor *models.JWTClaims, req dto.CalculateRequest) (*dto.CalculationResult, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid calculation request")
	}
	criteria, err := s.resolveCriteria(ctx, req)
	if err != nil {
		return nil, err
	}
	filter := calculationFilter(criteria, req)

	key, keyErr := calculationKey(criteria, filter)
	if keyErr == nil && s.cache != nil {
		var cached dto.CalculationResult
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	students, err := s.students.Scan(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	result := &dto.CalculationResult{
		Criteria:   criteria,
		Eligible:   []dto.EligibilityResult{},
		Ineligible: []dto.EligibilityResult{},
	}
	for i := range students {
		verdict := EvaluateEligibility(&students[i], &criteria)
		if verdict.IsEligible {
			result.Eligible = append(result.Eligible, verdict)
		} else {
			result.Ineligible = append(result.Ineligible, verdict)
		}
	}
	RankEligibility(result.Eligible)
	result.Stats = SummarizeEligibility(result.Eligible, len(students))
	s.metrics.ObserveCalculation(time.Since(start))

	if keyErr == nil && s.cache != nil {
		_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	}
	s.logger.Debug("stipend calculation finished",
		zap.String("criteria_id", criteria.ID),
		zap.Int("evaluated", len(students)),
		zap.Int("eligible", len(result.Eligible)))
	return result, nil
}

// SaveEligibility evaluates the given students against a stored criteria, upserts their
// snapshots and re-ranks every saved row of that criteria. Approval state is kept.
func (s *StipendService) SaveEligibility(ctx context.Context, actor *models.JWTClaims, req dto.SaveEligibilityRequest) ([]models.StipendEligibility, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid eligibility request")
	}
	criteria, err := s.stipends.FindCriteriaByID(ctx, req.CriteriaID)
	if err != nil {
		return nil, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}

	scope := calculationFilter(*criteria, dto.CalculateRequest{})
	evaluatedAt := s.now()
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		students := make([]*models.Student, 0, len(req.StudentIDs))
		for _, studentID := range req.StudentIDs {
			student, err := s.students.FindByID(ctx, studentID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
				}
				return err
			}
			if !inCalculationScope(student, scope) {
				return appErrors.Validation(fmt.Sprintf("student %s is outside the scope of this criteria", studentID))
			}
			students = append(students, student)
		}
		for _, student := range students {
			verdict := EvaluateEligibility(student, criteria)
			snapshot := &models.StipendEligibility{
				StudentID:          student.ID,
				CriteriaID:         criteria.ID,
				EligibilityMetrics: verdict.EligibilityMetrics,
				IsEligible:         verdict.IsEligible,
				EvaluatedAt:        evaluatedAt,
			}
			if err := s.stipends.UpsertEligibility(ctx, snapshot); err != nil {
				return err
			}
		}
		return s.stipends.Rerank(ctx, criteria.ID)
	})
	if err != nil {
		return nil, passThrough(err, "failed to save stipend eligibility")
	}

	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionEligibilitySave, "stipend_criteria", criteria.ID, req))
	return s.listEligibility(ctx, criteria.ID)
}

func (s *StipendService) listEligibility(ctx context.Context, criteriaID string) ([]models.StipendEligibility, error) {
	rows, err := s.stipends.ListEligibility(ctx, criteriaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stipend eligibility")
	}
	if rows == nil {
		rows = []models.StipendEligibility{}
	}
	return rows, nil
}

// ListEligibility returns saved snapshots of a criteria, ranked first.
func (s *StipendService) ListEligibility(ctx context.Context, actor *models.JWTClaims, criteriaID string) ([]models.StipendEligibility, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := s.stipends.FindCriteriaByID(ctx, criteriaID); err != nil {
		return nil, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}
	return s.listEligibility(ctx, criteriaID)
}

// Approve marks an eligible snapshot approved.
func (s *StipendService) Approve(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendEligibility, error) {
	return s.review(ctx, actor, id, true)
}

// Unapprove clears the approval of a snapshot.
func (s *StipendService) Unapprove(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendEligibility, error) {
	return s.review(ctx, actor, id, false)
}

func (s *StipendService) review(ctx context.Context, actor *models.JWTClaims, id string, approve bool) (*models.StipendEligibility, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	row, err := s.stipends.FindEligibilityByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "eligibility record not found", "failed to load eligibility record")
	}
	if row.IsApproved == approve {
		if approve {
			return nil, appErrors.Clone(appErrors.ErrAlreadyProcessed, "eligibility record is already approved")
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "eligibility record is not approved")
	}
	if approve && !row.IsEligible {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only eligible students can be approved")
	}

	var (
		approverID *string
		at         *time.Time
	)
	if approve {
		uid := actor.UserID
		now := s.now()
		approverID, at = &uid, &now
	}
	if err := s.stipends.SetApproval(ctx, id, approve, approverID, at); err != nil {
		return nil, lookupError(err, "eligibility record not found", "failed to update eligibility approval")
	}
	row.IsApproved = approve
	row.ApprovedBy = approverID
	row.ApprovedAt = at

	status := "unapproved"
	if approve {
		status = "approved"
	}
	s.metrics.RecordTransition("stipend", status)
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionEligibilityReview, "stipend_eligibility", id, map[string]interface{}{
		"approved": approve,
	}))
	return row, nil
}

var rosterColumns = []export.Column{
	{Key: "rank", Title: "Rank", Weight: 0.6, Align: "C"},
	{Key: "roll", Title: "Roll", Weight: 1.3},
	{Key: "name", Title: "Student", Weight: 2.6},
	{Key: "attendance", Title: "Attendance %", Weight: 1.1, Align: "R"},
	{Key: "gpa", Title: "GPA", Weight: 0.8, Align: "R"},
	{Key: "referred", Title: "Referred", Weight: 0.8, Align: "R"},
	{Key: "approved", Title: "Approved", Weight: 0.9, Align: "C"},
}

// Roster renders the ranked eligible snapshots of a criteria as a PDF.
func (s *StipendService) Roster(ctx context.Context, actor *models.JWTClaims, criteriaID string) ([]byte, string, error) {
	if err := requireStaff(actor); err != nil {
		return nil, "", err
	}
	criteria, err := s.stipends.FindCriteriaByID(ctx, criteriaID)
	if err != nil {
		return nil, "", lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}
	rows, err := s.listEligibility(ctx, criteriaID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{Columns: rosterColumns}
	for _, row := range rows {
		if !row.IsEligible {
			continue
		}
		rank := ""
		if row.Rank != nil {
			rank = fmt.Sprintf("%d", *row.Rank)
		}
		approved := "No"
		if row.IsApproved {
			approved = "Yes"
		}
		data.Rows = append(data.Rows, map[string]string{
			"rank":       rank,
			"roll":       row.RollNumber,
			"name":       row.StudentName,
			"attendance": fmt.Sprintf("%.2f", row.AttendancePercentage),
			"gpa":        fmt.Sprintf("%.2f", row.GPA),
			"referred":   fmt.Sprintf("%d", row.ReferredSubjects),
			"approved":   approved,
		})
	}

	subtitle := []string{fmt.Sprintf("Minimum attendance %.0f%%", criteria.MinAttendance)}
	if criteria.MinGPA != nil {
		subtitle = append(subtitle, fmt.Sprintf("Minimum GPA %.2f", *criteria.MinGPA))
	}
	subtitle = append(subtitle, "Pass requirement "+string(criteria.PassRequirement))
	doc := export.Document{
		Title:    "Stipend roster: " + criteria.Name,
		Subtitle: subtitle,
		Footer:   "Generated " + s.now().Format("2006-01-02 15:04 MST"),
	}
	content, err := s.renderer.Render(doc, data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render stipend roster")
	}
	filename := fmt.Sprintf("stipend-roster-%s.pdf", unsafePathChars.ReplaceAllString(strings.ToLower(criteria.Name), "-"))
	return content, filename, nil
}
