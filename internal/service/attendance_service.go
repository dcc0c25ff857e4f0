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
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

const skippedAuthoritative = "record already approved"

type attendanceStore interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord, protect bool) (bool, error)
	FindByIDsForUpdate(ctx context.Context, ids []string) ([]models.AttendanceRecord, error)
	Approve(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error)
	Reject(ctx context.Context, ids []string, reviewerID, reason string, at time.Time) (int64, error)
	SubmitDrafts(ctx context.Context, ids []string, authorID string) (int64, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	Summary(ctx context.Context, studentID string, semester int) ([]models.SubjectAttendanceSummary, error)
}

type routineReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassRoutine, error)
}

type studentProfileReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AttendanceService runs the captain-submits, teacher-approves attendance workflow.
// Teachers and admins write records directly.
type AttendanceService struct {
	tx         txRunner
	attendance attendanceStore
	routines   routineReader
	students   studentProfileReader
	audit      auditLogger
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// AttendanceServiceOption configures the service.
type AttendanceServiceOption func(*AttendanceService)

// WithAttendanceMetrics records workflow transitions.
func WithAttendanceMetrics(metrics *MetricsService) AttendanceServiceOption {
	return func(s *AttendanceService) {
		s.metrics = metrics
	}
}

// WithAttendanceClock overrides the time source.
func WithAttendanceClock(now func() time.Time) AttendanceServiceOption {
	return func(s *AttendanceService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(tx txRunner, attendance attendanceStore, routines routineReader, students studentProfileReader, audit auditLogger, logger *zap.Logger, opts ...AttendanceServiceOption) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{
		tx:         tx,
		attendance: attendance,
		routines:   routines,
		students:   students,
		audit:      audit,
		validator:  NewValidator(),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// writeMode returns the status new records get for actor and whether authoritative rows are protected.
func writeMode(actor *models.JWTClaims, draft bool) (models.AttendanceStatus, bool, error) {
	if actor == nil {
		return "", false, appErrors.ErrUnauthorized
	}
	switch actor.Role {
	case models.RoleCaptain:
		if draft {
			return models.AttendanceStatusDraft, true, nil
		}
		return models.AttendanceStatusPending, true, nil
	case models.RoleTeacher, models.RoleAdmin:
		return models.AttendanceStatusDirect, false, nil
	}
	return "", false, appErrors.Clone(appErrors.ErrForbidden, "only captains and staff may record attendance")
}

// Record writes a batch of attendance. Captain submissions become pending (or draft) and
// never overwrite approved or direct rows; those entries come back as skipped.
func (s *AttendanceService) Record(ctx context.Context, actor *models.JWTClaims, req dto.RecordAttendanceRequest) (*dto.RecordAttendanceResult, error) {
	status, protect, err := writeMode(actor, req.Draft)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}

	records, err := s.buildRecords(ctx, actor, status, req)
	if err != nil {
		return nil, err
	}

	result := &dto.RecordAttendanceResult{Saved: []models.AttendanceRecord{}, Skipped: []dto.SkippedAttendance{}}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range records {
			record := records[i]
			saved, err := s.attendance.Upsert(ctx, &record, protect)
			if err != nil {
				return err
			}
			if !saved {
				result.Skipped = append(result.Skipped, dto.SkippedAttendance{
					StudentID: record.StudentID,
					Date:      record.Date.String(),
					Reason:    skippedAuthoritative,
				})
				continue
			}
			result.Saved = append(result.Saved, record)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to record attendance")
	}

	for range result.Saved {
		s.metrics.RecordTransition("attendance", string(status))
	}
	s.logger.Info("attendance recorded",
		zap.String("recorded_by", actor.UserID),
		zap.String("status", string(status)),
		zap.Int("saved", len(result.Saved)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *AttendanceService) buildRecords(ctx context.Context, actor *models.JWTClaims, status models.AttendanceStatus, req dto.RecordAttendanceRequest) ([]models.AttendanceRecord, error) {
	routines := map[string]*models.ClassRoutine{}
	today := models.NewDate(s.now())
	records := make([]models.AttendanceRecord, 0, len(req.Records))

	for _, entry := range req.Records {
		routineID := entry.ClassRoutineID
		if routineID == nil {
			routineID = req.ClassRoutineID
		}
		date := entry.Date
		if date == nil {
			date = req.Date
		}
		if date == nil || date.IsZero() {
			return nil, appErrors.Validation("attendance date is required")
		}
		if date.After(today.Time) {
			return nil, appErrors.Validation("attendance cannot be recorded for a future date")
		}

		record := models.AttendanceRecord{
			StudentID:      entry.StudentID,
			SubjectCode:    strings.ToUpper(strings.TrimSpace(entry.SubjectCode)),
			SubjectName:    strings.TrimSpace(entry.SubjectName),
			Semester:       entry.Semester,
			ClassRoutineID: routineID,
			Date:           *date,
			IsPresent:      entry.IsPresent,
			Status:         status,
			RecordedBy:     actor.UserID,
		}
		if routineID != nil {
			routine, ok := routines[*routineID]
			if !ok {
				loaded, err := s.routines.FindByID(ctx, *routineID)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return nil, appErrors.Validation("unknown class routine " + *routineID)
					}
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class routine")
				}
				routine = loaded
				routines[*routineID] = routine
			}
			if record.SubjectCode == "" {
				record.SubjectCode = strings.ToUpper(routine.SubjectCode)
			}
			if record.SubjectName == "" {
				record.SubjectName = routine.SubjectName
			}
			if record.Semester == 0 {
				record.Semester = routine.Semester
			}
		}
		if record.SubjectCode == "" {
			return nil, appErrors.Validation("subjectCode is required without a class routine")
		}
		if record.Semester == 0 {
			return nil, appErrors.Validation("semester is required without a class routine")
		}
		records = append(records, record)
	}
	return records, nil
}

// SubmitDrafts moves the captain's own drafts to pending.
func (s *AttendanceService) SubmitDrafts(ctx context.Context, actor *models.JWTClaims, req dto.SubmitAttendanceRequest) (*dto.AttendanceDecisionResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleCaptain {
		return nil, appErrors.Clone(appErrors.ErrInvalidRole, "only captains submit attendance drafts")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid submission")
	}
	updated, err := s.attendance.SubmitDrafts(ctx, req.AttendanceIDs, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit drafts")
	}
	return &dto.AttendanceDecisionResult{Action: "submit", Updated: updated}, nil
}

// Decide approves or rejects pending records. Every id must exist and be pending or the
// whole batch fails.
func (s *AttendanceService) Decide(ctx context.Context, actor *models.JWTClaims, req dto.AttendanceDecisionRequest) (*dto.AttendanceDecisionResult, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance decision")
	}
	reason := strings.TrimSpace(req.RejectionReason)
	if req.Action == "reject" && reason == "" {
		return nil, appErrors.Validation("rejection_reason is required when rejecting")
	}
	ids := uniqueStrings(req.AttendanceIDs)

	var updated int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		records, err := s.attendance.FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(records) != len(ids) {
			return appErrors.Clone(appErrors.ErrNotFound, "some attendance records were not found")
		}
		for _, record := range records {
			if record.Status != models.AttendanceStatusPending {
				return appErrors.Clone(appErrors.ErrInvalidTransition, "attendance "+record.ID+" is "+string(record.Status)+", not pending")
			}
		}
		now := s.now()
		if req.Action == "approve" {
			updated, err = s.attendance.Approve(ctx, ids, actor.UserID, now)
		} else {
			updated, err = s.attendance.Reject(ctx, ids, actor.UserID, reason, now)
		}
		return err
	})
	if err != nil {
		return nil, passThrough(err, "failed to review attendance")
	}

	status := models.AttendanceStatusApproved
	if req.Action == "reject" {
		status = models.AttendanceStatusRejected
	}
	for i := int64(0); i < updated; i++ {
		s.metrics.RecordTransition("attendance", string(status))
	}
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAttendanceReview, "attendance", strings.Join(ids, ","), map[string]interface{}{
		"action":  req.Action,
		"count":   updated,
		"reason":  reason,
		"records": ids,
	}))
	return &dto.AttendanceDecisionResult{Action: req.Action, Updated: updated}, nil
}

// List returns attendance visible to the caller. Students see only their own authoritative
// rows; captains see what they recorded.
func (s *AttendanceService) List(ctx context.Context, actor *models.JWTClaims, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	switch actor.Role {
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, lookupError(err, "no student profile for this account", "failed to load student")
		}
		filter.StudentID = student.ID
		filter.Statuses = models.AuthoritativeAttendanceStatuses
	case models.RoleCaptain:
		filter.RecordedBy = actor.UserID
	}
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

// Pending lists records awaiting review.
func (s *AttendanceService) Pending(ctx context.Context, actor *models.JWTClaims, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	filter.Statuses = []models.AttendanceStatus{models.AttendanceStatusPending}
	return s.List(ctx, actor, filter)
}

// StudentSummary aggregates approved and direct attendance per subject.
func (s *AttendanceService) StudentSummary(ctx context.Context, actor *models.JWTClaims, studentID string, semester int) ([]models.SubjectAttendanceSummary, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if !actor.Role.Staff() && (student.UserID == nil || *student.UserID != actor.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another user")
	}
	summary, err := s.attendance.Summary(ctx, student.ID, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	for i := range summary {
		summary[i].Percentage = round2(summary[i].Percentage)
	}
	if summary == nil {
		summary = []models.SubjectAttendanceSummary{}
	}
	return summary, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
