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

type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListPeers(ctx context.Context, departmentID string, semester int, shift string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateResults(ctx context.Context, id string, results models.SemesterResults) error
	UpdateAttendance(ctx context.Context, id string, attendance models.SemesterAttendances) error
	UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error
	RevertOrphanedGraduates(ctx context.Context) ([]string, error)
}

type alumniCreator interface {
	ExistsForStudent(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, alumni *models.Alumni) error
}

type attendanceSummarizer interface {
	Summary(ctx context.Context, studentID string, semester int) ([]models.SubjectAttendanceSummary, error)
}

type criteriaReader interface {
	FindCriteriaByID(ctx context.Context, id string) (*models.StipendCriteria, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// StudentService owns the student aggregate: enrollment updates, results, attendance
// summaries and graduation into alumni.
type StudentService struct {
	tx         txRunner
	students   studentStore
	alumni     alumniCreator
	attendance attendanceSummarizer
	criteria   criteriaReader
	cache      cacheInvalidator
	audit      auditLogger
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// StudentServiceOption configures the service.
type StudentServiceOption func(*StudentService)

// WithStudentCache invalidates cached stipend calculations on writes.
func WithStudentCache(cache cacheInvalidator) StudentServiceOption {
	return func(s *StudentService) {
		s.cache = cache
	}
}

// WithStudentMetrics records workflow transitions.
func WithStudentMetrics(metrics *MetricsService) StudentServiceOption {
	return func(s *StudentService) {
		s.metrics = metrics
	}
}

// WithStudentClock overrides the time source.
func WithStudentClock(now func() time.Time) StudentServiceOption {
	return func(s *StudentService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStudentService constructs the service.
func NewStudentService(tx txRunner, students studentStore, alumni alumniCreator, attendance attendanceSummarizer, criteria criteriaReader, audit auditLogger, logger *zap.Logger, opts ...StudentServiceOption) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StudentService{
		tx:         tx,
		students:   students,
		alumni:     alumni,
		attendance: attendance,
		criteria:   criteria,
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

func (s *StudentService) invalidateCalculations(ctx context.Context) {
	invalidateStipendCalculations(ctx, s.cache, s.logger)
}

// invalidateStipendCalculations drops cached calculations after the student
// population or its results change.
func invalidateStipendCalculations(ctx context.Context, cache cacheInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, stipendCachePattern); err != nil {
		logger.Warn("failed to invalidate stipend cache", zap.Error(err))
	}
}

// List returns students matching filter.
func (s *StudentService) List(ctx context.Context, actor *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
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
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a student visible to the caller.
func (s *StudentService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if !actor.Role.Staff() && (student.UserID == nil || *student.UserID != actor.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another user")
	}
	return student, nil
}

// Me returns the caller's own student profile.
func (s *StudentService) Me(ctx context.Context, actor *models.JWTClaims) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "no student profile for this account", "failed to load student")
	}
	return student, nil
}

func terminal(status models.StudentStatus) bool {
	return status == models.StudentStatusGraduated || status == models.StudentStatusDiscontinued
}

// Update applies a partial update. Semester only advances one step after the current
// semester's result is recorded; graduation is reserved for promotion.
func (s *StudentService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	var (
		student    *models.Student
		prevStatus models.StudentStatus
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		student, err = s.students.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		prevStatus = student.Status

		if req.Semester != nil && *req.Semester != student.Semester {
			if terminal(student.Status) {
				return appErrors.Clone(appErrors.ErrInvalidTransition, "student record is closed")
			}
			if *req.Semester != student.Semester+1 {
				return appErrors.Clone(appErrors.ErrInvalidTransition, "semester may only advance by one")
			}
			if _, ok := student.SemesterResults.For(student.Semester); !ok {
				return appErrors.Clone(appErrors.ErrInvalidTransition, "current semester result must be recorded before advancing")
			}
			student.Semester = *req.Semester
		}

		if req.Status != nil && *req.Status != student.Status {
			if terminal(student.Status) {
				return appErrors.Clone(appErrors.ErrInvalidTransition, "student record is closed")
			}
			switch *req.Status {
			case models.StudentStatusGraduated:
				return appErrors.Clone(appErrors.ErrInvalidTransition, "graduation happens through promotion to alumni")
			case models.StudentStatusDiscontinued:
				if req.DiscontinuedReason == nil || strings.TrimSpace(*req.DiscontinuedReason) == "" || req.LastSemester == nil {
					return appErrors.Validation("discontinuation requires discontinuedReason and lastSemester")
				}
				reason := strings.TrimSpace(*req.DiscontinuedReason)
				lastSemester := *req.LastSemester
				student.DiscontinuedReason = &reason
				student.LastSemester = &lastSemester
			}
			student.Status = *req.Status
		}

		if req.Shift != nil {
			student.Shift = *req.Shift
		}
		if req.CurrentGroup != nil {
			student.CurrentGroup = *req.CurrentGroup
		}
		if req.Email != nil {
			student.Email = *req.Email
		}
		if req.MobileStudent != nil {
			student.MobileStudent = *req.MobileStudent
		}
		if req.GuardianMobile != nil {
			student.GuardianMobile = *req.GuardianMobile
		}
		if req.PresentAddress != nil {
			if err := s.validator.Struct(req.PresentAddress); err != nil {
				return validationError(err, "invalid present address")
			}
			student.PresentAddress = *req.PresentAddress
		}
		return s.students.Update(ctx, student)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, passThrough(err, "failed to update student")
	}

	if student.Status != prevStatus {
		s.metrics.RecordTransition("student", string(student.Status))
		s.logger.Info("student status changed", zap.String("student_id", student.ID),
			zap.String("from", string(prevStatus)), zap.String("to", string(student.Status)))
	}
	s.invalidateCalculations(ctx)
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionStudentUpdate, "student", student.ID, req))
	return student, nil
}

// RecordSemesterResult stores or replaces the result of one semester. It never changes the
// student's status; AlumniEligible reports whether every semester is now completed.
func (s *StudentService) RecordSemesterResult(ctx context.Context, actor *models.JWTClaims, id string, result models.SemesterResult) (*dto.RecordResultResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(result); err != nil {
		return nil, validationError(err, "invalid semester result")
	}
	if result.ReferredSubjects == nil {
		result.ReferredSubjects = []string{}
	}
	if result.Subjects == nil {
		result.Subjects = []models.SubjectGrade{}
	}

	var student *models.Student
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		student, err = s.students.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if result.Semester > student.Semester {
			return appErrors.Validation("result semester is ahead of the student's current semester")
		}
		student.SemesterResults = student.SemesterResults.Upsert(result)
		return s.students.UpdateResults(ctx, student.ID, student.SemesterResults)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, passThrough(err, "failed to record semester result")
	}

	s.invalidateCalculations(ctx)
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionStudentResult, "student", student.ID, result))
	return &dto.RecordResultResponse{Student: student, AlumniEligible: student.SemesterResults.AllCompleted()}, nil
}

func normalizeSemesterAttendance(entry *models.SemesterAttendance) error {
	var present, total int
	for i := range entry.Subjects {
		subject := &entry.Subjects[i]
		if subject.Present > subject.Total {
			return appErrors.Validation("present classes exceed total for " + subject.Code)
		}
		subject.Code = strings.ToUpper(strings.TrimSpace(subject.Code))
		subject.Percentage = 0
		if subject.Total > 0 {
			subject.Percentage = round2(float64(subject.Present) / float64(subject.Total) * 100)
		}
		present += subject.Present
		total += subject.Total
	}
	if entry.AveragePercentage == nil && total > 0 {
		avg := round2(float64(present) / float64(total) * 100)
		entry.AveragePercentage = &avg
	}
	return nil
}

func (s *StudentService) storeSemesterAttendance(ctx context.Context, id string, build func(student *models.Student) (models.SemesterAttendance, error)) (*models.Student, error) {
	var student *models.Student
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		student, err = s.students.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		entry, err := build(student)
		if err != nil {
			return err
		}
		if entry.Semester > student.Semester {
			return appErrors.Validation("attendance semester is ahead of the student's current semester")
		}
		if err := normalizeSemesterAttendance(&entry); err != nil {
			return err
		}
		student.SemesterAttendance = student.SemesterAttendance.Upsert(entry)
		return s.students.UpdateAttendance(ctx, student.ID, student.SemesterAttendance)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, passThrough(err, "failed to record semester attendance")
	}
	s.invalidateCalculations(ctx)
	return student, nil
}

// RecordSemesterAttendance stores or replaces one semester's attendance summary.
func (s *StudentService) RecordSemesterAttendance(ctx context.Context, actor *models.JWTClaims, id string, entry models.SemesterAttendance) (*models.Student, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(entry); err != nil {
		return nil, validationError(err, "invalid semester attendance")
	}
	return s.storeSemesterAttendance(ctx, id, func(*models.Student) (models.SemesterAttendance, error) {
		return entry, nil
	})
}

// RollupAttendance rebuilds the current semester's summary from authoritative attendance records.
func (s *StudentService) RollupAttendance(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.storeSemesterAttendance(ctx, id, func(student *models.Student) (models.SemesterAttendance, error) {
		summaries, err := s.attendance.Summary(ctx, student.ID, student.Semester)
		if err != nil {
			return models.SemesterAttendance{}, err
		}
		year := s.now().Year()
		if existing, ok := student.SemesterAttendance.For(student.Semester); ok && existing.Year != 0 {
			year = existing.Year
		}
		entry := models.SemesterAttendance{Semester: student.Semester, Year: year, Subjects: make([]models.SubjectAttendance, 0, len(summaries))}
		for _, summary := range summaries {
			entry.Subjects = append(entry.Subjects, models.SubjectAttendance{
				Code:    summary.SubjectCode,
				Name:    summary.SubjectName,
				Present: summary.Present,
				Total:   summary.Total,
			})
		}
		return entry, nil
	})
}

// Eligibility evaluates one student against a stored criteria.
func (s *StudentService) Eligibility(ctx context.Context, actor *models.JWTClaims, id, criteriaID string) (*dto.EligibilityResult, error) {
	student, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	criteria, err := s.criteria.FindCriteriaByID(ctx, criteriaID)
	if err != nil {
		return nil, lookupError(err, "stipend criteria not found", "failed to load stipend criteria")
	}
	result := EvaluateEligibility(student, criteria)
	return &result, nil
}

// ClassRank positions the student among active peers of its section.
func (s *StudentService) ClassRank(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ClassRank, error) {
	student, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	peers, err := s.students.ListPeers(ctx, student.DepartmentID, student.Semester, student.Shift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class peers")
	}
	rank, ok := ClassRank(student, peers)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "only active students with a recorded result are ranked")
	}
	return &rank, nil
}

// Promote creates the alumni profile and marks the student graduated in one transaction.
// A second call fails with AlreadyAlumni.
func (s *StudentService) Promote(ctx context.Context, actor *models.JWTClaims, id string, req dto.PromoteStudentRequest) (*models.Alumni, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid promotion payload")
	}

	var alumni *models.Alumni
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		student, err := s.students.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		exists, err := s.alumni.ExistsForStudent(ctx, student.ID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.ErrAlreadyAlumni
		}
		if student.Status == models.StudentStatusDiscontinued {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "discontinued students cannot graduate")
		}
		final, ok := student.SemesterResults.For(models.FinalSemester)
		if !ok || !final.Completed() {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "student has no completed final semester result")
		}

		now := s.now()
		alumni = &models.Alumni{
			StudentID:              student.ID,
			AlumniType:             req.AlumniType,
			GraduationYear:         req.GraduationYear,
			CurrentSupportCategory: req.SupportCategory,
			SupportHistory: models.SupportHistory{{
				To:        req.SupportCategory,
				ChangedAt: now,
				ChangedBy: actor.UserID,
				Notes:     strings.TrimSpace(req.Notes),
			}},
			CurrentEmail: student.Email,
			CurrentPhone: student.MobileStudent,
		}
		if err := s.alumni.Create(ctx, alumni); err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintAlumniStudent) {
				return appErrors.ErrAlreadyAlumni
			}
			return err
		}
		return s.students.UpdateStatus(ctx, student.ID, models.StudentStatusGraduated)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, passThrough(err, "failed to promote student")
	}

	s.metrics.RecordTransition("student", string(models.StudentStatusGraduated))
	s.logger.Info("student promoted to alumni", zap.String("student_id", id), zap.String("alumni_id", alumni.ID))
	s.invalidateCalculations(ctx)
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionStudentPromote, "student", id, map[string]interface{}{
		"alumniId":       alumni.ID,
		"graduationYear": alumni.GraduationYear,
	}))
	return alumni, nil
}

// FixOrphans reverts graduated students without an alumni record to active. Admin only.
func (s *StudentService) FixOrphans(ctx context.Context, actor *models.JWTClaims) (*dto.FixOrphansResult, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators may repair student records")
	}
	return s.reconcile(ctx, actor.UserID)
}

// ReconcileGraduates is the unattended form of FixOrphans used by the admin CLI.
func (s *StudentService) ReconcileGraduates(ctx context.Context) (*dto.FixOrphansResult, error) {
	return s.reconcile(ctx, "")
}

func (s *StudentService) reconcile(ctx context.Context, actorID string) (*dto.FixOrphansResult, error) {
	ids, err := s.students.RevertOrphanedGraduates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to repair graduated students")
	}
	if ids == nil {
		ids = []string{}
	}
	for _, id := range ids {
		s.metrics.RecordTransition("student", string(models.StudentStatusActive))
		emitAudit(ctx, s.audit, s.logger, auditEntry(actorID, models.AuditActionStudentRepair, "student", id, map[string]interface{}{
			"from": models.StudentStatusGraduated,
			"to":   models.StudentStatusActive,
		}))
	}
	if len(ids) > 0 {
		s.logger.Info("reverted orphaned graduates", zap.Int("count", len(ids)))
		s.invalidateCalculations(ctx)
	}
	return &dto.FixOrphansResult{Repaired: ids}, nil
}
