package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type alumniStore interface {
	FindByID(ctx context.Context, id string) (*models.Alumni, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Alumni, error)
	Update(ctx context.Context, alumni *models.Alumni) error
	List(ctx context.Context, filter models.AlumniFilter) ([]models.Alumni, int, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type entryOp int

const (
	entryAdd entryOp = iota
	entryReplace
	entryRemove
)

// AlumniService maintains alumni profiles and their support history.
type AlumniService struct {
	tx        txRunner
	alumni    alumniStore
	students  studentReader
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// AlumniServiceOption configures the service.
type AlumniServiceOption func(*AlumniService)

// WithAlumniMetrics records support category transitions.
func WithAlumniMetrics(metrics *MetricsService) AlumniServiceOption {
	return func(s *AlumniService) {
		s.metrics = metrics
	}
}

// WithAlumniClock overrides the time source.
func WithAlumniClock(now func() time.Time) AlumniServiceOption {
	return func(s *AlumniService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAlumniService constructs the service.
func NewAlumniService(tx txRunner, alumni alumniStore, students studentReader, audit auditLogger, logger *zap.Logger, opts ...AlumniServiceOption) *AlumniService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AlumniService{
		tx:        tx,
		alumni:    alumni,
		students:  students,
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

// authorize allows staff, or the user the graduated student belongs to.
func (s *AlumniService) authorize(ctx context.Context, actor *models.JWTClaims, alumni *models.Alumni) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role.Staff() {
		return nil
	}
	student, err := s.students.FindByID(ctx, alumni.StudentID)
	if err != nil {
		return lookupError(err, "student not found", "failed to load student")
	}
	if student.UserID == nil || *student.UserID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "alumni profile belongs to another user")
	}
	return nil
}

// List returns alumni profiles.
func (s *AlumniService) List(ctx context.Context, actor *models.JWTClaims, filter models.AlumniFilter) ([]models.Alumni, *models.Pagination, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}
	if filter.SupportCategory != "" && !filter.SupportCategory.Valid() {
		return nil, nil, appErrors.Validation("unknown support category")
	}
	alumni, total, err := s.alumni.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list alumni")
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
	return alumni, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one profile.
func (s *AlumniService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Alumni, error) {
	alumni, err := s.alumni.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "alumni not found", "failed to load alumni")
	}
	if err := s.authorize(ctx, actor, alumni); err != nil {
		return nil, err
	}
	return alumni, nil
}

func (s *AlumniService) mutate(ctx context.Context, actor *models.JWTClaims, id string, fn func(alumni *models.Alumni) error) (*models.Alumni, error) {
	var alumni *models.Alumni
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		alumni, err = s.alumni.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, actor, alumni); err != nil {
			return err
		}
		if err := fn(alumni); err != nil {
			return err
		}
		return s.alumni.Update(ctx, alumni)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "alumni not found")
		}
		return nil, passThrough(err, "failed to update alumni")
	}
	return alumni, nil
}

// Update changes profile fields.
func (s *AlumniService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateAlumniRequest) (*models.Alumni, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid alumni payload")
	}
	alumni, err := s.mutate(ctx, actor, id, func(alumni *models.Alumni) error {
		if req.AlumniType != nil {
			alumni.AlumniType = *req.AlumniType
		}
		if req.Bio != nil {
			alumni.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.CurrentEmail != nil {
			alumni.CurrentEmail = *req.CurrentEmail
		}
		if req.CurrentPhone != nil {
			alumni.CurrentPhone = *req.CurrentPhone
		}
		if req.LinkedInURL != nil {
			alumni.LinkedInURL = *req.LinkedInURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alumni, nil
}

// ChangeSupport moves the profile to another support category and appends the transition.
func (s *AlumniService) ChangeSupport(ctx context.Context, actor *models.JWTClaims, id string, req dto.ChangeSupportRequest) (*models.Alumni, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid support change")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Validation("unknown support category")
	}
	alumni, err := s.mutate(ctx, actor, id, func(alumni *models.Alumni) error {
		if alumni.CurrentSupportCategory == req.Category {
			return appErrors.Validation("alumni is already in this support category")
		}
		previous := alumni.CurrentSupportCategory
		alumni.SupportHistory = append(alumni.SupportHistory, models.SupportTransition{
			From:      &previous,
			To:        req.Category,
			ChangedAt: s.now(),
			ChangedBy: actor.UserID,
			Notes:     strings.TrimSpace(req.Notes),
		})
		alumni.CurrentSupportCategory = req.Category
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition("alumni_support", string(req.Category))
	emitAudit(ctx, s.audit, s.logger, auditEntry(actor.UserID, models.AuditActionAlumniSupport, "alumni", alumni.ID, req))
	return alumni, nil
}

// AddEntry appends an entry to one of the profile lists and assigns its id.
func (s *AlumniService) AddEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, payload json.RawMessage) (*models.Alumni, error) {
	return s.editEntry(ctx, actor, id, list, entryAdd, "", payload)
}

// UpdateEntry replaces the entry with entryID.
func (s *AlumniService) UpdateEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, entryID string, payload json.RawMessage) (*models.Alumni, error) {
	return s.editEntry(ctx, actor, id, list, entryReplace, entryID, payload)
}

// RemoveEntry deletes the entry with entryID.
func (s *AlumniService) RemoveEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, entryID string) (*models.Alumni, error) {
	return s.editEntry(ctx, actor, id, list, entryRemove, entryID, nil)
}

func (s *AlumniService) editEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, op entryOp, entryID string, payload json.RawMessage) (*models.Alumni, error) {
	return s.mutate(ctx, actor, id, func(alumni *models.Alumni) error {
		var err error
		switch list {
		case models.AlumniListCareer:
			alumni.Career, err = editList(s.validator, alumni.Career, op, entryID, payload, func(e *models.CareerEntry, id string) { e.ID = id })
		case models.AlumniListSkills:
			alumni.Skills, err = editList(s.validator, alumni.Skills, op, entryID, payload, func(e *models.SkillEntry, id string) { e.ID = id })
		case models.AlumniListHighlights:
			alumni.Highlights, err = editList(s.validator, alumni.Highlights, op, entryID, payload, func(e *models.HighlightEntry, id string) { e.ID = id })
		case models.AlumniListCourses:
			alumni.Courses, err = editList(s.validator, alumni.Courses, op, entryID, payload, func(e *models.CourseEntry, id string) { e.ID = id })
		default:
			return appErrors.Validation("unknown alumni list: " + string(list))
		}
		return err
	})
}

type listEntry interface {
	EntryID() string
}

// editList applies op to list. Entries are decoded from payload and validated.
func editList[T listEntry](v *validator.Validate, list []T, op entryOp, id string, payload json.RawMessage, setID func(*T, string)) ([]T, error) {
	index := -1
	if op != entryAdd {
		for i, entry := range list {
			if entry.EntryID() == id {
				index = i
				break
			}
		}
		if index < 0 {
			return list, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
	}

	if op == entryRemove {
		out := make([]T, 0, len(list)-1)
		out = append(out, list[:index]...)
		return append(out, list[index+1:]...), nil
	}

	if len(payload) == 0 {
		return list, appErrors.Validation("entry payload is required")
	}
	var entry T
	if err := json.Unmarshal(payload, &entry); err != nil {
		return list, appErrors.Validation("entry payload is malformed")
	}
	if err := v.Struct(entry); err != nil {
		return list, validationError(err, "invalid entry")
	}

	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	if op == entryAdd {
		setID(&entry, uuid.NewString())
		return append(out, entry), nil
	}
	setID(&entry, id)
	out[index] = entry
	return out, nil
}
