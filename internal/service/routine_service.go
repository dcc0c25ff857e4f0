package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type routineStore interface {
	Create(ctx context.Context, routine *models.ClassRoutine) error
	FindByID(ctx context.Context, id string) (*models.ClassRoutine, error)
	List(ctx context.Context, filter models.ClassRoutineFilter) ([]models.ClassRoutine, error)
}

// RoutineService manages the weekly class routine attendance can reference.
type RoutineService struct {
	routines    routineStore
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoutineService constructs the service.
func NewRoutineService(routines routineStore, departments departmentReader, logger *zap.Logger) *RoutineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{routines: routines, departments: departments, validator: NewValidator(), logger: logger}
}

// Create adds a routine slot.
func (s *RoutineService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateRoutineRequest) (*models.ClassRoutine, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class routine")
	}
	// HH:MM compares lexically.
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Validation("endTime must be after startTime")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Validation("department does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	routine := &models.ClassRoutine{
		DepartmentID: req.DepartmentID,
		Session:      req.Session,
		Semester:     req.Semester,
		Shift:        req.Shift,
		SubjectCode:  strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		SubjectName:  strings.TrimSpace(req.SubjectName),
		TeacherID:    req.TeacherID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}
	if err := s.routines.Create(ctx, routine); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class routine")
	}
	return routine, nil
}

// Get returns one routine slot.
func (s *RoutineService) Get(ctx context.Context, id string) (*models.ClassRoutine, error) {
	routine, err := s.routines.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class routine not found", "failed to load class routine")
	}
	return routine, nil
}

// List returns routine slots.
func (s *RoutineService) List(ctx context.Context, filter models.ClassRoutineFilter) ([]models.ClassRoutine, error) {
	routines, err := s.routines.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class routines")
	}
	if routines == nil {
		routines = []models.ClassRoutine{}
	}
	return routines, nil
}
