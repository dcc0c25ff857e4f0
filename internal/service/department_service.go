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
	"github.com/noah-isme/slms-api/internal/repository"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type departmentStore interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
	HasStudents(ctx context.Context, id string) (bool, error)
}

// DepartmentService manages academic departments.
type DepartmentService struct {
	repo      departmentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(repo departmentStore, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: NewValidator(), logger: logger}
}

// List returns every department ordered by code.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}
	return department, nil
}

func departmentConflict(err error) error {
	if repository.IsUniqueViolation(err, repository.ConstraintDepartmentCode, repository.ConstraintDepartmentName) {
		return appErrors.Clone(appErrors.ErrConflict, "department code or name already exists")
	}
	return nil
}

// Create adds a department. Codes are stored upper-case.
func (s *DepartmentService) Create(ctx context.Context, actor *models.JWTClaims, req dto.DepartmentRequest) (*models.Department, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department")
	}
	department := &models.Department{
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:            strings.TrimSpace(req.Name),
		Head:            strings.TrimSpace(req.Head),
		EstablishedYear: req.EstablishedYear,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		if conflict := departmentConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	s.logger.Info("department created", zap.String("code", department.Code))
	return department, nil
}

// Update replaces a department's fields.
func (s *DepartmentService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.DepartmentRequest) (*models.Department, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department")
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}
	department.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	department.Name = strings.TrimSpace(req.Name)
	department.Head = strings.TrimSpace(req.Head)
	department.EstablishedYear = req.EstablishedYear
	if err := s.repo.Update(ctx, department); err != nil {
		if conflict := departmentConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, lookupError(err, "department not found", "failed to update department")
	}
	return department, nil
}

// Delete removes a department that no student references.
func (s *DepartmentService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	inUse, err := s.repo.HasStudents(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department usage")
	}
	if inUse {
		return appErrors.Clone(appErrors.ErrConflict, "department still has students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return nil
}
