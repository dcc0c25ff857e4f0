package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/repository"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type marksStore interface {
	Create(ctx context.Context, record *models.MarksRecord) error
	List(ctx context.Context, filter models.MarksFilter) ([]models.MarksRecord, error)
}

// MarksService records assessment scores.
type MarksService struct {
	marks     marksStore
	students  studentProfileReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarksService constructs the service.
func NewMarksService(marks marksStore, students studentProfileReader, logger *zap.Logger) *MarksService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{marks: marks, students: students, validator: NewValidator(), logger: logger}
}

func marksView(record models.MarksRecord) dto.MarksView {
	return dto.MarksView{MarksRecord: record, Percentage: round2(record.Percentage())}
}

// Create stores one score. One row exists per (student, subject, semester, exam type).
func (s *MarksService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateMarksRequest) (*dto.MarksView, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid marks payload")
	}
	if req.MarksObtained > req.TotalMarks {
		return nil, appErrors.Validation("marksObtained cannot exceed totalMarks")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if req.Semester > student.Semester {
		return nil, appErrors.Validation("marks semester is ahead of the student's current semester")
	}

	record := &models.MarksRecord{
		StudentID:     student.ID,
		SubjectCode:   strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		SubjectName:   strings.TrimSpace(req.SubjectName),
		Semester:      req.Semester,
		ExamType:      req.ExamType,
		MarksObtained: req.MarksObtained,
		TotalMarks:    req.TotalMarks,
		RecordedBy:    actor.UserID,
		Remarks:       strings.TrimSpace(req.Remarks),
	}
	if err := s.marks.Create(ctx, record); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintMarksUnique) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "marks already recorded for this exam")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record marks")
	}
	view := marksView(*record)
	return &view, nil
}

// List returns scores. Students only see their own.
func (s *MarksService) List(ctx context.Context, actor *models.JWTClaims, filter models.MarksFilter) ([]dto.MarksView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Staff() {
		student, err := s.students.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, lookupError(err, "no student profile for this account", "failed to load student")
		}
		filter.StudentID = student.ID
	}
	records, err := s.marks.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list marks")
	}
	views := make([]dto.MarksView, 0, len(records))
	for _, record := range records {
		views = append(views, marksView(record))
	}
	return views, nil
}
