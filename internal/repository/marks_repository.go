package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

const marksColumns = `id, student_id, subject_code, subject_name, semester, exam_type, marks_obtained, total_marks,
	recorded_by, remarks, created_at`

// MarksRepository persists assessment marks.
type MarksRepository struct {
	db *sqlx.DB
}

// NewMarksRepository constructs the repository.
func NewMarksRepository(db *sqlx.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

// Create inserts a marks row. Duplicates surface as a unique violation on marks_records_unique_key.
func (r *MarksRepository) Create(ctx context.Context, record *models.MarksRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO marks_records (id, student_id, subject_code, subject_name, semester, exam_type,
	marks_obtained, total_marks, recorded_by, remarks, created_at)
	VALUES (:id, :student_id, :subject_code, :subject_name, :semester, :exam_type,
	:marks_obtained, :total_marks, :recorded_by, :remarks, :created_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create marks record: %w", err)
	}
	return nil
}

// List returns marks for a filter ordered by semester, subject and exam type.
func (r *MarksRepository) List(ctx context.Context, filter models.MarksFilter) ([]models.MarksRecord, error) {
	builder := psql.Select(marksColumns).From("marks_records")
	if filter.StudentID != "" {
		builder = builder.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.Semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": filter.Semester})
	}
	if filter.SubjectCode != "" {
		builder = builder.Where(squirrel.Eq{"subject_code": filter.SubjectCode})
	}
	if filter.ExamType != "" {
		builder = builder.Where(squirrel.Eq{"exam_type": filter.ExamType})
	}
	query, args, err := builder.OrderBy("semester", "subject_code", "exam_type").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build marks list: %w", err)
	}
	var records []models.MarksRecord
	if err := conn(ctx, r.db).SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return records, nil
}
