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

const routineColumns = `id, department_id, session, semester, shift, subject_code, subject_name, teacher_id, day_of_week,
	start_time, end_time, created_at`

// RoutineRepository persists weekly class routine slots.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository constructs the repository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// Create inserts a routine slot.
func (r *RoutineRepository) Create(ctx context.Context, routine *models.ClassRoutine) error {
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	routine.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO class_routines (id, department_id, session, semester, shift, subject_code, subject_name,
	teacher_id, day_of_week, start_time, end_time, created_at)
	VALUES (:id, :department_id, :session, :semester, :shift, :subject_code, :subject_name,
	:teacher_id, :day_of_week, :start_time, :end_time, :created_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, routine); err != nil {
		return fmt.Errorf("create class routine: %w", err)
	}
	return nil
}

// FindByID fetches a routine slot.
func (r *RoutineRepository) FindByID(ctx context.Context, id string) (*models.ClassRoutine, error) {
	var routine models.ClassRoutine
	if err := conn(ctx, r.db).GetContext(ctx, &routine, `SELECT `+routineColumns+` FROM class_routines WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &routine, nil
}

// List returns routine slots ordered by weekday and start time.
func (r *RoutineRepository) List(ctx context.Context, filter models.ClassRoutineFilter) ([]models.ClassRoutine, error) {
	builder := psql.Select(routineColumns).From("class_routines")
	if filter.DepartmentID != "" {
		builder = builder.Where(squirrel.Eq{"department_id": filter.DepartmentID})
	}
	if filter.Session != "" {
		builder = builder.Where(squirrel.Eq{"session": filter.Session})
	}
	if filter.Semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": filter.Semester})
	}
	if filter.Shift != "" {
		builder = builder.Where(squirrel.Eq{"shift": filter.Shift})
	}
	query, args, err := builder.OrderBy("day_of_week", "start_time").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build routine list: %w", err)
	}
	var routines []models.ClassRoutine
	if err := conn(ctx, r.db).SelectContext(ctx, &routines, query, args...); err != nil {
		return nil, fmt.Errorf("list class routines: %w", err)
	}
	return routines, nil
}
