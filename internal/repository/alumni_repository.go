package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

const alumniColumns = `id, student_id, alumni_type, graduation_year, current_support_category, support_history,
	career, skills, highlights, courses, bio, current_email, current_phone, linkedin_url, created_at, updated_at`

// AlumniRepository persists alumni profiles.
type AlumniRepository struct {
	db *sqlx.DB
}

// NewAlumniRepository constructs the repository.
func NewAlumniRepository(db *sqlx.DB) *AlumniRepository {
	return &AlumniRepository{db: db}
}

// Create inserts an alumni profile.
func (r *AlumniRepository) Create(ctx context.Context, alumni *models.Alumni) error {
	if alumni.ID == "" {
		alumni.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	alumni.CreatedAt = now
	alumni.UpdatedAt = now
	const query = `INSERT INTO alumni (id, student_id, alumni_type, graduation_year, current_support_category, support_history,
	career, skills, highlights, courses, bio, current_email, current_phone, linkedin_url, created_at, updated_at)
	VALUES (:id, :student_id, :alumni_type, :graduation_year, :current_support_category, :support_history,
	:career, :skills, :highlights, :courses, :bio, :current_email, :current_phone, :linkedin_url, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, alumni); err != nil {
		return fmt.Errorf("create alumni: %w", err)
	}
	return nil
}

func (r *AlumniRepository) get(ctx context.Context, where string, args ...interface{}) (*models.Alumni, error) {
	var alumni models.Alumni
	if err := conn(ctx, r.db).GetContext(ctx, &alumni, `SELECT `+alumniColumns+` FROM alumni WHERE `+where, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get alumni: %w", err)
	}
	return &alumni, nil
}

// FindByID fetches an alumni profile.
func (r *AlumniRepository) FindByID(ctx context.Context, id string) (*models.Alumni, error) {
	return r.get(ctx, `id = $1`, id)
}

// FindByIDForUpdate fetches and locks an alumni profile.
func (r *AlumniRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Alumni, error) {
	return r.get(ctx, `id = $1 FOR UPDATE`, id)
}

// ExistsForStudent reports whether the student already has an alumni profile.
func (r *AlumniRepository) ExistsForStudent(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM alumni WHERE student_id = $1)`, studentID); err != nil {
		return false, fmt.Errorf("check alumni: %w", err)
	}
	return exists, nil
}

// Update persists every mutable column of the profile.
func (r *AlumniRepository) Update(ctx context.Context, alumni *models.Alumni) error {
	alumni.UpdatedAt = time.Now().UTC()
	const query = `UPDATE alumni SET alumni_type = :alumni_type, current_support_category = :current_support_category,
	support_history = :support_history, career = :career, skills = :skills, highlights = :highlights, courses = :courses,
	bio = :bio, current_email = :current_email, current_phone = :current_phone, linkedin_url = :linkedin_url,
	updated_at = :updated_at
	WHERE id = :id`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, alumni)
	if err != nil {
		return fmt.Errorf("update alumni: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func applyAlumniFilter(builder squirrel.SelectBuilder, filter models.AlumniFilter) squirrel.SelectBuilder {
	if filter.AlumniType != "" {
		builder = builder.Where(squirrel.Eq{"alumni_type": filter.AlumniType})
	}
	if filter.SupportCategory != "" {
		builder = builder.Where(squirrel.Eq{"current_support_category": filter.SupportCategory})
	}
	if filter.GraduationYear > 0 {
		builder = builder.Where(squirrel.Eq{"graduation_year": filter.GraduationYear})
	}
	return builder
}

// List returns alumni profiles, most recent graduates first.
func (r *AlumniRepository) List(ctx context.Context, filter models.AlumniFilter) ([]models.Alumni, int, error) {
	_, size, offset := normalizePage(filter.Page, filter.PageSize, 20, 100)

	countQuery, countArgs, err := applyAlumniFilter(psql.Select("COUNT(*)").From("alumni"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build alumni count: %w", err)
	}
	var total int
	if err := conn(ctx, r.db).GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count alumni: %w", err)
	}

	query, args, err := applyAlumniFilter(psql.Select(alumniColumns).From("alumni"), filter).
		OrderBy("graduation_year DESC", "created_at DESC").
		Limit(uint64(size)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build alumni list: %w", err)
	}
	var alumni []models.Alumni
	if err := conn(ctx, r.db).SelectContext(ctx, &alumni, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list alumni: %w", err)
	}
	return alumni, total, nil
}
