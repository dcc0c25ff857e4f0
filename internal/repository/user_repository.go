package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slms-api/internal/models"
)

// UserRepository provides database access to the local user projection.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, role, student_id, admission_status, related_profile_id, created_at, updated_at`

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := conn(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Sync upserts the identity fields carried by an access token and returns the stored row.
func (r *UserRepository) Sync(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	now := time.Now().UTC()
	query := `INSERT INTO users (id, email, full_name, role, admission_status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
	RETURNING ` + userColumns
	var user models.User
	if err := conn(ctx, r.db).GetContext(ctx, &user, query,
		claims.UserID, claims.Email, claims.FullName, claims.Role, models.UserAdmissionNotStarted, now,
	); err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return &user, nil
}

// UpdateAdmissionStatus sets the admission status and, when given, the linked student profile.
func (r *UserRepository) UpdateAdmissionStatus(ctx context.Context, id string, status models.UserAdmissionStatus, relatedProfileID *string) error {
	query := `UPDATE users SET admission_status = $2, related_profile_id = COALESCE($3, related_profile_id), updated_at = $4 WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, status, relatedProfileID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user admission status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check user update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
