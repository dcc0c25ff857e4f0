package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/models"
)

func TestStipendUpsertEligibility(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStipendRepository(db)

	mock.ExpectExec("INSERT INTO stipend_eligibility .* ON CONFLICT ON CONSTRAINT stipend_eligibility_student_criteria_key").
		WillReturnResult(sqlmock.NewResult(1, 1))

	row := &models.StipendEligibility{StudentID: "s1", CriteriaID: "c1", IsEligible: true, EvaluatedAt: time.Now()}
	row.GPA = 3.5
	require.NoError(t, repo.UpsertEligibility(context.Background(), row))
	assert.NotEmpty(t, row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStipendRerank(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStipendRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET rank = NULL WHERE criteria_id = $1 AND NOT is_eligible")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ROW_NUMBER() OVER (ORDER BY se.gpa DESC, se.attendance_percentage DESC, s.current_roll_number ASC)")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Rerank(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStipendListEligibility(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStipendRepository(db)

	now := time.Now()
	columns := []string{"id", "student_id", "criteria_id", "attendance_percentage", "gpa", "cgpa", "referred_subjects",
		"total_subjects", "passed_subjects", "rank", "is_eligible", "is_approved", "approved_by", "approved_at",
		"evaluated_at", "created_at", "updated_at", "student_name", "roll_number"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY e.rank ASC NULLS LAST")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("e1", "s1", "c1", 80.0, 3.5, 3.4, 0, 6, 6, 1, true, false, nil, nil, now, now, now, "Student A", "CST-2024-001"))

	rows, err := repo.ListEligibility(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Rank)
	assert.Equal(t, 1, *rows[0].Rank)
	assert.Equal(t, "CST-2024-001", rows[0].RollNumber)
	assert.Equal(t, 80.0, rows[0].AttendancePercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStipendSetApprovalMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStipendRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE stipend_eligibility SET is_approved = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetApproval(context.Background(), "missing", false, nil, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
