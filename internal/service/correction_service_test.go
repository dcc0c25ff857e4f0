package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

const correctionStudent = "7a7a7a7a-0000-4000-8000-000000000001"

func newCorrectionFixture() (*CorrectionService, *fakeStudents, *fakeCorrections, *recordingAudit) {
	students := newFakeStudents()
	student := activeStudent("owner", "CST-2024-001")
	student.ID = correctionStudent
	student.FatherName = "Karim Uddin"
	students.put(student)
	corrections := newFakeCorrections()
	audit := &recordingAudit{}
	return NewCorrectionService(&inlineTx{}, corrections, students, audit, nil), students, corrections, audit
}

func TestCorrectionApproveWritesField(t *testing.T) {
	svc, students, _, audit := newCorrectionFixture()
	ctx := context.Background()

	request, err := svc.Create(ctx, applicant("user-owner"), dto.CreateCorrectionRequest{
		StudentID:      correctionStudent,
		FieldName:      "Father_Name",
		RequestedValue: "Md. Karim Uddin",
		Reason:         "spelling on SSC certificate",
	})
	require.NoError(t, err)
	assert.Equal(t, "father_name", request.FieldName)
	assert.Equal(t, "Karim Uddin", request.CurrentValue)
	assert.Equal(t, models.CorrectionStatusPending, request.Status)

	_, err = svc.Create(ctx, applicant("user-owner"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "father_name", RequestedValue: "Karim", Reason: "again",
	})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Approve(ctx, applicant("user-owner"), request.ID, dto.ReviewCorrectionRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	approved, err := svc.Approve(ctx, staff("t1"), request.ID, dto.ReviewCorrectionRequest{Notes: "verified"})
	require.NoError(t, err)
	assert.Equal(t, models.CorrectionStatusApproved, approved.Status)
	assert.Equal(t, "Md. Karim Uddin", students.students[correctionStudent].FatherName)

	_, err = svc.Reject(ctx, staff("t1"), request.ID, dto.ReviewCorrectionRequest{Notes: "late"})
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyProcessed))
	assert.Equal(t, []string{models.AuditActionCorrectionCreate, models.AuditActionCorrectionReview}, audit.actions())
}

func TestCorrectionRejectLeavesStudentUntouched(t *testing.T) {
	svc, students, _, _ := newCorrectionFixture()
	ctx := context.Background()

	request, err := svc.Create(ctx, staff("t1"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "email", RequestedValue: "new@example.com", Reason: "changed provider",
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, staff("t1"), request.ID, dto.ReviewCorrectionRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	rejected, err := svc.Reject(ctx, staff("t1"), request.ID, dto.ReviewCorrectionRequest{Notes: "use institutional email"})
	require.NoError(t, err)
	assert.Equal(t, models.CorrectionStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ReviewNotes)
	assert.Equal(t, "owner@example.com", students.students[correctionStudent].Email)
}

func TestCorrectionApproveInvalidatesStipendCalculations(t *testing.T) {
	svc, _, _, _ := newCorrectionFixture()
	cache := &countingInvalidator{}
	WithCorrectionCache(cache)(svc)
	ctx := context.Background()

	shift, err := svc.Create(ctx, staff("t1"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "shift", RequestedValue: models.ShiftDay, Reason: "moved to day shift",
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, staff("t1"), shift.ID, dto.ReviewCorrectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{stipendCachePattern}, cache.patterns)

	email, err := svc.Create(ctx, staff("t1"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "email", RequestedValue: "new@example.com", Reason: "changed provider",
	})
	require.NoError(t, err)
	_, err = svc.Reject(ctx, staff("t1"), email.ID, dto.ReviewCorrectionRequest{Notes: "use institutional email"})
	require.NoError(t, err)
	assert.Len(t, cache.patterns, 1)
}

func TestCorrectionCreateValidation(t *testing.T) {
	svc, _, _, _ := newCorrectionFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		actor *models.JWTClaims
		req   dto.CreateCorrectionRequest
		want  error
	}{
		{
			name:  "field not correctable",
			actor: staff("t1"),
			req:   dto.CreateCorrectionRequest{StudentID: correctionStudent, FieldName: "status", RequestedValue: "graduated", Reason: "x"},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "malformed mobile",
			actor: staff("t1"),
			req:   dto.CreateCorrectionRequest{StudentID: correctionStudent, FieldName: "mobile_student", RequestedValue: "123", Reason: "x"},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "malformed date of birth",
			actor: staff("t1"),
			req:   dto.CreateCorrectionRequest{StudentID: correctionStudent, FieldName: "date_of_birth", RequestedValue: "01/02/2005", Reason: "x"},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "unchanged value",
			actor: staff("t1"),
			req:   dto.CreateCorrectionRequest{StudentID: correctionStudent, FieldName: "email", RequestedValue: "owner@example.com", Reason: "x"},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "another student's record",
			actor: applicant("intruder"),
			req:   dto.CreateCorrectionRequest{StudentID: correctionStudent, FieldName: "email", RequestedValue: "x@example.com", Reason: "x"},
			want:  appErrors.ErrForbidden,
		},
		{
			name:  "unknown student",
			actor: staff("t1"),
			req:   dto.CreateCorrectionRequest{StudentID: "7a7a7a7a-0000-4000-8000-0000000000ff", FieldName: "email", RequestedValue: "x@example.com", Reason: "x"},
			want:  appErrors.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.actor, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestCorrectionListScopesToRequester(t *testing.T) {
	svc, _, _, _ := newCorrectionFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, staff("t1"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "shift", RequestedValue: models.ShiftDay, Reason: "moved shift",
	})
	require.NoError(t, err)
	own, err := svc.Create(ctx, applicant("user-owner"), dto.CreateCorrectionRequest{
		StudentID: correctionStudent, FieldName: "email", RequestedValue: "mine@example.com", Reason: "typo",
	})
	require.NoError(t, err)

	mine, err := svc.List(ctx, applicant("user-owner"), models.CorrectionFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, own.ID, mine[0].ID)

	all, err := svc.List(ctx, staff("t1"), models.CorrectionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, applicant("someone"), own.ID)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
