package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

func newAlumniFixture(t *testing.T) (*AlumniService, *fakeAlumni, *recordingAudit, string) {
	t.Helper()
	students := newFakeStudents()
	graduate := activeStudent("grad", "CST-2020-007")
	graduate.Status = models.StudentStatusGraduated
	students.put(graduate)

	alumni := newFakeAlumni()
	profile := &models.Alumni{
		StudentID:              "grad",
		AlumniType:             models.AlumniTypeRecent,
		GraduationYear:         2024,
		CurrentSupportCategory: models.SupportJobSeeking,
		SupportHistory:         models.SupportHistory{{To: models.SupportJobSeeking, ChangedBy: "t1"}},
	}
	require.NoError(t, alumni.Create(context.Background(), profile))

	audit := &recordingAudit{}
	clock := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewAlumniService(&inlineTx{}, alumni, students, audit, nil, WithAlumniClock(clock)), alumni, audit, profile.ID
}

func TestAlumniChangeSupportAppendsHistory(t *testing.T) {
	svc, _, audit, id := newAlumniFixture(t)
	ctx := context.Background()

	updated, err := svc.ChangeSupport(ctx, staff("t1"), id, dto.ChangeSupportRequest{Category: models.SupportHigherEducation, Notes: "admitted to MSc"})
	require.NoError(t, err)
	assert.Equal(t, models.SupportHigherEducation, updated.CurrentSupportCategory)
	require.Len(t, updated.SupportHistory, 2)
	last := updated.SupportHistory[1]
	require.NotNil(t, last.From)
	assert.Equal(t, models.SupportJobSeeking, *last.From)
	assert.Equal(t, models.SupportHigherEducation, last.To)
	assert.Equal(t, "t1", last.ChangedBy)
	assert.Equal(t, []string{models.AuditActionAlumniSupport}, audit.actions())

	_, err = svc.ChangeSupport(ctx, staff("t1"), id, dto.ChangeSupportRequest{Category: models.SupportHigherEducation})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.ChangeSupport(ctx, staff("t1"), id, dto.ChangeSupportRequest{Category: "wealthy"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.ChangeSupport(ctx, applicant("user-grad"), id, dto.ChangeSupportRequest{Category: models.SupportLowIncome})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestAlumniListEntries(t *testing.T) {
	svc, alumni, _, id := newAlumniFixture(t)
	ctx := context.Background()
	owner := applicant("user-grad")

	updated, err := svc.AddEntry(ctx, owner, id, models.AlumniListCareer, json.RawMessage(`{"position":"Engineer","company":"Acme","isCurrent":true}`))
	require.NoError(t, err)
	require.Len(t, updated.Career, 1)
	entryID := updated.Career[0].ID
	assert.NotEmpty(t, entryID)

	updated, err = svc.UpdateEntry(ctx, owner, id, models.AlumniListCareer, entryID, json.RawMessage(`{"position":"Senior Engineer","company":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", updated.Career[0].Position)
	assert.Equal(t, entryID, updated.Career[0].ID)

	_, err = svc.AddEntry(ctx, owner, id, models.AlumniListCareer, json.RawMessage(`{"company":"Acme"}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.AddEntry(ctx, owner, id, models.AlumniListSkills, json.RawMessage(`{"name":`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateEntry(ctx, owner, id, models.AlumniListCareer, "missing", json.RawMessage(`{"position":"x","company":"y"}`))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.AddEntry(ctx, owner, id, "hobbies", json.RawMessage(`{"name":"chess"}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.AddEntry(ctx, applicant("stranger"), id, models.AlumniListSkills, json.RawMessage(`{"name":"Go"}`))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	updated, err = svc.RemoveEntry(ctx, staff("t1"), id, models.AlumniListCareer, entryID)
	require.NoError(t, err)
	assert.Empty(t, updated.Career)
	assert.Empty(t, alumni.alumni[id].Career)
}

func TestAlumniUpdateProfile(t *testing.T) {
	svc, _, _, id := newAlumniFixture(t)
	ctx := context.Background()

	bio := "  Backend developer  "
	established := models.AlumniTypeEstablished
	updated, err := svc.Update(ctx, applicant("user-grad"), id, dto.UpdateAlumniRequest{Bio: &bio, AlumniType: &established})
	require.NoError(t, err)
	assert.Equal(t, "Backend developer", updated.Bio)
	assert.Equal(t, models.AlumniTypeEstablished, updated.AlumniType)

	phone := "12345"
	_, err = svc.Update(ctx, applicant("user-grad"), id, dto.UpdateAlumniRequest{CurrentPhone: &phone})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Get(ctx, staff("t1"), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	items, page, err := svc.List(ctx, staff("t1"), models.AlumniFilter{SupportCategory: models.SupportJobSeeking})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.TotalCount)
}
