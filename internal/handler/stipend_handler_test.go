package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type stipendServiceMock struct {
	stipendService
	lastCalculate dto.CalculateRequest
	lastSave      dto.SaveEligibilityRequest
	activeOnly    bool
}

func (m *stipendServiceMock) Calculate(ctx context.Context, actor *models.JWTClaims, req dto.CalculateRequest) (*dto.CalculationResult, error) {
	m.lastCalculate = req
	return &dto.CalculationResult{Stats: dto.EligibilityStats{TotalEvaluated: 3, TotalEligible: 1}}, nil
}

func (m *stipendServiceMock) SaveEligibility(ctx context.Context, actor *models.JWTClaims, req dto.SaveEligibilityRequest) ([]models.StipendEligibility, error) {
	m.lastSave = req
	return []models.StipendEligibility{{ID: "elig-1"}}, nil
}

func (m *stipendServiceMock) ListCriteria(ctx context.Context, actor *models.JWTClaims, activeOnly bool) ([]models.StipendCriteria, error) {
	m.activeOnly = activeOnly
	return []models.StipendCriteria{{ID: "crit-1", Name: "Merit"}}, nil
}

func (m *stipendServiceMock) Roster(ctx context.Context, actor *models.JWTClaims, criteriaID string) ([]byte, string, error) {
	if criteriaID != "crit-1" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "criteria not found")
	}
	return []byte("%PDF-1.3"), "stipend-roster-merit-2025.pdf", nil
}

var teacherClaims = &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}

func TestStipendHandlerCalculateBindsQuery(t *testing.T) {
	svc := &stipendServiceMock{}
	handler := NewStipendHandler(svc)

	c, w := newTestContext(http.MethodGet, "/stipends/calculate?minAttendance=75&minGpa=3.25&passRequirement=all_pass&semester=2&shift=Morning", nil, teacherClaims)
	handler.Calculate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastCalculate.MinAttendance)
	assert.Equal(t, 75.0, *svc.lastCalculate.MinAttendance)
	require.NotNil(t, svc.lastCalculate.MinGPA)
	assert.Equal(t, 3.25, *svc.lastCalculate.MinGPA)
	assert.Equal(t, models.PassAllPass, svc.lastCalculate.PassRequirement)
	assert.Equal(t, 2, svc.lastCalculate.Semester)
	assert.Equal(t, "Morning", svc.lastCalculate.Shift)

	var result dto.CalculationResult
	decodeEnvelope(t, w, &result)
	assert.Equal(t, 1, result.Stats.TotalEligible)
}

func TestStipendHandlerCalculateRejectsBadNumber(t *testing.T) {
	handler := NewStipendHandler(&stipendServiceMock{})

	c, w := newTestContext(http.MethodGet, "/stipends/calculate?minGpa=high", nil, teacherClaims)
	handler.Calculate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStipendHandlerSaveAndListCriteria(t *testing.T) {
	svc := &stipendServiceMock{}
	handler := NewStipendHandler(svc)

	body := `{"criteriaId":"6f1f8a3e-3c55-4f8e-9a57-0000000000c1","studentIds":["6f1f8a3e-3c55-4f8e-9a57-0000000000a1"]}`
	c, w := newTestContext(http.MethodPost, "/stipends/eligibility", bytes.NewBufferString(body), teacherClaims)
	handler.SaveEligibility(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"6f1f8a3e-3c55-4f8e-9a57-0000000000a1"}, svc.lastSave.StudentIDs)

	c, w = newTestContext(http.MethodGet, "/stipends/criteria?active=true", nil, teacherClaims)
	handler.ListCriteria(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.activeOnly)
}

func TestStipendHandlerRoster(t *testing.T) {
	handler := NewStipendHandler(&stipendServiceMock{})

	c, w := newTestContext(http.MethodGet, "/stipends/eligibility/roster?criteria=crit-1", nil, teacherClaims)
	handler.Roster(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stipend-roster-merit-2025.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	c, w = newTestContext(http.MethodGet, "/stipends/eligibility/roster?criteria=missing", nil, teacherClaims)
	handler.Roster(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/stipends/eligibility/roster", nil, teacherClaims)
	handler.Roster(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
