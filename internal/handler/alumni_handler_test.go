package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
)

type alumniServiceMock struct {
	alumniService
	lastList    models.AlumniList
	lastPayload json.RawMessage
	lastEntryID string
}

func (m *alumniServiceMock) AddEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, payload json.RawMessage) (*models.Alumni, error) {
	m.lastList = list
	m.lastPayload = payload
	return &models.Alumni{ID: id}, nil
}

func (m *alumniServiceMock) RemoveEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, entryID string) (*models.Alumni, error) {
	m.lastList = list
	m.lastEntryID = entryID
	return &models.Alumni{ID: id}, nil
}

type correctionServiceMock struct {
	correctionService
	lastReview dto.ReviewCorrectionRequest
	lastFilter models.CorrectionFilter
}

func (m *correctionServiceMock) Approve(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error) {
	m.lastReview = req
	return &models.CorrectionRequest{ID: id, Status: models.CorrectionStatusApproved}, nil
}

func (m *correctionServiceMock) Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error) {
	m.lastReview = req
	return &models.CorrectionRequest{ID: id, Status: models.CorrectionStatusRejected}, nil
}

func (m *correctionServiceMock) List(ctx context.Context, actor *models.JWTClaims, filter models.CorrectionFilter) ([]models.CorrectionRequest, error) {
	m.lastFilter = filter
	return []models.CorrectionRequest{}, nil
}

func TestAlumniHandlerEntryRoutes(t *testing.T) {
	svc := &alumniServiceMock{}
	handler := NewAlumniHandler(svc)
	owner := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}

	c, w := newTestContext(http.MethodPost, "/alumni/al-1/lists/skills", bytes.NewBufferString(`{"name":"Go","level":"advanced"}`), owner)
	c.Params = gin.Params{{Key: "id", Value: "al-1"}, {Key: "list", Value: "skills"}}
	handler.AddEntry(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.AlumniListSkills, svc.lastList)
	assert.JSONEq(t, `{"name":"Go","level":"advanced"}`, string(svc.lastPayload))

	c, w = newTestContext(http.MethodDelete, "/alumni/al-1/lists/career/e1", nil, owner)
	c.Params = gin.Params{{Key: "id", Value: "al-1"}, {Key: "list", Value: "career"}, {Key: "entryId", Value: "e1"}}
	handler.RemoveEntry(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AlumniListCareer, svc.lastList)
	assert.Equal(t, "e1", svc.lastEntryID)
}

func TestCorrectionHandlerReview(t *testing.T) {
	svc := &correctionServiceMock{}
	handler := NewCorrectionHandler(svc)

	c, w := newTestContext(http.MethodPost, "/corrections/c1/approve", nil, teacherClaims)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.lastReview.Notes)

	c, w = newTestContext(http.MethodPost, "/corrections/c1/reject", bytes.NewBufferString(`{"notes":"document unreadable"}`), teacherClaims)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Reject(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "document unreadable", svc.lastReview.Notes)

	var item models.CorrectionRequest
	decodeEnvelope(t, w, &item)
	assert.Equal(t, models.CorrectionStatusRejected, item.Status)
}

func TestCorrectionHandlerListParsesStatuses(t *testing.T) {
	svc := &correctionServiceMock{}
	handler := NewCorrectionHandler(svc)

	c, w := newTestContext(http.MethodGet, "/corrections?status=pending,%20rejected&limit=5", nil, teacherClaims)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.CorrectionStatus{models.CorrectionStatusPending, models.CorrectionStatusRejected}, svc.lastFilter.Status)
	assert.Equal(t, 5, svc.lastFilter.Limit)
}
