package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/middleware"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/service"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

type admissionServiceMock struct {
	admissionService
	submitCalled bool
	lastFilter   models.AdmissionFilter
	lastRef      string
	lastActor    *models.JWTClaims
	approveErr   error
}

func (m *admissionServiceMock) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitAdmissionRequest) (*models.Admission, error) {
	m.submitCalled = true
	return &models.Admission{ID: "adm-1", Status: models.AdmissionStatusPending}, nil
}

func (m *admissionServiceMock) List(ctx context.Context, actor *models.JWTClaims, filter models.AdmissionFilter) ([]models.Admission, *models.Pagination, error) {
	m.lastFilter = filter
	return []models.Admission{{ID: "adm-1"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (m *admissionServiceMock) Approve(ctx context.Context, actor *models.JWTClaims, ref string, req dto.ApproveAdmissionRequest) (*models.Student, error) {
	m.lastRef = ref
	m.lastActor = actor
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	return &models.Student{ID: "stu-1", CurrentRollNumber: "CST-2024-001"}, nil
}

type documentServiceMock struct {
	documentService
	received map[string]string
}

func (m *documentServiceMock) Upload(ctx context.Context, actor *models.JWTClaims, uploads []service.DocumentUpload) (*models.Admission, error) {
	m.received = map[string]string{}
	for _, upload := range uploads {
		content, err := io.ReadAll(upload.Content)
		if err != nil {
			return nil, err
		}
		m.received[upload.Field] = upload.Filename + ":" + string(content)
	}
	return &models.Admission{ID: "adm-1"}, nil
}

func newTestContext(method, target string, body io.Reader, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) response.Envelope {
	t.Helper()
	var raw struct {
		Data       json.RawMessage    `json:"data"`
		Error      *appErrors.Error   `json:"error"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return response.Envelope{Error: raw.Error, Pagination: raw.Pagination}
}

func TestAdmissionHandlerSubmitInvalidBody(t *testing.T) {
	svc := &admissionServiceMock{}
	handler := NewAdmissionHandler(svc, &documentServiceMock{})

	c, w := newTestContext(http.MethodPost, "/admissions", bytes.NewBufferString(`{"fullNameEnglish":`), &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})
	handler.Submit(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.submitCalled)
	env := decodeEnvelope(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestAdmissionHandlerListParsesFilter(t *testing.T) {
	svc := &admissionServiceMock{}
	handler := NewAdmissionHandler(svc, &documentServiceMock{})

	c, w := newTestContext(http.MethodGet, "/admissions?status=pending&session=2024-25&search=%20rahim%20&page=2&limit=5", nil, &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher})
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AdmissionStatusPending, svc.lastFilter.Status)
	assert.Equal(t, "2024-25", svc.lastFilter.Session)
	assert.Equal(t, "rahim", svc.lastFilter.Search)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.PageSize)

	var items []models.Admission
	env := decodeEnvelope(t, w, &items)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	assert.Len(t, items, 1)
}

func TestAdmissionHandlerApprove(t *testing.T) {
	svc := &admissionServiceMock{}
	handler := NewAdmissionHandler(svc, &documentServiceMock{})
	claims := &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}

	c, w := newTestContext(http.MethodPost, "/admissions/APP-1/approve", bytes.NewBufferString(`{"currentRegistrationNumber":"REG-1"}`), claims)
	c.Params = gin.Params{{Key: "ref", Value: "APP-1"}}
	handler.Approve(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "APP-1", svc.lastRef)
	assert.Same(t, claims, svc.lastActor)
	var student models.Student
	decodeEnvelope(t, w, &student)
	assert.Equal(t, "CST-2024-001", student.CurrentRollNumber)

	svc.approveErr = appErrors.Clone(appErrors.ErrAlreadyProcessed, "admission already approved")
	c, w = newTestContext(http.MethodPost, "/admissions/APP-1/approve", bytes.NewBufferString(`{"currentRegistrationNumber":"REG-1"}`), claims)
	c.Params = gin.Params{{Key: "ref", Value: "APP-1"}}
	handler.Approve(c)
	assert.Equal(t, appErrors.ErrAlreadyProcessed.Status, w.Code)
}

func TestAdmissionHandlerUploadDocuments(t *testing.T) {
	docs := &documentServiceMock{}
	handler := NewAdmissionHandler(&admissionServiceMock{}, docs)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "me.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	part, err = writer.CreateFormFile("sscMarksheet", "marks.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c, w := newTestContext(http.MethodPost, "/admissions/documents", &body, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	handler.UploadDocuments(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"photo":        "me.jpg:jpeg-bytes",
		"sscMarksheet": "marks.pdf:pdf-bytes",
	}, docs.received)
}

func TestAdmissionHandlerUploadRejectsNonMultipart(t *testing.T) {
	docs := &documentServiceMock{}
	handler := NewAdmissionHandler(&admissionServiceMock{}, docs)

	c, w := newTestContext(http.MethodPost, "/admissions/documents", bytes.NewBufferString(`{}`), &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})
	handler.UploadDocuments(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, docs.received)
}
