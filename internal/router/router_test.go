package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/handler"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/service"
	"github.com/noah-isme/slms-api/pkg/config"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type tokenStub struct{}

func (tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}, nil
}

type usersStub struct{}

func (usersStub) Me(ctx context.Context, actor *models.JWTClaims) (*models.User, error) {
	return &models.User{ID: actor.UserID}, nil
}

func (usersStub) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.User, error) {
	return nil, errors.New("not used")
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1", Metrics: config.MetricsConfig{Enabled: true}}
	metrics := service.NewMetricsService()
	h := Handlers{
		Admissions:  handler.NewAdmissionHandler(nil, nil),
		Students:    handler.NewStudentHandler(nil),
		Alumni:      handler.NewAlumniHandler(nil),
		Attendance:  handler.NewAttendanceHandler(nil),
		Routines:    handler.NewRoutineHandler(nil),
		Marks:       handler.NewMarksHandler(nil),
		Stipends:    handler.NewStipendHandler(nil),
		Corrections: handler.NewCorrectionHandler(nil),
		Departments: handler.NewDepartmentHandler(nil),
		Users:       handler.NewUserHandler(usersStub{}),
		System:      handler.NewSystemHandler(metrics, nil),
	}
	return Setup(cfg, h, tokenStub{}, metrics, zap.NewNop())
}

func TestSetupMountsRoutes(t *testing.T) {
	engine := newTestEngine(t)

	mounted := map[string]bool{}
	for _, route := range engine.Routes() {
		mounted[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/documents/download",
		"POST /api/v1/admissions",
		"GET /api/v1/admissions/:ref",
		"POST /api/v1/admissions/save-draft",
		"GET /api/v1/admissions/get-draft",
		"DELETE /api/v1/admissions/clear-draft",
		"POST /api/v1/students/:id/promote-to-alumni",
		"POST /api/v1/attendance/approval",
		"GET /api/v1/attendance/student_summary",
		"GET /api/v1/stipends/eligibility/calculate",
		"POST /api/v1/stipends/eligibility/save_eligibility",
		"POST /api/v1/stipends/eligibility/:id/approve",
		"GET /api/v1/marks/student_marks",
		"POST /api/v1/correction-requests/:id/approve",
		"DELETE /api/v1/alumni/:id/lists/:list/:entryId",
	} {
		assert.True(t, mounted[want], want)
	}
	assert.False(t, mounted["GET /docs/*any"])
}

func TestSetupRequiresBearerToken(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
