package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

type attendanceService interface {
	Record(ctx context.Context, actor *models.JWTClaims, req dto.RecordAttendanceRequest) (*dto.RecordAttendanceResult, error)
	SubmitDrafts(ctx context.Context, actor *models.JWTClaims, req dto.SubmitAttendanceRequest) (*dto.AttendanceDecisionResult, error)
	Decide(ctx context.Context, actor *models.JWTClaims, req dto.AttendanceDecisionRequest) (*dto.AttendanceDecisionResult, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	Pending(ctx context.Context, actor *models.JWTClaims, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	StudentSummary(ctx context.Context, actor *models.JWTClaims, studentID string, semester int) ([]models.SubjectAttendanceSummary, error)
}

// AttendanceHandler exposes per-class attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Record godoc
// @Summary Record attendance for one or many students
// @Description Teachers write authoritative records. Captains write pending records, or drafts when draft is set.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.RecordAttendanceRequest true "Attendance batch"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	result, err := h.service.Record(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Submit godoc
// @Summary Submit captain drafts for review
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAttendanceRequest true "Draft IDs"
// @Success 200 {object} response.Envelope
// @Router /attendance/submit [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.SubmitDrafts(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Decide godoc
// @Summary Approve or reject pending attendance records
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.AttendanceDecisionRequest true "Decision batch"
// @Success 200 {object} response.Envelope
// @Router /attendance/review [post]
// @Router /attendance/approval [post]
func (h *AttendanceHandler) Decide(c *gin.Context) {
	var req dto.AttendanceDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Decide(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param studentId query string false "Student ID"
// @Param subjectCode query string false "Subject code"
// @Param routineId query string false "Class routine ID"
// @Param semester query int false "Semester"
// @Param status query string false "Comma separated statuses"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := parseAttendanceFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// Pending godoc
// @Summary List attendance records awaiting review
// @Tags Attendance
// @Produce json
// @Param routineId query string false "Class routine ID"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /attendance/pending [get]
func (h *AttendanceHandler) Pending(c *gin.Context) {
	filter, err := parseAttendanceFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.Pending(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// Summary godoc
// @Summary Per-subject attendance summary of a student
// @Tags Attendance
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query int false "Semester"
// @Param student query string false "Student ID when not in the path"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance-summary [get]
// @Router /attendance/student_summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		var ok bool
		if studentID, ok = requiredQuery(c, "student"); !ok {
			return
		}
	}
	summary, err := h.service.StudentSummary(c.Request.Context(), claimsFromContext(c), studentID, parseQueryInt(c, "semester", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

func parseAttendanceFilter(c *gin.Context) (models.AttendanceFilter, error) {
	filter := models.AttendanceFilter{
		StudentID:      c.Query("studentId"),
		SubjectCode:    c.Query("subjectCode"),
		ClassRoutineID: c.Query("routineId"),
		Semester:       parseQueryInt(c, "semester", 0),
		Limit:          parseQueryInt(c, "limit", 0),
		Offset:         parseQueryInt(c, "offset", 0),
	}
	for _, status := range splitQuery(c, "status") {
		filter.Statuses = append(filter.Statuses, models.AttendanceStatus(status))
	}
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		return filter, err
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to
	return filter, nil
}
