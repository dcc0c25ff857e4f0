package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, actor *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, error)
	Me(ctx context.Context, actor *models.JWTClaims) (*models.Student, error)
	Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateStudentRequest) (*models.Student, error)
	RecordSemesterResult(ctx context.Context, actor *models.JWTClaims, id string, result models.SemesterResult) (*dto.RecordResultResponse, error)
	RecordSemesterAttendance(ctx context.Context, actor *models.JWTClaims, id string, entry models.SemesterAttendance) (*models.Student, error)
	RollupAttendance(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, error)
	Eligibility(ctx context.Context, actor *models.JWTClaims, id, criteriaID string) (*dto.EligibilityResult, error)
	ClassRank(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ClassRank, error)
	Promote(ctx context.Context, actor *models.JWTClaims, id string, req dto.PromoteStudentRequest) (*models.Alumni, error)
	FixOrphans(ctx context.Context, actor *models.JWTClaims) (*dto.FixOrphansResult, error)
}

// StudentHandler exposes student record endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param department query string false "Department ID"
// @Param semester query int false "Semester"
// @Param shift query string false "Shift"
// @Param session query string false "Session YYYY-YY"
// @Param status query string false "Student status"
// @Param search query string false "Search by name, roll or student ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		DepartmentID: c.Query("department"),
		Semester:     parseQueryInt(c, "semester", 0),
		Shift:        c.Query("shift"),
		Session:      c.Query("session"),
		Status:       models.StudentStatus(c.Query("status")),
		Search:       strings.TrimSpace(c.Query("search")),
		Page:         parseQueryInt(c, "page", 1),
		PageSize:     parseQueryInt(c, "limit", 20),
	}
	students, pagination, err := h.students.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Me godoc
// @Summary Get the caller's student record
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	student, err := h.students.Me(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Update godoc
// @Summary Update student enrollment and contact fields
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// RecordResult godoc
// @Summary Record or replace a semester result
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.SemesterResult true "Semester result"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/results [post]
func (h *StudentHandler) RecordResult(c *gin.Context) {
	var result models.SemesterResult
	if err := c.ShouldBindJSON(&result); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	out, err := h.students.RecordSemesterResult(c.Request.Context(), claimsFromContext(c), c.Param("id"), result)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// RecordAttendance godoc
// @Summary Record or replace a semester attendance summary
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.SemesterAttendance true "Semester attendance"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/semester-attendance [post]
func (h *StudentHandler) RecordAttendance(c *gin.Context) {
	var entry models.SemesterAttendance
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	student, err := h.students.RecordSemesterAttendance(c.Request.Context(), claimsFromContext(c), c.Param("id"), entry)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// RollupAttendance godoc
// @Summary Rebuild the current semester attendance from approved records
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/semester-attendance/rollup [post]
func (h *StudentHandler) RollupAttendance(c *gin.Context) {
	student, err := h.students.RollupAttendance(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Eligibility godoc
// @Summary Evaluate a student against a stipend criteria
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param criteria query string true "Criteria ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility [get]
func (h *StudentHandler) Eligibility(c *gin.Context) {
	criteriaID, ok := requiredQuery(c, "criteria")
	if !ok {
		return
	}
	result, err := h.students.Eligibility(c.Request.Context(), claimsFromContext(c), c.Param("id"), criteriaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ClassRank godoc
// @Summary Get the student's rank within its section
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/class-rank [get]
func (h *StudentHandler) ClassRank(c *gin.Context) {
	rank, err := h.students.ClassRank(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rank)
}

// Promote godoc
// @Summary Graduate a student into an alumni profile
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.PromoteStudentRequest true "Alumni details"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/promote-to-alumni [post]
func (h *StudentHandler) Promote(c *gin.Context) {
	var req dto.PromoteStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	alumni, err := h.students.Promote(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alumni)
}

// FixOrphans godoc
// @Summary Revert graduated students that have no alumni profile
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/fix-orphans [post]
func (h *StudentHandler) FixOrphans(c *gin.Context) {
	result, err := h.students.FixOrphans(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
