package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

type stipendService interface {
	CreateCriteria(ctx context.Context, actor *models.JWTClaims, req dto.CriteriaRequest) (*models.StipendCriteria, error)
	UpdateCriteria(ctx context.Context, actor *models.JWTClaims, id string, req dto.CriteriaRequest) (*models.StipendCriteria, error)
	GetCriteria(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendCriteria, error)
	ListCriteria(ctx context.Context, actor *models.JWTClaims, activeOnly bool) ([]models.StipendCriteria, error)
	Calculate(ctx context.Context, actor *models.JWTClaims, req dto.CalculateRequest) (*dto.CalculationResult, error)
	SaveEligibility(ctx context.Context, actor *models.JWTClaims, req dto.SaveEligibilityRequest) ([]models.StipendEligibility, error)
	ListEligibility(ctx context.Context, actor *models.JWTClaims, criteriaID string) ([]models.StipendEligibility, error)
	Approve(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendEligibility, error)
	Unapprove(ctx context.Context, actor *models.JWTClaims, id string) (*models.StipendEligibility, error)
	Roster(ctx context.Context, actor *models.JWTClaims, criteriaID string) ([]byte, string, error)
}

// StipendHandler exposes stipend criteria and eligibility endpoints.
type StipendHandler struct {
	service stipendService
}

// NewStipendHandler builds a new handler.
func NewStipendHandler(service stipendService) *StipendHandler {
	return &StipendHandler{service: service}
}

// ListCriteria godoc
// @Summary List stipend criteria
// @Tags Stipends
// @Produce json
// @Param active query bool false "Only active criteria"
// @Success 200 {object} response.Envelope
// @Router /stipends/criteria [get]
func (h *StipendHandler) ListCriteria(c *gin.Context) {
	items, err := h.service.ListCriteria(c.Request.Context(), claimsFromContext(c), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// CreateCriteria godoc
// @Summary Create a stipend criteria
// @Tags Stipends
// @Accept json
// @Produce json
// @Param payload body dto.CriteriaRequest true "Criteria payload"
// @Success 201 {object} response.Envelope
// @Router /stipends/criteria [post]
func (h *StipendHandler) CreateCriteria(c *gin.Context) {
	var req dto.CriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid criteria payload"))
		return
	}
	criteria, err := h.service.CreateCriteria(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, criteria)
}

// GetCriteria godoc
// @Summary Get a stipend criteria
// @Tags Stipends
// @Produce json
// @Param id path string true "Criteria ID"
// @Success 200 {object} response.Envelope
// @Router /stipends/criteria/{id} [get]
func (h *StipendHandler) GetCriteria(c *gin.Context) {
	criteria, err := h.service.GetCriteria(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, criteria)
}

// UpdateCriteria godoc
// @Summary Replace a stipend criteria
// @Tags Stipends
// @Accept json
// @Produce json
// @Param id path string true "Criteria ID"
// @Param payload body dto.CriteriaRequest true "Criteria payload"
// @Success 200 {object} response.Envelope
// @Router /stipends/criteria/{id} [put]
func (h *StipendHandler) UpdateCriteria(c *gin.Context) {
	var req dto.CriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid criteria payload"))
		return
	}
	criteria, err := h.service.UpdateCriteria(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, criteria)
}

// Calculate godoc
// @Summary Evaluate students against a criteria or ad-hoc thresholds
// @Tags Stipends
// @Produce json
// @Param criteria query string false "Criteria ID"
// @Param minAttendance query number false "Minimum attendance percentage"
// @Param minGpa query number false "Minimum GPA"
// @Param passRequirement query string false "all_pass, 1_referred, 2_referred or any"
// @Param department query string false "Department ID"
// @Param semester query int false "Semester"
// @Param shift query string false "Shift"
// @Param session query string false "Session YYYY-YY"
// @Param search query string false "Name or roll"
// @Success 200 {object} response.Envelope
// @Router /stipends/calculate [get]
// @Router /stipends/eligibility/calculate [get]
func (h *StipendHandler) Calculate(c *gin.Context) {
	var req dto.CalculateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	result, err := h.service.Calculate(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SaveEligibility godoc
// @Summary Persist eligibility snapshots and rerank the criteria
// @Tags Stipends
// @Accept json
// @Produce json
// @Param payload body dto.SaveEligibilityRequest true "Students to save"
// @Success 201 {object} response.Envelope
// @Router /stipends/eligibility [post]
// @Router /stipends/eligibility/save_eligibility [post]
func (h *StipendHandler) SaveEligibility(c *gin.Context) {
	var req dto.SaveEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rows, err := h.service.SaveEligibility(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rows)
}

// ListEligibility godoc
// @Summary List saved eligibility rows of a criteria
// @Tags Stipends
// @Produce json
// @Param criteria query string true "Criteria ID"
// @Success 200 {object} response.Envelope
// @Router /stipends/eligibility [get]
func (h *StipendHandler) ListEligibility(c *gin.Context) {
	criteriaID, ok := requiredQuery(c, "criteria")
	if !ok {
		return
	}
	rows, err := h.service.ListEligibility(c.Request.Context(), claimsFromContext(c), criteriaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}

// Approve godoc
// @Summary Approve a saved eligibility row
// @Tags Stipends
// @Produce json
// @Param id path string true "Eligibility ID"
// @Success 200 {object} response.Envelope
// @Router /stipends/eligibility/{id}/approve [post]
func (h *StipendHandler) Approve(c *gin.Context) {
	row, err := h.service.Approve(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, row)
}

// Unapprove godoc
// @Summary Withdraw approval of an eligibility row
// @Tags Stipends
// @Produce json
// @Param id path string true "Eligibility ID"
// @Success 200 {object} response.Envelope
// @Router /stipends/eligibility/{id}/unapprove [post]
func (h *StipendHandler) Unapprove(c *gin.Context) {
	row, err := h.service.Unapprove(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, row)
}

// Roster godoc
// @Summary Download the ranked roster of a criteria as PDF
// @Tags Stipends
// @Produce application/pdf
// @Param criteria query string true "Criteria ID"
// @Success 200 {file} file
// @Router /stipends/eligibility/roster [get]
func (h *StipendHandler) Roster(c *gin.Context) {
	criteriaID, ok := requiredQuery(c, "criteria")
	if !ok {
		return
	}
	content, filename, err := h.service.Roster(c.Request.Context(), claimsFromContext(c), criteriaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", content)
}
