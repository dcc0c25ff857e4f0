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

type correctionService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateCorrectionRequest) (*models.CorrectionRequest, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.CorrectionFilter) ([]models.CorrectionRequest, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.CorrectionRequest, error)
	Approve(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error)
	Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error)
}

// CorrectionHandler exposes profile correction endpoints.
type CorrectionHandler struct {
	service correctionService
}

// NewCorrectionHandler builds a new handler.
func NewCorrectionHandler(service correctionService) *CorrectionHandler {
	return &CorrectionHandler{service: service}
}

// Create godoc
// @Summary Request a correction of a student field
// @Tags Corrections
// @Accept json
// @Produce json
// @Param payload body dto.CreateCorrectionRequest true "Correction payload"
// @Success 201 {object} response.Envelope
// @Router /correction-requests [post]
func (h *CorrectionHandler) Create(c *gin.Context) {
	var req dto.CreateCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid correction payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List correction requests
// @Tags Corrections
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param studentId query string false "Student ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /correction-requests [get]
func (h *CorrectionHandler) List(c *gin.Context) {
	filter := models.CorrectionFilter{
		StudentID: c.Query("studentId"),
		Limit:     parseQueryInt(c, "limit", 0),
		Offset:    parseQueryInt(c, "offset", 0),
	}
	for _, status := range splitQuery(c, "status") {
		filter.Status = append(filter.Status, models.CorrectionStatus(status))
	}
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get a correction request
// @Tags Corrections
// @Produce json
// @Param id path string true "Correction ID"
// @Success 200 {object} response.Envelope
// @Router /correction-requests/{id} [get]
func (h *CorrectionHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Approve godoc
// @Summary Approve a correction and apply it
// @Tags Corrections
// @Accept json
// @Produce json
// @Param id path string true "Correction ID"
// @Param payload body dto.ReviewCorrectionRequest false "Review notes"
// @Success 200 {object} response.Envelope
// @Router /correction-requests/{id}/approve [post]
func (h *CorrectionHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a correction
// @Tags Corrections
// @Accept json
// @Produce json
// @Param id path string true "Correction ID"
// @Param payload body dto.ReviewCorrectionRequest true "Review notes"
// @Success 200 {object} response.Envelope
// @Router /correction-requests/{id}/reject [post]
func (h *CorrectionHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *CorrectionHandler) review(c *gin.Context, decide func(context.Context, *models.JWTClaims, string, dto.ReviewCorrectionRequest) (*models.CorrectionRequest, error)) {
	var req dto.ReviewCorrectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
			return
		}
	}
	item, err := decide(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}
