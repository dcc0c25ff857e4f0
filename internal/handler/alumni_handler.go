package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

type alumniService interface {
	List(ctx context.Context, actor *models.JWTClaims, filter models.AlumniFilter) ([]models.Alumni, *models.Pagination, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Alumni, error)
	Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateAlumniRequest) (*models.Alumni, error)
	ChangeSupport(ctx context.Context, actor *models.JWTClaims, id string, req dto.ChangeSupportRequest) (*models.Alumni, error)
	AddEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, payload json.RawMessage) (*models.Alumni, error)
	UpdateEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, entryID string, payload json.RawMessage) (*models.Alumni, error)
	RemoveEntry(ctx context.Context, actor *models.JWTClaims, id string, list models.AlumniList, entryID string) (*models.Alumni, error)
}

// AlumniHandler exposes alumni profile endpoints.
type AlumniHandler struct {
	service alumniService
}

// NewAlumniHandler builds a new handler.
func NewAlumniHandler(service alumniService) *AlumniHandler {
	return &AlumniHandler{service: service}
}

// List godoc
// @Summary List alumni
// @Tags Alumni
// @Produce json
// @Param type query string false "recent or established"
// @Param support query string false "Support category"
// @Param graduationYear query int false "Graduation year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /alumni [get]
func (h *AlumniHandler) List(c *gin.Context) {
	filter := models.AlumniFilter{
		AlumniType:      models.AlumniType(c.Query("type")),
		SupportCategory: models.SupportCategory(c.Query("support")),
		GraduationYear:  parseQueryInt(c, "graduationYear", 0),
		Page:            parseQueryInt(c, "page", 1),
		PageSize:        parseQueryInt(c, "limit", 20),
	}
	items, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get an alumni profile
// @Tags Alumni
// @Produce json
// @Param id path string true "Alumni ID"
// @Success 200 {object} response.Envelope
// @Router /alumni/{id} [get]
func (h *AlumniHandler) Get(c *gin.Context) {
	alumni, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumni)
}

// Update godoc
// @Summary Update alumni contact and bio fields
// @Tags Alumni
// @Accept json
// @Produce json
// @Param id path string true "Alumni ID"
// @Param payload body dto.UpdateAlumniRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /alumni/{id} [patch]
func (h *AlumniHandler) Update(c *gin.Context) {
	var req dto.UpdateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	alumni, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumni)
}

// ChangeSupport godoc
// @Summary Change the support category of an alumni
// @Tags Alumni
// @Accept json
// @Produce json
// @Param id path string true "Alumni ID"
// @Param payload body dto.ChangeSupportRequest true "New category"
// @Success 200 {object} response.Envelope
// @Router /alumni/{id}/support-category [post]
func (h *AlumniHandler) ChangeSupport(c *gin.Context) {
	var req dto.ChangeSupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	alumni, err := h.service.ChangeSupport(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumni)
}

// AddEntry godoc
// @Summary Append an entry to a profile list
// @Tags Alumni
// @Accept json
// @Produce json
// @Param id path string true "Alumni ID"
// @Param list path string true "career, skills, highlights or courses"
// @Success 201 {object} response.Envelope
// @Router /alumni/{id}/lists/{list} [post]
func (h *AlumniHandler) AddEntry(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	alumni, err := h.service.AddEntry(c.Request.Context(), claimsFromContext(c), c.Param("id"), models.AlumniList(c.Param("list")), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alumni)
}

// UpdateEntry godoc
// @Summary Replace an entry of a profile list
// @Tags Alumni
// @Accept json
// @Produce json
// @Param id path string true "Alumni ID"
// @Param list path string true "career, skills, highlights or courses"
// @Param entryId path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /alumni/{id}/lists/{list}/{entryId} [put]
func (h *AlumniHandler) UpdateEntry(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	alumni, err := h.service.UpdateEntry(c.Request.Context(), claimsFromContext(c), c.Param("id"), models.AlumniList(c.Param("list")), c.Param("entryId"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumni)
}

// RemoveEntry godoc
// @Summary Remove an entry from a profile list
// @Tags Alumni
// @Produce json
// @Param id path string true "Alumni ID"
// @Param list path string true "career, skills, highlights or courses"
// @Param entryId path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /alumni/{id}/lists/{list}/{entryId} [delete]
func (h *AlumniHandler) RemoveEntry(c *gin.Context) {
	alumni, err := h.service.RemoveEntry(c.Request.Context(), claimsFromContext(c), c.Param("id"), models.AlumniList(c.Param("list")), c.Param("entryId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumni)
}
