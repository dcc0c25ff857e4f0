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

type marksService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateMarksRequest) (*dto.MarksView, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.MarksFilter) ([]dto.MarksView, error)
}

// MarksHandler exposes exam marks endpoints.
type MarksHandler struct {
	service marksService
}

// NewMarksHandler builds a new handler.
func NewMarksHandler(service marksService) *MarksHandler {
	return &MarksHandler{service: service}
}

// Create godoc
// @Summary Record exam marks
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body dto.CreateMarksRequest true "Marks payload"
// @Success 201 {object} response.Envelope
// @Router /marks [post]
func (h *MarksHandler) Create(c *gin.Context) {
	var req dto.CreateMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}
	view, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// List godoc
// @Summary List exam marks
// @Tags Marks
// @Produce json
// @Param student query string false "Student ID"
// @Param semester query int false "Semester"
// @Param subject query string false "Subject code"
// @Param examType query string false "Exam type"
// @Success 200 {object} response.Envelope
// @Router /marks/student_marks [get]
func (h *MarksHandler) List(c *gin.Context) {
	filter := models.MarksFilter{
		StudentID:   c.Query("student"),
		Semester:    parseQueryInt(c, "semester", 0),
		SubjectCode: c.Query("subject"),
		ExamType:    models.ExamType(c.Query("examType")),
	}
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
