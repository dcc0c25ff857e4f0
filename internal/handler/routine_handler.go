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

type routineService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateRoutineRequest) (*models.ClassRoutine, error)
	Get(ctx context.Context, id string) (*models.ClassRoutine, error)
	List(ctx context.Context, filter models.ClassRoutineFilter) ([]models.ClassRoutine, error)
}

// RoutineHandler exposes weekly class routine endpoints.
type RoutineHandler struct {
	service routineService
}

// NewRoutineHandler builds a new handler.
func NewRoutineHandler(service routineService) *RoutineHandler {
	return &RoutineHandler{service: service}
}

// Create godoc
// @Summary Create a class routine slot
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoutineRequest true "Routine payload"
// @Success 201 {object} response.Envelope
// @Router /routines [post]
func (h *RoutineHandler) Create(c *gin.Context) {
	var req dto.CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	routine, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, routine)
}

// List godoc
// @Summary List class routines
// @Tags Routines
// @Produce json
// @Param department query string false "Department ID"
// @Param session query string false "Session YYYY-YY"
// @Param semester query int false "Semester"
// @Param shift query string false "Shift"
// @Success 200 {object} response.Envelope
// @Router /routines [get]
func (h *RoutineHandler) List(c *gin.Context) {
	filter := models.ClassRoutineFilter{
		DepartmentID: c.Query("department"),
		Session:      c.Query("session"),
		Semester:     parseQueryInt(c, "semester", 0),
		Shift:        c.Query("shift"),
	}
	routines, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, routines)
}

// Get godoc
// @Summary Get a class routine slot
// @Tags Routines
// @Produce json
// @Param id path string true "Routine ID"
// @Success 200 {object} response.Envelope
// @Router /routines/{id} [get]
func (h *RoutineHandler) Get(c *gin.Context) {
	routine, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, routine)
}
