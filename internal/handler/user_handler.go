package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/pkg/response"
)

type userService interface {
	Me(ctx context.Context, actor *models.JWTClaims) (*models.User, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.User, error)
}

// UserHandler exposes the local user mirror.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Me godoc
// @Summary Get the caller's user record
// @Description Syncs email, name and role from the access token on every call.
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Get godoc
// @Summary Get a user by ID
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
