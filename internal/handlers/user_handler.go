package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/middleware"
)

// UserHandler serves the caller's own identity.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMe returns the identity resolved from the bearer token
// @Summary     Current user
// @Description Return the subject and email of the authenticated user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} auth.Identity "Identity"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth.Identity{
		Subject: userID,
		Email:   c.GetString(middleware.EmailKey),
	})
}
