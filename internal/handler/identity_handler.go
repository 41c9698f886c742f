package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// IdentityHandler exposes registration and profile endpoints.
type IdentityHandler struct {
	identity *service.IdentityService
}

// NewIdentityHandler constructs IdentityHandler.
func NewIdentityHandler(identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// Register godoc
// @Summary Link a verified identity to a local profile
// @Tags Identity
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "Profile payload"
// @Success 201 {object} models.User
// @Router /register [post]
func (h *IdentityHandler) Register(c *gin.Context) {
	token, ok := bearerFromHeader(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing bearer token"))
		return
	}

	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.identity.Register(c.Request.Context(), token, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Me godoc
// @Summary Current user profile
// @Tags Identity
// @Produce json
// @Success 200 {object} models.User
// @Router /me [get]
func (h *IdentityHandler) Me(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func bearerFromHeader(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
