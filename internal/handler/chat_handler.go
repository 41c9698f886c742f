package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/service"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// ChatHandler exposes the per-library chat relay.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// History godoc
// @Summary Recent chat history for a library
// @Tags Chat
// @Produce json
// @Param library_id path int true "Library ID"
// @Success 200 {array} models.ChatMessage
// @Router /libraries/{library_id}/chat [get]
func (h *ChatHandler) History(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	messages, err := h.chat.History(c.Request.Context(), libraryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages)
}

// Post godoc
// @Summary Send a chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Param library_id path int true "Library ID"
// @Param payload body service.PostMessageRequest true "Message payload"
// @Success 201 {object} models.ChatMessage
// @Router /libraries/{library_id}/chat [post]
func (h *ChatHandler) Post(c *gin.Context) {
	libraryID, ok := pathID(c, "library_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid library id"))
		return
	}
	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	msg, err := h.chat.Post(c.Request.Context(), userFromContext(c), libraryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
