package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/services"
)

type ConversationHandler struct {
	log            *logger.Logger
	messageService services.MessageService
}

func NewConversationHandler(log *logger.Logger, messageService services.MessageService) *ConversationHandler {
	handlerLog := log.With("handler", "ConversationHandler")
	return &ConversationHandler{log: handlerLog, messageService: messageService}
}

func (ch *ConversationHandler) ListConversations(c *gin.Context) {
	summaries, err := ch.messageService.ListConversations(c.Request.Context())
	if err != nil {
		ch.log.Error("Listing conversations failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	RespondOK(c, summaries)
}

// ListMessages returns the conversation's messages in chronological order.
// An unknown conversation id is not an error: the response is an empty list.
func (ch *ConversationHandler) ListMessages(c *gin.Context) {
	rawID := c.Param("id")
	conversationID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id", fmt.Errorf("conversation id must be numeric, got %q", rawID))
		return
	}

	views, err := ch.messageService.ListMessages(c.Request.Context(), uint(conversationID))
	if err != nil {
		ch.log.Error("Listing messages failed", "error", err, "conversation_id", conversationID)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	RespondOK(c, views)
}
