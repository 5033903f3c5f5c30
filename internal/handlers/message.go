package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/observability"
	"github.com/voxloop/messaging-service/internal/services"
)

// ingestRequest is the union of the four ingestion payloads. Absent fields
// stay at their zero values; each handler picks out the ones its variant
// defines. Addressing fields are intentionally not validated (empty from/to
// is stored as-is).
type ingestRequest struct {
	From                string   `json:"from"`
	To                  string   `json:"to"`
	Type                string   `json:"type"`
	Body                string   `json:"body"`
	Attachments         []string `json:"attachments"`
	Timestamp           string   `json:"timestamp"`
	MessagingProviderID *string  `json:"messaging_provider_id"`
	XillioID            *string  `json:"xillio_id"`
}

type MessageHandler struct {
	log            *logger.Logger
	messageService services.MessageService
	metrics        *observability.Metrics
}

func NewMessageHandler(log *logger.Logger, messageService services.MessageService, metrics *observability.Metrics) *MessageHandler {
	handlerLog := log.With("handler", "MessageHandler")
	return &MessageHandler{log: handlerLog, messageService: messageService, metrics: metrics}
}

// SendSmsMms handles outbound SMS/MMS. Type defaults to "sms" when the caller
// leaves it out.
func (mh *MessageHandler) SendSmsMms(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	channelType := req.Type
	if channelType == "" {
		channelType = "sms"
	}
	mh.ingest(c, services.RecordMessageInput{
		From:        req.From,
		To:          req.To,
		ChannelType: channelType,
		Body:        req.Body,
		Attachments: req.Attachments,
		Timestamp:   req.Timestamp,
	}, "sent")
}

// SendEmail handles outbound email; the channel type is fixed.
func (mh *MessageHandler) SendEmail(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	mh.ingest(c, services.RecordMessageInput{
		From:        req.From,
		To:          req.To,
		ChannelType: "email",
		Body:        req.Body,
		Attachments: req.Attachments,
		Timestamp:   req.Timestamp,
	}, "sent")
}

// ReceiveSmsMms handles the inbound SMS/MMS webhook. The provider's type tag
// is stored verbatim: no default, no validation against the outbound enum.
func (mh *MessageHandler) ReceiveSmsMms(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	mh.ingest(c, services.RecordMessageInput{
		From:        req.From,
		To:          req.To,
		ChannelType: req.Type,
		ProviderID:  req.MessagingProviderID,
		Body:        req.Body,
		Attachments: req.Attachments,
		Timestamp:   req.Timestamp,
	}, "received")
}

// ReceiveEmail handles the inbound email webhook; the provider correlates by
// xillio_id.
func (mh *MessageHandler) ReceiveEmail(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	mh.ingest(c, services.RecordMessageInput{
		From:        req.From,
		To:          req.To,
		ChannelType: "email",
		ProviderID:  req.XillioID,
		Body:        req.Body,
		Attachments: req.Attachments,
		Timestamp:   req.Timestamp,
	}, "received")
}

func (mh *MessageHandler) ingest(c *gin.Context, in services.RecordMessageInput, status string) {
	msg, err := mh.messageService.Record(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTimestamp) {
			RespondError(c, http.StatusBadRequest, "invalid_timestamp", err)
			return
		}
		mh.log.Error("Message ingestion failed", "error", err, "status", status)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	mh.metrics.MessageIngested(in.ChannelType, status)
	RespondOK(c, gin.H{"status": status, "message_id": msg.ID})
}
