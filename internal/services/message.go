package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/repos"
	"github.com/voxloop/messaging-service/internal/types"
)

// RecordMessageInput carries the already-parsed fields of one ingestion call.
// The boundary layer supplies the variant-specific parts (channel type,
// provider id, framing); a single Record path backs all four entry points.
type RecordMessageInput struct {
	From        string
	To          string
	ChannelType string
	ProviderID  *string
	Body        string
	Attachments []string
	Timestamp   string
}

type ConversationSummary struct {
	ID           uint     `json:"id"`
	Participants []string `json:"participants"`
	MessageCount int64    `json:"message_count"`
}

type MessageView struct {
	ID          uint     `json:"id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Type        string   `json:"type"`
	ProviderID  *string  `json:"provider_id"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments"`
	Timestamp   string   `json:"timestamp"`
}

// MessageService is the message ledger: it appends immutable message records
// to resolved conversations and serves the two read paths.
type MessageService interface {
	Record(ctx context.Context, in RecordMessageInput) (*types.Message, error)
	ListConversations(ctx context.Context) ([]ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID uint) ([]MessageView, error)
}

type messageService struct {
	db          *gorm.DB
	log         *logger.Logger
	convService ConversationService
	msgRepo     repos.MessageRepo
}

func NewMessageService(db *gorm.DB, log *logger.Logger, convService ConversationService, msgRepo repos.MessageRepo) MessageService {
	serviceLog := log.With("service", "MessageService")
	return &messageService{
		db:          db,
		log:         serviceLog,
		convService: convService,
		msgRepo:     msgRepo,
	}
}

// Accepted timestamp shapes: RFC 3339 with offset or trailing Z, the same
// with fractional seconds, and zone-less forms taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

func encodeAttachments(attachments []string) (datatypes.JSON, error) {
	if attachments == nil {
		attachments = []string{}
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func decodeAttachments(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var attachments []string
	if err := json.Unmarshal(raw, &attachments); err != nil || attachments == nil {
		return []string{}
	}
	return attachments
}

// Record resolves the conversation for the message's address pair and appends
// one row to it. The conversation resolve and the message insert commit
// independently, so a failed append can leave behind an empty conversation;
// there is no cross-row invariant that would require joint atomicity.
func (ms *messageService) Record(ctx context.Context, in RecordMessageInput) (*types.Message, error) {
	ts := time.Now().UTC()
	if in.Timestamp != "" {
		parsed, err := parseTimestamp(in.Timestamp)
		if err != nil {
			return nil, err
		}
		ts = parsed
	}

	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return nil, err
	}

	conv, err := ms.convService.Resolve(ctx, in.From, in.To)
	if err != nil {
		return nil, err
	}

	msg, err := ms.msgRepo.Create(ctx, nil, &types.Message{
		ConversationID: conv.ID,
		FromAddr:       in.From,
		ToAddr:         in.To,
		ChannelType:    in.ChannelType,
		ProviderID:     in.ProviderID,
		Body:           in.Body,
		Attachments:    attachments,
		Timestamp:      ts,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("message insert failed: %w", err)
	}
	ms.log.Debug("Recorded message", "message_id", msg.ID, "conversation_id", conv.ID, "type", in.ChannelType)
	return msg, nil
}

func (ms *messageService) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	convs, err := ms.convService.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(convs))
	for _, conv := range convs {
		ids = append(ids, conv.ID)
	}
	counts, err := ms.msgRepo.CountByConversationIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, ConversationSummary{
			ID:           conv.ID,
			Participants: []string{conv.ParticipantA, conv.ParticipantB},
			MessageCount: counts[conv.ID],
		})
	}
	return summaries, nil
}

func (ms *messageService) ListMessages(ctx context.Context, conversationID uint) ([]MessageView, error) {
	msgs, err := ms.msgRepo.ListByConversationID(ctx, nil, conversationID)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, MessageView{
			ID:          msg.ID,
			From:        msg.FromAddr,
			To:          msg.ToAddr,
			Type:        msg.ChannelType,
			ProviderID:  msg.ProviderID,
			Body:        msg.Body,
			Attachments: decodeAttachments(msg.Attachments),
			Timestamp:   msg.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	}
	return views, nil
}
