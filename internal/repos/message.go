package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, msg *types.Message) (*types.Message, error)
	ListByConversationID(ctx context.Context, tx *gorm.DB, conversationID uint) ([]*types.Message, error)
	CountByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uint) (map[uint]int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	repoLog := baseLog.With("repo", "MessageRepo")
	return &messageRepo{db: db, log: repoLog}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, msg *types.Message) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByConversationID orders by timestamp with the monotonic id as tiebreak,
// so messages carrying the same timestamp come back in insertion order. An
// unknown conversation id yields an empty slice, not an error.
func (mr *messageRepo) ListByConversationID(ctx context.Context, tx *gorm.DB, conversationID uint) ([]*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Message
	if err := transaction.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountByConversationIDs returns message counts keyed by conversation id in a
// single grouped query. Conversations without messages are absent from the
// map; callers treat a missing key as zero.
func (mr *messageRepo) CountByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uint) (map[uint]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	counts := make(map[uint]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ConversationID uint
		Total          int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Select("conversation_id, COUNT(*) AS total").
		Where("conversation_id IN ?", conversationIDs).
		Group("conversation_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ConversationID] = row.Total
	}
	return counts, nil
}
