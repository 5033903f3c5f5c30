package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/types"
)

type ConversationRepo interface {
	GetByPairKey(ctx context.Context, tx *gorm.DB, pairKey string) (*types.Conversation, error)
	Create(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Conversation, error)
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
	repoLog := baseLog.With("repo", "ConversationRepo")
	return &conversationRepo{db: db, log: repoLog}
}

// GetByPairKey returns nil without error when no conversation matches the
// pair; callers distinguish "absent" from storage failure.
func (cr *conversationRepo) GetByPairKey(ctx context.Context, tx *gorm.DB, pairKey string) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Conversation
	if err := transaction.WithContext(ctx).
		Where("pair_key = ?", pairKey).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (cr *conversationRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Conversation
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
