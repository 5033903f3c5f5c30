package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/observability"
	"github.com/voxloop/messaging-service/internal/repos"
	"github.com/voxloop/messaging-service/internal/types"
)

// ConversationService is the conversation directory: given two addresses it
// returns the conversation for that unordered pair, creating one when absent.
type ConversationService interface {
	Resolve(ctx context.Context, addrX, addrY string) (*types.Conversation, error)
	List(ctx context.Context) ([]*types.Conversation, error)
}

type conversationService struct {
	db       *gorm.DB
	log      *logger.Logger
	convRepo repos.ConversationRepo
	metrics  *observability.Metrics
}

func NewConversationService(db *gorm.DB, log *logger.Logger, convRepo repos.ConversationRepo, metrics *observability.Metrics) ConversationService {
	serviceLog := log.With("service", "ConversationService")
	return &conversationService{
		db:       db,
		log:      serviceLog,
		convRepo: convRepo,
		metrics:  metrics,
	}
}

// Resolve finds the conversation whose unordered participant pair matches
// {addrX, addrY}, or creates it with the participants in caller order.
//
// Two concurrent resolves for a pair that does not exist yet both reach the
// insert; the unique index on pair_key lets exactly one through. The loser
// retries as a lookup and returns the winner's row, so N concurrent calls
// always converge on a single conversation. The insert deliberately runs in
// its own implicit transaction: a unique violation inside a shared
// transaction would abort everything batched with it.
//
// Addresses are not validated here. Empty strings are legal participants and
// an address may converse with itself; both follow the permissive intake
// policy of the boundary.
func (cs *conversationService) Resolve(ctx context.Context, addrX, addrY string) (*types.Conversation, error) {
	pairKey := types.PairKeyFor(addrX, addrY)

	conv, err := cs.convRepo.GetByPairKey(ctx, nil, pairKey)
	if err != nil {
		return nil, fmt.Errorf("conversation lookup failed: %w", err)
	}
	if conv != nil {
		return conv, nil
	}

	created, createErr := cs.convRepo.Create(ctx, nil, &types.Conversation{
		ParticipantA: addrX,
		ParticipantB: addrY,
		PairKey:      pairKey,
		CreatedAt:    time.Now().UTC(),
	})
	if createErr == nil {
		cs.metrics.ConversationCreated()
		cs.log.Debug("Created conversation", "conversation_id", created.ID, "participant_a", addrX, "participant_b", addrY)
		return created, nil
	}

	// Most likely a lost race on the pair_key unique index. Whatever the
	// cause, a successful re-lookup means the pair now exists and the
	// guarantee holds.
	conv, err = cs.convRepo.GetByPairKey(ctx, nil, pairKey)
	if err != nil {
		return nil, fmt.Errorf("conversation re-lookup after create failure: %w", err)
	}
	if conv != nil {
		cs.log.Debug("Lost create race, reusing existing conversation", "conversation_id", conv.ID)
		return conv, nil
	}
	return nil, fmt.Errorf("conversation create failed: %w", createErr)
}

func (cs *conversationService) List(ctx context.Context) ([]*types.Conversation, error) {
	return cs.convRepo.List(ctx, nil)
}
