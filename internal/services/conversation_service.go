package services

import (
	"context"
	"errors"
	"time"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"

	"go.uber.org/zap"
)

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	ID                 string
	OtherParticipantID string
	ListingID          *string
	LastActivityAt     time.Time
}

type ConversationService struct {
	base
}

func NewConversationService(store repository.Store, opts ...Option) *ConversationService {
	return &ConversationService{base: newBase(store, opts)}
}

// GetOrCreate returns the conversation for key, creating it on first use.
// Callers racing on the same key all observe the same conversation.
func (s *ConversationService) GetOrCreate(ctx context.Context, key conversation.Key) (conversation.Conversation, error) {
	return s.getOrCreate(ctx, s.store.Conversations(), key)
}

func (s *ConversationService) getOrCreate(ctx context.Context, repo repository.ConversationRepository, key conversation.Key) (conversation.Conversation, error) {
	existing, err := repo.GetByKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, market_errors.ErrConversationNotFound) {
		return conversation.Conversation{}, storageErr(err)
	}

	created := conversation.New(s.newID(), key, s.now())
	err = repo.Create(ctx, &created)
	if err == nil {
		s.log.InfoCtx(ctx, "conversation created",
			zap.String("conversation_id", created.ID),
			zap.String("listing_key", key.ListingKey),
		)
		return created, nil
	}
	if !errors.Is(err, market_errors.ErrAlreadyExists) {
		return conversation.Conversation{}, storageErr(err)
	}

	// Lost the insert race; the winner's row is visible now.
	winner, err := repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, market_errors.ErrConversationNotFound) {
			return conversation.Conversation{}, market_errors.StorageUnavailable(err)
		}
		return conversation.Conversation{}, storageErr(err)
	}
	return winner, nil
}

// Start resolves the pair and returns its conversation.
func (s *ConversationService) Start(ctx context.Context, cmd commands.StartConversationCommand) (conversation.Conversation, error) {
	key, err := cmd.Key()
	if err != nil {
		return conversation.Conversation{}, err
	}
	return s.GetOrCreate(ctx, key)
}

// Get returns the conversation if requesterID takes part in it.
func (s *ConversationService) Get(ctx context.Context, conversationID, requesterID string) (conversation.Conversation, error) {
	c, err := s.store.Conversations().GetByID(ctx, conversationID)
	if err != nil {
		return conversation.Conversation{}, storageErr(err)
	}
	if !c.IsParticipant(requesterID) {
		return conversation.Conversation{}, market_errors.ErrForbidden
	}
	return c, nil
}

// ListForUser pages through the user's conversations, most recently active first.
func (s *ConversationService) ListForUser(ctx context.Context, userID, cursor string, limit int) (CursorPage[ConversationSummary], error) {
	after, err := DecodeActivityCursor(cursor)
	if err != nil {
		return CursorPage[ConversationSummary]{}, err
	}
	limit = clampLimit(limit, DefaultConversationLimit, MaxConversationLimit)

	rows, err := s.store.Conversations().ListForUser(ctx, userID, after, limit)
	if err != nil {
		return CursorPage[ConversationSummary]{}, storageErr(err)
	}

	page := CursorPage[ConversationSummary]{Items: make([]ConversationSummary, 0, len(rows))}
	for _, c := range rows {
		page.Items = append(page.Items, ConversationSummary{
			ID:                 c.ID,
			OtherParticipantID: c.OtherParticipant(userID),
			ListingID:          c.ListingID,
			LastActivityAt:     c.LastActivityAt,
		})
	}
	if len(rows) == limit {
		last := rows[len(rows)-1]
		page.NextCursor = EncodeActivityCursor(repository.ActivityCursor{At: last.LastActivityAt, ID: last.ID})
	}
	return page, nil
}
