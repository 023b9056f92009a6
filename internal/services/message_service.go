package services

import (
	"context"
	"unicode/utf8"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"

	"go.uber.org/zap"
)

const previewRunes = 120

type MessageService struct {
	base
	conversations *ConversationService
	notifier      Notifier
}

func NewMessageService(store repository.Store, conversations *ConversationService, notifier Notifier, opts ...Option) *MessageService {
	return &MessageService{
		base:          newBase(store, opts),
		conversations: conversations,
		notifier:      notifier,
	}
}

// Append stores a message and moves the conversation's last activity to the message time.
// The counterpart is notified after commit.
func (s *MessageService) Append(ctx context.Context, cmd commands.AppendMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}

	var (
		conv conversation.Conversation
		msg  message.Message
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		conv, err = tx.Conversations().GetByID(ctx, cmd.ConversationID)
		if err != nil {
			return err
		}
		if !conv.IsParticipant(cmd.SenderID) {
			return market_errors.ErrNotAParticipant
		}

		now := s.now()
		seq, err := tx.Conversations().Touch(ctx, conv.ID, now)
		if err != nil {
			return err
		}
		msg = message.Message{
			ID:             s.newID(),
			ConversationID: conv.ID,
			Seq:            seq,
			SenderID:       cmd.SenderID,
			Body:           commands.NormalizeBody(cmd.Body),
			Status:         message.StatusSent,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.Messages().Create(ctx, &msg)
	})
	if err != nil {
		return message.Message{}, storageErr(err)
	}

	recipient := conv.OtherParticipant(cmd.SenderID)
	emitQuietly(ctx, s.notifier, s.log, recipient, notification.TypeMessageNew, notification.MessagePayload{
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		ListingID:      conv.ListingID,
		Preview:        preview(msg.Body),
	})
	return msg, nil
}

// Send messages recipientID directly; the first message creates the conversation.
func (s *MessageService) Send(ctx context.Context, cmd commands.SendMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}
	key, err := cmd.Key()
	if err != nil {
		return message.Message{}, err
	}
	conv, err := s.conversations.GetOrCreate(ctx, key)
	if err != nil {
		return message.Message{}, err
	}
	return s.Append(ctx, commands.AppendMessageCommand{
		ConversationID: conv.ID,
		SenderID:       cmd.SenderID,
		Body:           cmd.Body,
	})
}

// List returns messages after afterSeq in chronological order.
func (s *MessageService) List(ctx context.Context, conversationID, requesterID string, afterSeq int64, limit int) (CursorPage[message.Message], error) {
	if _, err := s.conversations.Get(ctx, conversationID, requesterID); err != nil {
		return CursorPage[message.Message]{}, err
	}
	limit = clampLimit(limit, DefaultMessageLimit, MaxMessageLimit)
	if afterSeq < 0 {
		afterSeq = 0
	}

	rows, err := s.store.Messages().ListAfter(ctx, conversationID, afterSeq, limit)
	if err != nil {
		return CursorPage[message.Message]{}, storageErr(err)
	}
	page := CursorPage[message.Message]{Items: rows}
	if page.Items == nil {
		page.Items = []message.Message{}
	}
	if len(rows) == limit {
		page.NextCursor = formatSeq(rows[len(rows)-1].Seq)
	}
	return page, nil
}

// MarkRead advances every message readerID received in the conversation to READ.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	return s.advance(ctx, conversationID, readerID, message.StatusRead)
}

// MarkDelivered advances SENT messages received by recipientID to DELIVERED.
func (s *MessageService) MarkDelivered(ctx context.Context, conversationID, recipientID string) (int64, error) {
	return s.advance(ctx, conversationID, recipientID, message.StatusDelivered)
}

func (s *MessageService) advance(ctx context.Context, conversationID, userID string, target message.Status) (int64, error) {
	if _, err := s.conversations.Get(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	n, err := s.store.Messages().AdvanceStatus(ctx, conversationID, userID, target, s.now())
	if err != nil {
		return 0, storageErr(err)
	}
	if n > 0 {
		s.log.InfoCtx(ctx, "messages advanced",
			zap.String("conversation_id", conversationID),
			zap.String("status", string(target)),
			zap.Int64("count", n),
		)
	}
	return n, nil
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewRunes {
		return body
	}
	return string([]rune(body)[:previewRunes]) + "…"
}
