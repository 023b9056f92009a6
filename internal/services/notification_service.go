package services

import (
	"context"
	"encoding/json"
	"strings"

	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/events"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"
	"classifieds-core/pkg/logger"

	"go.uber.org/zap"
)

// Notifier records a notification for a user. Implementations are called after the triggering commit.
type Notifier interface {
	Emit(ctx context.Context, userID string, typ notification.Type, payload interface{}) (notification.Notification, error)
}

type NotificationService struct {
	base
}

func NewNotificationService(store repository.Store, opts ...Option) *NotificationService {
	return &NotificationService{base: newBase(store, opts)}
}

// Emit stores the notification and its outbox event in one transaction. No retries.
func (s *NotificationService) Emit(ctx context.Context, userID string, typ notification.Type, payload interface{}) (notification.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return notification.Notification{}, market_errors.InvalidInput("notification recipient is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return notification.Notification{}, market_errors.InvalidInput("notification payload is not serializable")
	}

	now := s.now()
	n := notification.Notification{
		ID:        s.newID(),
		UserID:    userID,
		Type:      typ,
		Payload:   data,
		CreatedAt: now,
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Notifications().Create(ctx, &n); err != nil {
			return err
		}
		return writeOutbox(ctx, tx.Outbox(), s.newID(), now,
			events.AggregateTypeNotification, events.EventTypeNotificationCreated, n.ID,
			events.NotificationCreated{
				NotificationID: n.ID,
				UserID:         n.UserID,
				Type:           string(n.Type),
				Payload:        json.RawMessage(data),
				CreatedAt:      n.CreatedAt,
			})
	})
	if err != nil {
		return notification.Notification{}, storageErr(err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID string, onlyUnread *bool, limit int) ([]notification.Notification, error) {
	items, err := s.store.Notifications().ListForUser(ctx, userID, onlyUnread, clampLimit(limit, DefaultNotificationLimit, MaxNotificationLimit))
	if err != nil {
		return nil, storageErr(err)
	}
	if items == nil {
		items = []notification.Notification{}
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Notifications().CountUnread(ctx, userID)
	return n, storageErr(err)
}

// MarkRead flags the given notifications as read. Ids owned by other users are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids ...string) (int64, error) {
	n, err := s.store.Notifications().MarkRead(ctx, userID, ids)
	return n, storageErr(err)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Notifications().MarkAllRead(ctx, userID)
	return n, storageErr(err)
}

// emitQuietly delivers a notification and only logs a failure.
func emitQuietly(ctx context.Context, n Notifier, log *logger.Logger, userID string, typ notification.Type, payload interface{}) {
	if n == nil {
		return
	}
	if _, err := n.Emit(ctx, userID, typ, payload); err != nil {
		log.ErrorCtx(ctx, "notification emit failed",
			zap.String("recipient_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}
