package repository

import (
	"context"
	"time"

	"classifieds-core/internal/domain/outbox"

	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, event *outbox.OutboxEvent) error {
	return translate(r.db.WithContext(ctx).Create(event).Error, nil)
}

func (r *outboxRepository) GetPending(ctx context.Context, limit, maxRetries int) ([]outbox.OutboxEvent, error) {
	var events []outbox.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ? AND retry_count < ?", outbox.StatusPending, maxRetries).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     outbox.StatusProcessing,
		"updated_at": time.Now(),
	})
}

func (r *outboxRepository) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	return r.update(ctx, id, map[string]interface{}{
		"status":       outbox.StatusCompleted,
		"processed_at": &now,
		"updated_at":   now,
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, errorMsg string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     outbox.StatusFailed,
		"error":      errorMsg,
		"updated_at": time.Now(),
	})
}

// IncrementRetry records the failure and puts the event back in the pending queue.
func (r *outboxRepository) IncrementRetry(ctx context.Context, id string, errorMsg string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":      outbox.StatusPending,
		"retry_count": gorm.Expr("retry_count + 1"),
		"error":       errorMsg,
		"updated_at":  time.Now(),
	})
}

func (r *outboxRepository) update(ctx context.Context, id string, values map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&outbox.OutboxEvent{}).
		Where("id = ?", id).
		Updates(values).Error
	return translate(err, nil)
}
