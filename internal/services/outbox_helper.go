package services

import (
	"context"
	"encoding/json"
	"time"

	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/repository"
)

// writeOutbox queues an event inside the caller's transaction.
func writeOutbox(ctx context.Context, repo repository.OutboxRepository, id string, at time.Time, aggregateType, eventType, aggregateID string, payload interface{}) error {
	data := []byte("{}")
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = raw
	}
	return repo.Create(ctx, &outbox.OutboxEvent{
		ID:            id,
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       data,
		Status:        outbox.StatusPending,
		CreatedAt:     at,
		UpdatedAt:     at,
	})
}
