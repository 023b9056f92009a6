package outbox

import (
	"context"
	"encoding/json"
	"time"

	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/events"
	"classifieds-core/internal/repository"
	"classifieds-core/pkg/logger"

	"go.uber.org/zap"
)

// Processor relays pending outbox events to the delivery collaborator.
type Processor struct {
	repo       repository.OutboxRepository
	publisher  events.Publisher
	resolver   events.ChannelResolver
	log        *logger.Logger
	batchSize  int
	interval   time.Duration
	maxRetries int
}

func NewProcessor(repo repository.OutboxRepository, publisher events.Publisher, resolver events.ChannelResolver, log *logger.Logger, batchSize int, interval time.Duration, maxRetries int) *Processor {
	if resolver == nil {
		resolver = events.NewAudienceChannelResolver()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Processor{
		repo:       repo,
		publisher:  publisher,
		resolver:   resolver,
		log:        log,
		batchSize:  batchSize,
		interval:   interval,
		maxRetries: maxRetries,
	}
}

func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publishes one batch and returns how many events were delivered.
func (p *Processor) ProcessBatch(ctx context.Context) int {
	batch, err := p.repo.GetPending(ctx, p.batchSize, p.maxRetries)
	if err != nil {
		p.log.Errorf("outbox: fetch pending failed: %v", err)
		return 0
	}

	delivered := 0
	for _, e := range batch {
		if p.deliver(ctx, e) {
			delivered++
		}
	}
	return delivered
}

func (p *Processor) deliver(ctx context.Context, e outbox.OutboxEvent) bool {
	if err := p.repo.MarkProcessing(ctx, e.ID); err != nil {
		p.log.Errorf("outbox: mark processing %s: %v", e.ID, err)
		return false
	}

	env := events.Envelope{
		ID:            e.ID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		OccurredAt:    e.CreatedAt.UTC(),
		Payload:       json.RawMessage(e.Payload),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		// Malformed payloads never become publishable.
		_ = p.repo.MarkFailed(ctx, e.ID, err.Error())
		return false
	}

	channel := p.resolver.ResolveChannel(env)
	if err := p.publisher.Publish(ctx, channel, payload); err != nil {
		p.fail(ctx, e, err)
		return false
	}

	if err := p.repo.MarkCompleted(ctx, e.ID); err != nil {
		p.log.Errorf("outbox: mark completed %s: %v", e.ID, err)
	}
	return true
}

func (p *Processor) fail(ctx context.Context, e outbox.OutboxEvent, cause error) {
	fields := []zap.Field{
		zap.String("event_id", e.ID),
		zap.String("event_type", e.EventType),
		zap.Int("retry_count", e.RetryCount+1),
		zap.Error(cause),
	}
	if e.RetryCount+1 >= p.maxRetries {
		p.log.ErrorCtx(ctx, "outbox event failed permanently", fields...)
		_ = p.repo.MarkFailed(ctx, e.ID, cause.Error())
		return
	}
	p.log.InfoCtx(ctx, "outbox publish failed, will retry", fields...)
	_ = p.repo.IncrementRetry(ctx, e.ID, cause.Error())
}
