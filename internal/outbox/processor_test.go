package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/events"
	"classifieds-core/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{channel: channel, payload: payload})
	return nil
}

func queue(t *testing.T, store *memory.Store, id, eventType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Outbox().Create(context.Background(), &outbox.OutboxEvent{
		ID:            id,
		EventType:     eventType,
		AggregateType: "test",
		AggregateID:   id,
		Payload:       raw,
		Status:        outbox.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

func TestProcessor_PublishesToResolvedChannels(t *testing.T) {
	store := memory.New()
	pub := &fakePublisher{}
	p := NewProcessor(store.Outbox(), pub, nil, nil, 10, time.Second, 3)

	queue(t, store, "e1", events.EventTypeNotificationCreated, events.NotificationCreated{NotificationID: "n1", UserID: "u7"})
	queue(t, store, "e2", events.EventTypeReportCreated, events.ReportCreated{ReportID: "r1"})

	delivered := p.ProcessBatch(context.Background())
	assert.Equal(t, 2, delivered)

	require.Len(t, pub.sent, 2)
	assert.Equal(t, "channel:user:u7", pub.sent[0].channel)
	assert.Equal(t, events.ChannelAdminReports, pub.sent[1].channel)

	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.sent[0].payload, &env))
	assert.Equal(t, "e1", env.ID)
	assert.Equal(t, events.EventTypeNotificationCreated, env.EventType)

	for _, e := range store.AllOutbox() {
		assert.Equal(t, outbox.StatusCompleted, e.Status)
		assert.NotNil(t, e.ProcessedAt)
	}
	assert.Zero(t, p.ProcessBatch(context.Background()))
}

func TestProcessor_RetriesThenFails(t *testing.T) {
	store := memory.New()
	pub := &fakePublisher{err: errors.New("redis down")}
	p := NewProcessor(store.Outbox(), pub, nil, nil, 10, time.Second, 2)
	queue(t, store, "e1", events.EventTypeReportCreated, events.ReportCreated{ReportID: "r1"})

	assert.Zero(t, p.ProcessBatch(context.Background()))
	e := store.AllOutbox()[0]
	assert.Equal(t, outbox.StatusPending, e.Status)
	assert.Equal(t, 1, e.RetryCount)
	assert.Equal(t, "redis down", e.Error)

	assert.Zero(t, p.ProcessBatch(context.Background()))
	e = store.AllOutbox()[0]
	assert.Equal(t, outbox.StatusFailed, e.Status)

	// Failed events are not picked up again.
	pub.err = nil
	assert.Zero(t, p.ProcessBatch(context.Background()))
	assert.Empty(t, pub.sent)
}

func TestRunner_StopsWithContext(t *testing.T) {
	store := memory.New()
	pub := &fakePublisher{}
	p := NewProcessor(store.Outbox(), pub, nil, nil, 10, 5*time.Millisecond, 3)
	queue(t, store, "e1", events.EventTypeReportCreated, events.ReportCreated{ReportID: "r1"})

	ctx, cancel := context.WithCancel(context.Background())
	NewRunner(p).Start(ctx)

	assert.Eventually(t, func() bool {
		return store.AllOutbox()[0].Status == outbox.StatusCompleted
	}, time.Second, 5*time.Millisecond)
	cancel()
}
