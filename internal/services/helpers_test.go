package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/repository/memory"
	"classifieds-core/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sequentialIDs(prefix string) func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%04d", prefix, atomic.AddInt64(&n, 1))
	}
}

type fixture struct {
	store         *memory.Store
	clock         *testClock
	logs          *observer.ObservedLogs
	notifications *NotificationService
	conversations *ConversationService
	messages      *MessageService
	moderation    *ModerationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	store := memory.New()
	clock := newTestClock()
	opts := []Option{
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs("id")),
		WithLogger(logger.FromZap(zap.New(core))),
	}

	f := &fixture{store: store, clock: clock, logs: logs}
	f.notifications = NewNotificationService(store, opts...)
	f.conversations = NewConversationService(store, opts...)
	f.messages = NewMessageService(store, f.conversations, f.notifications, opts...)
	f.moderation = NewModerationService(store, f.notifications, DefaultDuplicateWindow, opts...)
	return f
}

func (f *fixture) putListing(id, owner string) {
	f.store.PutListing(listing.Listing{ID: id, UserID: owner, Title: "listing " + id})
}

func strPtr(s string) *string { return &s }
