// Package memory is an in-process repository.Store used by service and handler tests.
// Transactions are serialised with a mutex and roll back by restoring a snapshot.
package memory

import (
	"context"
	"sync"

	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/repository"
)

type state struct {
	conversations map[string]conversation.Conversation
	messages      []message.Message
	reports       map[string]report.Report
	history       []report.HistoryEntry
	listings      map[string]listing.Listing
	notifications []notification.Notification
	outbox        []outbox.OutboxEvent
}

func newState() *state {
	return &state{
		conversations: map[string]conversation.Conversation{},
		reports:       map[string]report.Report{},
		listings:      map[string]listing.Listing{},
	}
}

func (s *state) clone() *state {
	c := &state{
		conversations: make(map[string]conversation.Conversation, len(s.conversations)),
		messages:      append([]message.Message(nil), s.messages...),
		reports:       make(map[string]report.Report, len(s.reports)),
		history:       append([]report.HistoryEntry(nil), s.history...),
		listings:      make(map[string]listing.Listing, len(s.listings)),
		notifications: append([]notification.Notification(nil), s.notifications...),
		outbox:        append([]outbox.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.conversations {
		c.conversations[k] = v
	}
	for k, v := range s.reports {
		c.reports[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	return c
}

type shared struct {
	mu       sync.Mutex
	data     *state
	failures map[string]error
}

// Store implements repository.Store in memory.
type Store struct {
	sh   *shared
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{sh: &shared{data: newState(), failures: map[string]error{}}}
}

// FailOn makes every subsequent call of op return err. A nil err clears the fault.
// Operation names look like "reports.Create" or "notifications.Create".
func (s *Store) FailOn(op string, err error) {
	s.lock()
	defer s.unlock()
	if err == nil {
		delete(s.sh.failures, op)
		return
	}
	s.sh.failures[op] = err
}

// PutListing seeds the listing collaborator.
func (s *Store) PutListing(l listing.Listing) {
	s.lock()
	defer s.unlock()
	if l.ModerationStatus == "" {
		l.ModerationStatus = listing.ModerationActive
	}
	s.sh.data.listings[l.ID] = l
}

func (s *Store) lock() {
	if !s.inTx {
		s.sh.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.sh.mu.Unlock()
	}
}

func (s *Store) fault(op string) error {
	return s.sh.failures[op]
}

func (s *Store) Conversations() repository.ConversationRepository { return conversationRepo{s} }
func (s *Store) Messages() repository.MessageRepository           { return messageRepo{s} }
func (s *Store) Reports() repository.ReportRepository             { return reportRepo{s} }
func (s *Store) Listings() repository.ListingRepository           { return listingRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Outbox() repository.OutboxRepository              { return outboxRepo{s} }

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock()
	defer s.unlock()

	snapshot := s.sh.data.clone()
	if err := fn(&Store{sh: s.sh, inTx: true}); err != nil {
		s.sh.data = snapshot
		return err
	}
	return nil
}

// Snapshot accessors for assertions in tests.

func (s *Store) ConversationCount() int {
	s.lock()
	defer s.unlock()
	return len(s.sh.data.conversations)
}

func (s *Store) AllMessages() []message.Message {
	s.lock()
	defer s.unlock()
	return append([]message.Message(nil), s.sh.data.messages...)
}

func (s *Store) AllNotifications() []notification.Notification {
	s.lock()
	defer s.unlock()
	return append([]notification.Notification(nil), s.sh.data.notifications...)
}

func (s *Store) AllOutbox() []outbox.OutboxEvent {
	s.lock()
	defer s.unlock()
	return append([]outbox.OutboxEvent(nil), s.sh.data.outbox...)
}

func (s *Store) ReportCount() int {
	s.lock()
	defer s.unlock()
	return len(s.sh.data.reports)
}

func (s *Store) Listing(id string) (listing.Listing, bool) {
	s.lock()
	defer s.unlock()
	l, ok := s.sh.data.listings[id]
	return l, ok
}
