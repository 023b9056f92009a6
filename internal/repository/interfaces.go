package repository

import (
	"context"
	"time"

	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/domain/report"
)

// ActivityCursor is the keyset position of a conversation in a recency-ordered list.
type ActivityCursor struct {
	At time.Time
	ID string
}

// ReportFilter narrows an admin report listing. Zero values do not filter.
type ReportFilter struct {
	Status     report.Status
	Reason     report.Reason
	ListingID  string
	ReporterID string
	Query      string
}

type ConversationRepository interface {
	// Create fails with ErrAlreadyExists when the canonical key is taken.
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id string) (conversation.Conversation, error)
	GetByKey(ctx context.Context, key conversation.Key) (conversation.Conversation, error)
	// ListForUser orders by last activity desc, id desc, starting strictly after the cursor.
	ListForUser(ctx context.Context, userID string, after *ActivityCursor, limit int) ([]conversation.Conversation, error)
	// Touch allocates the next message sequence and moves last activity to at.
	Touch(ctx context.Context, id string, at time.Time) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	// ListAfter returns messages with seq > afterSeq in ascending seq order.
	ListAfter(ctx context.Context, conversationID string, afterSeq int64, limit int) ([]message.Message, error)
	// AdvanceStatus moves messages not sent by readerID forward to target and returns how many moved.
	AdvanceStatus(ctx context.Context, conversationID, readerID string, target message.Status, at time.Time) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *report.Report) error
	GetByID(ctx context.Context, id string) (report.Report, error)
	// LockByID reads the report and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id string) (report.Report, error)
	// UpdateStatus applies a resolution only if the report is still in status from.
	UpdateStatus(ctx context.Context, id string, from, to report.Status, reviewerID string, note *string, at time.Time) error
	ExistsSince(ctx context.Context, reporterID, listingID string, since time.Time) (bool, error)
	List(ctx context.Context, filter ReportFilter, offset, limit int) ([]report.Report, int64, error)

	// AppendHistory assigns the next per-report sequence number to e.
	AppendHistory(ctx context.Context, e *report.HistoryEntry) error
	History(ctx context.Context, reportID string) ([]report.HistoryEntry, error)
}

// ListingRepository is the listing collaborator as seen by moderation.
type ListingRepository interface {
	GetOwnerAndModerationStatus(ctx context.Context, listingID string) (listing.Listing, error)
	SetModerationStatus(ctx context.Context, listingID string, status listing.ModerationStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListForUser(ctx context.Context, userID string, onlyUnread *bool, limit int) ([]notification.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *outbox.OutboxEvent) error
	GetPending(ctx context.Context, limit, maxRetries int) ([]outbox.OutboxEvent, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errorMsg string) error
	IncrementRetry(ctx context.Context, id string, errorMsg string) error
}

// Store groups the repositories that share one transactional boundary.
type Store interface {
	Conversations() ConversationRepository
	Messages() MessageRepository
	Reports() ReportRepository
	Listings() ListingRepository
	Notifications() NotificationRepository
	Outbox() OutboxRepository

	// WithTx runs fn in one transaction; any error rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
