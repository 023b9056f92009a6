package events

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format published on every Redis channel.
type Envelope struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NotificationCreated is the outbox payload of a freshly stored notification.
type NotificationCreated struct {
	NotificationID string          `json:"notificationId"`
	UserID         string          `json:"userId"`
	Type           string          `json:"type"`
	Payload        json.RawMessage `json:"payload"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ReportCreated feeds the admin moderation queue.
type ReportCreated struct {
	ReportID   string    `json:"reportId"`
	ListingID  string    `json:"listingId"`
	ReporterID string    `json:"reporterId"`
	OwnerID    string    `json:"ownerId"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}
