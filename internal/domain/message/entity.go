package message

import (
	"time"
)

// Status is the delivery state of a message. It only moves forward.
type Status string

const (
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
)

func (s Status) rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	}
	return 0
}

func (s Status) Valid() bool {
	return s.rank() > 0
}

// Before reports whether s precedes other in the delivery order.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// StatusesBefore lists the statuses that may be advanced to target.
func StatusesBefore(target Status) []Status {
	var out []Status
	for _, s := range []Status{StatusSent, StatusDelivered, StatusRead} {
		if s.Before(target) {
			out = append(out, s)
		}
	}
	return out
}

// Message represents the messages table
type Message struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	ConversationID string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_messages_conversation_seq,priority:1"`
	Seq            int64     `gorm:"not null;uniqueIndex:ux_messages_conversation_seq,priority:2"`
	SenderID       string    `gorm:"type:varchar(64);not null;index"`
	Body           string    `gorm:"type:text;not null"`
	Status         Status    `gorm:"type:varchar(20);not null;default:'SENT'"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (Message) TableName() string {
	return "messages"
}

// Advance moves the message to target if that is forward. Earlier targets are a no-op.
func (m *Message) Advance(target Status, now time.Time) bool {
	if !target.Valid() || !m.Status.Before(target) {
		return false
	}
	m.Status = target
	m.UpdatedAt = now
	return true
}
