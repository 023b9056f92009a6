package conversation

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// Conversation represents the conversations table. Participants are stored in canonical order.
type Conversation struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	LowUserID      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_conversations_canonical,priority:1;index:idx_conversations_low"`
	HighUserID     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_conversations_canonical,priority:2;index:idx_conversations_high"`
	ListingKey     string    `gorm:"type:varchar(64);not null;default:'';uniqueIndex:ux_conversations_canonical,priority:3"`
	ListingID      *string   `gorm:"type:varchar(64)"`
	Status         Status    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	LastSeq        int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c Conversation) Key() Key {
	return Key{Low: c.LowUserID, High: c.HighUserID, ListingKey: c.ListingKey}
}

func (c Conversation) IsParticipant(userID string) bool {
	return c.Key().Has(userID)
}

func (c Conversation) OtherParticipant(userID string) string {
	return c.Key().Other(userID)
}

// New builds an unsaved conversation for key.
func New(id string, key Key, now time.Time) Conversation {
	return Conversation{
		ID:             id,
		LowUserID:      key.Low,
		HighUserID:     key.High,
		ListingKey:     key.ListingKey,
		ListingID:      key.ListingID(),
		Status:         StatusActive,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}
