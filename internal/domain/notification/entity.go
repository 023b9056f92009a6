package notification

import (
	"time"

	"gorm.io/datatypes"
)

type Type string

const (
	TypeMessageNew             Type = "MESSAGE_NEW"
	TypeReportResolvedAccepted Type = "REPORT_RESOLVED_ACCEPTED"
	TypeReportResolvedRejected Type = "REPORT_RESOLVED_REJECTED"
	TypeListingRemoved         Type = "LISTING_REMOVED"
)

// Notification represents the notifications table
type Notification struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"`
	UserID    string         `gorm:"type:varchar(64);not null;index:idx_notifications_user_read,priority:1"`
	Type      Type           `gorm:"type:varchar(40);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	IsRead    bool           `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

func (Notification) TableName() string {
	return "notifications"
}

type MessagePayload struct {
	ConversationID string  `json:"conversationId"`
	MessageID      string  `json:"messageId"`
	SenderID       string  `json:"senderId"`
	ListingID      *string `json:"listingId,omitempty"`
	Preview        string  `json:"preview"`
}

type ReportResolvedPayload struct {
	ReportID  string  `json:"reportId"`
	ListingID string  `json:"listingId"`
	Status    string  `json:"status"`
	Note      *string `json:"note"`
}

type ListingRemovedPayload struct {
	ListingID string  `json:"listingId"`
	ReportID  string  `json:"reportId"`
	Action    string  `json:"action"`
	Note      *string `json:"note"`
}
