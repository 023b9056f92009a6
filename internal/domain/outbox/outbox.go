package outbox

import (
	"time"

	"gorm.io/datatypes"
)

// Status represents the processing state of an outbox event
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// OutboxEvent stores domain events waiting to be published to Redis
type OutboxEvent struct {
	ID            string         `gorm:"type:varchar(64);primaryKey"`
	EventType     string         `gorm:"type:varchar(50);not null"`
	AggregateType string         `gorm:"type:varchar(50);not null"`
	AggregateID   string         `gorm:"type:varchar(64);not null"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	Status        Status         `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RetryCount    int            `gorm:"not null;default:0"`
	Error         string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	ProcessedAt   *time.Time
}

// TableName returns the database table name
func (OutboxEvent) TableName() string {
	return "outbox_events"
}
