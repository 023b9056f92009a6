package report

import (
	"time"
)

type Reason string

const (
	ReasonFraud          Reason = "FRAUD"
	ReasonSpam           Reason = "SPAM"
	ReasonInappropriate  Reason = "INAPPROPRIATE"
	ReasonDuplicate      Reason = "DUPLICATE"
	ReasonNudity         Reason = "NUDITY"
	ReasonWrongCategory  Reason = "WRONG_CATEGORY"
	ReasonMisleadingInfo Reason = "MISLEADING_INFO"
	ReasonCopyright      Reason = "COPYRIGHT"
	ReasonOther          Reason = "OTHER"
)

var reasons = map[Reason]struct{}{
	ReasonFraud:          {},
	ReasonSpam:           {},
	ReasonInappropriate:  {},
	ReasonDuplicate:      {},
	ReasonNudity:         {},
	ReasonWrongCategory:  {},
	ReasonMisleadingInfo: {},
	ReasonCopyright:      {},
	ReasonOther:          {},
}

func (r Reason) Valid() bool {
	_, ok := reasons[r]
	return ok
}

type Action string

const (
	ActionCreate         Action = "CREATE"
	ActionStatusChange   Action = "STATUS_CHANGE"
	ActionListingRemoved Action = "LISTING_REMOVED"
)

// ListingRemovedNote is the system note on every LISTING_REMOVED entry.
const ListingRemovedNote = "Listing removed by moderation"

// Report represents the reports table
type Report struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	ListingID      string    `gorm:"type:varchar(64);not null;index:idx_reports_reporter_listing,priority:2;index"`
	ReporterID     string    `gorm:"type:varchar(64);not null;index:idx_reports_reporter_listing,priority:1"`
	ReporterName   string    `gorm:"type:varchar(200);not null;default:''"`
	OwnerID        string    `gorm:"type:varchar(64);not null"`
	Reason         Reason    `gorm:"type:varchar(32);not null;index"`
	Description    string    `gorm:"type:text;not null"`
	Status         Status    `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ResolutionNote *string   `gorm:"type:text"`
	ReviewerID     *string   `gorm:"type:varchar(64)"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (Report) TableName() string {
	return "reports"
}

// HistoryEntry represents report_history. Rows are append-only.
type HistoryEntry struct {
	ID         string    `gorm:"type:varchar(64);primaryKey"`
	ReportID   string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_report_history_seq,priority:1"`
	Seq        int64     `gorm:"not null;uniqueIndex:ux_report_history_seq,priority:2"`
	ActorID    *string   `gorm:"type:varchar(64)"`
	Action     Action    `gorm:"type:varchar(32);not null"`
	FromStatus *Status   `gorm:"type:varchar(20)"`
	ToStatus   *Status   `gorm:"type:varchar(20)"`
	Note       *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (HistoryEntry) TableName() string {
	return "report_history"
}

// Detail is a report together with its ordered audit trail.
type Detail struct {
	Report  Report
	History []HistoryEntry
}
