package listing

// ModerationStatus is the listing-level moderation flag, distinct from report status.
type ModerationStatus string

const (
	ModerationActive  ModerationStatus = "ACTIVE"
	ModerationRemoved ModerationStatus = "REMOVED_BY_MODERATION"
)

// Listing is the projection of the listings table that moderation needs.
// The table itself is owned by the listing service.
type Listing struct {
	ID               string           `gorm:"type:varchar(64);primaryKey"`
	UserID           string           `gorm:"type:varchar(64);not null;index"`
	Title            string           `gorm:"type:varchar(255);not null;default:''"`
	ModerationStatus ModerationStatus `gorm:"type:varchar(32);not null;default:'ACTIVE'"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l Listing) Removed() bool {
	return l.ModerationStatus == ModerationRemoved
}
