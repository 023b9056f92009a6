package events

// Event types as written to outbox_events.event_type. Format: aggregate.action
const (
	EventTypeNotificationCreated = "notification.created"
	EventTypeReportCreated       = "report.created"
)

// Aggregate type constants
const (
	AggregateTypeNotification = "notification"
	AggregateTypeReport       = "report"
)

// Redis channel names consumed by the delivery collaborator.
const (
	ChannelPrefixUser   = "channel:user:"
	ChannelAdminReports = "channel:admin:reports"
	ChannelSystemOutbox = "channel:system:outbox"
)
