package events

import (
	"context"
	"encoding/json"
)

// Publisher pushes an encoded envelope to a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ChannelResolver determines which Redis channel an envelope goes to
type ChannelResolver interface {
	ResolveChannel(env Envelope) string
}

// AudienceChannelResolver routes notifications to their recipient and report events to the admin feed.
type AudienceChannelResolver struct{}

func NewAudienceChannelResolver() *AudienceChannelResolver {
	return &AudienceChannelResolver{}
}

func (r *AudienceChannelResolver) ResolveChannel(env Envelope) string {
	switch env.EventType {
	case EventTypeNotificationCreated:
		var n NotificationCreated
		if err := json.Unmarshal(env.Payload, &n); err == nil && n.UserID != "" {
			return ChannelPrefixUser + n.UserID
		}
	case EventTypeReportCreated:
		return ChannelAdminReports
	}
	return ChannelSystemOutbox
}
