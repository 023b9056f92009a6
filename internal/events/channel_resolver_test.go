package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudienceChannelResolver(t *testing.T) {
	notif, err := json.Marshal(NotificationCreated{NotificationID: "n1", UserID: "u-42", Type: "MESSAGE_NEW"})
	require.NoError(t, err)

	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "notification goes to recipient",
			env:  Envelope{EventType: EventTypeNotificationCreated, Payload: notif},
			want: "channel:user:u-42",
		},
		{
			name: "notification without recipient falls back",
			env:  Envelope{EventType: EventTypeNotificationCreated, Payload: json.RawMessage(`{}`)},
			want: ChannelSystemOutbox,
		},
		{
			name: "report created goes to admin feed",
			env:  Envelope{EventType: EventTypeReportCreated, Payload: json.RawMessage(`{}`)},
			want: ChannelAdminReports,
		},
		{
			name: "unknown event",
			env:  Envelope{EventType: "something.else"},
			want: ChannelSystemOutbox,
		},
	}

	resolver := NewAudienceChannelResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.ResolveChannel(tt.env))
		})
	}
}
