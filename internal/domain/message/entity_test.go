package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceIsMonotonic(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		from    Status
		to      Status
		changed bool
		want    Status
	}{
		{name: "sent to delivered", from: StatusSent, to: StatusDelivered, changed: true, want: StatusDelivered},
		{name: "sent to read", from: StatusSent, to: StatusRead, changed: true, want: StatusRead},
		{name: "delivered to read", from: StatusDelivered, to: StatusRead, changed: true, want: StatusRead},
		{name: "read to delivered is a no-op", from: StatusRead, to: StatusDelivered, changed: false, want: StatusRead},
		{name: "read to sent is a no-op", from: StatusRead, to: StatusSent, changed: false, want: StatusRead},
		{name: "delivered to sent is a no-op", from: StatusDelivered, to: StatusSent, changed: false, want: StatusDelivered},
		{name: "same status", from: StatusDelivered, to: StatusDelivered, changed: false, want: StatusDelivered},
		{name: "unknown target", from: StatusSent, to: Status("LOST"), changed: false, want: StatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{Status: tt.from}
			assert.Equal(t, tt.changed, m.Advance(tt.to, now))
			assert.Equal(t, tt.want, m.Status)
		})
	}
}

func TestStatusesBefore(t *testing.T) {
	assert.Equal(t, []Status{StatusSent, StatusDelivered}, StatusesBefore(StatusRead))
	assert.Equal(t, []Status{StatusSent}, StatusesBefore(StatusDelivered))
	assert.Empty(t, StatusesBefore(StatusSent))
}
