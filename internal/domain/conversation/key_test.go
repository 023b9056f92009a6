package conversation

import (
	"testing"
	"time"

	market_errors "classifieds-core/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveKeyOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"u1", "u2"},
		{"b", "a"},
		{"7f1c", "7f1b"},
		{"user-10", "user-9"},
	}
	listings := []*string{nil, strPtr("L1"), strPtr("")}

	for _, p := range pairs {
		for _, l := range listings {
			ab, err := ResolveKey(p[0], p[1], l)
			require.NoError(t, err)
			ba, err := ResolveKey(p[1], p[0], l)
			require.NoError(t, err)
			assert.Equal(t, ab, ba)
			assert.True(t, ab.Low < ab.High)
		}
	}
}

func TestResolveKeyListingContext(t *testing.T) {
	withListing, err := ResolveKey("u1", "u2", strPtr("L1"))
	require.NoError(t, err)
	withoutListing, err := ResolveKey("u1", "u2", nil)
	require.NoError(t, err)

	assert.NotEqual(t, withListing, withoutListing)
	assert.Equal(t, NoListing, withoutListing.ListingKey)
	assert.Nil(t, withoutListing.ListingID())
	require.NotNil(t, withListing.ListingID())
	assert.Equal(t, "L1", *withListing.ListingID())
}

func TestResolveKeyRejectsInvalidParticipants(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "self conversation", a: "u1", b: "u1"},
		{name: "blank first", a: "", b: "u1"},
		{name: "blank second", a: "u1", b: "  "},
		{name: "self after trim", a: " u1", b: "u1 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveKey(tt.a, tt.b, nil)
			assert.ErrorIs(t, err, market_errors.ErrInvalidParticipants)
		})
	}
}

func TestKeyOther(t *testing.T) {
	key, err := ResolveKey("u2", "u1", nil)
	require.NoError(t, err)

	assert.Equal(t, "u2", key.Other("u1"))
	assert.Equal(t, "u1", key.Other("u2"))
	assert.Equal(t, "", key.Other("u3"))
	assert.True(t, key.Has("u1"))
	assert.False(t, key.Has(""))
}

func TestNewConversation(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	key, err := ResolveKey("u2", "u1", strPtr("L1"))
	require.NoError(t, err)

	c := New("c1", key, now)

	assert.Equal(t, "u1", c.LowUserID)
	assert.Equal(t, "u2", c.HighUserID)
	assert.Equal(t, key, c.Key())
	assert.Equal(t, now, c.LastActivityAt)
	assert.Equal(t, StatusActive, c.Status)
	assert.True(t, c.IsParticipant("u2"))
	assert.Equal(t, "u1", c.OtherParticipant("u2"))
}
