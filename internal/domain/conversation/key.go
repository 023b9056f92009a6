package conversation

import (
	"strings"

	market_errors "classifieds-core/pkg/errors"
)

// NoListing is the listing key of a conversation that is not about a listing.
const NoListing = ""

// Key is the canonical, order-independent identity of a conversation.
type Key struct {
	Low        string
	High       string
	ListingKey string
}

// ResolveKey derives the canonical key for two users and an optional listing.
// ResolveKey(a, b, l) and ResolveKey(b, a, l) always return the same key.
func ResolveKey(userA, userB string, listingID *string) (Key, error) {
	userA = strings.TrimSpace(userA)
	userB = strings.TrimSpace(userB)
	if userA == "" || userB == "" || userA == userB {
		return Key{}, market_errors.ErrInvalidParticipants
	}

	low, high := userA, userB
	if high < low {
		low, high = high, low
	}

	listingKey := NoListing
	if listingID != nil {
		listingKey = strings.TrimSpace(*listingID)
	}

	return Key{Low: low, High: high, ListingKey: listingKey}, nil
}

func (k Key) Has(userID string) bool {
	return userID != "" && (k.Low == userID || k.High == userID)
}

// Other returns the counterpart of userID, or "" if userID is not part of the key.
func (k Key) Other(userID string) string {
	switch userID {
	case k.Low:
		return k.High
	case k.High:
		return k.Low
	}
	return ""
}

// ListingID returns the listing as a nullable value.
func (k Key) ListingID() *string {
	if k.ListingKey == NoListing {
		return nil
	}
	id := k.ListingKey
	return &id
}
