package services

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"
)

const (
	DefaultConversationLimit = 20
	MaxConversationLimit     = 100
	DefaultMessageLimit      = 50
	MaxMessageLimit          = 200
	DefaultReportLimit       = 20
	MaxReportLimit           = 100
	DefaultMyReportLimit     = 10
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 100
)

// CursorPage is a keyset page. NextCursor is empty on the last page.
type CursorPage[T any] struct {
	Items      []T
	NextCursor string
}

// OffsetPage is a numbered page with the total match count.
type OffsetPage[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// Pagination is a 1-based page request; zero values take defaults.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalize(def, max int) (page, limit, offset int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	limit = clampLimit(p.Limit, def, max)
	return page, limit, (page - 1) * limit
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// EncodeActivityCursor renders a keyset position as an opaque token.
func EncodeActivityCursor(c repository.ActivityCursor) string {
	raw := strconv.FormatInt(c.At.UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeActivityCursor parses a token produced by EncodeActivityCursor. Empty means start.
func DecodeActivityCursor(token string) (*repository.ActivityCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, market_errors.InvalidInput("invalid cursor")
	}
	nanos, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return nil, market_errors.InvalidInput("invalid cursor")
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, market_errors.InvalidInput("invalid cursor")
	}
	return &repository.ActivityCursor{At: time.Unix(0, n).UTC(), ID: id}, nil
}

func formatSeq(seq int64) string {
	return strconv.FormatInt(seq, 10)
}

// ParseSeqCursor reads a message cursor. Empty means from the start.
func ParseSeqCursor(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil || n < 0 {
		return 0, market_errors.InvalidInput("invalid cursor")
	}
	return n, nil
}
