package services

import (
	"time"

	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"
	"classifieds-core/pkg/logger"

	"github.com/google/uuid"
)

// Option customises a service. Tests use it to pin the clock and ids.
type Option func(*base)

func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(b *base) {
		if newID != nil {
			b.newID = newID
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

type base struct {
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func newBase(store repository.Store, opts []Option) base {
	b := base{
		store: store,
		log:   logger.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	if g := logger.GetGlobalLogger(); g != nil {
		b.log = g
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// storageErr keeps domain errors and hides anything else behind STORAGE_UNAVAILABLE.
func storageErr(err error) error {
	if err == nil || market_errors.IsDomain(err) {
		return err
	}
	return market_errors.StorageUnavailable(err)
}
