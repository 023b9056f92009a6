package repository

import (
	"context"
	"errors"

	market_errors "classifieds-core/pkg/errors"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore returns the PostgreSQL-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Conversations() ConversationRepository { return NewConversationRepository(s.db) }
func (s *gormStore) Messages() MessageRepository           { return NewMessageRepository(s.db) }
func (s *gormStore) Reports() ReportRepository             { return NewReportRepository(s.db) }
func (s *gormStore) Listings() ListingRepository           { return NewListingRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }
func (s *gormStore) Outbox() OutboxRepository              { return NewOutboxRepository(s.db) }

// WithTx executes fn inside a transaction. Nested calls become savepoints.
func (s *gormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return market_errors.StorageUnavailable(errors.New("database not initialized"))
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	if err == nil || market_errors.IsDomain(err) {
		return err
	}
	return market_errors.StorageUnavailable(err)
}
