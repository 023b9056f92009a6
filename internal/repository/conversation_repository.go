package repository

import (
	"context"
	"time"

	"classifieds-core/internal/domain/conversation"
	market_errors "classifieds-core/pkg/errors"

	"gorm.io/gorm"
)

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	res := r.db.WithContext(ctx).Create(c)
	return translate(res.Error, nil)
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id string) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translate(err, market_errors.ErrConversationNotFound)
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetByKey(ctx context.Context, key conversation.Key) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Where("low_user_id = ? AND high_user_id = ? AND listing_key = ?", key.Low, key.High, key.ListingKey).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translate(err, market_errors.ErrConversationNotFound)
	}
	return c, nil
}

func (r *PostgresConversationRepository) ListForUser(ctx context.Context, userID string, after *ActivityCursor, limit int) ([]conversation.Conversation, error) {
	var conversations []conversation.Conversation

	q := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("(low_user_id = ? OR high_user_id = ?)", userID, userID)

	if after != nil {
		q = q.Where("(last_activity_at < ? OR (last_activity_at = ? AND id < ?))", after.At, after.At, after.ID)
	}

	err := q.Order("last_activity_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return conversations, nil
}

func (r *PostgresConversationRepository) Touch(ctx context.Context, id string, at time.Time) (int64, error) {
	var seq int64
	res := r.db.WithContext(ctx).Raw(`
        UPDATE conversations
        SET last_seq = last_seq + 1, last_activity_at = ?
        WHERE id = ?
        RETURNING last_seq
    `, at, id).Scan(&seq)
	if res.Error != nil {
		return 0, translate(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return 0, market_errors.ErrConversationNotFound
	}
	return seq, nil
}
