package repository

import (
	"context"
	"time"

	"classifieds-core/internal/domain/message"

	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	return translate(res.Error, nil)
}

func (r *PostgresMessageRepository) ListAfter(ctx context.Context, conversationID string, afterSeq int64, limit int) ([]message.Message, error) {
	var messages []message.Message
	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID)

	if afterSeq > 0 {
		q = q.Where("seq > ?", afterSeq)
	}

	err := q.Order("seq ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return messages, nil
}

func (r *PostgresMessageRepository) AdvanceStatus(ctx context.Context, conversationID, readerID string, target message.Status, at time.Time) (int64, error) {
	from := message.StatusesBefore(target)
	if len(from) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND status IN ?", conversationID, readerID, from).
		Updates(map[string]interface{}{
			"status":     target,
			"updated_at": at,
		})
	if res.Error != nil {
		return 0, translate(res.Error, nil)
	}
	return res.RowsAffected, nil
}
