package repository

import (
	"context"

	"classifieds-core/internal/domain/notification"

	"gorm.io/gorm"
)

type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error, nil)
}

func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID string, onlyUnread *bool, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if onlyUnread != nil && *onlyUnread {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return out, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, nil)
	}
	return count, nil
}

// MarkRead only touches rows owned by userID; foreign ids are silently ignored.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate(res.Error, nil)
	}
	return res.RowsAffected, nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate(res.Error, nil)
	}
	return res.RowsAffected, nil
}
