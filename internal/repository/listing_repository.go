package repository

import (
	"context"

	"classifieds-core/internal/domain/listing"
	market_errors "classifieds-core/pkg/errors"

	"gorm.io/gorm"
)

type PostgresListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) GetOwnerAndModerationStatus(ctx context.Context, listingID string) (listing.Listing, error) {
	var l listing.Listing
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "moderation_status").
		Where("id = ?", listingID).
		First(&l).Error
	if err != nil {
		return listing.Listing{}, translate(err, market_errors.ErrListingNotFound)
	}
	return l, nil
}

func (r *PostgresListingRepository) SetModerationStatus(ctx context.Context, listingID string, status listing.ModerationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&listing.Listing{}).
		Where("id = ?", listingID).
		Update("moderation_status", status)
	if res.Error != nil {
		return translate(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return market_errors.ErrListingNotFound
	}
	return nil
}
