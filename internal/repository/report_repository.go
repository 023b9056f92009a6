package repository

import (
	"context"
	"time"

	"classifieds-core/internal/domain/report"
	market_errors "classifieds-core/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return translate(r.db.WithContext(ctx).Create(rep).Error, nil)
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id string) (report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if err != nil {
		return report.Report{}, translate(err, market_errors.ErrReportNotFound)
	}
	return rep, nil
}

func (r *PostgresReportRepository) LockByID(ctx context.Context, id string) (report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rep).Error
	if err != nil {
		return report.Report{}, translate(err, market_errors.ErrReportNotFound)
	}
	return rep, nil
}

func (r *PostgresReportRepository) UpdateStatus(ctx context.Context, id string, from, to report.Status, reviewerID string, note *string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":          to,
			"reviewer_id":     reviewerID,
			"resolution_note": note,
			"updated_at":      at,
		})
	if res.Error != nil {
		return translate(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		// Either gone or resolved by someone else in the meantime.
		var count int64
		if err := r.db.WithContext(ctx).Model(&report.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err, nil)
		}
		if count == 0 {
			return market_errors.ErrReportNotFound
		}
		return market_errors.ErrReportAlreadyResolved
	}
	return nil
}

func (r *PostgresReportRepository) ExistsSince(ctx context.Context, reporterID, listingID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Where("reporter_id = ? AND listing_id = ? AND created_at >= ?", reporterID, listingID, since).
		Count(&count).Error
	if err != nil {
		return false, translate(err, nil)
	}
	return count > 0, nil
}

func (r *PostgresReportRepository) List(ctx context.Context, filter ReportFilter, offset, limit int) ([]report.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&report.Report{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}
	if filter.ListingID != "" {
		q = q.Where("listing_id = ?", filter.ListingID)
	}
	if filter.ReporterID != "" {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		q = q.Where("(description ILIKE ? OR reporter_name ILIKE ? OR reporter_id = ?)", pattern, pattern, filter.Query)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, nil)
	}

	var reports []report.Report
	err := q.Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, translate(err, nil)
	}
	return reports, total, nil
}

func (r *PostgresReportRepository) AppendHistory(ctx context.Context, e *report.HistoryEntry) error {
	var next int64
	err := r.db.WithContext(ctx).
		Model(&report.HistoryEntry{}).
		Select("COALESCE(MAX(seq), 0) + 1").
		Where("report_id = ?", e.ReportID).
		Scan(&next).Error
	if err != nil {
		return translate(err, nil)
	}
	e.Seq = next
	return translate(r.db.WithContext(ctx).Create(e).Error, nil)
}

func (r *PostgresReportRepository) History(ctx context.Context, reportID string) ([]report.HistoryEntry, error) {
	var entries []report.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return entries, nil
}
