package services

import (
	"context"
	"strings"
	"time"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/events"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"

	"go.uber.org/zap"
)

const DefaultDuplicateWindow = 24 * time.Hour

// CreatedReport is the acknowledgement returned to the reporter.
type CreatedReport struct {
	ID        string
	Status    report.Status
	CreatedAt time.Time
}

type ResolvedReport struct {
	ID             string
	Status         report.Status
	ResolutionNote *string
	ReviewerID     string
	ListingRemoved bool
}

type ModerationService struct {
	base
	notifier        Notifier
	duplicateWindow time.Duration
}

func NewModerationService(store repository.Store, notifier Notifier, duplicateWindow time.Duration, opts ...Option) *ModerationService {
	if duplicateWindow <= 0 {
		duplicateWindow = DefaultDuplicateWindow
	}
	return &ModerationService{
		base:            newBase(store, opts),
		notifier:        notifier,
		duplicateWindow: duplicateWindow,
	}
}

// CreateReport files an OPEN report with its CREATE audit entry.
func (s *ModerationService) CreateReport(ctx context.Context, cmd commands.CreateReportCommand) (CreatedReport, error) {
	if err := cmd.Validate(); err != nil {
		return CreatedReport{}, err
	}

	now := s.now()
	rep := report.Report{
		ID:           s.newID(),
		ListingID:    strings.TrimSpace(cmd.ListingID),
		ReporterID:   cmd.ReporterID,
		ReporterName: strings.TrimSpace(cmd.ReporterName),
		Reason:       cmd.Reason,
		Description:  cmd.NormalizedDescription(),
		Status:       report.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		l, err := tx.Listings().GetOwnerAndModerationStatus(ctx, rep.ListingID)
		if err != nil {
			return err
		}
		if l.Removed() {
			return market_errors.ErrListingAlreadyModerated
		}
		if l.UserID == rep.ReporterID {
			return market_errors.ErrSelfReportForbidden
		}
		// Query-time filter only; two concurrent duplicates can both pass.
		dup, err := tx.Reports().ExistsSince(ctx, rep.ReporterID, rep.ListingID, now.Add(-s.duplicateWindow))
		if err != nil {
			return err
		}
		if dup {
			return market_errors.ErrDuplicateReportWindow
		}

		rep.OwnerID = l.UserID
		if err := tx.Reports().Create(ctx, &rep); err != nil {
			return err
		}
		actor := rep.ReporterID
		if err := tx.Reports().AppendHistory(ctx, &report.HistoryEntry{
			ID:        s.newID(),
			ReportID:  rep.ID,
			ActorID:   &actor,
			Action:    report.ActionCreate,
			ToStatus:  report.StatusOpen.Ptr(),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return writeOutbox(ctx, tx.Outbox(), s.newID(), now,
			events.AggregateTypeReport, events.EventTypeReportCreated, rep.ID,
			events.ReportCreated{
				ReportID:   rep.ID,
				ListingID:  rep.ListingID,
				ReporterID: rep.ReporterID,
				OwnerID:    rep.OwnerID,
				Reason:     string(rep.Reason),
				CreatedAt:  rep.CreatedAt,
			})
	})
	if err != nil {
		return CreatedReport{}, storageErr(err)
	}

	s.log.InfoCtx(ctx, "report created",
		zap.String("report_id", rep.ID),
		zap.String("listing_id", rep.ListingID),
		zap.String("reason", string(rep.Reason)),
	)
	return CreatedReport{ID: rep.ID, Status: rep.Status, CreatedAt: rep.CreatedAt}, nil
}

// ListReports is the admin queue, newest first.
func (s *ModerationService) ListReports(ctx context.Context, filter repository.ReportFilter, p Pagination) (OffsetPage[report.Report], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return OffsetPage[report.Report]{}, market_errors.InvalidInput("invalid status filter")
	}
	if filter.Reason != "" && !filter.Reason.Valid() {
		return OffsetPage[report.Report]{}, market_errors.InvalidInput("invalid reason filter")
	}
	filter.Query = strings.TrimSpace(filter.Query)
	page, limit, offset := p.normalize(DefaultReportLimit, MaxReportLimit)
	return s.list(ctx, filter, page, limit, offset)
}

// ListMyReports lists the reports filed by reporterID.
func (s *ModerationService) ListMyReports(ctx context.Context, reporterID string, status report.Status, p Pagination) (OffsetPage[report.Report], error) {
	if status != "" && !status.Valid() {
		return OffsetPage[report.Report]{}, market_errors.InvalidInput("invalid status filter")
	}
	page, limit, offset := p.normalize(DefaultMyReportLimit, MaxReportLimit)
	return s.list(ctx, repository.ReportFilter{ReporterID: reporterID, Status: status}, page, limit, offset)
}

func (s *ModerationService) list(ctx context.Context, filter repository.ReportFilter, page, limit, offset int) (OffsetPage[report.Report], error) {
	items, total, err := s.store.Reports().List(ctx, filter, offset, limit)
	if err != nil {
		return OffsetPage[report.Report]{}, storageErr(err)
	}
	if items == nil {
		items = []report.Report{}
	}
	return OffsetPage[report.Report]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetReport returns the report with its audit trail in write order.
func (s *ModerationService) GetReport(ctx context.Context, id string) (report.Detail, error) {
	rep, err := s.store.Reports().GetByID(ctx, id)
	if err != nil {
		return report.Detail{}, storageErr(err)
	}
	history, err := s.store.Reports().History(ctx, id)
	if err != nil {
		return report.Detail{}, storageErr(err)
	}
	return report.Detail{Report: rep, History: history}, nil
}

// Resolve moves an OPEN report to ACCEPTED or REJECTED, optionally taking the listing down.
// Notifications go out only after the transaction commits.
func (s *ModerationService) Resolve(ctx context.Context, cmd commands.ResolveReportCommand) (ResolvedReport, error) {
	if err := cmd.Validate(); err != nil {
		return ResolvedReport{}, err
	}
	note := cmd.Note()
	removeListing := cmd.RemoveListing && cmd.TargetStatus == report.StatusAccepted

	var rep report.Report
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		rep, err = tx.Reports().LockByID(ctx, cmd.ReportID)
		if err != nil {
			return err
		}
		if err := rep.Status.CanTransition(cmd.TargetStatus); err != nil {
			return err
		}
		if err := cmd.RequireNote(); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Reports().UpdateStatus(ctx, rep.ID, rep.Status, cmd.TargetStatus, cmd.ReviewerID, note, now); err != nil {
			return err
		}
		reviewer := cmd.ReviewerID
		if err := tx.Reports().AppendHistory(ctx, &report.HistoryEntry{
			ID:         s.newID(),
			ReportID:   rep.ID,
			ActorID:    &reviewer,
			Action:     report.ActionStatusChange,
			FromStatus: rep.Status.Ptr(),
			ToStatus:   cmd.TargetStatus.Ptr(),
			Note:       note,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		if removeListing {
			removedNote := report.ListingRemovedNote
			if err := tx.Listings().SetModerationStatus(ctx, rep.ListingID, listing.ModerationRemoved); err != nil {
				return err
			}
			if err := tx.Reports().AppendHistory(ctx, &report.HistoryEntry{
				ID:        s.newID(),
				ReportID:  rep.ID,
				ActorID:   &reviewer,
				Action:    report.ActionListingRemoved,
				Note:      &removedNote,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		rep.Status = cmd.TargetStatus
		rep.ResolutionNote = note
		rep.ReviewerID = &reviewer
		rep.UpdatedAt = now
		return nil
	})
	if err != nil {
		return ResolvedReport{}, storageErr(err)
	}

	s.log.InfoCtx(ctx, "report resolved",
		zap.String("report_id", rep.ID),
		zap.String("status", string(rep.Status)),
		zap.Bool("listing_removed", removeListing),
	)

	typ := notification.TypeReportResolvedRejected
	if rep.Status == report.StatusAccepted {
		typ = notification.TypeReportResolvedAccepted
	}
	emitQuietly(ctx, s.notifier, s.log, rep.ReporterID, typ, notification.ReportResolvedPayload{
		ReportID:  rep.ID,
		ListingID: rep.ListingID,
		Status:    string(rep.Status),
		Note:      note,
	})
	if removeListing {
		emitQuietly(ctx, s.notifier, s.log, rep.OwnerID, notification.TypeListingRemoved, notification.ListingRemovedPayload{
			ListingID: rep.ListingID,
			ReportID:  rep.ID,
			Action:    string(listing.ModerationRemoved),
			Note:      note,
		})
	}

	return ResolvedReport{
		ID:             rep.ID,
		Status:         rep.Status,
		ResolutionNote: rep.ResolutionNote,
		ReviewerID:     cmd.ReviewerID,
		ListingRemoved: removeListing,
	}, nil
}
