package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/events"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fraudReport(listingID, reporterID string) commands.CreateReportCommand {
	return commands.CreateReportCommand{
		ListingID:    listingID,
		ReporterID:   reporterID,
		ReporterName: "Reporter " + reporterID,
		Reason:       report.ReasonFraud,
		Description:  "The seller asks for a deposit before any viewing.",
	}
}

func TestModerationService_CreateReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")

	created, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)
	assert.Equal(t, report.StatusOpen, created.Status)
	assert.True(t, created.CreatedAt.Equal(f.clock.Now()))

	detail, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", detail.Report.OwnerID)
	assert.Equal(t, "Reporter r1", detail.Report.ReporterName)
	require.Len(t, detail.History, 1)
	assert.Equal(t, report.ActionCreate, detail.History[0].Action)
	assert.Equal(t, "r1", *detail.History[0].ActorID)
	assert.Nil(t, detail.History[0].FromStatus)
	assert.Equal(t, report.StatusOpen, *detail.History[0].ToStatus)

	outbox := f.store.AllOutbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, events.EventTypeReportCreated, outbox[0].EventType)
	assert.Equal(t, created.ID, outbox[0].AggregateID)
}

func TestModerationService_CreateReportRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	f.store.PutListing(listing.Listing{ID: "gone", UserID: "owner", ModerationStatus: listing.ModerationRemoved})

	tests := []struct {
		name    string
		cmd     commands.CreateReportCommand
		wantErr error
	}{
		{name: "self report", cmd: fraudReport("L1", "owner"), wantErr: market_errors.ErrSelfReportForbidden},
		{name: "unknown listing", cmd: fraudReport("nope", "r1"), wantErr: market_errors.ErrListingNotFound},
		{name: "already moderated", cmd: fraudReport("gone", "r1"), wantErr: market_errors.ErrListingAlreadyModerated},
		{
			name: "bad reason",
			cmd: commands.CreateReportCommand{
				ListingID: "L1", ReporterID: "r1", Reason: "NOPE", Description: "long enough description",
			},
			wantErr: market_errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.moderation.CreateReport(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.store.ReportCount())
	assert.Empty(t, f.store.AllOutbox())
}

func TestModerationService_DuplicateWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")

	_, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)

	f.clock.Advance(23 * time.Hour)
	_, err = f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	assert.ErrorIs(t, err, market_errors.ErrDuplicateReportWindow)

	// Another reporter is not affected.
	_, err = f.moderation.CreateReport(ctx, fraudReport("L1", "r2"))
	require.NoError(t, err)

	f.clock.Advance(time.Hour + time.Second)
	_, err = f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.ReportCount())
}

func TestModerationService_RejectRequiresNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	created, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)

	_, err = f.moderation.Resolve(ctx, commands.ResolveReportCommand{ReportID: created.ID, ReviewerID: "m1", TargetStatus: report.StatusRejected})
	assert.ErrorIs(t, err, market_errors.ErrResolutionNoteRequired)

	res, err := f.moderation.Resolve(ctx, commands.ResolveReportCommand{
		ReportID: created.ID, ReviewerID: "m1", TargetStatus: report.StatusRejected, ResolutionNote: strPtr("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, report.StatusRejected, res.Status)
	require.NotNil(t, res.ResolutionNote)
	assert.Equal(t, "x", *res.ResolutionNote)
	assert.Equal(t, "m1", res.ReviewerID)

	detail, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 2)
	change := detail.History[1]
	assert.Equal(t, report.ActionStatusChange, change.Action)
	assert.Equal(t, report.StatusOpen, *change.FromStatus)
	assert.Equal(t, report.StatusRejected, *change.ToStatus)

	notes := f.store.AllNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "r1", notes[0].UserID)
	assert.Equal(t, notification.TypeReportResolvedRejected, notes[0].Type)

	l, ok := f.store.Listing("L1")
	require.True(t, ok)
	assert.Equal(t, listing.ModerationActive, l.ModerationStatus)
}

func TestModerationService_ResolveTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	created, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)

	_, err = f.moderation.Resolve(ctx, commands.ResolveReportCommand{ReportID: created.ID, ReviewerID: "m1", TargetStatus: report.StatusAccepted})
	require.NoError(t, err)
	before, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)

	for _, target := range []report.Status{report.StatusAccepted, report.StatusRejected} {
		_, err = f.moderation.Resolve(ctx, commands.ResolveReportCommand{
			ReportID: created.ID, ReviewerID: "m2", TargetStatus: target, ResolutionNote: strPtr("second look"), RemoveListing: true,
		})
		assert.ErrorIs(t, err, market_errors.ErrReportAlreadyResolved)
	}

	// the state check wins over the note rule
	_, err = f.moderation.Resolve(ctx, commands.ResolveReportCommand{
		ReportID: created.ID, ReviewerID: "m2", TargetStatus: report.StatusRejected,
	})
	assert.ErrorIs(t, err, market_errors.ErrReportAlreadyResolved)

	after, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, report.StatusAccepted, after.Report.Status)
	assert.Equal(t, "m1", *after.Report.ReviewerID)

	l, _ := f.store.Listing("L1")
	assert.Equal(t, listing.ModerationActive, l.ModerationStatus)
}

func TestModerationService_AcceptAndRemoveListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L2", "o1")

	created, err := f.moderation.CreateReport(ctx, fraudReport("L2", "r1"))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	res, err := f.moderation.Resolve(ctx, commands.ResolveReportCommand{
		ReportID:      created.ID,
		ReviewerID:    "m1",
		TargetStatus:  report.StatusAccepted,
		RemoveListing: true,
	})
	require.NoError(t, err)
	assert.True(t, res.ListingRemoved)
	assert.Nil(t, res.ResolutionNote)

	detail, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 3)
	assert.Equal(t, report.ActionCreate, detail.History[0].Action)
	assert.Equal(t, report.ActionStatusChange, detail.History[1].Action)
	assert.Equal(t, report.StatusOpen, *detail.History[1].FromStatus)
	assert.Equal(t, report.StatusAccepted, *detail.History[1].ToStatus)
	assert.Equal(t, report.ActionListingRemoved, detail.History[2].Action)
	require.NotNil(t, detail.History[2].Note)
	assert.Equal(t, report.ListingRemovedNote, *detail.History[2].Note)
	for i, h := range detail.History {
		assert.Equal(t, int64(i+1), h.Seq)
	}

	l, ok := f.store.Listing("L2")
	require.True(t, ok)
	assert.Equal(t, listing.ModerationRemoved, l.ModerationStatus)

	byUser := map[string]notification.Type{}
	for _, n := range f.store.AllNotifications() {
		byUser[n.UserID] = n.Type
	}
	assert.Equal(t, notification.TypeReportResolvedAccepted, byUser["r1"])
	assert.Equal(t, notification.TypeListingRemoved, byUser["o1"])

	_, err = f.moderation.CreateReport(ctx, fraudReport("L2", "r3"))
	assert.ErrorIs(t, err, market_errors.ErrListingAlreadyModerated)
}

func TestModerationService_RejectIgnoresRemoveListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	created, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)

	res, err := f.moderation.Resolve(ctx, commands.ResolveReportCommand{
		ReportID: created.ID, ReviewerID: "m1", TargetStatus: report.StatusRejected,
		ResolutionNote: strPtr("not fraudulent"), RemoveListing: true,
	})
	require.NoError(t, err)
	assert.False(t, res.ListingRemoved)

	l, _ := f.store.Listing("L1")
	assert.Equal(t, listing.ModerationActive, l.ModerationStatus)
}

func TestModerationService_ResolveRollsBackOnStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	created, err := f.moderation.CreateReport(ctx, fraudReport("L1", "r1"))
	require.NoError(t, err)

	f.store.FailOn("listings.SetModerationStatus", errors.New("deadlock detected"))
	_, err = f.moderation.Resolve(ctx, commands.ResolveReportCommand{
		ReportID: created.ID, ReviewerID: "m1", TargetStatus: report.StatusAccepted, RemoveListing: true,
	})
	assert.ErrorIs(t, err, market_errors.ErrStorageUnavailable)

	detail, err := f.moderation.GetReport(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusOpen, detail.Report.Status)
	assert.Len(t, detail.History, 1)
	assert.Empty(t, f.store.AllNotifications())
}

func TestModerationService_ResolveUnknownReport(t *testing.T) {
	f := newFixture(t)
	_, err := f.moderation.Resolve(context.Background(), commands.ResolveReportCommand{
		ReportID: "missing", ReviewerID: "m1", TargetStatus: report.StatusAccepted,
	})
	assert.ErrorIs(t, err, market_errors.ErrReportNotFound)

	_, err = f.moderation.Resolve(context.Background(), commands.ResolveReportCommand{
		ReportID: "missing", ReviewerID: "m1", TargetStatus: report.StatusRejected,
	})
	assert.ErrorIs(t, err, market_errors.ErrReportNotFound)
	assert.Equal(t, market_errors.KindNotFound, market_errors.KindOf(err))

	_, err = f.moderation.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, market_errors.ErrReportNotFound)
}

func TestModerationService_ListReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.putListing("L1", "owner")
	f.putListing("L2", "owner")

	spam := commands.CreateReportCommand{
		ListingID: "L2", ReporterID: "r2", ReporterName: "Ayşe Yılmaz", Reason: report.ReasonSpam,
		Description: "Same car posted five times today",
	}
	var ids []string
	for _, cmd := range []commands.CreateReportCommand{fraudReport("L1", "r1"), spam, fraudReport("L2", "r3")} {
		created, err := f.moderation.CreateReport(ctx, cmd)
		require.NoError(t, err)
		ids = append(ids, created.ID)
		f.clock.Advance(time.Minute)
	}

	all, err := f.moderation.ListReports(ctx, repository.ReportFilter{}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, DefaultReportLimit, all.Limit)
	require.Len(t, all.Items, 3)
	assert.Equal(t, ids[2], all.Items[0].ID)
	assert.Equal(t, ids[0], all.Items[2].ID)

	bySpam, err := f.moderation.ListReports(ctx, repository.ReportFilter{Reason: report.ReasonSpam}, Pagination{})
	require.NoError(t, err)
	require.Len(t, bySpam.Items, 1)
	assert.Equal(t, ids[1], bySpam.Items[0].ID)

	byName, err := f.moderation.ListReports(ctx, repository.ReportFilter{Query: "ayşe"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, byName.Items, 1)

	byText, err := f.moderation.ListReports(ctx, repository.ReportFilter{Query: "DEPOSIT"}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byText.Total)

	second, err := f.moderation.ListReports(ctx, repository.ReportFilter{}, Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), second.Total)
	require.Len(t, second.Items, 1)
	assert.Equal(t, ids[0], second.Items[0].ID)

	_, err = f.moderation.ListReports(ctx, repository.ReportFilter{Status: "WHATEVER"}, Pagination{})
	assert.ErrorIs(t, err, market_errors.ErrInvalidInput)

	mine, err := f.moderation.ListMyReports(ctx, "r2", "", Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
	assert.Equal(t, DefaultMyReportLimit, mine.Limit)
}
