package services

import (
	"context"
	"errors"
	"testing"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/report"
	"classifieds-core/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Emit(ctx context.Context, userID string, typ notification.Type, payload interface{}) (notification.Notification, error) {
	args := m.Called(ctx, userID, typ, payload)
	return notification.Notification{UserID: userID, Type: typ}, args.Error(0)
}

func TestModerationService_ResolveNotifiesAfterCommit(t *testing.T) {
	f := newFixture(t)
	f.putListing("car-1", "seller")
	notifier := &mockNotifier{}
	svc := NewModerationService(f.store, notifier, DefaultDuplicateWindow,
		WithClock(f.clock.Now), WithIDGenerator(sequentialIDs("mock")), WithLogger(logger.NewNop()))

	created, err := svc.CreateReport(context.Background(), fraudReport("car-1", "buyer"))
	require.NoError(t, err)

	note := "seller confirmed the scam"
	notifier.On("Emit", mock.Anything, "buyer", notification.TypeReportResolvedAccepted,
		notification.ReportResolvedPayload{ReportID: created.ID, ListingID: "car-1", Status: "ACCEPTED", Note: &note}).
		Return(nil).Once()
	notifier.On("Emit", mock.Anything, "seller", notification.TypeListingRemoved, mock.AnythingOfType("notification.ListingRemovedPayload")).
		Return(errors.New("notification store down")).Once()

	res, err := svc.Resolve(context.Background(), commands.ResolveReportCommand{
		ReportID:       created.ID,
		ReviewerID:     "mod",
		TargetStatus:   report.StatusAccepted,
		ResolutionNote: &note,
		RemoveListing:  true,
	})

	require.NoError(t, err)
	assert.True(t, res.ListingRemoved)
	notifier.AssertExpectations(t)
}

func TestModerationService_FailedResolveDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	f.putListing("car-1", "seller")
	notifier := &mockNotifier{}
	svc := NewModerationService(f.store, notifier, DefaultDuplicateWindow, WithClock(f.clock.Now))

	created, err := svc.CreateReport(context.Background(), fraudReport("car-1", "buyer"))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), commands.ResolveReportCommand{
		ReportID:     created.ID,
		ReviewerID:   "mod",
		TargetStatus: report.StatusRejected,
	})

	require.Error(t, err)
	notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
