package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/repository"
	market_errors "classifieds-core/pkg/errors"
)

type conversationRepo struct{ s *Store }

func (r conversationRepo) Create(_ context.Context, c *conversation.Conversation) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("conversations.Create"); err != nil {
		return err
	}
	data := r.s.sh.data
	if _, ok := data.conversations[c.ID]; ok {
		return market_errors.ErrAlreadyExists
	}
	for _, existing := range data.conversations {
		if existing.Key() == c.Key() {
			return market_errors.ErrAlreadyExists
		}
	}
	data.conversations[c.ID] = *c
	return nil
}

func (r conversationRepo) GetByID(_ context.Context, id string) (conversation.Conversation, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("conversations.GetByID"); err != nil {
		return conversation.Conversation{}, err
	}
	c, ok := r.s.sh.data.conversations[id]
	if !ok {
		return conversation.Conversation{}, market_errors.ErrConversationNotFound
	}
	return c, nil
}

func (r conversationRepo) GetByKey(_ context.Context, key conversation.Key) (conversation.Conversation, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("conversations.GetByKey"); err != nil {
		return conversation.Conversation{}, err
	}
	for _, c := range r.s.sh.data.conversations {
		if c.Key() == key {
			return c, nil
		}
	}
	return conversation.Conversation{}, market_errors.ErrConversationNotFound
}

func (r conversationRepo) ListForUser(_ context.Context, userID string, after *repository.ActivityCursor, limit int) ([]conversation.Conversation, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("conversations.ListForUser"); err != nil {
		return nil, err
	}
	var out []conversation.Conversation
	for _, c := range r.s.sh.data.conversations {
		if !c.IsParticipant(userID) {
			continue
		}
		if after != nil && !olderThan(c, *after) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivityAt.Equal(out[j].LastActivityAt) {
			return out[i].LastActivityAt.After(out[j].LastActivityAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func olderThan(c conversation.Conversation, cur repository.ActivityCursor) bool {
	if c.LastActivityAt.Before(cur.At) {
		return true
	}
	return c.LastActivityAt.Equal(cur.At) && c.ID < cur.ID
}

func (r conversationRepo) Touch(_ context.Context, id string, at time.Time) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("conversations.Touch"); err != nil {
		return 0, err
	}
	c, ok := r.s.sh.data.conversations[id]
	if !ok {
		return 0, market_errors.ErrConversationNotFound
	}
	c.LastSeq++
	c.LastActivityAt = at
	r.s.sh.data.conversations[id] = c
	return c.LastSeq, nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, m *message.Message) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("messages.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.sh.data.messages {
		if existing.ID == m.ID || (existing.ConversationID == m.ConversationID && existing.Seq == m.Seq) {
			return market_errors.ErrAlreadyExists
		}
	}
	r.s.sh.data.messages = append(r.s.sh.data.messages, *m)
	return nil
}

func (r messageRepo) ListAfter(_ context.Context, conversationID string, afterSeq int64, limit int) ([]message.Message, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("messages.ListAfter"); err != nil {
		return nil, err
	}
	var out []message.Message
	for _, m := range r.s.sh.data.messages {
		if m.ConversationID == conversationID && m.Seq > afterSeq {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r messageRepo) AdvanceStatus(_ context.Context, conversationID, readerID string, target message.Status, at time.Time) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("messages.AdvanceStatus"); err != nil {
		return 0, err
	}
	var n int64
	msgs := r.s.sh.data.messages
	for i := range msgs {
		if msgs[i].ConversationID != conversationID || msgs[i].SenderID == readerID {
			continue
		}
		if msgs[i].Advance(target, at) {
			n++
		}
	}
	return n, nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, rep *report.Report) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.Create"); err != nil {
		return err
	}
	if _, ok := r.s.sh.data.reports[rep.ID]; ok {
		return market_errors.ErrAlreadyExists
	}
	r.s.sh.data.reports[rep.ID] = *rep
	return nil
}

func (r reportRepo) GetByID(_ context.Context, id string) (report.Report, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.GetByID"); err != nil {
		return report.Report{}, err
	}
	rep, ok := r.s.sh.data.reports[id]
	if !ok {
		return report.Report{}, market_errors.ErrReportNotFound
	}
	return rep, nil
}

// LockByID needs no extra locking: transactions already hold the store mutex.
func (r reportRepo) LockByID(ctx context.Context, id string) (report.Report, error) {
	return r.GetByID(ctx, id)
}

func (r reportRepo) UpdateStatus(_ context.Context, id string, from, to report.Status, reviewerID string, note *string, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.UpdateStatus"); err != nil {
		return err
	}
	rep, ok := r.s.sh.data.reports[id]
	if !ok {
		return market_errors.ErrReportNotFound
	}
	if rep.Status != from {
		return market_errors.ErrReportAlreadyResolved
	}
	rep.Status = to
	rep.ReviewerID = &reviewerID
	rep.ResolutionNote = note
	rep.UpdatedAt = at
	r.s.sh.data.reports[id] = rep
	return nil
}

func (r reportRepo) ExistsSince(_ context.Context, reporterID, listingID string, since time.Time) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.ExistsSince"); err != nil {
		return false, err
	}
	for _, rep := range r.s.sh.data.reports {
		if rep.ReporterID == reporterID && rep.ListingID == listingID && !rep.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r reportRepo) List(_ context.Context, f repository.ReportFilter, offset, limit int) ([]report.Report, int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.List"); err != nil {
		return nil, 0, err
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var matched []report.Report
	for _, rep := range r.s.sh.data.reports {
		if f.Status != "" && rep.Status != f.Status {
			continue
		}
		if f.Reason != "" && rep.Reason != f.Reason {
			continue
		}
		if f.ListingID != "" && rep.ListingID != f.ListingID {
			continue
		}
		if f.ReporterID != "" && rep.ReporterID != f.ReporterID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rep.Description), query) &&
			!strings.Contains(strings.ToLower(rep.ReporterName), query) &&
			rep.ReporterID != strings.TrimSpace(f.Query) {
			continue
		}
		matched = append(matched, rep)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return []report.Report{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r reportRepo) AppendHistory(_ context.Context, e *report.HistoryEntry) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.AppendHistory"); err != nil {
		return err
	}
	var highest int64
	for _, h := range r.s.sh.data.history {
		if h.ReportID == e.ReportID && h.Seq > highest {
			highest = h.Seq
		}
	}
	e.Seq = highest + 1
	r.s.sh.data.history = append(r.s.sh.data.history, *e)
	return nil
}

func (r reportRepo) History(_ context.Context, reportID string) ([]report.HistoryEntry, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("reports.History"); err != nil {
		return nil, err
	}
	out := []report.HistoryEntry{}
	for _, h := range r.s.sh.data.history {
		if h.ReportID == reportID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

type listingRepo struct{ s *Store }

func (r listingRepo) GetOwnerAndModerationStatus(_ context.Context, listingID string) (listing.Listing, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("listings.GetOwnerAndModerationStatus"); err != nil {
		return listing.Listing{}, err
	}
	l, ok := r.s.sh.data.listings[listingID]
	if !ok {
		return listing.Listing{}, market_errors.ErrListingNotFound
	}
	return l, nil
}

func (r listingRepo) SetModerationStatus(_ context.Context, listingID string, status listing.ModerationStatus) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("listings.SetModerationStatus"); err != nil {
		return err
	}
	l, ok := r.s.sh.data.listings[listingID]
	if !ok {
		return market_errors.ErrListingNotFound
	}
	l.ModerationStatus = status
	r.s.sh.data.listings[listingID] = l
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("notifications.Create"); err != nil {
		return err
	}
	r.s.sh.data.notifications = append(r.s.sh.data.notifications, *n)
	return nil
}

func (r notificationRepo) ListForUser(_ context.Context, userID string, onlyUnread *bool, limit int) ([]notification.Notification, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("notifications.ListForUser"); err != nil {
		return nil, err
	}
	var out []notification.Notification
	for _, n := range r.s.sh.data.notifications {
		if n.UserID != userID {
			continue
		}
		if onlyUnread != nil && *onlyUnread && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r notificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("notifications.CountUnread"); err != nil {
		return 0, err
	}
	var n int64
	for _, item := range r.s.sh.data.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID string, ids []string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("notifications.MarkRead"); err != nil {
		return 0, err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var n int64
	items := r.s.sh.data.notifications
	for i := range items {
		if _, ok := wanted[items[i].ID]; ok && items[i].UserID == userID && !items[i].IsRead {
			items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("notifications.MarkAllRead"); err != nil {
		return 0, err
	}
	var n int64
	items := r.s.sh.data.notifications
	for i := range items {
		if items[i].UserID == userID && !items[i].IsRead {
			items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

type outboxRepo struct{ s *Store }

func (r outboxRepo) Create(_ context.Context, event *outbox.OutboxEvent) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("outbox.Create"); err != nil {
		return err
	}
	r.s.sh.data.outbox = append(r.s.sh.data.outbox, *event)
	return nil
}

func (r outboxRepo) GetPending(_ context.Context, limit, maxRetries int) ([]outbox.OutboxEvent, error) {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault("outbox.GetPending"); err != nil {
		return nil, err
	}
	var out []outbox.OutboxEvent
	for _, e := range r.s.sh.data.outbox {
		if e.Status == outbox.StatusPending && e.RetryCount < maxRetries {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r outboxRepo) MarkProcessing(_ context.Context, id string) error {
	return r.mutate("outbox.MarkProcessing", id, func(e *outbox.OutboxEvent) {
		e.Status = outbox.StatusProcessing
	})
}

func (r outboxRepo) MarkCompleted(_ context.Context, id string) error {
	return r.mutate("outbox.MarkCompleted", id, func(e *outbox.OutboxEvent) {
		now := time.Now()
		e.Status = outbox.StatusCompleted
		e.ProcessedAt = &now
	})
}

func (r outboxRepo) MarkFailed(_ context.Context, id string, errorMsg string) error {
	return r.mutate("outbox.MarkFailed", id, func(e *outbox.OutboxEvent) {
		e.Status = outbox.StatusFailed
		e.Error = errorMsg
	})
}

func (r outboxRepo) IncrementRetry(_ context.Context, id string, errorMsg string) error {
	return r.mutate("outbox.IncrementRetry", id, func(e *outbox.OutboxEvent) {
		e.Status = outbox.StatusPending
		e.RetryCount++
		e.Error = errorMsg
	})
}

func (r outboxRepo) mutate(op, id string, fn func(*outbox.OutboxEvent)) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.fault(op); err != nil {
		return err
	}
	events := r.s.sh.data.outbox
	for i := range events {
		if events[i].ID == id {
			fn(&events[i])
			events[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return market_errors.ErrNotFound
}
