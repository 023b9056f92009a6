package commands

import (
	"strings"
	"unicode/utf8"

	"classifieds-core/internal/domain/report"
	market_errors "classifieds-core/pkg/errors"
)

// CreateReportCommand files a complaint about a listing.
type CreateReportCommand struct {
	ListingID    string
	ReporterID   string
	ReporterName string
	Reason       report.Reason
	Description  string
}

func (c CreateReportCommand) CommandType() string {
	return "report.create"
}

func (c CreateReportCommand) Validate() error {
	if strings.TrimSpace(c.ListingID) == "" {
		return market_errors.InvalidInput("listing id is required")
	}
	if strings.TrimSpace(c.ReporterID) == "" {
		return market_errors.ErrUnauthorized
	}
	if !c.Reason.Valid() {
		return market_errors.InvalidInput("invalid report reason")
	}

	n := utf8.RuneCountInString(c.NormalizedDescription())
	if n < MinDescriptionRunes {
		return market_errors.InvalidInput("description must be at least 10 characters")
	}
	if n > MaxDescriptionRunes {
		return market_errors.InvalidInput("description must be at most 2000 characters")
	}
	if c.Reason == report.ReasonOther && n < MinOtherDescriptionRunes {
		return market_errors.InvalidInput("description must be at least 20 characters for OTHER")
	}
	return nil
}

func (c CreateReportCommand) NormalizedDescription() string {
	return strings.TrimSpace(c.Description)
}

// ResolveReportCommand moves an open report to a terminal status.
type ResolveReportCommand struct {
	ReportID       string
	ReviewerID     string
	TargetStatus   report.Status
	ResolutionNote *string
	RemoveListing  bool
}

func (c ResolveReportCommand) CommandType() string {
	return "report.resolve"
}

func (c ResolveReportCommand) Validate() error {
	if strings.TrimSpace(c.ReportID) == "" {
		return market_errors.InvalidInput("report id is required")
	}
	if strings.TrimSpace(c.ReviewerID) == "" {
		return market_errors.ErrUnauthorized
	}
	if c.TargetStatus != report.StatusAccepted && c.TargetStatus != report.StatusRejected {
		return market_errors.ErrInvalidTransition
	}

	note := c.Note()
	if note != nil && utf8.RuneCountInString(*note) > MaxResolutionNoteRunes {
		return market_errors.InvalidInput("resolution note must be at most 1000 characters")
	}
	return nil
}

// RequireNote reports ErrResolutionNoteRequired when a rejection carries no note.
// It depends on the report being resolvable, so callers run it after the state check.
func (c ResolveReportCommand) RequireNote() error {
	if c.TargetStatus == report.StatusRejected && c.Note() == nil {
		return market_errors.ErrResolutionNoteRequired
	}
	return nil
}

// Note returns the trimmed note, or nil when it is absent or blank.
func (c ResolveReportCommand) Note() *string {
	if c.ResolutionNote == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*c.ResolutionNote)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
