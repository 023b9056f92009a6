package market_errors

import (
	"errors"
	"fmt"
)

// Kind is a stable failure code that callers map to user-facing messages.
type Kind string

const (
	KindInvalidParticipants     Kind = "INVALID_PARTICIPANTS"
	KindNotAParticipant         Kind = "NOT_A_PARTICIPANT"
	KindForbidden               Kind = "FORBIDDEN"
	KindEmptyBody               Kind = "EMPTY_BODY"
	KindListingNotFound         Kind = "LISTING_NOT_FOUND"
	KindListingAlreadyModerated Kind = "LISTING_ALREADY_MODERATED"
	KindSelfReportForbidden     Kind = "SELF_REPORT_FORBIDDEN"
	KindDuplicateReportWindow   Kind = "DUPLICATE_REPORT_WINDOW"
	KindReportAlreadyResolved   Kind = "REPORT_ALREADY_RESOLVED"
	KindResolutionNoteRequired  Kind = "RESOLUTION_NOTE_REQUIRED"
	KindStorageUnavailable      Kind = "STORAGE_UNAVAILABLE"

	KindNotFound          Kind = "NOT_FOUND"
	KindAlreadyExists     Kind = "ALREADY_EXISTS"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindInternal          Kind = "INTERNAL"
)

type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError of the same kind, so wrapped and bare sentinels compare equal.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// Common errors
var (
	ErrInvalidParticipants     = New(KindInvalidParticipants, "a conversation needs two distinct participants")
	ErrNotAParticipant         = New(KindNotAParticipant, "sender is not a participant of this conversation")
	ErrForbidden               = New(KindForbidden, "forbidden")
	ErrEmptyBody               = New(KindEmptyBody, "message body cannot be empty")
	ErrListingNotFound         = New(KindListingNotFound, "listing not found")
	ErrListingAlreadyModerated = New(KindListingAlreadyModerated, "listing already moderated")
	ErrSelfReportForbidden     = New(KindSelfReportForbidden, "you cannot report your own listing")
	ErrDuplicateReportWindow   = New(KindDuplicateReportWindow, "you already reported this listing in the last 24h")
	ErrReportAlreadyResolved   = New(KindReportAlreadyResolved, "report already resolved")
	ErrResolutionNoteRequired  = New(KindResolutionNoteRequired, "resolution note is required when rejecting")
	ErrStorageUnavailable      = New(KindStorageUnavailable, "storage unavailable")

	ErrNotFound             = New(KindNotFound, "not found")
	ErrReportNotFound       = New(KindNotFound, "report not found")
	ErrConversationNotFound = New(KindNotFound, "conversation not found")
	ErrAlreadyExists        = New(KindAlreadyExists, "already exists")
	ErrInvalidInput         = New(KindInvalidInput, "invalid input")
	ErrInvalidTransition    = New(KindInvalidTransition, "invalid status transition")
	ErrUnauthorized         = New(KindUnauthorized, "unauthorized")
	ErrRateLimited          = New(KindRateLimited, "rate limited")
)

// InvalidInput returns an INVALID_INPUT error with a specific message.
func InvalidInput(message string) error {
	return New(KindInvalidInput, message)
}

// StorageUnavailable hides a raw persistence failure behind a stable kind.
func StorageUnavailable(cause error) error {
	if cause == nil {
		return nil
	}
	return Wrap(KindStorageUnavailable, "storage unavailable", cause)
}

// KindOf reports the kind of err; errors that are not AppErrors are INTERNAL.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsDomain reports whether err already carries a stable kind.
func IsDomain(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
