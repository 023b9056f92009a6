package httpdto

import (
	"net/http"

	market_errors "classifieds-core/pkg/errors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// ErrorFor converts a service error into its HTTP status and response body.
// Errors without a kind never leak their text.
func ErrorFor(err error) (int, Response[any]) {
	kind := market_errors.KindOf(err)
	status := StatusFor(kind)
	msg := err.Error()
	if kind == market_errors.KindInternal || kind == market_errors.KindStorageUnavailable {
		msg = http.StatusText(status)
	}
	return status, NewErrorResponse(msg, string(kind))
}

func StatusFor(kind market_errors.Kind) int {
	switch kind {
	case market_errors.KindInvalidParticipants,
		market_errors.KindEmptyBody,
		market_errors.KindInvalidInput,
		market_errors.KindResolutionNoteRequired,
		market_errors.KindInvalidTransition:
		return http.StatusBadRequest
	case market_errors.KindUnauthorized:
		return http.StatusUnauthorized
	case market_errors.KindForbidden,
		market_errors.KindNotAParticipant,
		market_errors.KindSelfReportForbidden:
		return http.StatusForbidden
	case market_errors.KindNotFound,
		market_errors.KindListingNotFound:
		return http.StatusNotFound
	case market_errors.KindListingAlreadyModerated,
		market_errors.KindReportAlreadyResolved,
		market_errors.KindAlreadyExists:
		return http.StatusConflict
	case market_errors.KindDuplicateReportWindow,
		market_errors.KindRateLimited:
		return http.StatusTooManyRequests
	case market_errors.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
