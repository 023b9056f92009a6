package report

import (
	market_errors "classifieds-core/pkg/errors"
)

type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

var transitions = map[Status][]Status{
	StatusOpen: {StatusAccepted, StatusRejected},
}

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusAccepted || s == StatusRejected
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition checks a move from s to target against the state machine.
func (s Status) CanTransition(target Status) error {
	if s.Terminal() {
		return market_errors.ErrReportAlreadyResolved
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return nil
		}
	}
	return market_errors.ErrInvalidTransition
}

func (s Status) Ptr() *Status {
	return &s
}
