package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")

	// ErrVersionConflict means the aggregate was written by someone else
	// between read and write.
	ErrVersionConflict = errors.New("version conflict")

	ErrInvalid       = errors.New("invalid input")
	ErrLocation      = errors.New("location rejected")
	ErrStateConflict = errors.New("state conflict")
	ErrForbidden     = errors.New("forbidden")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

// RejectionError carries the user-facing reason of a refused request.
// Kind is one of ErrInvalid, ErrLocation, ErrStateConflict or ErrForbidden.
type RejectionError struct {
	Kind   error
	Reason string
}

func Reject(kind error, reason string) *RejectionError {
	return &RejectionError{Kind: kind, Reason: reason}
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}

// Reason returns the human readable rejection reason of err, if any.
func Reason(err error) (string, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// Rejection reasons surfaced to clients.
const (
	ReasonAlreadyClockedIn = "Already clocked in (session still open)"
	ReasonNotClockedIn     = "Not clocked in"
	ReasonBreakInProgress  = "Break already in progress"
	ReasonNoBreak          = "No break in progress"
	ReasonLocationRequired = "location required"
	ReasonOutsideRadius    = "outside office radius"
	ReasonExportForbidden  = "Report export not permitted"
)
