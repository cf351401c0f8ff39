// Package service implements the reservation core: seat allocation,
// cancellation, the event lifecycle, aggregation and sales export.
// Handlers translate the sentinel errors below into HTTP responses;
// each message doubles as the wire-level error code.
package service

import "errors"

// Validation failures.  No mutation has happened when these are returned.
var (
	ErrInvalidEvent = errors.New("invalid_event")
	ErrInvalidRank  = errors.New("invalid_rank")
	ErrInvalidSheet = errors.New("invalid_sheet")
)

// Expected business outcomes under contention or ownership checks.
var (
	ErrSoldOut      = errors.New("sold_out")
	ErrNotReserved  = errors.New("not_reserved")
	ErrNotPermitted = errors.New("not_permitted")
)

// Lifecycle conflicts on admin event edits.
var (
	ErrClosedEvent      = errors.New("cannot_edit_closed_event")
	ErrClosePublicEvent = errors.New("cannot_close_public_event")
)

var (
	ErrNotFound             = errors.New("not_found")
	ErrAuthenticationFailed = errors.New("authentication_failed")
)
