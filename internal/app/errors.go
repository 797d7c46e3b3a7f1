package app

import "errors"

// Sentinel kinds surfaced to the command layer. These map to the short
// human-readable errors the requester sees; sweep-side failures are logged
// only.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrNoTornID            = errors.New("could not extract a torn id; the name must include [ID]")
	ErrUnknownMember       = errors.New("no faction account found for that id")
	ErrBadAmount           = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("asking for more than the member has")
	ErrNotEvaluable        = errors.New("member has no skill profile this cycle")
)
