package contract

import "errors"

// Error kinds returned by the portal. Callers match them with errors.Is;
// every failure is wrapped with the offending id or value.
var (
	ErrNotFound          = errors.New("not found")
	ErrNameConflict      = errors.New("name already in use")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidState      = errors.New("invalid stage state")
	ErrInvalidStageType  = errors.New("invalid stage type")
	ErrDuplicateResult   = errors.New("duplicate result")
	ErrChecklistMismatch = errors.New("checkpoint times mismatch")
)
