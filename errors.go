package cymometer

import (
	"errors"
	"fmt"
)

var (
	// ErrLimitExceeded is the sentinel matched by errors.Is when an
	// increment is rejected. The concrete error is always a
	// [*LimitExceededError] carrying the observed count.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrUnknownCounter is the sentinel for [*UnknownCounterError].
	ErrUnknownCounter = errors.New("unknown counter")
	// ErrInvalidDefinition is returned when a declared counter definition
	// is self-contradictory, such as naming both Key and KeyFunc. Like an
	// unknown name, this is a programming error.
	ErrInvalidDefinition = errors.New("invalid counter definition")
	// ErrStoreNotConfigured is returned when a counter is constructed with
	// no store and no process default has been installed via [SetDefaults].
	ErrStoreNotConfigured = errors.New("store not configured")
	// ErrStoreUnavailable wraps any transport or protocol failure from the
	// backing store. It is fatal to the call; the only internal retry is
	// the one-shot script reload performed by the store itself.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LimitExceededError reports a rejected increment. Count is the in-window
// count observed by the atomic admission check, never more than Limit.
type LimitExceededError struct {
	Key   string
	Limit int64
	Count int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded: %d/%d events in window for %s", e.Count, e.Limit, e.Key)
}

// Unwrap lets errors.Is match [ErrLimitExceeded].
func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }

// UnknownCounterError reports access to a counter name that was never
// declared on the schema. This is a programming error, not a runtime
// condition to retry.
type UnknownCounterError struct {
	Name string
}

func (e *UnknownCounterError) Error() string {
	return fmt.Sprintf("unknown counter %q", e.Name)
}

// Unwrap lets errors.Is match [ErrUnknownCounter].
func (e *UnknownCounterError) Unwrap() error { return ErrUnknownCounter }
