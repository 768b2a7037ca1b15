// Package common defines shared constants and sentinel errors used across
// the client, worker and stub layers of RemindSync. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Connectivity / sync flow control.
	ErrUnavailable  = errors.New("server unavailable")
	ErrSyncInFlight = errors.New("sync already in flight")

	// Subscription setup aborts. Messages are user-facing, each naming
	// the failing step's cause (see subscription.Manager.Enable).
	ErrWorkerUnavailable = errors.New("delivery worker unavailable")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotConnected      = errors.New("not connected")
	ErrSetupInProgress   = errors.New("setup already in progress")

	// Push transport errors.
	ErrSubscriptionInvalid = errors.New("push subscription invalidated")
	ErrInvalidPushAuth     = errors.New("invalid push authorization")
)
