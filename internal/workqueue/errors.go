package workqueue

import "errors"

var (
	// ErrQueueEmpty is returned by Claim when nothing is pending.
	ErrQueueEmpty = errors.New("tracker: queue empty")
	// ErrUnknownLease is returned for an id with no active lease.
	ErrUnknownLease = errors.New("tracker: unknown lease")
	// ErrIdentityMismatch is returned when the caller's address differs from
	// the claimant's.
	ErrIdentityMismatch = errors.New("tracker: identity mismatch")
)
