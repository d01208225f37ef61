package project

import (
	"errors"
	"time"

	"github.com/rzbill/tracker/internal/workqueue"
)

// Observer receives project activity, typically for metrics.
type Observer interface {
	ObserveClaim(project, result string)
	ObserveHeartbeat(project, result string)
	ObserveCompletion(project, result string, bytes uint64)
	ObserveDepth(project string, pending, leased int)
	ObserveIngest(project string, items int)
	ObserveReclaim(project string, leases int)
	ObserveSnapshot(project string, elapsed time.Duration, err error)
}

// NoopObserver is used when no observer is provided.
type NoopObserver struct{}

func (NoopObserver) ObserveClaim(string, string)                  {}
func (NoopObserver) ObserveHeartbeat(string, string)              {}
func (NoopObserver) ObserveCompletion(string, string, uint64)     {}
func (NoopObserver) ObserveDepth(string, int, int)                {}
func (NoopObserver) ObserveIngest(string, int)                    {}
func (NoopObserver) ObserveReclaim(string, int)                   {}
func (NoopObserver) ObserveSnapshot(string, time.Duration, error) {}

// result labels an operation outcome.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, workqueue.ErrQueueEmpty):
		return "empty"
	case errors.Is(err, ErrProjectInactive):
		return "inactive"
	case errors.Is(err, workqueue.ErrIdentityMismatch):
		return "mismatch"
	case errors.Is(err, workqueue.ErrUnknownLease):
		return "unknown"
	default:
		return "error"
	}
}
