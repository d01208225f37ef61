package snapshot

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned when a snapshot part has never been saved.
var ErrNoSnapshot = errors.New("tracker: no snapshot")

// Snapshot is one durable copy of a project's state.
type Snapshot struct {
	Queue       []byte
	Leaderboard []byte
}

// Store is a durable destination for project snapshots.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	LoadQueue(ctx context.Context) ([]byte, error)
	LoadLeaderboard(ctx context.Context) ([]byte, error)
}
