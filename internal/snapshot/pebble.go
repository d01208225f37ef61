package snapshot

import (
	"context"
	"errors"
	"fmt"

	pebblestore "github.com/rzbill/tracker/internal/storage/pebble"
)

// PebbleStore keeps a project's snapshots in a shared Pebble database.
type PebbleStore struct {
	db      *pebblestore.DB
	project string
}

// NewPebbleStore returns the store for project on db. db stays owned by the
// caller.
func NewPebbleStore(db *pebblestore.DB, project string) *PebbleStore {
	return &PebbleStore{db: db, project: project}
}

// QueueKey is proj/{name}/snap/queue.
func QueueKey(project string) []byte {
	return []byte("proj/" + project + "/snap/queue")
}

// LeaderboardKey is proj/{name}/snap/leaderboard.
func LeaderboardKey(project string) []byte {
	return []byte("proj/" + project + "/snap/leaderboard")
}

// Save commits both parts in one batch.
func (s *PebbleStore) Save(ctx context.Context, snap Snapshot) error {
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(QueueKey(s.project), snap.Queue, nil); err != nil {
		return fmt.Errorf("stage queue snapshot: %w", err)
	}
	if err := b.Set(LeaderboardKey(s.project), snap.Leaderboard, nil); err != nil {
		return fmt.Errorf("stage leaderboard snapshot: %w", err)
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *PebbleStore) LoadQueue(ctx context.Context) ([]byte, error) {
	return s.get(ctx, QueueKey(s.project))
}

func (s *PebbleStore) LoadLeaderboard(ctx context.Context) ([]byte, error) {
	return s.get(ctx, LeaderboardKey(s.project))
}

func (s *PebbleStore) get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := s.db.Get(key)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}
