package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/fsutil"
)

// QueueSaveFile is the queue snapshot's name inside the items folder. The
// leading dot keeps batch scans from picking it up.
const QueueSaveFile = ".queue-save.txt"

// FileStore writes snapshots as plain files.
type FileStore struct {
	QueuePath       string
	LeaderboardPath string
}

// NewFileStore returns the store for project name with the given items folder.
func NewFileStore(projectsDir, name, itemsFolder string) *FileStore {
	return &FileStore{
		QueuePath:       filepath.Join(projectsDir, itemsFolder, QueueSaveFile),
		LeaderboardPath: filepath.Join(projectsDir, name+config.LeaderboardSuffix),
	}
}

// Save writes the queue then the leaderboard, each atomically.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(s.QueuePath, snap.Queue, 0o644); err != nil {
		return fmt.Errorf("write queue snapshot: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.LeaderboardPath, snap.Leaderboard, 0o644); err != nil {
		return fmt.Errorf("write leaderboard snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) LoadQueue(ctx context.Context) ([]byte, error) {
	return readPart(ctx, s.QueuePath)
}

func (s *FileStore) LoadLeaderboard(ctx context.Context) ([]byte, error) {
	return readPart(ctx, s.LeaderboardPath)
}

func readPart(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return b, nil
}
