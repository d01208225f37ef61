package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rzbill/tracker/internal/codec"
)

const batchExt = ".txt"

var errNoBatches = errors.New("no unread batches")

// BatchSource hands out the unread item batches of an items folder in name
// order. It is not safe for concurrent use.
type BatchSource struct {
	dir string
	// consumed holds files already ingested or skipped by this process, so a
	// failed delete never leads to a second ingest.
	consumed map[string]struct{}
}

// NewBatchSource reads batches from dir.
func NewBatchSource(dir string) *BatchSource {
	return &BatchSource{dir: dir, consumed: make(map[string]struct{})}
}

// Unread lists batch files not yet consumed, sorted by name. Dotfiles such as
// the queue snapshot are never batches.
func (b *BatchSource) Unread() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, batchExt) {
			continue
		}
		if _, done := b.consumed[name]; done {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Next parses the first unread batch. It returns errNoBatches when the folder
// has nothing left.
func (b *BatchSource) Next() (string, [][]string, error) {
	names, err := b.Unread()
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, errNoBatches
	}
	name := names[0]
	f, err := os.Open(filepath.Join(b.dir, name))
	if err != nil {
		return name, nil, fmt.Errorf("open batch %s: %w", name, err)
	}
	defer f.Close()
	tuples, err := codec.ParseLines(f)
	if err != nil {
		return name, nil, fmt.Errorf("read batch %s: %w", name, err)
	}
	return name, tuples, nil
}

// Skip marks name consumed without deleting it.
func (b *BatchSource) Skip(name string) {
	b.consumed[name] = struct{}{}
}

// Consume marks name consumed and deletes it. Call only after its items are
// in the queue.
func (b *BatchSource) Consume(name string) error {
	b.consumed[name] = struct{}{}
	if err := os.Remove(filepath.Join(b.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove batch %s: %w", name, err)
	}
	return nil
}
