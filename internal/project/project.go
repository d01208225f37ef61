package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rzbill/tracker/internal/codec"
	"github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/snapshot"
	"github.com/rzbill/tracker/internal/stats"
	"github.com/rzbill/tracker/internal/workqueue"
	"github.com/rzbill/tracker/pkg/log"
)

const defaultSnapshotInterval = 30 * time.Second

// Options configures a Project.
type Options struct {
	// File is the project's config; required.
	File *config.ProjectFile
	// ProjectsDir anchors the items folder named in File.
	ProjectsDir string
	// Store receives snapshots; required.
	Store snapshot.Store

	SnapshotInterval time.Duration
	// RestoreQueueSnapshot re-ingests the last queue snapshot at Open. Former
	// leases come back as pending items under new ids.
	RestoreQueueSnapshot bool
	// LeaseTimeout enables lease expiry when positive.
	LeaseTimeout  time.Duration
	SweepInterval time.Duration

	Observer Observer
	Logger   log.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Status summarizes a project for operators.
type Status struct {
	Name      string `json:"name"`
	Paused    bool   `json:"paused"`
	Pending   int    `json:"pending"`
	Leased    int    `json:"leased"`
	Completed uint64 `json:"completed"`
	NextID    uint64 `json:"nextId"`
	Workers   int    `json:"workers"`
}

// Project owns one project's queue, stats and leaderboard.
type Project struct {
	name     string
	store    snapshot.Store
	observer Observer
	logger   log.Logger
	now      func() time.Time

	leaseTimeout time.Duration

	// mu guards every field below it.
	mu          sync.Mutex
	queue       *workqueue.Queue
	workers     *stats.Table
	leaderboard *stats.Table
	paused      bool
	file        *config.ProjectFile

	// ingestMu serializes refills and owns batches.
	ingestMu sync.Mutex
	batches  *BatchSource

	// fileMu serializes config rewrites.
	fileMu sync.Mutex

	saver *saver
}

// Open loads a project's persisted state and starts its background task.
func Open(ctx context.Context, opts Options) (*Project, error) {
	if opts.File == nil {
		return nil, errors.New("project: Options.File is required")
	}
	if opts.Store == nil {
		return nil, errors.New("project: Options.Store is required")
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = defaultSnapshotInterval
	}
	if opts.Observer == nil {
		opts.Observer = NoopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	name := opts.File.Meta.Name
	itemsDir := filepath.Join(opts.ProjectsDir, opts.File.Meta.ItemsFolder)
	if info, err := os.Stat(itemsDir); err != nil {
		return nil, fmt.Errorf("project %s: items folder: %w", name, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("project %s: items folder %s is not a directory", name, itemsDir)
	}

	p := &Project{
		name:         name,
		store:        opts.Store,
		observer:     opts.Observer,
		logger:       opts.Logger.With(log.Component("project"), log.Str("project", name)),
		now:          opts.Clock,
		leaseTimeout: opts.LeaseTimeout,
		queue:        workqueue.New(),
		workers:      stats.NewTable(),
		leaderboard:  stats.NewTable(),
		paused:       opts.File.Status.Paused,
		file:         opts.File,
		batches:      NewBatchSource(itemsDir),
	}

	if err := p.loadLeaderboard(ctx); err != nil {
		return nil, err
	}
	if opts.RestoreQueueSnapshot {
		if err := p.restoreQueue(ctx); err != nil {
			return nil, err
		}
	}
	if !p.paused {
		if _, err := p.refill(ctx); err != nil {
			p.logger.Warn("initial batch ingest failed", log.Err(err))
		}
	}
	p.observeDepth()

	p.saver = newSaver(p, opts.SnapshotInterval, opts.SweepInterval)
	p.saver.Start()

	p.logger.Info("project opened",
		log.Bool("paused", p.paused),
		log.Int("pending", p.queue.Stats().Pending),
		log.Int("leaderboard_users", p.leaderboard.Len()))
	return p, nil
}

func (p *Project) loadLeaderboard(ctx context.Context) error {
	data, err := p.store.LoadLeaderboard(ctx)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("project %s: %w", p.name, err)
	}
	board, err := codec.DecodeLeaderboard(data)
	if err != nil {
		return fmt.Errorf("project %s: %w", p.name, err)
	}
	p.leaderboard.Restore(board)
	return nil
}

func (p *Project) restoreQueue(ctx context.Context) error {
	data, err := p.store.LoadQueue(ctx)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("project %s: %w", p.name, err)
	}
	n, err := p.queue.Restore(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("project %s: %w: %v", p.name, codec.ErrMalformedState, err)
	}
	p.logger.Info("queue snapshot restored", log.Int("items", n))
	return nil
}

// Name is the project name.
func (p *Project) Name() string { return p.name }

// Claim leases the lowest pending item to who.
func (p *Project) Claim(ctx context.Context, who workqueue.Identity) (workqueue.Item, error) {
	it, err := p.claim(who)
	// A concurrent claimer may take what a refill queued, so keep going until
	// this caller gets an item or the batches run dry.
	for errors.Is(err, workqueue.ErrQueueEmpty) {
		more, rerr := p.refill(ctx)
		if rerr != nil {
			p.logger.Error("batch refill failed", log.Err(rerr))
		}
		if !more {
			break
		}
		it, err = p.claim(who)
	}
	p.observer.ObserveClaim(p.name, result(err))
	if err == nil {
		p.logger.Debug("item claimed",
			log.Uint64("id", it.ID),
			log.Str("username", who.Username),
			log.Str("addr", who.Address))
	}
	return it, err
}

func (p *Project) claim(who workqueue.Identity) (workqueue.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return workqueue.Item{}, ErrProjectInactive
	}
	it, err := p.queue.Claim(who, p.now())
	if err == nil {
		p.observeDepthLocked()
	}
	return it, err
}

// Heartbeat records liveness for the lease on id.
func (p *Project) Heartbeat(ctx context.Context, id uint64, addr string) error {
	p.mu.Lock()
	err := p.queue.Heartbeat(id, addr, p.now())
	p.mu.Unlock()
	p.observer.ObserveHeartbeat(p.name, result(err))
	return err
}

// Complete finishes the lease on id and credits its claimant with size bytes
// in both the worker stats and the leaderboard.
func (p *Project) Complete(ctx context.Context, id, size uint64, addr string) error {
	p.mu.Lock()
	who, err := p.queue.Complete(id, addr)
	if err == nil {
		p.workers.Credit(who.Username, size)
		p.leaderboard.Credit(who.Username, size)
		p.observeDepthLocked()
	}
	p.mu.Unlock()

	if err != nil {
		p.observer.ObserveCompletion(p.name, result(err), 0)
		return err
	}
	p.observer.ObserveCompletion(p.name, result(nil), size)
	p.logger.Debug("item completed",
		log.Uint64("id", id),
		log.Str("username", who.Username),
		log.Uint64("bytes", size))
	return nil
}

// Leaderboard returns a copy of the project-wide per-user totals.
func (p *Project) Leaderboard() map[string]codec.Tally {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leaderboard.All()
}

// Ranking returns up to n leaderboard entries, best first.
func (p *Project) Ranking(n int) []stats.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leaderboard.Top(n)
}

// UserStats returns the totals this process has recorded for username.
func (p *Project) UserStats(username string) (stats.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers.Get(username)
}

// Status reports queue occupancy and the paused flag.
func (p *Project) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.queue.Stats()
	return Status{
		Name:      p.name,
		Paused:    p.paused,
		Pending:   c.Pending,
		Leased:    c.Leased,
		Completed: c.Completed,
		NextID:    c.NextID,
		Workers:   p.workers.Len(),
	}
}

// SetPaused flips the paused flag and persists it to the project config. The
// flag is restored if the config cannot be written.
func (p *Project) SetPaused(ctx context.Context, paused bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.fileMu.Lock()
	defer p.fileMu.Unlock()

	p.mu.Lock()
	prev := p.paused
	p.paused = paused
	p.file.Status.Paused = paused
	p.mu.Unlock()
	if prev == paused {
		return nil
	}

	if err := p.file.Save(); err != nil {
		p.mu.Lock()
		p.paused = prev
		p.file.Status.Paused = prev
		p.mu.Unlock()
		return fmt.Errorf("project %s: save config: %w", p.name, err)
	}
	p.logger.Info("project status changed", log.Bool("paused", paused))
	return nil
}

// ReclaimExpired returns leases idle longer than the lease timeout to the
// pending set. It does nothing when expiry is disabled.
func (p *Project) ReclaimExpired() []uint64 {
	if p.leaseTimeout <= 0 {
		return nil
	}
	p.mu.Lock()
	ids := p.queue.ReclaimExpired(p.now(), p.leaseTimeout)
	if len(ids) > 0 {
		p.observeDepthLocked()
	}
	p.mu.Unlock()

	if len(ids) > 0 {
		p.observer.ObserveReclaim(p.name, len(ids))
		p.logger.Info("expired leases reclaimed", log.Int("count", len(ids)))
	}
	return ids
}

// Save writes a snapshot unless the project is paused.
func (p *Project) Save(ctx context.Context) error {
	return p.save(ctx, false)
}

func (p *Project) save(ctx context.Context, force bool) error {
	p.mu.Lock()
	if p.paused && !force {
		p.mu.Unlock()
		return nil
	}
	tuples := p.queue.Snapshot()
	board := p.leaderboard.All()
	p.mu.Unlock()

	var queue bytes.Buffer
	if err := codec.EncodeLines(&queue, tuples); err != nil {
		return fmt.Errorf("encode queue snapshot: %w", err)
	}
	lb, err := codec.EncodeLeaderboard(board)
	if err != nil {
		return fmt.Errorf("encode leaderboard snapshot: %w", err)
	}

	start := time.Now()
	err = p.store.Save(ctx, snapshot.Snapshot{Queue: queue.Bytes(), Leaderboard: lb})
	p.observer.ObserveSnapshot(p.name, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("project %s: %w", p.name, err)
	}
	return nil
}

// Close stops the background task and writes a final snapshot, paused or not.
func (p *Project) Close(ctx context.Context) error {
	p.saver.Stop()
	if err := p.save(ctx, true); err != nil {
		return err
	}
	p.logger.Info("project closed")
	return nil
}

// refill ingests unread batches until something is pending or none remain.
// It reports whether items are pending when it returns.
func (p *Project) refill(ctx context.Context) (bool, error) {
	p.ingestMu.Lock()
	defer p.ingestMu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		p.mu.Lock()
		pending, paused := p.queue.Stats().Pending, p.paused
		p.mu.Unlock()
		if paused {
			return false, nil
		}
		if pending > 0 {
			return true, nil
		}

		name, tuples, err := p.batches.Next()
		if errors.Is(err, errNoBatches) {
			return false, nil
		}
		if err != nil {
			if name == "" {
				return false, err
			}
			p.logger.Error("skipping unreadable batch", log.Str("file", name), log.Err(err))
			p.batches.Skip(name)
			continue
		}

		p.mu.Lock()
		first, count := p.queue.Ingest(tuples)
		p.observeDepthLocked()
		p.mu.Unlock()

		if err := p.batches.Consume(name); err != nil {
			p.logger.Warn("batch ingested but not removed", log.Str("file", name), log.Err(err))
		}
		p.observer.ObserveIngest(p.name, int(count))
		p.logger.Info("batch queued",
			log.Str("file", name),
			log.Uint64("first_id", first),
			log.Uint64("items", count))
	}
}

func (p *Project) observeDepth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observeDepthLocked()
}

func (p *Project) observeDepthLocked() {
	c := p.queue.Stats()
	p.observer.ObserveDepth(p.name, c.Pending, c.Leased)
}
