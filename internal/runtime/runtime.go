package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/metrics"
	"github.com/rzbill/tracker/internal/snapshot"
	pebblestore "github.com/rzbill/tracker/internal/storage/pebble"
	"github.com/rzbill/tracker/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config  cfgpkg.Config
	Fsync   pebblestore.FsyncMode
	Metrics *metrics.Metrics
	Logger  log.Logger
}

// Runtime owns the process-wide resources projects share: configuration,
// metrics and, for the pebble snapshot backend, the database.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	metrics *metrics.Metrics
	logger  log.Logger
}

// Open validates the configuration and opens storage for its snapshot backend.
func Open(opts Options) (*Runtime, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	rt := &Runtime{
		config:  opts.Config,
		metrics: opts.Metrics,
		logger:  opts.Logger.WithComponent("runtime"),
	}

	if opts.Config.SnapshotBackend == cfgpkg.SnapshotBackendPebble {
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir: opts.Config.DataDir,
			Fsync:   opts.Fsync,
			Metrics: opts.Metrics.Storage(),
			Logger:  opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		rt.db = db
	}
	rt.logger.Info("runtime opened",
		log.Str("snapshot_backend", opts.Config.SnapshotBackend),
		log.Str("projects_dir", opts.Config.ProjectsDir))
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// CheckHealth verifies the projects directory and, if open, the database.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(r.config.ProjectsDir)
	if err != nil {
		return fmt.Errorf("projects dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("projects dir %s is not a directory", r.config.ProjectsDir)
	}
	if r.config.SnapshotBackend != cfgpkg.SnapshotBackendPebble {
		return nil
	}
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// SnapshotStore returns the snapshot store for a project.
func (r *Runtime) SnapshotStore(pf *cfgpkg.ProjectFile) snapshot.Store {
	if r.db != nil {
		return snapshot.NewPebbleStore(r.db, pf.Meta.Name)
	}
	return snapshot.NewFileStore(r.config.ProjectsDir, pf.Meta.Name, pf.Meta.ItemsFolder)
}

// DB exposes the underlying DB, nil for the file backend.
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Metrics returns the shared collectors.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }
