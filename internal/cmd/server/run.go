package serverrun

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/metrics"
	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/internal/runtime"
	httpserver "github.com/rzbill/tracker/internal/server/http"
	pebblestore "github.com/rzbill/tracker/internal/storage/pebble"
	logpkg "github.com/rzbill/tracker/pkg/log"
)

const closeTimeout = 30 * time.Second

func getenvDefault(key, def string) string {
	if v := func() string { return getenv(key) }(); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	Config cfgpkg.Config
	Fsync  pebblestore.FsyncMode
	Log    logpkg.Config
	// Ready, when set, receives the bound HTTP address once listening.
	Ready func(addr string)
}

// LoadConfig builds the server configuration: defaults, then the optional
// file at path, then TRACKER_* variables, then apply (command line flags).
func LoadConfig(path string, apply func(*cfgpkg.Config)) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)
	if apply != nil {
		apply(&cfg)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, cfg.Validate()
}

// Run loads every project, serves HTTP and blocks until ctx is cancelled.
// On the way out it stops the listener first, then writes a final snapshot
// for every project, then closes storage.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers need not
	// pass a signal-aware context.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := opts.Log
	if logCfg.Level == "" {
		logCfg.Level = getenvDefault("TRACKER_LOG_LEVEL", "info")
	}
	if logCfg.Format == "" {
		logCfg.Format = getenvDefault("TRACKER_LOG_FORMAT", "text")
	}
	procLogger, err := logpkg.ApplyConfig(&logCfg)
	if err != nil {
		// Fallback to a sane default
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(logCfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	// Redirect stdlib logs to our logger
	logpkg.RedirectStdLog(procLogger)

	cfg := opts.Config
	if err := cfg.ResolvePaths(); err != nil {
		return err
	}
	procLogger.Info("Starting tracker server",
		logpkg.Str("http", cfg.HTTPAddr),
		logpkg.Str("projects_dir", cfg.ProjectsDir),
		logpkg.Str("snapshot_backend", cfg.SnapshotBackend),
		logpkg.Int("snapshot_interval_s", cfg.SnapshotIntervalSeconds),
		logpkg.Int("lease_timeout_s", cfg.LeaseTimeoutSeconds),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	m := metrics.New()
	rt, err := runtime.Open(runtime.Options{Config: cfg, Fsync: opts.Fsync, Metrics: m, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()

	reg, err := project.LoadRegistry(sctx, project.RegistryOptions{
		Config:   cfg,
		Stores:   rt.SnapshotStore,
		Observer: m,
		Logger:   procLogger,
	})
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := reg.Close(cctx); err != nil {
			procLogger.Error("final snapshot failed", logpkg.Err(err))
		}
	}()

	l, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	if opts.Ready != nil {
		opts.Ready(l.Addr().String())
	}
	hsrv := httpserver.New(rt, reg, procLogger)

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error { return hsrv.Serve(gctx, l) })
	err = g.Wait()
	hsrv.Close()
	procLogger.Info("tracker server stopping")
	return err
}
