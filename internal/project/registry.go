package project

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/snapshot"
	"github.com/rzbill/tracker/pkg/log"
)

const maxConcurrentOpens = 8

// RegistryOptions configures LoadRegistry.
type RegistryOptions struct {
	Config config.Config
	// Stores returns the snapshot store for a project; required.
	Stores   func(*config.ProjectFile) snapshot.Store
	Observer Observer
	Logger   log.Logger
	Clock    func() time.Time
}

// Registry is the fixed set of projects served by this process.
type Registry struct {
	projects map[string]*Project
	names    []string
}

// LoadRegistry opens every project config found in the projects directory.
// A project that fails to open is logged and left out.
func LoadRegistry(ctx context.Context, opts RegistryOptions) (*Registry, error) {
	if opts.Stores == nil {
		return nil, errors.New("project: RegistryOptions.Stores is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	logger := opts.Logger.WithComponent("registry")

	paths, err := config.ListProjectFiles(opts.Config.ProjectsDir)
	if err != nil {
		return nil, fmt.Errorf("scan projects dir: %w", err)
	}

	opened := make([]*Project, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOpens)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := openFromFile(gctx, path, opts)
			if err != nil {
				logger.Error("project excluded", log.Str("file", path), log.Err(err))
				return nil
			}
			opened[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		closeAll(context.Background(), opened)
		return nil, err
	}

	r := &Registry{projects: make(map[string]*Project)}
	for i, p := range opened {
		if p == nil {
			continue
		}
		if _, dup := r.projects[p.Name()]; dup {
			logger.Error("project excluded: duplicate name",
				log.Str("file", paths[i]), log.Str("project", p.Name()))
			_ = p.Close(context.Background())
			continue
		}
		r.projects[p.Name()] = p
		r.names = append(r.names, p.Name())
	}
	sort.Strings(r.names)
	logger.Info("projects loaded", log.Int("count", len(r.names)), log.Int("configs", len(paths)))
	return r, nil
}

func openFromFile(ctx context.Context, path string, opts RegistryOptions) (*Project, error) {
	pf, err := config.LoadProjectFile(path)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	return Open(ctx, Options{
		File:                 pf,
		ProjectsDir:          cfg.ProjectsDir,
		Store:                opts.Stores(pf),
		SnapshotInterval:     cfg.SnapshotInterval(),
		RestoreQueueSnapshot: cfg.RestoreQueueSnapshot,
		LeaseTimeout:         cfg.LeaseTimeout(),
		SweepInterval:        cfg.SweepInterval(),
		Observer:             opts.Observer,
		Logger:               opts.Logger,
		Clock:                opts.Clock,
	})
}

// NewRegistry builds a registry from already opened projects.
func NewRegistry(projects ...*Project) *Registry {
	r := &Registry{projects: make(map[string]*Project, len(projects))}
	for _, p := range projects {
		r.projects[p.Name()] = p
		r.names = append(r.names, p.Name())
	}
	sort.Strings(r.names)
	return r
}

// Get returns the project called name.
func (r *Registry) Get(name string) (*Project, error) {
	p, ok := r.projects[name]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Names lists project names in order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Close closes every project, saving a final snapshot for each.
func (r *Registry) Close(ctx context.Context) error {
	ps := make([]*Project, 0, len(r.names))
	for _, name := range r.names {
		ps = append(ps, r.projects[name])
	}
	return closeAll(ctx, ps)
}

func closeAll(ctx context.Context, ps []*Project) error {
	var errs []error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
