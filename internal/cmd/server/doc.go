// Package serverrun exposes the Run entrypoint used by the CLI to load every
// project, serve HTTP and shut down with a final snapshot per project.
//
// Example:
//
//	cfg, _ := serverrun.LoadConfig("tracker.yaml", nil)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, serverrun.Options{Config: cfg})
package serverrun
