package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/tracker/internal/cmd/client"
	serverrun "github.com/rzbill/tracker/internal/cmd/server"
	cfgpkg "github.com/rzbill/tracker/internal/config"
	pebblestore "github.com/rzbill/tracker/internal/storage/pebble"
	logpkg "github.com/rzbill/tracker/pkg/log"
)

func main() {
	rootCmd := clientcmd.NewRoot(apiURL)
	rootCmd.Short = "Tracker CLI"
	rootCmd.Long = "Tracker hands out work items to distributed workers and keeps a per-user leaderboard. This CLI runs the server and talks to it."

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServerCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCommand() *cobra.Command {
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the tracker HTTP server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			logFile, _ := cmd.Flags().GetString("log-file")

			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			// Flags override the config file and the environment only when set.
			cfg, err := serverrun.LoadConfig(configPath, func(c *cfgpkg.Config) {
				flags := cmd.Flags()
				if flags.Changed("projects-dir") {
					c.ProjectsDir, _ = flags.GetString("projects-dir")
				}
				if flags.Changed("data-dir") {
					c.DataDir, _ = flags.GetString("data-dir")
				}
				if flags.Changed("http") {
					c.HTTPAddr, _ = flags.GetString("http")
				}
				if flags.Changed("snapshot-backend") {
					c.SnapshotBackend, _ = flags.GetString("snapshot-backend")
				}
				if flags.Changed("restore-queue") {
					c.RestoreQueueSnapshot, _ = flags.GetBool("restore-queue")
				}
			})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				Config: cfg,
				Fsync:  mode,
				Log:    logpkg.Config{Level: logLevel, Format: logFormat, File: logFile},
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	flags := serverStartCmd.Flags()
	flags.StringP("config", "c", os.Getenv("TRACKER_CONFIG"), "Config file (.json, .yaml or .yml)")
	flags.String("projects-dir", "", "Directory holding project configs and items folders")
	flags.String("data-dir", "", "Pebble directory for --snapshot-backend=pebble (default OS data dir)")
	flags.String("http", "", "HTTP listen address (default :8080)")
	flags.String("snapshot-backend", "", "Snapshot backend: file|pebble")
	flags.Bool("restore-queue", false, "Restore the queue snapshot at startup")
	flags.String("fsync", "always", "Pebble fsync mode: always|interval|never")
	flags.String("log-level", os.Getenv("TRACKER_LOG_LEVEL"), "Log level: debug|info|warn|error")
	flags.String("log-format", os.Getenv("TRACKER_LOG_FORMAT"), "Log format: text|json (default text)")
	flags.String("log-file", "", "Also write logs to this file")
	serverCmd.AddCommand(serverStartCmd)
	return serverCmd
}

// newInitCommand scaffolds a project config and its items folder.
func newInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init NAME",
		Short: "Create a project config and items folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("projects-dir")
			folder, _ := cmd.Flags().GetString("items-folder")
			pf, err := cfgpkg.NewProjectFile(dir, args[0], folder)
			if err != nil {
				return err
			}
			if _, err := os.Stat(pf.Path()); err == nil {
				return fmt.Errorf("project config %s already exists", pf.Path())
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Join(dir, pf.Meta.ItemsFolder), 0o755); err != nil {
				return err
			}
			if err := pf.Save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "created", pf.Path())
			return nil
		},
	}
	initCmd.Flags().String("projects-dir", envDefault("TRACKER_PROJECTS_DIR", "projects"), "Projects directory")
	initCmd.Flags().String("items-folder", "", "Items folder relative to the projects directory (default NAME)")
	return initCmd
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func apiURL() string {
	if v := os.Getenv("TRACKER_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
