// Package log provides the tracker's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Records are routed through log/slog via
// a bridge handler that hands them to a Formatter and one or more Outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("http"), log.Str("project", "books"))
//	l.Info("item claimed", log.Uint64("id", 42))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text or JSON
// format, optional log file).
//
// # Interop
//
// RedirectStdLog routes the standard library logger (used by Pebble) through
// a Logger so all process output shares one format.
package log
