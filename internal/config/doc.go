// Package config provides loading and environment overlay for tracker server
// configuration, plus the model of per-project config files.
//
// Example:
//
//	cfg, err := config.Load("/etc/tracker.yaml")
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* handle */ }
package config
