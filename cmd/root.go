package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"mise/internal/config"
	"mise/internal/db"
)

// ParseFlags parses command-line flags and returns the merged configuration.
// Flags win over the environment, .env files, onboarding choices and the
// config file, in that order.
func ParseFlags(version string) (*config.Config, error) {
	var (
		dir         string
		configFile  string
		dbPath      string
		backend     string
		layout      string
		profile     string
		showVersion bool
	)

	defaultDir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}

	flag.StringVar(&dir, "dir", defaultDir, "Data directory for the database, preferences and logs")
	flag.StringVar(&configFile, "config", "", "Path to YAML config file (default: <dir>/config.yaml)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (default: <dir>/mise.db)")
	flag.StringVar(&backend, "store", "", "Store backend: sqlite, postgres or memory")
	flag.StringVar(&layout, "layout", "", "Shopping layout: lists or flat")
	flag.StringVar(&profile, "profile", "", "Preferences profile name")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("mise", version)
		os.Exit(0)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if configFile == "" {
		configFile = filepath.Join(dir, "config.yaml")
	}

	cfg, err := config.Load(dir, configFile, ".env", ".env.local")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := loadOnboardingSettings(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}
	if shouldRunOnboarding(settings) {
		settings, err = runOnboarding(dir, cfg.Shopping)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}
	settings.apply(cfg)

	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if layout != "" {
		if cfg.Shopping.Layout, err = db.ParseLayout(layout); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
