package main

import (
	"fmt"
	"os"
	"path/filepath"

	"mise/cmd"
	"mise/internal/logger"
	"mise/internal/media"
	"mise/internal/prefs"
	"mise/internal/ui"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	cfg, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Environment, cfg.Log.Level, cfg.Log.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.Info("starting mise",
		zap.String("version", version),
		zap.String("store", cfg.Store.Backend),
		zap.String("layout", cfg.Shopping.Layout))

	// Open store
	st, err := cfg.OpenStore()
	if err != nil {
		logger.Error("failed to open store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	svc := workflow.New(st, logger.Get())
	svc.Timeout = cfg.Store.Timeout

	// Preferences follow the profile through Redis when configured
	var prefStore prefs.Store = prefs.NewFileStore(filepath.Join(cfg.Dir, cfg.Profile))
	if cfg.Redis.Addr != "" {
		rs, err := prefs.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Profile)
		if err != nil {
			logger.Warn("redis unavailable, keeping preferences on disk", zap.Error(err))
			fmt.Fprintln(os.Stderr, "ℹ  Redis unavailable, preferences stay local")
		} else {
			defer rs.Close()
			prefStore = rs
		}
	}

	opts := ui.Options{
		Layout:      cfg.Shopping.Layout,
		DefaultList: cfg.Shopping.DefaultList,
		ImageWidth:  cfg.Images.Width,
		Prefs:       prefStore,
	}
	if cfg.Images.Enabled {
		opts.Images = media.NewLoader(cfg.Images.Timeout)
	}

	// Create and run Bubble Tea app
	p := tea.NewProgram(ui.New(svc, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("app exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
