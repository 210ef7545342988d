// Package main is the entry point for the terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	// run owns every deferred cleanup, so the logger is flushed only after
	// the viewer has closed and before the process exits.
	os.Exit(logger.Finish("viewer failed", run(cfg)))
}

func run(cfg *config.Config) error {
	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("config saved", zap.String("path", path))
		return nil
	}

	logger.Info("=== Terrain Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		return fmt.Errorf("creating viewer: %w", err)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}

	logger.Info("viewer closed normally")
	return nil
}
