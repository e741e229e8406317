// Package main is the entry point for the scene viewer.
//
// Usage:
//
//	viewer [flags] [model.glb ...]
//
// The first model is loaded and the rest are appended to the same scene.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/config"
	"github.com/Faultbox/scene-viewer/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Scene Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	app.OpenAll(config.Files())

	app.Run()

	logger.Info("viewer closed normally")
}
