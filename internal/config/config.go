// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds projection and mouse control tuning.
type CameraConfig struct {
	FovDegrees float32       `yaml:"fov_degrees"`
	ZoomStep   float32       `yaml:"zoom_step"`   // world units per wheel notch
	PanScale   float32       `yaml:"pan_scale"`   // divided by the viewport height
	OrbitScale float32       `yaml:"orbit_scale"` // radians per pixel, negative drags the scene
	IdleGap    time.Duration `yaml:"idle_gap"`    // pause that starts a new drag
}

// ViewerConfig holds viewer behavior settings.
type ViewerConfig struct {
	Watch         bool   `yaml:"watch"`
	Background    Color  `yaml:"background"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FovDegrees: 45,
			ZoomStep:   1,
			PanScale:   275,
			OrbitScale: -0.0045,
			IdleGap:    100 * time.Millisecond,
		},
		Viewer: ViewerConfig{
			Watch:         false,
			Background:    Color{R: 0.2, G: 0.2, B: 0.2},
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees %v must be in (0, 180)", c.Camera.FovDegrees))
	}
	if c.Camera.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("camera.zoom_step %v must be positive", c.Camera.ZoomStep))
	}
	if c.Camera.IdleGap <= 0 {
		errs = append(errs, fmt.Errorf("camera.idle_gap %v must be positive", c.Camera.IdleGap))
	}
	return errors.Join(errs...)
}
