// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Controls ControlsConfig `yaml:"controls"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`

	// Subdivisions is the grid resolution of each cube face.
	Subdivisions int `yaml:"subdivisions"`
	// HeightScale is how far the heightmap displaces the surface.
	HeightScale float32 `yaml:"height_scale"`
	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ControlsConfig holds orientation controller settings.
type ControlsConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval"`
	MaxTicksPerFrame int           `yaml:"max_ticks_per_frame"`
	Friction         float32       `yaml:"friction"`
	StopThreshold    float32       `yaml:"stop_threshold"`
	KeyStep          float32       `yaml:"key_step"`
	AutoRotateSpeed  float32       `yaml:"auto_rotate_speed"`
	StartAutoRotate  bool          `yaml:"start_auto_rotate"`
}

// AssetsConfig holds texture locations.
type AssetsConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Directories searched for textures, last wins
	Grass       string   `yaml:"grass"`
	Rock        string   `yaml:"rock"`
	Snow        string   `yaml:"snow"`
	Heightmap   string   `yaml:"heightmap"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:        1280,
			Height:       720,
			Fullscreen:   false,
			VSync:        true,
			Subdivisions: 64,
			HeightScale:  0.25,

			ScreenshotDir: "screenshots",
		},
		Controls: ControlsConfig{
			TickInterval:     12 * time.Millisecond,
			MaxTicksPerFrame: 10,
			Friction:         0.99,
			StopThreshold:    0.01,
			KeyStep:          0.2,
			AutoRotateSpeed:  0.5,
		},
		Assets: AssetsConfig{
			SearchPaths: []string{"assets"},
			Grass:       "grass.png",
			Rock:        "rock.png",
			Snow:        "snowrocks.png",
			Heightmap:   "heightmap-1024x1024.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the settings can drive the viewer.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.Subdivisions < 1:
		return fmt.Errorf("%w: subdivisions %d", ErrInvalid, c.Graphics.Subdivisions)
	case c.Controls.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %v", ErrInvalid, c.Controls.TickInterval)
	case c.Controls.MaxTicksPerFrame < 1:
		return fmt.Errorf("%w: max ticks per frame %d", ErrInvalid, c.Controls.MaxTicksPerFrame)
	case c.Controls.Friction <= 0 || c.Controls.Friction > 1:
		return fmt.Errorf("%w: friction %v not in (0, 1]", ErrInvalid, c.Controls.Friction)
	case c.Controls.StopThreshold < 0:
		return fmt.Errorf("%w: stop threshold %v", ErrInvalid, c.Controls.StopThreshold)
	case c.Controls.AutoRotateSpeed < 0:
		return fmt.Errorf("%w: auto-rotate speed %v", ErrInvalid, c.Controls.AutoRotateSpeed)
	case len(c.Assets.SearchPaths) == 0:
		return fmt.Errorf("%w: no asset search paths", ErrInvalid)
	}
	return nil
}
