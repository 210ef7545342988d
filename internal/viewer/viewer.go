// Package viewer runs the terrain viewer: window, renderer, input and the
// orientation controller, all driven from one thread.
package viewer

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/assets"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/engine/capture"
	"github.com/Faultbox/terrainview/internal/engine/geometry"
	"github.com/Faultbox/terrainview/internal/engine/input"
	"github.com/Faultbox/terrainview/internal/engine/loop"
	"github.com/Faultbox/terrainview/internal/engine/renderer"
	"github.com/Faultbox/terrainview/internal/engine/window"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/internal/orientation"
	"github.com/Faultbox/terrainview/pkg/math"
)

const windowTitle = "Terrain Viewer"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	assets     *assets.Manager
	controller *orientation.Controller
	shots      *capture.Screenshots

	ticker *loop.Ticker
	redraw loop.RedrawFlag
}

// New creates the window, loads textures, builds the mesh and sets up the
// controller.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Duration("tick", cfg.Controls.TickInterval),
	)

	v := &Viewer{
		cfg:    cfg,
		input:  input.New(),
		assets: assets.NewManager(),
		ticker: loop.NewTicker(cfg.Controls.TickInterval, cfg.Controls.MaxTicksPerFrame),
		shots:  capture.New(cfg.Graphics.ScreenshotDir, "terrain"),
	}

	for _, dir := range cfg.Assets.SearchPaths {
		if err := v.assets.AddPath(dir); err != nil {
			logger.Warn("skipping asset path", zap.String("path", dir), zap.Error(err))
		}
	}

	textures, err := v.loadTextures()
	if err != nil {
		return nil, err
	}

	mesh, err := geometry.BuildCube(cfg.Graphics.Subdivisions)
	if err != nil {
		return nil, fmt.Errorf("building cube: %w", err)
	}
	geometry.SmoothNormals(mesh.Vertices)

	// Window first: the renderer needs its GL context
	v.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		HeightScale: cfg.Graphics.HeightScale,
	}, mesh, textures)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.controller = orientation.New(
		controllerOptions(cfg.Controls),
		v.redraw.Request,
		orientation.WithLogger(logger.Named("orientation")),
	)
	if cfg.Controls.StartAutoRotate {
		v.controller.SetAutoRotate(true)
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) loadTextures() (renderer.Textures, error) {
	a := v.cfg.Assets
	var tex renderer.Textures

	for _, t := range []struct {
		name string
		dst  **image.RGBA
	}{
		{a.Grass, &tex.Grass},
		{a.Rock, &tex.Rock},
		{a.Snow, &tex.Snow},
		{a.Heightmap, &tex.HeightMap},
	} {
		img, err := v.assets.LoadImage(t.name)
		if err != nil {
			return tex, fmt.Errorf("loading texture: %w", err)
		}
		*t.dst = img
		logger.Debug("texture loaded",
			zap.String("name", t.name),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()),
		)
	}

	return tex, nil
}

// controllerOptions maps the configured controls onto the controller's
// defaults.
func controllerOptions(c config.ControlsConfig) orientation.Options {
	opts := orientation.DefaultOptions()
	opts.Friction = c.Friction
	opts.StopThreshold = c.StopThreshold
	opts.KeyStep = c.KeyStep
	opts.AutoRotateSpeed = c.AutoRotateSpeed
	return opts
}

// Run starts the main loop and returns when the window is closed or
// Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	v.redraw.Request()

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		elapsed := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents(v.input.Events())

		for i := v.ticker.Advance(elapsed); i > 0; i-- {
			v.controller.Tick()
		}

		if v.redraw.Take() {
			v.render()
			v.window.SwapBuffers()
			frameCount++
		} else {
			// Nothing to draw; sleep until the next tick is due
			time.Sleep(v.ticker.Until())
		}

		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("frames", frameCount),
				zap.Stringer("mode", v.controller.Mode()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents(events []input.Event) {
	for _, event := range events {
		switch event.Type {
		case input.EventWindowResize:
			width, height := v.window.GetSize()
			v.renderer.Resize(width, height)
			v.redraw.Request()
		case input.EventWindowExposed:
			v.redraw.Request()
		case input.EventKeyDown:
			if event.Escape {
				v.running = false
				return
			}
			if event.Capture {
				v.screenshot()
				continue
			}
			v.controller.HandleKey(event.Key)
		case input.EventMouseDown:
			v.controller.PointerDown(pointer(event))
		case input.EventMouseUp:
			v.controller.PointerUp(pointer(event))
		}
	}
}

func pointer(e input.Event) math.Vec2 {
	return math.Vec2{X: float32(e.MouseX), Y: float32(e.MouseY)}
}

// render draws the current frame.
func (v *Viewer) render() {
	mvp := v.controller.ViewTransform(v.renderer.Projection())
	v.renderer.Draw(mvp)
}

// screenshot draws the current view into the back buffer and saves it.
func (v *Viewer) screenshot() {
	v.render()
	pixels, width, height := v.renderer.ReadPixels()
	v.redraw.Request()

	path, err := v.shots.SavePixels(pixels, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	v.assets.Close()
}
