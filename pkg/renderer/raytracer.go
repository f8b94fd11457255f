package renderer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-whitted-raytracer/pkg/camera"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Raytracer renders one square image of a scene from a fixed camera frame
type Raytracer struct {
	scene      *scene.Scene
	frame      camera.Frame // copied so later camera moves cannot affect this render
	config     RenderConfig
	integrator *integrator.WhittedIntegrator
	logger     core.Logger

	// viewport geometry, derived once from the frame and config
	topLeft   core.Vec3
	pixelSize float64
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, frame camera.Frame, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	rt := &Raytracer{
		scene:      s,
		frame:      frame,
		config:     config,
		integrator: integrator.NewWhittedIntegrator(s),
		logger:     logger,
	}
	rt.computeViewport()
	return rt, nil
}

// computeViewport places the image plane in front of the eye
func (rt *Raytracer) computeViewport() {
	f := rt.frame
	half := rt.config.WindowSize / 2
	fovY := rt.config.FieldOfView * math.Pi / 180
	distance := half / math.Tan(fovY/2)

	center := f.Eye.Add(f.Look.Multiply(distance))
	rt.topLeft = center.Subtract(f.Right.Multiply(half)).Add(f.Up.Multiply(half))
	rt.pixelSize = rt.config.WindowSize / float64(rt.scene.ImageSize)
}

// PrimaryRay returns the camera ray through the center of pixel (row, col)
func (rt *Raytracer) PrimaryRay(row, col int) core.Ray {
	f := rt.frame
	sample := rt.topLeft.
		Add(f.Right.Multiply((float64(col) + 0.5) * rt.pixelSize)).
		Subtract(f.Up.Multiply((float64(row) + 0.5) * rt.pixelSize))
	return core.NewRay(f.Eye, sample.Subtract(f.Eye))
}

// RenderPixel computes the color of one pixel. The second result reports
// whether the primary ray hit anything.
func (rt *Raytracer) RenderPixel(row, col int) (core.Vec3, bool) {
	ray := rt.PrimaryRay(row, col)
	hit, ok := rt.scene.FindNearest(ray)
	if !ok {
		return core.Vec3{}, false
	}
	return rt.integrator.Shade(ray, hit, rt.scene.MaxDepth), true
}

// renderTile fills the pixels of one tile and returns how many of them hit geometry
func (rt *Raytracer) renderTile(ctx context.Context, tile Tile, buffer *PixelBuffer) (int, error) {
	hits := 0
	for row := tile.Bounds.Min.Y; row < tile.Bounds.Max.Y; row++ {
		if err := ctx.Err(); err != nil {
			return hits, err
		}
		for col := tile.Bounds.Min.X; col < tile.Bounds.Max.X; col++ {
			c, ok := rt.RenderPixel(row, col)
			if ok {
				hits++
			}
			// Tiles never overlap, so each slot has exactly one writer
			buffer.Set(row, col, c)
		}
	}
	return hits, nil
}

// Render traces every pixel in parallel and returns the finished buffer
func (rt *Raytracer) Render(ctx context.Context) (*PixelBuffer, RenderStats, error) {
	size := rt.scene.ImageSize
	buffer := NewPixelBuffer(size, size)
	tiles := NewTileGrid(size, size, rt.config.TileSize)

	workers := rt.config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rt.logger.Printf("Rendering %dx%d at depth %d: %d tiles on %d workers...\n",
		size, size, rt.scene.MaxDepth, len(tiles), workers)

	before := rt.integrator.Stats()
	startTime := time.Now()

	var hitPixels atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tile := range tiles {
		g.Go(func() error {
			hits, err := rt.renderTile(gctx, tile, buffer)
			hitPixels.Add(int64(hits))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("render aborted: %w", err)
	}

	after := rt.integrator.Stats()
	stats := RenderStats{
		TotalPixels: size * size,
		HitPixels:   int(hitPixels.Load()),
		PrimaryRays: int64(size * size),
		Rays: integrator.RayStats{
			ShadowRays:     after.ShadowRays - before.ShadowRays,
			ReflectionRays: after.ReflectionRays - before.ReflectionRays,
			ShadeCalls:     after.ShadeCalls - before.ShadeCalls,
			MaxNesting:     after.MaxNesting,
		},
		Tiles:   len(tiles),
		Workers: workers,
		Elapsed: time.Since(startTime),
	}

	rt.logger.Printf("Render completed in %v (%.1f%% coverage, %d shadow rays, %d reflection rays, nesting %d)\n",
		stats.Elapsed, 100*stats.Coverage(), stats.Rays.ShadowRays, stats.Rays.ReflectionRays, stats.Rays.MaxNesting)

	return buffer, stats, nil
}
