package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/camera"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// cameraCommand applies one control event to the frame. amount is an
// angle in radians for rotations and a distance for moves.
type cameraCommand struct {
	apply         func(f *camera.Frame, amount float64)
	defaultAmount float64
}

var cameraCommands = map[string]cameraCommand{
	"look-left":  {func(f *camera.Frame, a float64) { f.LookLeft(a) }, camera.RotationStep},
	"look-right": {func(f *camera.Frame, a float64) { f.LookRight(a) }, camera.RotationStep},
	"look-up":    {func(f *camera.Frame, a float64) { f.LookUp(a) }, camera.RotationStep},
	"look-down":  {func(f *camera.Frame, a float64) { f.LookDown(a) }, camera.RotationStep},
	"tilt-cw":    {func(f *camera.Frame, a float64) { f.TiltClockwise(a) }, camera.RotationStep},
	"tilt-ccw":   {func(f *camera.Frame, a float64) { f.TiltAnticlockwise(a) }, camera.RotationStep},
	"forward":    {func(f *camera.Frame, a float64) { f.MoveForward(a) }, camera.MoveStep},
	"backward":   {func(f *camera.Frame, a float64) { f.MoveForward(-a) }, camera.MoveStep},
	"right":      {func(f *camera.Frame, a float64) { f.MoveRight(a) }, camera.MoveStep},
	"left":       {func(f *camera.Frame, a float64) { f.MoveRight(-a) }, camera.MoveStep},
	"up":         {func(f *camera.Frame, a float64) { f.MoveUp(a) }, camera.MoveStep},
	"down":       {func(f *camera.Frame, a float64) { f.MoveUp(-a) }, camera.MoveStep},
}

// CameraCommands returns the names of the supported camera commands
func CameraCommands() []string {
	names := make([]string, 0, len(cameraCommands))
	for name := range cameraCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session owns the scene and the live camera frame. Renders and camera
// mutations are serialized: a command waits for any in-flight render to
// finish before it touches the frame.
type Session struct {
	mu        sync.Mutex
	scene     *scene.Scene
	sceneName string
	frame     camera.Frame
	config    renderer.RenderConfig
	outputDir string
}

// NewSession creates a session for an immutable scene
func NewSession(s *scene.Scene, sceneName string, frame camera.Frame, config renderer.RenderConfig, outputDir string) (*Session, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	return &Session{
		scene:     s,
		sceneName: sceneName,
		frame:     frame,
		config:    config,
		outputDir: outputDir,
	}, nil
}

// Frame returns a copy of the current camera frame
func (s *Session) Frame() camera.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Scene returns the session's scene
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// Apply runs a camera command. An amount of 0 uses the command's default
// step.
func (s *Session) Apply(command string, amount float64) (camera.Frame, error) {
	cmd, ok := cameraCommands[command]
	if !ok {
		return camera.Frame{}, fmt.Errorf("unknown camera command %q", command)
	}
	if amount == 0 {
		amount = cmd.defaultAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cmd.apply(&s.frame, amount)
	return s.frame, nil
}

// Render traces the scene from the current frame and returns the frame it
// used. imageSize and maxDepth override the scene's values when positive
// and non-negative respectively.
func (s *Session) Render(ctx context.Context, imageSize, maxDepth int, logger core.Logger) (*renderer.PixelBuffer, renderer.RenderStats, camera.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.scene
	if (imageSize > 0 && imageSize != sc.ImageSize) || (maxDepth >= 0 && maxDepth != sc.MaxDepth) {
		// Shallow copy: primitives and lights are shared read-only
		preview := *sc
		if imageSize > 0 {
			preview.ImageSize = imageSize
		}
		if maxDepth >= 0 {
			preview.MaxDepth = maxDepth
		}
		sc = &preview
	}

	rt, err := renderer.NewRaytracer(sc, s.frame, s.config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, camera.Frame{}, err
	}
	buffer, stats, err := rt.Render(ctx)
	return buffer, stats, s.frame, err
}

// Capture renders at full size and saves the image to
// <outputDir>/<scene>/render_<timestamp>.png
func (s *Session) Capture(ctx context.Context, logger core.Logger) (string, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	buffer, _, _, err := s.Render(ctx, 0, -1, logger)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.outputDir, s.sceneName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405.000")
	filename := filepath.Join(dir, fmt.Sprintf("render_%s.png", timestamp))
	if err := buffer.SavePNG(filename); err != nil {
		return "", fmt.Errorf("error saving PNG: %w", err)
	}
	logger.Printf("Capture saved as %s\n", filename)
	return filename, nil
}

// Raytracer builds a raytracer for the current frame without rendering
func (s *Session) Raytracer() (*renderer.Raytracer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return renderer.NewRaytracer(s.scene, s.frame, s.config, nil)
}
