package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/camera"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// CameraOptions is the starting camera pose. Right is derived as look × up.
type CameraOptions struct {
	Eye  []float64 `yaml:"eye"`
	Look []float64 `yaml:"look"`
	Up   []float64 `yaml:"up"`
}

// RenderOptions holds everything about a render that is not part of the scene
type RenderOptions struct {
	Camera      CameraOptions `yaml:"camera"`
	FieldOfView float64       `yaml:"fov"`         // degrees
	WindowSize  float64       `yaml:"window_size"` // viewport edge in world units
	TileSize    int           `yaml:"tile_size"`
	Workers     int           `yaml:"workers"` // 0 = number of CPUs
	OutputDir   string        `yaml:"output_dir"`
}

// DefaultRenderOptions returns the viewer's starting pose and viewport
func DefaultRenderOptions() RenderOptions {
	frame := camera.DefaultFrame()
	config := renderer.DefaultRenderConfig()
	return RenderOptions{
		Camera: CameraOptions{
			Eye:  vecToSlice(frame.Eye),
			Look: vecToSlice(frame.Look),
			Up:   vecToSlice(frame.Up),
		},
		FieldOfView: config.FieldOfView,
		WindowSize:  config.WindowSize,
		TileSize:    config.TileSize,
		Workers:     config.NumWorkers,
		OutputDir:   "output",
	}
}

func vecToSlice(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func sliceToVec(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, &ConfigError{Field: field, Err: fmt.Errorf("expected 3 components, got %d", len(values))}
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// ParseRenderOptions decodes YAML options on top of the defaults. Keys
// that are absent keep their default value; unknown keys are an error.
func ParseRenderOptions(reader io.Reader) (RenderOptions, error) {
	opts := DefaultRenderOptions()

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return RenderOptions{}, &ConfigError{Field: "options", Err: err}
	}

	if err := opts.Validate(); err != nil {
		return RenderOptions{}, err
	}
	return opts, nil
}

// LoadRenderOptions reads a YAML options file
func LoadRenderOptions(filename string) (RenderOptions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return RenderOptions{}, fmt.Errorf("failed to read options file: %w", err)
	}
	opts, err := ParseRenderOptions(bytes.NewReader(data))
	if err != nil {
		return RenderOptions{}, fmt.Errorf("%s: %w", filename, err)
	}
	return opts, nil
}

// Validate checks the camera pose and the render settings
func (o RenderOptions) Validate() error {
	if _, err := o.Frame(); err != nil {
		return err
	}
	if err := o.RenderConfig().Validate(); err != nil {
		return &ConfigError{Field: "render", Err: err}
	}
	if o.OutputDir == "" {
		return &ConfigError{Field: "output_dir", Err: errors.New("must not be empty")}
	}
	return nil
}

// Frame builds the camera frame described by the options
func (o RenderOptions) Frame() (camera.Frame, error) {
	eye, err := sliceToVec("camera.eye", o.Camera.Eye)
	if err != nil {
		return camera.Frame{}, err
	}
	look, err := sliceToVec("camera.look", o.Camera.Look)
	if err != nil {
		return camera.Frame{}, err
	}
	up, err := sliceToVec("camera.up", o.Camera.Up)
	if err != nil {
		return camera.Frame{}, err
	}
	frame, err := camera.NewFrame(eye, look, up)
	if err != nil {
		return camera.Frame{}, &ConfigError{Field: "camera", Err: err}
	}
	return frame, nil
}

// RenderConfig returns the renderer settings carried by the options
func (o RenderOptions) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		FieldOfView: o.FieldOfView,
		WindowSize:  o.WindowSize,
		TileSize:    o.TileSize,
		NumWorkers:  o.Workers,
	}
}
