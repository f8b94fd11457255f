package renderer

import "fmt"

// RenderConfig contains the viewport and scheduling configuration
type RenderConfig struct {
	FieldOfView float64 // Vertical field of view in degrees
	WindowSize  float64 // Edge length of the viewport in world units
	TileSize    int     // Size of each tile (64x64 recommended)
	NumWorkers  int     // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns the settings of the interactive viewer
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		FieldOfView: 80,
		WindowSize:  500,
		TileSize:    64,
		NumWorkers:  0,
	}
}

// Validate checks the configuration for values the renderer cannot use
func (c RenderConfig) Validate() error {
	if c.FieldOfView <= 0 || c.FieldOfView >= 180 {
		return fmt.Errorf("field of view %g must be in (0, 180) degrees", c.FieldOfView)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size %g must be positive", c.WindowSize)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size %d must be positive", c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count %d must not be negative", c.NumWorkers)
	}
	return nil
}
