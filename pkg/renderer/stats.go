package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about one render
type RenderStats struct {
	TotalPixels int                 // Total number of pixels rendered
	HitPixels   int                 // Pixels whose primary ray hit a primitive
	PrimaryRays int64               // One per pixel
	Rays        integrator.RayStats // Secondary rays traced by the integrator
	Tiles       int                 // Number of tiles scheduled
	Workers     int                 // Maximum concurrent tiles
	Elapsed     time.Duration       // Wall-clock render time
}

// Coverage returns the fraction of pixels that show geometry
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
