package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Checkerboard alternates two colors over square tiles in the XY plane.
// Tile (0, 0) starts at Origin and takes the Even color.
type Checkerboard struct {
	Origin   core.Vec3
	TileSize float64
	Even     core.Vec3
	Odd      core.Vec3
}

// NewCheckerboard creates a procedural checkerboard color source
func NewCheckerboard(origin core.Vec3, tileSize float64, even, odd core.Vec3) *Checkerboard {
	return &Checkerboard{
		Origin:   origin,
		TileSize: tileSize,
		Even:     even,
		Odd:      odd,
	}
}

// TileIndex returns the integer tile coordinates containing point
func (c *Checkerboard) TileIndex(point core.Vec3) (int, int) {
	i := int(math.Floor((point.X - c.Origin.X) / c.TileSize))
	j := int(math.Floor((point.Y - c.Origin.Y) / c.TileSize))
	return i, j
}

// Evaluate returns the tint of the tile containing point
func (c *Checkerboard) Evaluate(point core.Vec3) core.Vec3 {
	i, j := c.TileIndex(point)
	// parity must also hold for negative indices
	if (i+j)%2 == 0 {
		return c.Even
	}
	return c.Odd
}
