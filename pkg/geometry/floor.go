package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Floor is the z = 0 plane clipped to a square board centered on the
// origin and tiled as a checkerboard
type Floor struct {
	base
	BoardWidth float64 // full edge length of the board
	TileWidth  float64
	tiles      *material.Checkerboard
}

// NewFloor creates a floor of the given board and tile width. The
// reference point is the board's minimum corner.
func NewFloor(boardWidth, tileWidth float64, mat material.Material) *Floor {
	corner := core.NewVec3(-boardWidth/2, -boardWidth/2, 0)
	return &Floor{
		base:       base{Reference: corner, Material: mat},
		BoardWidth: boardWidth,
		TileWidth:  tileWidth,
		tiles: material.NewCheckerboard(corner, tileWidth,
			core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)),
	}
}

// HalfWidth returns the half-extent of the board
func (f *Floor) HalfWidth() float64 {
	return f.BoardWidth / 2
}

// Hit intersects the ray with the infinite plane, then discards hits that
// land outside the board
func (f *Floor) Hit(ray core.Ray) (float64, bool) {
	if ray.Direction.Z == 0 {
		return 0, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if t <= 0 {
		return 0, false
	}

	if !f.Contains(ray.At(t)) {
		return 0, false
	}
	return t, true
}

// Contains reports whether a point on the plane lies within the board
func (f *Floor) Contains(point core.Vec3) bool {
	minX, minY := f.Reference.X, f.Reference.Y
	maxX, maxY := minX+f.BoardWidth, minY+f.BoardWidth
	return point.X >= minX && point.X <= maxX && point.Y >= minY && point.Y <= maxY
}

// NormalAt returns +Z everywhere
func (f *Floor) NormalAt(point core.Vec3, ray core.Ray) core.Vec3 {
	return core.NewVec3(0, 0, 1)
}

// ColorAt returns the checkerboard tint of the tile under point
func (f *Floor) ColorAt(point core.Vec3) core.Vec3 {
	return f.tiles.Evaluate(point)
}

// TileIndex returns the tile coordinates of point relative to the board corner
func (f *Floor) TileIndex(point core.Vec3) (int, int) {
	return f.tiles.TileIndex(point)
}

// Kind implements Primitive
func (f *Floor) Kind() Kind {
	return KindFloor
}

func (f *Floor) String() string {
	return fmt.Sprintf("floor board %g tile %g corner %v %v", f.BoardWidth, f.TileWidth, f.Reference, f.Material)
}
