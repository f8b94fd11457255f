package renderer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/camera"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func lookingDown(t *testing.T, height float64) camera.Frame {
	t.Helper()
	frame, err := camera.NewFrame(core.NewVec3(0, 0, height), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("Failed to build camera frame: %v", err)
	}
	return frame
}

func newTestRaytracer(t *testing.T, s *scene.Scene, frame camera.Frame, config RenderConfig) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(s, frame, config, nil)
	if err != nil {
		t.Fatalf("Failed to create raytracer: %v", err)
	}
	return rt
}

func singleSphereScene(depth int) *scene.Scene {
	s := scene.New(depth, 51)
	mat := material.New(core.NewVec3(1, 0, 0), material.Reflectance{Ambient: 0.2, Diffuse: 0.3, Specular: 0.2, Recursive: 0.1}, 10)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, mat))
	s.AddLight(core.NewVec3(0, 0, 50), core.NewVec3(1, 1, 1))
	s.AddDefaultFloor()
	return s
}

// Depth 0 disables only the reflection term. Local Phong shading still runs,
// so the non-reflective sphere has the same center color at depth 0 and 1.
// See "Depth 0" under the open question decisions in DESIGN.md.
func TestRender_SingleSphereCenterPixel(t *testing.T) {
	for _, depth := range []int{0, 1} {
		s := singleSphereScene(depth)
		rt := newTestRaytracer(t, s, lookingDown(t, 50), DefaultRenderConfig())

		buffer, stats, err := rt.Render(context.Background())
		if err != nil {
			t.Fatalf("depth %d: render failed: %v", depth, err)
		}

		center := buffer.At(25, 25)
		expected := core.NewVec3(0.7, 0.2, 0.2)
		if center.Subtract(expected).Length() > 1e-6 {
			t.Errorf("depth %d: expected center pixel %v, got %v", depth, expected, center)
		}
		if stats.PrimaryRays != 51*51 || stats.TotalPixels != 51*51 {
			t.Errorf("depth %d: unexpected ray count %+v", depth, stats)
		}
		if depth == 0 && stats.Rays.ReflectionRays != 0 {
			t.Errorf("depth 0 should trace no reflection rays, got %d", stats.Rays.ReflectionRays)
		}
	}
}

func TestRender_FloorCheckerboard(t *testing.T) {
	s := scene.New(0, 64)
	s.AddDefaultFloor()
	floor := s.Primitives[0].(*geometry.Floor)

	rt := newTestRaytracer(t, s, lookingDown(t, 100), DefaultRenderConfig())
	buffer, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// No lights: white tiles show only the 0.5 ambient term, black tiles nothing
	seenWhite, seenBlack := false, false
	for row := 0; row < 64; row++ {
		for col := 0; col < 64; col++ {
			ray := rt.PrimaryRay(row, col)
			p := ray.At(-ray.Origin.Z / ray.Direction.Z)

			// skip samples that straddle a tile boundary
			fx := (p.X - floor.Reference.X) / floor.TileWidth
			fy := (p.Y - floor.Reference.Y) / floor.TileWidth
			if math.Abs(fx-math.Round(fx)) < 1e-6 || math.Abs(fy-math.Round(fy)) < 1e-6 {
				continue
			}

			i, j := int(math.Floor(fx)), int(math.Floor(fy))
			expected := 0.0
			if (i+j)%2 == 0 {
				expected = 0.5
				seenWhite = true
			} else {
				seenBlack = true
			}

			got := buffer.At(row, col)
			if math.Abs(got.X-expected) > 1e-9 || got.X != got.Y || got.Y != got.Z {
				t.Fatalf("pixel (%d,%d) over tile (%d,%d): expected gray %f, got %v", row, col, i, j, expected, got)
			}
		}
	}
	if !seenWhite || !seenBlack {
		t.Errorf("Expected both tile colors in view (white=%v black=%v)", seenWhite, seenBlack)
	}
}

func TestRender_BackgroundIsBlack(t *testing.T) {
	s := scene.New(2, 16)
	frame, err := camera.NewFrame(core.NewVec3(0, 0, 50), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	s.AddDefaultFloor()

	rt := newTestRaytracer(t, s, frame, DefaultRenderConfig())
	buffer, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, p := range buffer.Pixels {
		if !p.IsZero() {
			t.Fatalf("Expected black background at pixel %d, got %v", i, p)
		}
	}
	if stats.HitPixels != 0 {
		t.Errorf("Expected no hit pixels looking at the sky, got %d", stats.HitPixels)
	}
}

func TestRender_ChannelsWithinUnitRange(t *testing.T) {
	s := scene.NewDefaultScene()
	s.ImageSize = 48

	config := DefaultRenderConfig()
	config.TileSize = 16
	rt := newTestRaytracer(t, s, camera.DefaultFrame(), config)

	buffer, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, p := range buffer.Pixels {
		for _, channel := range []float64{p.X, p.Y, p.Z} {
			if channel < 0 || channel > 1 {
				t.Fatalf("Pixel %d has channel %f outside [0,1]", i, channel)
			}
		}
	}
	if stats.Tiles != 9 {
		t.Errorf("Expected 9 tiles, got %d", stats.Tiles)
	}
	if stats.HitPixels == 0 {
		t.Error("Expected the default view to see some geometry")
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	s := scene.NewDefaultScene()
	s.ImageSize = 40

	render := func(workers, tileSize int) *PixelBuffer {
		config := DefaultRenderConfig()
		config.NumWorkers = workers
		config.TileSize = tileSize
		buffer, _, err := newTestRaytracer(t, s, camera.DefaultFrame(), config).Render(context.Background())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return buffer
	}

	sequential := render(1, 40)
	parallel := render(4, 7)
	for i := range sequential.Pixels {
		if sequential.Pixels[i] != parallel.Pixels[i] {
			t.Fatalf("Pixel %d differs: %v vs %v", i, sequential.Pixels[i], parallel.Pixels[i])
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	s := singleSphereScene(1)
	rt := newTestRaytracer(t, s, lookingDown(t, 50), DefaultRenderConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := rt.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPrimaryRay_CenterAndCorners(t *testing.T) {
	s := singleSphereScene(0)
	rt := newTestRaytracer(t, s, lookingDown(t, 50), DefaultRenderConfig())

	center := rt.PrimaryRay(25, 25)
	if center.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected center ray straight down, got %v", center.Direction)
	}

	// Row 0 is the top of the image (+up), column 0 the left (-right)
	topLeft := rt.PrimaryRay(0, 0).Direction
	if topLeft.Y <= 0 || topLeft.X >= 0 {
		t.Errorf("Expected top-left ray toward +y/-x, got %v", topLeft)
	}

	// The corner ray leaves at half the diagonal field of view
	half := DefaultRenderConfig().FieldOfView / 2 * math.Pi / 180
	edge := rt.PrimaryRay(25, 50).Direction
	angle := math.Acos(-edge.Z)
	expected := math.Atan(math.Tan(half) * (50.5 - 25.5) / 25.5)
	if math.Abs(angle-expected) > 1e-9 {
		t.Errorf("Expected edge ray angle %f, got %f", expected, angle)
	}
}

func TestRaytracer_FrameIsCopied(t *testing.T) {
	frame := lookingDown(t, 50)
	rt := newTestRaytracer(t, singleSphereScene(0), frame, DefaultRenderConfig())
	before := rt.PrimaryRay(3, 7)

	frame.LookLeft(0.5)
	frame.MoveForward(10)

	if after := rt.PrimaryRay(3, 7); after != before {
		t.Errorf("Camera changes leaked into an existing raytracer: %v vs %v", before, after)
	}
}

func TestNewRaytracer_RejectsBadInput(t *testing.T) {
	config := DefaultRenderConfig()
	config.FieldOfView = 0
	if _, err := NewRaytracer(singleSphereScene(0), lookingDown(t, 50), config, nil); err == nil {
		t.Error("Expected error for zero field of view")
	}

	s := singleSphereScene(0)
	s.ImageSize = 0
	if _, err := NewRaytracer(s, lookingDown(t, 50), DefaultRenderConfig(), nil); err == nil {
		t.Error("Expected error for zero image size")
	}
}
