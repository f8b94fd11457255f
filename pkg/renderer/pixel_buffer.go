package renderer

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelBuffer is a row-major grid of RGB colors in [0,1]
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewPixelBuffer creates a black buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at (row, col)
func (b *PixelBuffer) At(row, col int) core.Vec3 {
	return b.Pixels[row*b.Width+col]
}

// Set stores the color at (row, col)
func (b *PixelBuffer) Set(row, col int, c core.Vec3) {
	b.Pixels[row*b.Width+col] = c
}

// vec3ToColor converts a Vec3 color to RGBA with clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// ToRGBA converts the buffer to an 8-bit image
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			img.SetRGBA(col, row, vec3ToColor(b.At(row, col)))
		}
	}
	return img
}

// SavePNG writes the buffer to a PNG file
func (b *PixelBuffer) SavePNG(path string) error {
	return gg.SavePNG(path, b.ToRGBA())
}

// EncodePNG writes the buffer as PNG to w
func (b *PixelBuffer) EncodePNG(w io.Writer) error {
	return gg.NewContextForRGBA(b.ToRGBA()).EncodePNG(w)
}
