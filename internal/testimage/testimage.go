// Package testimage generates synthetic RGB-D frames for use as test
// fixtures across the engine's packages, built on disintegration/imaging so
// fixtures are ordinary images rather than bespoke pixel-poking code.
package testimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Frame is a synthetic RGB-D frame: millimeter depth and 8-bit RGB color,
// both row-major, W*H and 3*W*H samples respectively.
type Frame struct {
	Width, Height int
	DepthMM       []uint16
	ColorRGB      []uint8
}

// FlatPlane synthesizes a frame depicting a fronto-parallel plane at
// depthMM millimeters, with a colour gradient across the image so
// color-ICP's photometric term has something to key on.
func FlatPlane(width, height int, depthMM uint16) Frame {
	gradient := imaging.New(width, height, color.White)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8(255 * x / maxInt(width-1, 1))
			g := uint8(255 * y / maxInt(height-1, 1))
			gradient.Set(x, y, color.RGBA{R: r, G: g, B: 128, A: 255})
		}
	}

	depth := make([]uint16, width*height)
	colorBuf := make([]uint8, width*height*3)
	fillFromImage(gradient, depth, colorBuf, depthMM)
	return Frame{Width: width, Height: height, DepthMM: depth, ColorRGB: colorBuf}
}

// FlatPlaneWithHole is FlatPlane but with a rectangular region of missing
// depth returns (0 mm), exercising the RGB-D back-projection's invalid-pixel
// path.
func FlatPlaneWithHole(width, height int, depthMM uint16, holeX0, holeY0, holeX1, holeY1 int) Frame {
	f := FlatPlane(width, height, depthMM)
	for y := holeY0; y < holeY1 && y < height; y++ {
		for x := holeX0; x < holeX1 && x < width; x++ {
			f.DepthMM[y*width+x] = 0
		}
	}
	return f
}

func fillFromImage(img image.Image, depth []uint16, colorBuf []uint8, depthMM uint16) {
	bounds := img.Bounds()
	w := bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			i := y*w + x
			depth[i] = depthMM
			colorBuf[3*i] = uint8(r >> 8)
			colorBuf[3*i+1] = uint8(g >> 8)
			colorBuf[3*i+2] = uint8(b >> 8)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
