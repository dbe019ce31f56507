package device

import "github.com/lucasb-eyer/go-colorful"

// RGB is a point's colour, each channel in [0,1].
type RGB struct {
	R, G, B float32
}

// Intensity derives the scalar luma used as color-ICP's photometric term:
// 0.2126*r + 0.7152*g + 0.0722*b. These are the Rec. 709 relative-luminance
// coefficients, carried over verbatim from the CUDA original's
// color3::to_intensity.
func Intensity(c RGB) float32 {
	const (
		wR = 0.2126
		wG = 0.7152
		wB = 0.0722
	)
	return wR*c.R + wG*c.G + wB*c.B
}

// Colorful converts c to a github.com/lucasb-eyer/go-colorful Color, giving
// access to perceptually uniform colorspaces (Lab/Luv) for any future
// colour-aware distance metric without the engine having to reimplement
// colourspace math.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// RGBFromColorful narrows a colorful.Color back to single-precision RGB,
// clamped to [0,1].
func RGBFromColorful(c colorful.Color) RGB {
	clamp := func(v float64) float32 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return float32(v)
	}
	return RGB{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B)}
}

// Lerp linearly interpolates between a and b colours in RGB space, used by
// the voxel accumulator to average contributor colours incrementally.
func (c RGB) Lerp(o RGB, t float32) RGB {
	return RGB{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
	}
}
