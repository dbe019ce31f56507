package pointcloud

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
)

// Intrinsics is the pinhole camera model the frame source reports alongside
// every frame: focal lengths, principal point, and image dimensions.
type Intrinsics struct {
	Fx, Fy float64
	Cx, Cy float64
	Width  int
	Height int
}

// CheckValid reports whether the intrinsics are usable.
func (in Intrinsics) CheckValid() error {
	if in.Width <= 0 || in.Height <= 0 {
		return pcerr.InvalidArgument("invalid image size (%d, %d)", in.Width, in.Height)
	}
	if in.Fx <= 0 || in.Fy <= 0 {
		return pcerr.InvalidArgument("invalid focal length (fx=%v, fy=%v)", in.Fx, in.Fy)
	}
	return nil
}

// PixelToPoint back-projects a pixel (u, v) with depth z (already in
// meters) to a camera-frame 3D point.
func (in Intrinsics) PixelToPoint(u, v, z float64) device.Vec3 {
	x := (u - in.Cx) / in.Fx * z
	y := (v - in.Cy) / in.Fy * z
	return device.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

// CreateFromRGBD back-projects an RGB-D frame into a point cloud. depth is
// W*H millimeter depth samples in row-major (u fastest) order; color is
// 3*W*H interleaved RGB bytes in the same pixel order. zMin/zMax bound the
// accepted depth range in meters.
//
// A depth value of 0 is the sensor's "no return" sentinel and, like a
// depth outside [zMin, zMax], yields a point with Property Invalid rather
// than being dropped from the array — this keeps point index aligned with
// pixel index (u + v*Width), which callers that want to re-project onto
// the image plane rely on, while Queryable() still excludes it from every
// spatial operation.
func CreateFromRGBD(
	depthMM []uint16,
	colorRGB []uint8,
	intrinsics Intrinsics,
	zMin, zMax float32,
) (*Cloud, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	n := intrinsics.Width * intrinsics.Height
	if len(depthMM) != n {
		return nil, pcerr.InvalidArgument("depth buffer has %d samples, want %d", len(depthMM), n)
	}
	if len(colorRGB) != n*3 {
		return nil, pcerr.InvalidArgument("color buffer has %d bytes, want %d", len(colorRGB), n*3)
	}
	if zMin < 0 || zMax < zMin {
		return nil, pcerr.InvalidArgument("invalid depth range [%v, %v]", zMin, zMax)
	}

	points := make([]Point, n)
	for v := 0; v < intrinsics.Height; v++ {
		for u := 0; u < intrinsics.Width; u++ {
			i := v*intrinsics.Width + u
			depth := depthMM[i]
			c := device.RGB{
				R: float32(colorRGB[3*i]) / 255,
				G: float32(colorRGB[3*i+1]) / 255,
				B: float32(colorRGB[3*i+2]) / 255,
			}
			if depth == 0 {
				points[i] = Point{Color: c, Property: Invalid}
				continue
			}
			z := float32(depth) / 1000
			if z < zMin || z > zMax {
				points[i] = Point{Color: c, Property: Invalid}
				continue
			}
			pos := intrinsics.PixelToPoint(float64(u), float64(v), float64(z))
			points[i] = Point{Position: pos, Color: c, Property: Active}
		}
	}
	return NewFromHost(points), nil
}
