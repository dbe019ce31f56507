package device

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BoundingBox is the axis-aligned bounding box cached on every point cloud,
// recomputed whenever points are added, removed, or transformed.
type BoundingBox struct {
	Min, Max Vec3
}

// Diagonal returns the vector from Min to Max.
func (b BoundingBox) Diagonal() Vec3 {
	return b.Max.Sub(b.Min)
}

// Empty reports whether the box has never absorbed a point.
func (b BoundingBox) Empty() bool {
	return b.Min.X > b.Max.X
}

// EmptyBoundingBox returns a box with Min > Max, the sentinel for "no points
// yet" that Empty reports.
func EmptyBoundingBox() BoundingBox {
	inf := float32(math.Inf(1))
	return BoundingBox{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// ReduceBoundingBox computes the bounding box of points by a column-wise
// min/max reduction (run sequentially here), standing in for the GPU-parallel reduction
// a device-resident implementation would use. The three coordinate columns
// are reduced independently via gonum/floats so the reduction order — and
// therefore floating point rounding — is fixed given the same input.
func ReduceBoundingBox(points []Vec3) BoundingBox {
	if len(points) == 0 {
		return EmptyBoundingBox()
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = float64(p.X), float64(p.Y), float64(p.Z)
	}
	return BoundingBox{
		Min: Vec3{float32(floats.Min(xs)), float32(floats.Min(ys)), float32(floats.Min(zs))},
		Max: Vec3{float32(floats.Max(xs)), float32(floats.Max(ys)), float32(floats.Max(zs))},
	}
}
