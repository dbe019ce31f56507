package device

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 is a single-precision 3-vector, the wire shape of a point's xyz
// coordinates. Host-side geometric math that needs double precision
// converts through ToR3/FromR3.
type Vec3 struct {
	X, Y, Z float32
}

// ToR3 widens v to a double-precision github.com/golang/geo/r3.Vector for
// use with the rest of the geometry stack.
func (v Vec3) ToR3() r3.Vector {
	return r3.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// FromR3 narrows a r3.Vector to single precision.
func FromR3(v r3.Vector) Vec3 {
	return Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length, or the zero vector if v is
// (numerically) the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// DistanceSquared returns the squared Euclidean distance between v and o,
// the quantity every radius query in spatialindex compares against r*r to
// avoid a square root on the hot path.
func DistanceSquared(v, o Vec3) float32 {
	d := v.Sub(o)
	return d.Dot(d)
}
