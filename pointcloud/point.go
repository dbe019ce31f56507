package pointcloud

import "github.com/XssZuiNB/Collision-Avoidance/device"

// Property is a point's lifecycle tag. The exact integer values mirror the
// CUDA original's point_property enum (invalid=0, active=1, inactive=2).
type Property uint8

const (
	// Invalid marks a point excluded from every downstream operation —
	// produced by a failed depth pixel, or by normal estimation when a
	// point's neighborhood is too sparse or degenerate.
	Invalid Property = 0
	// Active is an ordinarily valid point.
	Active Property = 1
	// Inactive is a valid point that behaves identically to Active for
	// every query.
	Inactive Property = 2
)

// Queryable reports whether a point with this property participates in
// spatial queries (radius search, nearest, pairs_within). Only Invalid
// points are excluded; Active and Inactive are treated identically.
func (p Property) Queryable() bool {
	return p != Invalid
}

func (p Property) String() string {
	switch p {
	case Invalid:
		return "invalid"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Point is a single entry of a point cloud: position, colour, and lifecycle
// property. Normals and cluster ids live in the parent Cloud's parallel
// arrays, not on Point, since they are optional and only ever valid for the
// whole cloud at once.
type Point struct {
	Position device.Vec3
	Color    device.RGB
	Property Property
}

// Intensity returns the point's derived luma scalar.
func (p Point) Intensity() float32 {
	return device.Intensity(p.Color)
}
