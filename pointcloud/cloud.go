// Package pointcloud implements the point-cloud data model: the entity that
// owns a cloud's point data, its bounding box, RGB-D construction and rigid
// transforms. Downsampling, filtering, normal estimation, segmentation, and
// registration are not methods of Cloud: they are functions in sibling
// packages (filters, normals, segmentation, registration) that take a
// *Cloud, so calls are not chained. Cloud is their shared currency.
package pointcloud

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
)

// Cloud is an unordered collection of points held in (simulated) device
// memory, plus optional parallel normals and cluster-id arrays of equal
// length. Every Cloud exclusively owns its own data: no two Cloud values
// ever alias the same backing slices.
type Cloud struct {
	points []Point

	// Normals is nil until normals.Estimate (or a caller) populates it; a
	// non-nil Normals always has the same length as points. Invalidated
	// (set back to nil) by any operation that changes the point set.
	Normals []device.Vec3

	// ClusterID is nil until a segmentation operation populates it; -1
	// means unassigned.
	ClusterID []int32

	// SensorOrigin is the viewpoint normal-orientation disambiguation is
	// relative to. Zero by default.
	SensorOrigin device.Vec3

	bbox  device.BoundingBox
	dirty bool
}

// New returns an empty cloud.
func New() *Cloud {
	return &Cloud{bbox: device.EmptyBoundingBox()}
}

// NewFromHost constructs a cloud from a host array of points. The input
// slice is copied; the returned cloud does not alias it.
func NewFromHost(points []Point) *Cloud {
	c := &Cloud{points: append([]Point(nil), points...)}
	c.recomputeBBox()
	return c
}

// Clone returns a deep, independent copy of c, including normals and
// cluster ids if present.
func (c *Cloud) Clone() *Cloud {
	out := &Cloud{
		points:       append([]Point(nil), c.points...),
		SensorOrigin: c.SensorOrigin,
		bbox:         c.bbox,
		dirty:        c.dirty,
	}
	if c.Normals != nil {
		out.Normals = append([]device.Vec3(nil), c.Normals...)
	}
	if c.ClusterID != nil {
		out.ClusterID = append([]int32(nil), c.ClusterID...)
	}
	return out
}

// PointsNumber returns the number of points in the cloud.
func (c *Cloud) PointsNumber() int {
	return len(c.points)
}

// Points returns the cloud's points without copying. Callers must treat the
// returned slice as read-only; mutate through Cloud's methods instead.
func (c *Cloud) Points() []Point {
	return c.points
}

// Positions returns just the xyz coordinates of every point, the shape
// spatialindex.Build and most geometric helpers consume.
func (c *Cloud) Positions() []device.Vec3 {
	out := make([]device.Vec3, len(c.points))
	for i, p := range c.points {
		out[i] = p.Position
	}
	return out
}

// GetBBox returns the cloud's cached axis-aligned bounding box, recomputing
// it first if the point set has changed since the last computation.
func (c *Cloud) GetBBox() device.BoundingBox {
	if c.dirty {
		c.recomputeBBox()
	}
	return c.bbox
}

func (c *Cloud) recomputeBBox() {
	c.bbox = device.ReduceBoundingBox(c.Positions())
	c.dirty = false
}

// markChanged invalidates the cached bounding box and any normals/cluster
// ids: both are stale the moment the point set changes shape.
func (c *Cloud) markChanged() {
	c.dirty = true
	c.Normals = nil
	c.ClusterID = nil
}

// Download copies the cloud's points back to a host array, the single
// interchange format with the viewer and file loaders.
func (c *Cloud) Download() []Point {
	return append([]Point(nil), c.points...)
}

// SetProperties overwrites every point's Property in place, keeping
// position and colour untouched. Used by normal estimation to demote
// points whose neighborhood was too sparse or degenerate to fit a plane
// through. props must have the same length as the cloud.
func (c *Cloud) SetProperties(props []Property) error {
	if len(props) != len(c.points) {
		return pcerr.InvalidArgument("properties length %d does not match cloud size %d", len(props), len(c.points))
	}
	for i := range c.points {
		c.points[i].Property = props[i]
	}
	return nil
}

// DownloadNormals copies the cloud's normals back to a host array. Returns
// pcerr.ErrMissingNormals if normals.Estimate has not been run since the
// last mutation.
func (c *Cloud) DownloadNormals() ([]device.Vec3, error) {
	if c.Normals == nil {
		return nil, pcerr.MissingNormals("cloud has no normals; call normals.Estimate first")
	}
	return append([]device.Vec3(nil), c.Normals...), nil
}

// replacePoints atomically swaps in a new point set, recomputing the
// bounding box and invalidating normals/cluster ids. Used by every
// operation that adds or removes points.
func (c *Cloud) replacePoints(points []Point) {
	c.points = points
	c.markChanged()
	c.recomputeBBox()
}
