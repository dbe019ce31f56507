// Package normals implements covariance-based surface normal estimation:
// for every point, fit a tangent plane to its local neighborhood via PCA
// and take the plane's normal, oriented towards the cloud's sensor origin.
package normals

import (
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
	"github.com/XssZuiNB/Collision-Avoidance/spatialindex"
)

// minNeighborsForPlane is the fewest neighbors (including self) a point
// needs before its covariance matrix meaningfully constrains a plane.
const minNeighborsForPlane = 3

// degenerateEigenGap is the minimum separation required between a
// neighborhood covariance's smallest and second-smallest eigenvalues.
// Below this gap the "smallest eigenvalue direction" isn't well defined
// (the neighborhood is spherical or the plane fit is numerically
// ambiguous), so the point is treated as having no usable normal.
const degenerateEigenGap = 1e-9

// Estimate computes a unit normal for every queryable point in c, using
// neighbors within radius (the grid hash cell size doubles as the search
// radius). Points whose neighborhood has fewer than three members, or
// whose covariance is degenerate (see fitPlaneNormal), get a zero normal
// and are demoted to pointcloud.Invalid, since a plane cannot be reliably
// fit through them. Normals are oriented so that normal·(origin - point)
// >= 0, matching the cloud's SensorOrigin.
func Estimate(c *pointcloud.Cloud, radius float32) error {
	if radius <= 0 {
		return pcerr.InvalidArgument("normal estimation radius must be positive, got %v", radius)
	}
	points := c.Points()
	positions := c.Positions()

	idx, err := spatialindex.Build(positions, radius)
	if err != nil {
		return err
	}

	outNormals := make([]device.Vec3, len(points))
	outProps := make([]pointcloud.Property, len(points))
	for i, p := range points {
		outProps[i] = p.Property
	}

	for i, p := range points {
		if !p.Property.Queryable() {
			continue
		}
		results, err := idx.RadiusSearch(p.Position, radius)
		if err != nil {
			return err
		}

		neighborIdx := make([]int, 0, len(results)+1)
		neighborIdx = append(neighborIdx, i)
		for _, r := range results {
			if r.PointID == i {
				continue
			}
			if !points[r.PointID].Property.Queryable() {
				continue
			}
			neighborIdx = append(neighborIdx, r.PointID)
		}

		if len(neighborIdx) < minNeighborsForPlane {
			outProps[i] = pointcloud.Invalid
			continue
		}

		normal, ok := fitPlaneNormal(positions, neighborIdx)
		if !ok {
			outProps[i] = pointcloud.Invalid
			continue
		}

		toOrigin := c.SensorOrigin.Sub(p.Position)
		if normal.Dot(toOrigin) < 0 {
			normal = normal.Scale(-1)
		}
		outNormals[i] = normal
	}

	if err := c.SetProperties(outProps); err != nil {
		return err
	}
	c.Normals = outNormals
	return nil
}

// fitPlaneNormal fits a tangent plane through positions[neighborIdx] via
// PCA: the normal is the eigenvector of the neighborhood's covariance
// matrix with the smallest eigenvalue. Returns ok=false if the smallest and
// second-smallest eigenvalues are within degenerateEigenGap of each other,
// since the neighborhood is then too close to spherical for a plane normal
// to be meaningful.
func fitPlaneNormal(positions []device.Vec3, neighborIdx []int) (device.Vec3, bool) {
	// Accumulated in double precision via r3.Vector: the covariance matrix
	// this feeds is far more sensitive to centroid rounding error than the
	// float32 positions it's built from.
	n := float64(len(neighborIdx))
	var centroid r3.Vector
	for _, idx := range neighborIdx {
		centroid = centroid.Add(positions[idx].ToR3())
	}
	centroid = centroid.Mul(1 / n)

	var cov mat.SymDense
	cov.ReuseAsSym(3)
	var sum [6]float64 // xx, xy, xz, yy, yz, zz
	for _, idx := range neighborIdx {
		d := positions[idx].ToR3().Sub(centroid)
		x, y, z := d.X, d.Y, d.Z
		sum[0] += x * x
		sum[1] += x * y
		sum[2] += x * z
		sum[3] += y * y
		sum[4] += y * z
		sum[5] += z * z
	}
	cov.SetSym(0, 0, sum[0]/n)
	cov.SetSym(0, 1, sum[1]/n)
	cov.SetSym(0, 2, sum[2]/n)
	cov.SetSym(1, 1, sum[3]/n)
	cov.SetSym(1, 2, sum[4]/n)
	cov.SetSym(2, 2, sum[5]/n)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return device.Vec3{}, false
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	minIdx := 0
	for i := 1; i < 3; i++ {
		if values[i] < values[minIdx] {
			minIdx = i
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if sorted[1]-sorted[0] < degenerateEigenGap {
		return device.Vec3{}, false
	}

	normal := device.FromR3(r3.Vector{X: vectors.At(0, minIdx), Y: vectors.At(1, minIdx), Z: vectors.At(2, minIdx)})
	return normal.Normalize(), true
}
