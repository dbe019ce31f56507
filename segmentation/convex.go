package segmentation

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// concavityTolerance allows a small amount of locally-concave geometry
// through the convex join test, absorbing normal-estimation noise on
// otherwise-planar surfaces (the same role the LCCP literature's sanity
// threshold plays).
const concavityTolerance = 0.02

// Convex partitions c into clusters of mutually convex-connected points:
// like Euclidean, but a candidate edge is only accepted
// when the join between the two points is locally convex, judged from
// their estimated normals. Requires normals.Estimate to have been run since
// the last mutation; returns pcerr.ErrMissingNormals otherwise.
func Convex(c *pointcloud.Cloud, radius float32, minClusterSize int) error {
	if radius <= 0 {
		return pcerr.InvalidArgument("clustering radius must be positive, got %v", radius)
	}
	if minClusterSize < 1 {
		return pcerr.InvalidArgument("min cluster size must be >= 1, got %d", minClusterSize)
	}
	if c.Normals == nil {
		return pcerr.MissingNormals("convex segmentation requires normals; call normals.Estimate first")
	}

	points := c.Points()
	positions := c.Positions()
	normals := c.Normals
	queryable := make([]bool, len(points))
	for i, p := range points {
		queryable[i] = p.Property.Queryable()
	}

	predicate := func(i, j int) bool {
		return isConvexJoin(positions[i], normals[i], positions[j], normals[j])
	}

	labels, err := cluster(positions, queryable, radius, predicate)
	if err != nil {
		return err
	}

	applyMinClusterSize(labels, minClusterSize)
	c.ClusterID = labels
	return nil
}

// isConvexJoin applies the standard locally-convex-connected-patches test:
// the edge from i to j is convex only when both halves agree that each
// point lies on the outward side of the other's tangent plane —
// (pj - pi)·ni >= 0 and (pi - pj)·nj >= 0, each relaxed by
// concavityTolerance — not merely on average.
func isConvexJoin(pi device.Vec3, ni device.Vec3, pj device.Vec3, nj device.Vec3) bool {
	d := pj.Sub(pi)
	if d.Length() < 1e-9 {
		return true
	}
	return d.Dot(ni) >= -concavityTolerance && d.Scale(-1).Dot(nj) >= -concavityTolerance
}
