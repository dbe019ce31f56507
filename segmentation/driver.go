package segmentation

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/spatialindex"
)

// edgePredicate decides whether two neighboring points (already known to be
// within the clustering radius) belong in the same cluster. Euclidean
// clustering accepts every such pair; convex segmentation additionally
// requires the pair's local geometry to be convex.
type edgePredicate func(i, j int) bool

// cluster runs the shared region-growing driver: every pair of queryable
// points within radius of each other is a candidate edge; accept edges
// satisfying predicate, union their endpoints, and return a cluster id per
// point (non-queryable points get -1). Ids ascend with each cluster's
// smallest point index; the ids non-queryable points would have taken are
// skipped, so the numbering can have gaps.
func cluster(positions []device.Vec3, queryable []bool, radius float32, predicate edgePredicate) ([]int32, error) {
	n := len(positions)
	uf := newUnionFind(n)

	idx, err := spatialindex.Build(positions, radius)
	if err != nil {
		return nil, err
	}
	pairs, err := idx.PairsWithin(radius)
	if err != nil {
		return nil, err
	}

	for _, pr := range pairs {
		if !queryable[pr.I] || !queryable[pr.J] {
			continue
		}
		if !predicate(pr.I, pr.J) {
			continue
		}
		uf.union(int32(pr.I), int32(pr.J))
	}

	labels := uf.labels()
	out := make([]int32, n)
	for i := range out {
		if !queryable[i] {
			out[i] = -1
			continue
		}
		out[i] = labels[i]
	}
	return out, nil
}
