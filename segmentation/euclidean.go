package segmentation

import (
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// Euclidean partitions c into connected components under a pure distance
// threshold: two queryable points are joined whenever they are within radius
// of each other. Components smaller than
// minClusterSize are discarded (their points' ClusterID set to -1) rather
// than assigned a cluster id, the usual Euclidean-clustering noise filter.
func Euclidean(c *pointcloud.Cloud, radius float32, minClusterSize int) error {
	if radius <= 0 {
		return pcerr.InvalidArgument("clustering radius must be positive, got %v", radius)
	}
	if minClusterSize < 1 {
		return pcerr.InvalidArgument("min cluster size must be >= 1, got %d", minClusterSize)
	}

	points := c.Points()
	positions := c.Positions()
	queryable := make([]bool, len(points))
	for i, p := range points {
		queryable[i] = p.Property.Queryable()
	}

	labels, err := cluster(positions, queryable, radius, func(i, j int) bool { return true })
	if err != nil {
		return err
	}

	applyMinClusterSize(labels, minClusterSize)
	c.ClusterID = labels
	return nil
}

// applyMinClusterSize relabels every point belonging to a cluster smaller
// than minClusterSize to -1, in place.
func applyMinClusterSize(labels []int32, minClusterSize int) {
	counts := make(map[int32]int)
	for _, l := range labels {
		if l < 0 {
			continue
		}
		counts[l]++
	}
	for i, l := range labels {
		if l < 0 {
			continue
		}
		if counts[l] < minClusterSize {
			labels[i] = -1
		}
	}
}
