package filters

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
	"github.com/XssZuiNB/Collision-Avoidance/spatialindex"
)

// RadiusOutlierRemoval keeps only points with at least minNeighbors other
// queryable points within radius; self is not counted.
// Surviving points keep their original relative order. Normals and cluster
// ids do not survive, matching every other point-count-changing operation.
func RadiusOutlierRemoval(c *pointcloud.Cloud, radius float32, minNeighbors int) (*pointcloud.Cloud, error) {
	if radius <= 0 {
		return nil, pcerr.InvalidArgument("outlier radius must be positive, got %v", radius)
	}
	if minNeighbors < 0 {
		return nil, pcerr.InvalidArgument("min_neighbors must be >= 0, got %d", minNeighbors)
	}
	points := c.Points()
	if len(points) == 0 {
		return pointcloud.NewFromHost(nil), nil
	}

	positions := c.Positions()

	// The grid hash cell size must be at least the search radius for
	// RadiusSearch to accept it.
	idx, err := spatialindex.Build(positions, radius)
	if err != nil {
		return nil, err
	}

	posBuf, err := device.Upload(positions)
	if err != nil {
		return nil, err
	}

	var keep []int
	for i, p := range points {
		if !p.Property.Queryable() {
			continue
		}
		results, err := idx.RadiusSearch(p.Position, radius)
		if err != nil {
			return nil, err
		}
		neighbors := 0
		for _, r := range results {
			if r.PointID == i {
				continue
			}
			if !points[r.PointID].Property.Queryable() {
				continue
			}
			neighbors++
		}
		if neighbors >= minNeighbors {
			keep = append(keep, i)
		}
	}

	kept, err := posBuf.Slice(keep)
	if err != nil {
		return nil, err
	}
	survivingPositions := kept.Download()

	out := make([]pointcloud.Point, len(keep))
	for k, i := range keep {
		out[k] = pointcloud.Point{
			Position: survivingPositions[k],
			Color:    points[i].Color,
			Property: points[i].Property,
		}
	}
	return pointcloud.NewFromHost(out), nil
}
