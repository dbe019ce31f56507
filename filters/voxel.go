// Package filters implements the point-count-reducing operations: voxel-grid
// downsampling and radius outlier removal. Both take a *pointcloud.Cloud and
// return a new, independent cloud.
package filters

import (
	"math"
	"sort"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// voxelAccumulator sums the position and running-averages the colour of
// every point contributing to one leaf.
type voxelAccumulator struct {
	key      uint64
	sumPos   device.Vec3
	avgColor device.RGB
	count    int
}

// leafKey packs a point's voxel coordinate into a 63-bit key using the same
// bit layout as spatialindex (21 biased bits per axis).
func leafKey(p device.Vec3, origin device.Vec3, leaf float32) uint64 {
	ix := int64((p.X - origin.X) / leaf)
	iy := int64((p.Y - origin.Y) / leaf)
	iz := int64((p.Z - origin.Z) / leaf)
	return packLeaf(ix, iy, iz)
}

const (
	leafBits = 21
	leafMask = 1<<leafBits - 1
	leafBias = int64(1) << (leafBits - 1)
)

func packLeaf(ix, iy, iz int64) uint64 {
	bx := clampLeaf(ix + leafBias)
	by := clampLeaf(iy + leafBias)
	bz := clampLeaf(iz + leafBias)
	return uint64(bx)<<(2*leafBits) | uint64(by)<<leafBits | uint64(bz)
}

func clampLeaf(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > leafMask {
		return leafMask
	}
	return v
}

// VoxelGridDownsample replaces every point falling in the same leaf-sized
// voxel with a single point at the arithmetic mean of its contributors'
// position and colour. Output property is Active. Normals and cluster ids
// do not survive, since voxel membership does not map onto either cleanly.
// Voxel boundaries lie on integer multiples of leaf. Ordering is
// deterministic given the same input and leaf size: voxels are emitted in
// ascending packed-key order.
func VoxelGridDownsample(c *pointcloud.Cloud, leaf float32) (*pointcloud.Cloud, error) {
	if leaf <= 0 {
		return nil, pcerr.InvalidArgument("voxel leaf size must be positive, got %v", leaf)
	}
	points := c.Points()
	if len(points) == 0 {
		return pointcloud.NewFromHost(nil), nil
	}

	// Anchor the grid on a multiple of leaf rather than on the bbox itself,
	// so voxel boundaries do not shift with the cloud's extent and a second
	// pass over the output finds each centroid in the voxel it came from.
	bbox := c.GetBBox()
	origin := device.Vec3{
		X: float32(math.Floor(float64(bbox.Min.X/leaf))) * leaf,
		Y: float32(math.Floor(float64(bbox.Min.Y/leaf))) * leaf,
		Z: float32(math.Floor(float64(bbox.Min.Z/leaf))) * leaf,
	}

	buckets := make(map[uint64]*voxelAccumulator)
	order := make([]uint64, 0)
	for _, p := range points {
		if !p.Property.Queryable() {
			continue
		}
		key := leafKey(p.Position, origin, leaf)
		acc, ok := buckets[key]
		if !ok {
			acc = &voxelAccumulator{key: key}
			buckets[key] = acc
			order = append(order, key)
		}
		acc.count++
		// Lerp(newColor, 1/count) folds in one more contributor without
		// keeping a running sum: weight 1/count moves the average exactly
		// 1/count of the way from its old value to the new sample, which
		// is the incremental form of the arithmetic mean.
		acc.avgColor = acc.avgColor.Lerp(p.Color, 1/float32(acc.count))
		acc.sumPos = acc.sumPos.Add(p.Position)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]pointcloud.Point, 0, len(order))
	for _, key := range order {
		acc := buckets[key]
		n := float32(acc.count)
		out = append(out, pointcloud.Point{
			Position: device.Vec3{X: acc.sumPos.X / n, Y: acc.sumPos.Y / n, Z: acc.sumPos.Z / n},
			Color:    acc.avgColor,
			Property: pointcloud.Active,
		})
	}
	return pointcloud.NewFromHost(out), nil
}
