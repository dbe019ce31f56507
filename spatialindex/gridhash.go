// Package spatialindex implements a grid-hash acceleration structure: a
// uniform grid over a point cloud's bounding box, supporting radius queries
// in the 27-cell neighborhood of a query point's own cell, and
// nearest-neighbor queries over expanding rings of cells around it.
//
// An Index is always built fresh for the operation that needs it and never
// outlives that call: it holds only point indices into the caller's slice,
// never a back-reference to the owning cloud.
package spatialindex

import (
	"math"
	"sort"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
)

// cellBits is the number of bits reserved per axis when packing a 3D cell
// coordinate into a single 64-bit key. 21 bits per axis, biased by half
// that range, supports grids up to ~1M cells wide from the grid origin, far
// beyond any single-workstation point cloud.
const cellBits = 21
const cellMask = 1<<cellBits - 1

// Result is one hit of a radius search: the index of the matched point
// (into the slice the Index was built from) and its squared distance to the
// query point.
type Result struct {
	PointID int
	DistSq  float32
}

// Pair is an unordered correspondence between two point indices, i < j.
type Pair struct {
	I, J int
}

// Index is a grid hash over a fixed point set.
type Index struct {
	points []device.Vec3
	h      float32
	origin device.Vec3

	// keys[i] is the packed cell key of points[i]; order lists point ids
	// sorted by that key; cellStart/cellCount index into order by packed
	// cell key.
	order     []int
	keys      []uint64
	cellStart map[uint64]int
	cellCount map[uint64]int
}

// Build constructs a grid hash over points with cell size h. h must be
// strictly positive. An empty point set is legal and produces an index
// every query on which returns empty results.
func Build(points []device.Vec3, h float32) (*Index, error) {
	if h <= 0 {
		return nil, pcerr.InvalidArgument("cell size must be positive, got %v", h)
	}
	idx := &Index{
		points:    points,
		h:         h,
		cellStart: make(map[uint64]int),
		cellCount: make(map[uint64]int),
	}
	if len(points) == 0 {
		idx.origin = device.Vec3{}
		return idx, nil
	}
	bbox := device.ReduceBoundingBox(points)
	idx.origin = bbox.Min

	idx.order = make([]int, len(points))
	idx.keys = make([]uint64, len(points))
	for i, p := range points {
		key := idx.cellKey(p)
		idx.order[i] = i
		idx.keys[i] = key
	}
	// Stable sort by key gives a deterministic (cell_start, cell_count)
	// table given the same input, standing in for the GPU radix sort a
	// device-resident grid hash would otherwise use.
	sort.SliceStable(idx.order, func(a, b int) bool {
		return idx.keys[idx.order[a]] < idx.keys[idx.order[b]]
	})

	for rank, pointID := range idx.order {
		key := idx.keys[pointID]
		if _, ok := idx.cellStart[key]; !ok {
			idx.cellStart[key] = rank
		}
		idx.cellCount[key]++
	}
	return idx, nil
}

// cellCoord quantizes p into integer cell coordinates relative to origin.
// Points exactly on a cell boundary floor into the lower-index cell.
func (idx *Index) cellCoord(p device.Vec3) (int64, int64, int64) {
	ix := int64(floorDiv(p.X-idx.origin.X, idx.h))
	iy := int64(floorDiv(p.Y-idx.origin.Y, idx.h))
	iz := int64(floorDiv(p.Z-idx.origin.Z, idx.h))
	return ix, iy, iz
}

func floorDiv(num, den float32) float32 {
	q := num / den
	f := float32(int64(q))
	if q < 0 && f != q {
		f--
	}
	return f
}

// cellKey packs a point's cell coordinate into a 64-bit key. Coordinates
// are biased by an offset so that the (legal, but awkward) case of a query
// point outside the indexed bounding box still produces a well-defined,
// if empty-matching, key rather than wrapping.
func (idx *Index) cellKey(p device.Vec3) uint64 {
	ix, iy, iz := idx.cellCoord(p)
	return packCellKey(ix, iy, iz)
}

const cellBias = int64(1) << (cellBits - 1)

func packCellKey(ix, iy, iz int64) uint64 {
	bx := uint64(clampAxis(ix+cellBias)) & cellMask
	by := uint64(clampAxis(iy+cellBias)) & cellMask
	bz := uint64(clampAxis(iz+cellBias)) & cellMask
	return bx<<(2*cellBits) | by<<cellBits | bz
}

func clampAxis(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > cellMask {
		return cellMask
	}
	return v
}

// RadiusSearch returns every point within r of q, as (point_id, distance²)
// pairs. r must not exceed the cell size the index was built with — a
// larger radius would silently miss neighbors outside the scanned 3x3x3
// neighborhood, so the operation fails loudly instead.
func (idx *Index) RadiusSearch(q device.Vec3, r float32) ([]Result, error) {
	if r < 0 {
		return nil, pcerr.InvalidArgument("negative radius %v", r)
	}
	if r > idx.h {
		return nil, pcerr.InvalidArgument("query radius %v exceeds cell size %v", r, idx.h)
	}
	if len(idx.points) == 0 {
		return nil, nil
	}
	rSq := r * r
	var results []Result
	idx.forEachInNeighborhood(q, func(pointID int) {
		d := device.DistanceSquared(q, idx.points[pointID])
		if d <= rSq {
			results = append(results, Result{PointID: pointID, DistSq: d})
		}
	})
	return results, nil
}

// Nearest returns the index of the single closest point to q, or false if
// the index is empty. Ties are broken by the smaller point id.
//
// Nearest scans an expanding shell of neighbor rings starting at the
// query's own cell so that a correct answer is guaranteed even when the
// true nearest neighbor lies outside the immediate 3x3x3 neighborhood (a
// case RadiusSearch deliberately does not handle, since it is bounded by
// the cell size).
func (idx *Index) Nearest(q device.Vec3) (int, bool) {
	if len(idx.points) == 0 {
		return 0, false
	}
	ix, iy, iz := idx.cellCoord(q)
	best := -1
	var bestDist float32
	for ring := int64(0); ring < cellBias; ring++ {
		idx.forEachInRing(ix, iy, iz, ring, func(pointID int) {
			d := device.DistanceSquared(q, idx.points[pointID])
			if best == -1 || d < bestDist || (d == bestDist && pointID < best) {
				best = pointID
				bestDist = d
			}
		})
		if best == -1 {
			continue
		}
		// The next ring's cells are at minimum (ring+1-1)*h = ring*h from
		// the query's own cell; once that bound exceeds the best distance
		// found so far, no unscanned cell can hold a closer point.
		minNextRingDist := float64(ring) * float64(idx.h)
		if minNextRingDist > math.Sqrt(float64(bestDist)) {
			break
		}
	}
	return best, best != -1
}

// PairsWithin returns every unordered pair (i, j), i < j, with
// ‖pᵢ−pⱼ‖ ≤ r, used by Euclidean and convex-object segmentation to build
// their candidate graph. r must not exceed the index's cell size.
func (idx *Index) PairsWithin(r float32) ([]Pair, error) {
	if r < 0 {
		return nil, pcerr.InvalidArgument("negative radius %v", r)
	}
	if r > idx.h {
		return nil, pcerr.InvalidArgument("query radius %v exceeds cell size %v", r, idx.h)
	}
	rSq := r * r
	var pairs []Pair
	for i, p := range idx.points {
		idx.forEachInNeighborhood(p, func(j int) {
			if j <= i {
				return
			}
			if device.DistanceSquared(p, idx.points[j]) <= rSq {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		})
	}
	return pairs, nil
}

// forEachInNeighborhood visits every point in the 3x3x3 neighborhood of
// cell containing q.
func (idx *Index) forEachInNeighborhood(q device.Vec3, visit func(pointID int)) {
	ix, iy, iz := idx.cellCoord(q)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				idx.visitCell(ix+dx, iy+dy, iz+dz, visit)
			}
		}
	}
}

// forEachInRing visits every point whose cell lies on the surface of the
// cube of Chebyshev radius ring centered at (ix,iy,iz); ring 0 is just the
// center cell.
func (idx *Index) forEachInRing(ix, iy, iz, ring int64, visit func(pointID int)) {
	if ring == 0 {
		idx.visitCell(ix, iy, iz, visit)
		return
	}
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			for dz := -ring; dz <= ring; dz++ {
				if abs64(dx) != ring && abs64(dy) != ring && abs64(dz) != ring {
					continue // interior of the cube, already visited at a smaller ring
				}
				idx.visitCell(ix+dx, iy+dy, iz+dz, visit)
			}
		}
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (idx *Index) visitCell(ix, iy, iz int64, visit func(pointID int)) {
	if ix < 0 || iy < 0 || iz < 0 {
		return
	}
	key := packCellKey(ix, iy, iz)
	start, ok := idx.cellStart[key]
	if !ok {
		return
	}
	count := idx.cellCount[key]
	for k := start; k < start+count; k++ {
		visit(idx.order[k])
	}
}
