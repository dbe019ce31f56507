package spatialindex

import (
	"math/rand"
	"testing"

	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/device"
)

func bruteForceRadius(points []device.Vec3, q device.Vec3, r float32) map[int]bool {
	hits := make(map[int]bool)
	rSq := r * r
	for i, p := range points {
		if device.DistanceSquared(p, q) <= rSq {
			hits[i] = true
		}
	}
	return hits
}

func TestBuildEmptyCloud(t *testing.T) {
	idx, err := Build(nil, 1.0)
	test.That(t, err, test.ShouldBeNil)

	res, err := idx.RadiusSearch(device.Vec3{}, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldBeNil)

	_, ok := idx.Nearest(device.Vec3{})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestInvalidCellSize(t *testing.T) {
	_, err := Build([]device.Vec3{{}}, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRadiusSearchRejectsTooLargeRadius(t *testing.T) {
	idx, err := Build([]device.Vec3{{X: 0, Y: 0, Z: 0}}, 0.1)
	test.That(t, err, test.ShouldBeNil)
	_, err = idx.RadiusSearch(device.Vec3{}, 0.2)
	test.That(t, err, test.ShouldNotBeNil)
}

// TestRadiusSearchMatchesBruteForce asserts that the grid's radius-search
// result equals a brute-force O(N^2) scan, for random clouds and random
// queries with r <= h.
func TestRadiusSearchMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 300
	points := make([]device.Vec3, n)
	for i := range points {
		points[i] = device.Vec3{
			X: float32(rng.Float64() * 10),
			Y: float32(rng.Float64() * 10),
			Z: float32(rng.Float64() * 10),
		}
	}
	const h = float32(0.5)
	idx, err := Build(points, h)
	test.That(t, err, test.ShouldBeNil)

	for trial := 0; trial < 20; trial++ {
		q := device.Vec3{
			X: float32(rng.Float64() * 10),
			Y: float32(rng.Float64() * 10),
			Z: float32(rng.Float64() * 10),
		}
		r := float32(rng.Float64()) * h

		got, err := idx.RadiusSearch(q, r)
		test.That(t, err, test.ShouldBeNil)
		gotSet := make(map[int]bool, len(got))
		for _, res := range got {
			gotSet[res.PointID] = true
		}

		want := bruteForceRadius(points, q, r)
		test.That(t, len(gotSet), test.ShouldEqual, len(want))
		for id := range want {
			test.That(t, gotSet[id], test.ShouldBeTrue)
		}
	}
}

func TestNearestBreaksTiesOnSmallerID(t *testing.T) {
	points := []device.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
	}
	idx, err := Build(points, 2.0)
	test.That(t, err, test.ShouldBeNil)

	id, ok := idx.Nearest(device.Vec3{})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, id, test.ShouldEqual, 0)
}

func bruteForceNearest(points []device.Vec3, q device.Vec3) (int, bool) {
	best := -1
	var bestDist float32
	for i, p := range points {
		d := device.DistanceSquared(p, q)
		if best == -1 || d < bestDist || (d == bestDist && i < best) {
			best = i
			bestDist = d
		}
	}
	return best, best != -1
}

// TestNearestMatchesBruteForceAcrossSparseClusters builds a point set with
// gaps far wider than the cell size, so a query sitting between clusters
// forces Nearest to expand well past the first ring that yields any
// candidate before it can be sure nothing closer remains.
func TestNearestMatchesBruteForceAcrossSparseClusters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var points []device.Vec3
	centers := []device.Vec3{{X: 0, Y: 0, Z: 0}, {X: 20, Y: 0, Z: 0}, {X: 0, Y: 20, Z: 0}}
	for _, c := range centers {
		for k := 0; k < 5; k++ {
			points = append(points, device.Vec3{
				X: c.X + float32(rng.Float64()*2-1),
				Y: c.Y + float32(rng.Float64()*2-1),
				Z: c.Z + float32(rng.Float64()*2-1),
			})
		}
	}
	const h = float32(1.0)
	idx, err := Build(points, h)
	test.That(t, err, test.ShouldBeNil)

	for trial := 0; trial < 30; trial++ {
		q := device.Vec3{
			X: float32(rng.Float64()*24 - 2),
			Y: float32(rng.Float64()*24 - 2),
			Z: float32(rng.Float64()*2 - 1),
		}
		gotID, ok := idx.Nearest(q)
		test.That(t, ok, test.ShouldBeTrue)
		wantID, wantOK := bruteForceNearest(points, q)
		test.That(t, wantOK, test.ShouldBeTrue)

		gotDist := device.DistanceSquared(q, points[gotID])
		wantDist := device.DistanceSquared(q, points[wantID])
		test.That(t, gotDist, test.ShouldAlmostEqual, wantDist)
	}
}

func TestPairsWithin(t *testing.T) {
	points := []device.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0.05, Y: 0, Z: 0},
		{X: 5, Y: 5, Z: 5},
	}
	idx, err := Build(points, 0.2)
	test.That(t, err, test.ShouldBeNil)

	pairs, err := idx.PairsWithin(0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pairs), test.ShouldEqual, 1)
	test.That(t, pairs[0], test.ShouldResemble, Pair{I: 0, J: 1})
}
