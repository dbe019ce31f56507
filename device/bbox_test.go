package device

import (
	"testing"

	"go.viam.com/test"
)

func TestReduceBoundingBoxEmpty(t *testing.T) {
	b := ReduceBoundingBox(nil)
	test.That(t, b.Empty(), test.ShouldBeTrue)
}

func TestReduceBoundingBoxComputesMinMax(t *testing.T) {
	pts := []Vec3{{X: -1, Y: 5, Z: 0}, {X: 3, Y: -2, Z: 9}, {X: 0, Y: 0, Z: 0}}
	b := ReduceBoundingBox(pts)
	test.That(t, b.Min, test.ShouldResemble, Vec3{X: -1, Y: -2, Z: 0})
	test.That(t, b.Max, test.ShouldResemble, Vec3{X: 3, Y: 5, Z: 9})
	test.That(t, b.Empty(), test.ShouldBeFalse)
}

func TestDiagonal(t *testing.T) {
	b := BoundingBox{Min: Vec3{X: 0, Y: 0, Z: 0}, Max: Vec3{X: 1, Y: 2, Z: 3}}
	test.That(t, b.Diagonal(), test.ShouldResemble, Vec3{X: 1, Y: 2, Z: 3})
}
