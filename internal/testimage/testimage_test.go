package testimage

import (
	"testing"

	"go.viam.com/test"
)

func TestFlatPlaneDimensions(t *testing.T) {
	f := FlatPlane(8, 6, 1000)
	test.That(t, len(f.DepthMM), test.ShouldEqual, 48)
	test.That(t, len(f.ColorRGB), test.ShouldEqual, 48*3)
	for _, d := range f.DepthMM {
		test.That(t, d, test.ShouldEqual, uint16(1000))
	}
}

func TestFlatPlaneWithHoleZeroesDepth(t *testing.T) {
	f := FlatPlaneWithHole(10, 10, 2000, 2, 2, 5, 5)
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			test.That(t, f.DepthMM[y*10+x], test.ShouldEqual, uint16(0))
		}
	}
	test.That(t, f.DepthMM[0], test.ShouldEqual, uint16(2000))
}
