package pointcloud

import (
	"testing"

	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/internal/testimage"
)

func TestCreateFromRGBDOnSyntheticFrame(t *testing.T) {
	frame := testimage.FlatPlaneWithHole(16, 12, 1500, 4, 4, 8, 8)
	intr := Intrinsics{Fx: 200, Fy: 200, Cx: 8, Cy: 6, Width: 16, Height: 12}

	c, err := CreateFromRGBD(frame.DepthMM, frame.ColorRGB, intr, 0.1, 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.PointsNumber(), test.ShouldEqual, 16*12)

	downloaded := c.Download()
	holeIdx := 5*16 + 5
	test.That(t, downloaded[holeIdx].Property, test.ShouldEqual, Invalid)

	outsideHoleIdx := 0
	test.That(t, downloaded[outsideHoleIdx].Property, test.ShouldEqual, Active)
}
