package main

import (
	"fmt"
	"os"

	"github.com/chenzhekl/goply"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// loadPLY reads a PLY file's vertex element into a cloud, via goply. Colour
// channels default to white if the file carries no red/green/blue
// properties.
func loadPLY(path string) (*pointcloud.Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pcerr.IO("opening %q: %v", path, err)
	}
	defer f.Close()

	ply := goply.New(f)

	vertices := ply.Elements("vertex")
	points := make([]pointcloud.Point, 0, len(vertices))
	for _, v := range vertices {
		p := pointcloud.Point{Property: pointcloud.Active}
		p.Position.X = float32(toFloat(v["x"]))
		p.Position.Y = float32(toFloat(v["y"]))
		p.Position.Z = float32(toFloat(v["z"]))
		p.Color = device.RGB{
			R: toColor(v["red"]),
			G: toColor(v["green"]),
			B: toColor(v["blue"]),
		}
		points = append(points, p)
	}
	return pointcloud.NewFromHost(points), nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func toColor(v interface{}) float32 {
	if v == nil {
		return 1
	}
	return float32(toFloat(v)) / 255
}

// savePLY writes a cloud's points as an ASCII PLY file. goply is read-only,
// so the writer here is a small self-contained ASCII encoder matching the
// standard PLY vertex-element layout.
func savePLY(path string, c *pointcloud.Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return pcerr.IO("creating %q: %v", path, err)
	}
	defer f.Close()

	points := c.Download()
	w := bufWriter{f: f}
	w.writeLine("ply")
	w.writeLine("format ascii 1.0")
	w.writeLine(fmt.Sprintf("element vertex %d", len(points)))
	w.writeLine("property float x")
	w.writeLine("property float y")
	w.writeLine("property float z")
	w.writeLine("property uchar red")
	w.writeLine("property uchar green")
	w.writeLine("property uchar blue")
	w.writeLine("end_header")
	for _, p := range points {
		// Route through go-colorful's Color on the way out so every channel
		// is clamped to [0,1] before scaling to a byte.
		c := device.RGBFromColorful(p.Color.Colorful())
		w.writeLine(fmt.Sprintf("%g %g %g %d %d %d",
			p.Position.X, p.Position.Y, p.Position.Z,
			uint8(c.R*255), uint8(c.G*255), uint8(c.B*255)))
	}
	if w.err != nil {
		return pcerr.IO("writing %q: %v", path, w.err)
	}
	return nil
}

type bufWriter struct {
	f   *os.File
	err error
}

func (w *bufWriter) writeLine(s string) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.f, s)
}
