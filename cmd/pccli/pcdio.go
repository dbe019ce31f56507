package main

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// recordSize is the byte size of one (x,y,z,r,g,b,property) host interchange
// record: six little-endian float32s plus one property byte.
const recordSize = 6*4 + 1

// loadHostArray reads the engine's native binary interchange format.
func loadHostArray(path string) (*pointcloud.Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pcerr.IO("opening %q: %v", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var points []pointcloud.Point
	buf := make([]byte, recordSize)
	for {
		_, err := readFull(r, buf)
		if err == errEOF {
			break
		}
		if err != nil {
			return nil, pcerr.IO("reading %q: %v", path, err)
		}
		p := pointcloud.Point{
			Position: device.Vec3{
				X: readFloat32(buf[0:4]),
				Y: readFloat32(buf[4:8]),
				Z: readFloat32(buf[8:12]),
			},
			Color: device.RGB{
				R: readFloat32(buf[12:16]),
				G: readFloat32(buf[16:20]),
				B: readFloat32(buf[20:24]),
			},
			Property: pointcloud.Property(buf[24]),
		}
		points = append(points, p)
	}
	return pointcloud.NewFromHost(points), nil
}

// saveHostArray writes a cloud in the engine's native binary interchange
// format.
func saveHostArray(path string, c *pointcloud.Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return pcerr.IO("creating %q: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, recordSize)
	for _, p := range c.Download() {
		writeFloat32(buf[0:4], p.Position.X)
		writeFloat32(buf[4:8], p.Position.Y)
		writeFloat32(buf[8:12], p.Position.Z)
		writeFloat32(buf[12:16], p.Color.R)
		writeFloat32(buf[16:20], p.Color.G)
		writeFloat32(buf[20:24], p.Color.B)
		buf[24] = byte(p.Property)
		if _, err := w.Write(buf); err != nil {
			return pcerr.IO("writing %q: %v", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return pcerr.IO("flushing %q: %v", path, err)
	}
	return nil
}

var errEOF = errShortRead{}

type errShortRead struct{}

func (errShortRead) Error() string { return "short read" }

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			if n == 0 {
				return n, errEOF
			}
			return n, err
		}
	}
	return n, nil
}

func readFloat32(b []byte) float32 {
	bits := binary.LittleEndian.Uint32(b)
	return math.Float32frombits(bits)
}

func writeFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
