// Package device implements the typed buffer and math primitives the
// engine's device layer provides: length-bearing arrays with synchronous
// copy-in/copy-out and parallel reductions, plus elementary vec3/mat4 math
// in single precision.
//
// No CUDA or WebGPU binding is available here, so Buffer stands in for the
// device-resident array the original CUDA implementation (gca::) allocates
// on the GPU: it is backed by a *tensor.Dense so that "upload"/"download"
// and reduction operations have a single, typed, shape-checked
// representation. The device handle is the only process-wide state, and
// every cloud exclusively owns its own buffers.
package device

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
)

// Buffer is a typed, length-bearing array of float32 vec3 coordinates
// (contiguous x,y,z triples). It is the unit of "device memory" every
// point-cloud operation allocates fresh and never aliases.
type Buffer struct {
	dense *tensor.Dense
	n     int
}

// NewBuffer allocates a Buffer able to hold n vec3 entries, zero-initialized.
// Returns pcerr.ErrInvalidArgument for a negative n. No out-of-memory error
// is returned: a failed allocation of the backing slice is not caught here.
func NewBuffer(n int) (*Buffer, error) {
	if n < 0 {
		return nil, pcerr.InvalidArgument("negative buffer length %d", n)
	}
	if n == 0 {
		return &Buffer{dense: tensor.New(tensor.WithShape(0, 3), tensor.WithBacking([]float32{})), n: 0}, nil
	}
	backing := make([]float32, n*3)
	return &Buffer{dense: tensor.New(tensor.WithShape(n, 3), tensor.WithBacking(backing)), n: n}, nil
}

// Upload copies host vec3 data into a fresh Buffer.
func Upload(points []Vec3) (*Buffer, error) {
	buf, err := NewBuffer(len(points))
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		buf.Set(i, p)
	}
	return buf, nil
}

// Len returns the number of vec3 entries in the buffer.
func (b *Buffer) Len() int { return b.n }

// At returns the vec3 at index i. Index i must be in [0, Len()); an
// out-of-range index is undefined behavior and is not checked on the hot
// path — callers that need bounds checking should use Download.
func (b *Buffer) At(i int) Vec3 {
	base := i * 3
	data := b.dense.Data().([]float32)
	return Vec3{X: data[base], Y: data[base+1], Z: data[base+2]}
}

// Set writes the vec3 at index i.
func (b *Buffer) Set(i int, v Vec3) {
	base := i * 3
	data := b.dense.Data().([]float32)
	data[base], data[base+1], data[base+2] = v.X, v.Y, v.Z
}

// Download copies the buffer back to a host slice.
func (b *Buffer) Download() []Vec3 {
	out := make([]Vec3, b.n)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Slice returns a new Buffer holding only the entries at the given indices,
// in order. Used by filters that keep a subset of points (radius outlier
// removal) while preserving original ordering.
func (b *Buffer) Slice(indices []int) (*Buffer, error) {
	out, err := NewBuffer(len(indices))
	if err != nil {
		return nil, err
	}
	for dst, src := range indices {
		if src < 0 || src >= b.n {
			return nil, errors.Errorf("index %d out of range [0,%d)", src, b.n)
		}
		out.Set(dst, b.At(src))
	}
	return out, nil
}
