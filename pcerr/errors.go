// Package pcerr defines the error kinds the point-cloud engine surfaces to
// its callers. Every operation in the engine reports failure through one of
// these sentinels, wrapped with context via github.com/pkg/errors; callers
// should test for a kind with errors.Is.
package pcerr

import "github.com/pkg/errors"

// Sentinel error kinds. Policy: the core never retries and never logs an
// error, only returns it.
var (
	// ErrInvalidArgument covers negative radii, empty input where non-empty
	// is required, and radius queries with r > h.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfMemory covers host or device allocation failure.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrDeviceError covers a GPU launch or sync failure.
	ErrDeviceError = errors.New("device error")

	// ErrMissingNormals is returned when an operation that requires
	// per-point normals (ICP target, convex segmentation) is invoked on a
	// cloud that does not carry them.
	ErrMissingNormals = errors.New("missing normals")

	// ErrNoCorrespondences is returned when a color-ICP iteration produces
	// fewer than the minimum number of valid correspondences.
	ErrNoCorrespondences = errors.New("no correspondences")

	// ErrSingular is returned when the Gauss-Newton normal equations are
	// ill-conditioned.
	ErrSingular = errors.New("singular system")

	// ErrIO covers frame-source or file-loader failures at the boundary.
	ErrIO = errors.New("io error")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// OutOfMemory wraps ErrOutOfMemory with a formatted message.
func OutOfMemory(format string, args ...interface{}) error {
	return errors.Wrapf(ErrOutOfMemory, format, args...)
}

// DeviceError wraps ErrDeviceError with a formatted message.
func DeviceError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDeviceError, format, args...)
}

// MissingNormals wraps ErrMissingNormals with a formatted message.
func MissingNormals(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMissingNormals, format, args...)
}

// NoCorrespondences wraps ErrNoCorrespondences with a formatted message.
func NoCorrespondences(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNoCorrespondences, format, args...)
}

// Singular wraps ErrSingular with a formatted message.
func Singular(format string, args ...interface{}) error {
	return errors.Wrapf(ErrSingular, format, args...)
}

// IO wraps ErrIO with a formatted message.
func IO(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIO, format, args...)
}

// Is reports whether err (or any error it wraps) matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
