package queue

import (
	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

var (
	// ErrDeviceNotFound reports that no platform/device pair matched the
	// requested name substrings.
	ErrDeviceNotFound = errors.New("queue: no matching device")

	// ErrIndexOutOfRange reports a platform or device index past the end
	// of the enumeration.
	ErrIndexOutOfRange = errors.New("queue: platform or device index out of range")

	// ErrInvalidSignal reports a zero, nil or already consumed completion
	// handle used where a live one is required.
	ErrInvalidSignal = errors.New("queue: invalid or consumed completion signal")
)

// BuildError is a failed device program build. Error() carries the
// verbatim build log so toolchain diagnostics reach the caller unmangled.
type BuildError = driver.BuildError
