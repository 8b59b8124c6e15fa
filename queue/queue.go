// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package queue

import (
	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/internal/queue"
)

// Sentinel errors of the dispatch engine.
var (
	// ErrDeviceNotFound reports that no platform and device matched the
	// requested name fragments.
	ErrDeviceNotFound = queue.ErrDeviceNotFound

	// ErrIndexOutOfRange reports a platform or device index beyond the
	// enumerated counts.
	ErrIndexOutOfRange = queue.ErrIndexOutOfRange

	// ErrInvalidSignal reports the use of a zero, nil or already consumed
	// future.
	ErrInvalidSignal = queue.ErrInvalidSignal
)

// BuildError reports a failed program build, carrying the runtime's build
// log verbatim.
type BuildError = queue.BuildError

// Queue owns one in-order command queue on one device and caches the
// programs and kernels built on it. Methods are safe for concurrent use.
type Queue = queue.Queue

// New opens a queue on the default driver, resolving the first platform
// and device whose names contain the given fragments, case-insensitively.
// Empty fragments match everything.
//
// Example:
//
//	q, err := queue.New("", "")        // first device of the default driver
//	q, err := queue.New("amd", "gpu")  // substring resolve
func New(platformMatch, deviceMatch string) (*Queue, error) {
	return queue.New(platformMatch, deviceMatch)
}

// NewAt opens a queue on the default driver by platform and device index.
func NewAt(platformIdx, deviceIdx int) (*Queue, error) {
	return queue.NewAt(platformIdx, deviceIdx)
}

// NewOn is New on an explicit driver.
func NewOn(drv driver.Driver, platformMatch, deviceMatch string) (*Queue, error) {
	return queue.NewOn(drv, platformMatch, deviceMatch)
}

// NewOnAt is NewAt on an explicit driver.
func NewOnAt(drv driver.Driver, platformIdx, deviceIdx int) (*Queue, error) {
	return queue.NewOnAt(drv, platformIdx, deviceIdx)
}
