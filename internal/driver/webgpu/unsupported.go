//go:build !windows

// Package webgpu implements the compute driver over WebGPU. The wgpu_native
// bindings it builds on support windows only; on other platforms the driver
// is not registered and reports itself unavailable.
package webgpu

import (
	"github.com/gpuq/gpuq/internal/driver"
)

// DriverName is the name this driver registers under where supported.
const DriverName = "webgpu"

// Driver is unavailable on this platform.
type Driver struct{}

// New reports the missing runtime.
func New(string) (*Driver, error) {
	return nil, driver.Errf("webgpu: unsupported on this platform", driver.StatusNotConfigured)
}

// Name returns the driver name.
func (d *Driver) Name() string { return DriverName }

// Platforms reports the missing runtime.
func (d *Driver) Platforms() ([]driver.Platform, error) {
	return nil, driver.Errf("webgpu: unsupported on this platform", driver.StatusNotConfigured)
}

// IsAvailable reports false on platforms without the native runtime.
func IsAvailable() bool { return false }
