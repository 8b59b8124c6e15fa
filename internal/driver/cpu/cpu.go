// Package cpu implements the portable compute driver: a pure-Go backend
// that executes registered kernel implementations over N-dimensional ranges
// with real work-group semantics (one goroutine per work item, group
// barriers, local scratch). It is the driver every platform has, the test
// substrate for the dispatch engine, and the semantic reference for the
// hardware drivers.
//
// Programs are kernel source texts: a build scans the source for
// "__kernel void name(...)" entry points and resolves each against the
// implementations registered with RegisterKernel. Build options are parsed
// for "-D NAME=value" defines and handed to the implementation.
package cpu

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

// DriverName is the name this driver registers under.
const DriverName = "cpu"

func init() {
	driver.Register(DriverName, func(config string) (driver.Driver, error) {
		return New(config)
	})
}

// Driver is the portable compute driver.
type Driver struct {
	threads int
}

// New creates the portable driver. The configuration accepts
// comma-separated key=value pairs; the only key is "threads", bounding the
// goroutines used per kernel sweep (0 means all CPUs).
func New(config string) (*Driver, error) {
	d := &Driver{}
	for _, kv := range strings.Split(config, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "threads":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, errors.Errorf("cpu: invalid threads value %q", value)
			}
			d.threads = n
		default:
			return nil, errors.Errorf("cpu: unknown config key %q", key)
		}
	}
	return d, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return DriverName }

// Platforms returns the single portable platform.
func (d *Driver) Platforms() ([]driver.Platform, error) {
	return []driver.Platform{&platform{drv: d}}, nil
}

type platform struct {
	drv *Driver
}

func (p *platform) Name() string   { return "Portable Compute" }
func (p *platform) Vendor() string { return "gpuq" }

func (p *platform) Devices() ([]driver.Device, error) {
	return []driver.Device{&device{drv: p.drv}}, nil
}

type device struct {
	drv *Driver
}

func (d *device) Name() string {
	return fmt.Sprintf("CPU (%s/%s, %d threads)", runtime.GOOS, runtime.GOARCH, d.workers())
}

func (d *device) Vendor() string { return "gpuq" }

func (d *device) Info() driver.DeviceInfo {
	return driver.DeviceInfo{
		Type:             "CPU",
		GlobalMemBytes:   0, // shared with the host allocator
		LocalMemBytes:    64 << 10,
		ComputeUnits:     d.workers(),
		MaxWorkGroupSize: maxGroupItems,
		MaxWorkItemSizes: []int{maxGroupItems, maxGroupItems, maxGroupItems},
	}
}

func (d *device) workers() int {
	if d.drv.threads > 0 {
		return d.drv.threads
	}
	return runtime.NumCPU()
}

// maxGroupItems bounds goroutines per work-group.
const maxGroupItems = 1 << 16
