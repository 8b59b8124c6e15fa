//go:build windows

// Package webgpu implements the compute driver over WebGPU, using
// github.com/go-webgpu/webgpu for zero-CGO bindings to wgpu_native.
//
// Kernels are WGSL compute entry points. A program build prepends the
// "-D NAME=value" defines as WGSL const and alias declarations, compiles
// the module and scans it for "@compute @workgroup_size(...) fn name"
// declarations; the work-group shape is fixed by the shader text, so a
// submission's local size must either be omitted or match the declared
// shape.
//
// Driver limits, reported as status errors at enqueue: global offsets are
// not supported (INVALID_GLOBAL_OFFSET) and local scratch arguments are
// not supported (INVALID_ARG_VALUE); WGSL kernels declare their workgroup
// memory in the shader text instead.
package webgpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

// DriverName is the name this driver registers under.
const DriverName = "webgpu"

func init() {
	driver.Register(DriverName, func(config string) (driver.Driver, error) {
		return New(config)
	})
}

// WebGPU guarantees these limits to every conforming adapter; the bindings
// expose no portable way to query the actual ones.
const (
	maxInvocationsPerGroup = 256
	maxGroupDim            = 256
)

// Driver exposes the system's WebGPU adapter as a single platform with a
// single device.
type Driver struct {
	power wgpu.PowerPreference

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	info     wgpu.AdapterInfo

	mu  sync.Mutex
	dev *device
}

// New creates a webgpu driver and requests the adapter. The configuration
// accepts comma-separated key=value pairs; the only key is "power", with
// values "high" and "low", selecting the adapter power preference.
func New(config string) (d *Driver, err error) {
	// A missing wgpu_native library surfaces as a panic inside the
	// bindings; report it as a driver status instead of crashing.
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = errors.Wrapf(driver.Errf("webgpu: init", driver.StatusNotConfigured),
				"native library not available: %v", r)
		}
	}()

	d = &Driver{power: wgpu.PowerPreferenceHighPerformance}
	for _, kv := range strings.Split(config, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "power":
			switch value {
			case "high":
				d.power = wgpu.PowerPreferenceHighPerformance
			case "low":
				d.power = wgpu.PowerPreferenceLowPower
			default:
				return nil, errors.Errorf("webgpu: invalid power value %q", value)
			}
		default:
			return nil, errors.Errorf("webgpu: unknown config key %q", key)
		}
	}

	d.instance = wgpu.CreateInstance(nil)
	adapter, aerr := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: d.power,
	})
	if aerr != nil {
		d.instance.Release()
		return nil, errors.Wrap(aerr, "webgpu: no adapter")
	}
	d.adapter = adapter
	d.info = adapter.GetInfo()
	return d, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return DriverName }

// Platforms returns the single WebGPU platform.
func (d *Driver) Platforms() ([]driver.Platform, error) {
	return []driver.Platform{&platform{drv: d}}, nil
}

type platform struct {
	drv *Driver
}

func (p *platform) Name() string   { return "WebGPU" }
func (p *platform) Vendor() string { return p.drv.info.VendorName }

func (p *platform) Devices() ([]driver.Device, error) {
	dev, err := p.drv.openDevice()
	if err != nil {
		return nil, err
	}
	return []driver.Device{dev}, nil
}

// openDevice requests the logical device once and reuses it: buffers and
// programs of all queues must share it.
func (d *Driver) openDevice() (dev *device, err error) {
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = errors.Wrapf(driver.Errf("webgpu: device", driver.StatusNotConfigured),
				"request device: %v", r)
		}
	}()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev != nil {
		return d.dev, nil
	}
	wdev, derr := d.adapter.RequestDevice(nil)
	if derr != nil {
		return nil, errors.Wrap(derr, "webgpu: request device")
	}
	queue := wdev.GetQueue()
	if queue == nil {
		wdev.Release()
		return nil, driver.Errf("webgpu: device queue", driver.StatusDeviceNotAvailable)
	}
	d.dev = &device{drv: d, wdev: wdev, wq: queue}
	return d.dev, nil
}

type device struct {
	drv  *Driver
	wdev *wgpu.Device
	wq   *wgpu.Queue
}

func (d *device) Name() string {
	if d.drv.info.Name != "" {
		return fmt.Sprintf("%s (WebGPU)", d.drv.info.Name)
	}
	return "WebGPU Device"
}

func (d *device) Vendor() string { return d.drv.info.VendorName }

func (d *device) Info() driver.DeviceInfo {
	return driver.DeviceInfo{
		Type:             "GPU",
		GlobalMemBytes:   0, // not queryable through the bindings
		LocalMemBytes:    16 << 10,
		ComputeUnits:     0,
		MaxWorkGroupSize: maxInvocationsPerGroup,
		MaxWorkItemSizes: []int{maxGroupDim, maxGroupDim, 64},
	}
}

// IsAvailable reports whether the native runtime can provide an adapter.
// Useful for graceful fallback to the cpu driver.
func IsAvailable() bool {
	_, err := New("")
	return err == nil
}
