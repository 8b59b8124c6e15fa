package queue

import (
	"errors"
	"testing"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/driver/cpu"
)

func cpuDriver(t *testing.T) driver.Driver {
	t.Helper()
	drv, err := cpu.New("")
	if err != nil {
		t.Fatalf("cpu.New failed: %v", err)
	}
	return drv
}

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := NewOn(cpuDriver(t), "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	t.Cleanup(q.Release)
	return q
}

func TestResolveBySubstring(t *testing.T) {
	drv := cpuDriver(t)

	// Matching is case-insensitive on both names.
	q, err := NewOn(drv, "pOrTaBlE", "cPu")
	if err != nil {
		t.Fatalf("NewOn(pOrTaBlE, cPu) failed: %v", err)
	}
	q.Release()

	// Empty strings match the first platform and device.
	q, err = NewOn(drv, "", "")
	if err != nil {
		t.Fatalf("NewOn(\"\", \"\") failed: %v", err)
	}
	defer q.Release()
	if q.Device() == nil || q.Platform() == nil || q.Driver() == nil {
		t.Error("resolved queue has nil accessors")
	}
}

func TestResolveNoMatch(t *testing.T) {
	drv := cpuDriver(t)

	if _, err := NewOn(drv, "no such platform", ""); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("platform mismatch error = %v, want ErrDeviceNotFound", err)
	}
	if _, err := NewOn(drv, "", "no such device"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("device mismatch error = %v, want ErrDeviceNotFound", err)
	}
}

func TestResolveByIndex(t *testing.T) {
	drv := cpuDriver(t)

	q, err := NewOnAt(drv, 0, 0)
	if err != nil {
		t.Fatalf("NewOnAt(0, 0) failed: %v", err)
	}
	q.Release()

	cases := []struct{ p, d int }{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for _, c := range cases {
		if _, err := NewOnAt(drv, c.p, c.d); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("NewOnAt(%d, %d) error = %v, want ErrIndexOutOfRange", c.p, c.d, err)
		}
	}
}

func TestResolveDefaultDriver(t *testing.T) {
	t.Setenv(driver.ConfigEnvVar, "cpu")
	q, err := New("", "cpu")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	q.Release()

	q, err = NewAt(0, 0)
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	q.Release()
}
