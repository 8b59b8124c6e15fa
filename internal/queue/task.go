package queue

import (
	"github.com/gpuq/gpuq/internal/driver"
)

// Task pairs a compiled kernel with its positional arguments. Argument i
// feeds kernel parameter i. The read-back list, fixed at construction,
// is the subsequence of host-backed out/in-out arguments in declaration
// order; local and scalar arguments never enter it.
type Task struct {
	kernel   driver.Kernel
	args     []Arg
	readback []int
}

// NewTask binds args to kernel positionally.
func NewTask(kernel driver.Kernel, args ...Arg) *Task {
	t := &Task{kernel: kernel, args: append([]Arg(nil), args...)}
	for i, a := range t.args {
		if a.hostBacked() && (a.dir == DirOut || a.dir == DirInOut) {
			t.readback = append(t.readback, i)
		}
	}
	return t
}

// KernelName returns the entry point name of the task's kernel.
func (t *Task) KernelName() string { return t.kernel.Name() }

// NumArgs returns the number of bound arguments.
func (t *Task) NumArgs() int { return len(t.args) }

// ReadbackIndices returns the argument positions that are read back
// after the kernel runs, in declaration order.
func (t *Task) ReadbackIndices() []int {
	return append([]int(nil), t.readback...)
}
