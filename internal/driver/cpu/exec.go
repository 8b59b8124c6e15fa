package cpu

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/parallel"
)

// validateSubmission applies the range and binding rules a hardware queue
// would enforce at enqueue time, so failures surface synchronously.
func validateSubmission(k *kernel, r driver.Range, args []driver.BoundArg) error {
	dims := r.Dims()
	if dims < 1 || dims > 3 {
		return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidWorkDimension)
	}
	if len(r.Offset) > 0 && len(r.Offset) != dims {
		return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidGlobalOffset)
	}
	if len(r.Local) > 0 && len(r.Local) != dims {
		return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
	}
	itemsPerGroup := 1
	for d := 0; d < dims; d++ {
		if r.Global[d] <= 0 {
			return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidGlobalWorkSize)
		}
		if len(r.Local) > 0 {
			if r.Local[d] <= 0 || r.Global[d]%r.Local[d] != 0 {
				return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
			}
			itemsPerGroup *= r.Local[d]
		}
	}
	if itemsPerGroup > maxGroupItems {
		return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
	}
	if k.impl.NumArgs != len(args) {
		return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidKernelArgs)
	}
	for _, arg := range args {
		switch arg.Kind {
		case driver.ArgBuffer:
			if _, ok := arg.Buffer.(*memBuffer); !ok {
				return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidMemObject)
			}
		case driver.ArgLocal:
			if arg.Size <= 0 {
				return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidArgSize)
			}
		case driver.ArgScalar:
			if len(arg.Value) == 0 {
				return driver.Errf("cpu: enqueue "+k.name, driver.StatusInvalidArgValue)
			}
		}
	}
	return nil
}

// run executes the kernel over the range: work-groups are swept in
// parallel, the items of each group run on their own goroutines and share
// the group's barrier and local scratch.
func (k *kernel) run(args []driver.BoundArg, r driver.Range) error {
	inv := &Invocation{Name: k.name, Args: args, Defines: k.prog.defines, Range: r}
	if k.impl.Prepare != nil {
		if err := k.impl.Prepare(inv); err != nil {
			return err
		}
	}

	dims := r.Dims()
	var gsize, lsize, offset, groups [3]int
	itemsPerGroup, totalGroups := 1, 1
	for d := 0; d < dims; d++ {
		gsize[d] = r.Global[d]
		lsize[d] = 1
		if len(r.Local) > 0 {
			lsize[d] = r.Local[d]
		}
		if len(r.Offset) > 0 {
			offset[d] = r.Offset[d]
		}
		groups[d] = gsize[d] / lsize[d]
		itemsPerGroup *= lsize[d]
		totalGroups *= groups[d]
	}

	var errOnce sync.Once
	var runErr error
	fail := func(err error) {
		errOnce.Do(func() { runErr = err })
	}

	cfg := parallel.Coarse()
	if k.prog.dev.drv.threads > 0 {
		cfg.NumWorkers = k.prog.dev.drv.threads
		cfg.Enabled = cfg.NumWorkers > 1
	}

	parallel.For(totalGroups, func(gi int) {
		var group [3]int
		rest := gi
		for d := 0; d < dims; d++ {
			group[d] = rest % groups[d]
			rest /= groups[d]
		}

		locals := make([][]byte, len(args))
		for i, arg := range args {
			if arg.Kind == driver.ArgLocal {
				locals[i] = make([]byte, arg.Size)
			}
		}
		bar := newBarrier(itemsPerGroup)

		runItem := func(wi *Item) {
			defer func() {
				if v := recover(); v != nil {
					fail(errors.Errorf("cpu: kernel %q panicked: %v", k.name, v))
					bar.abort()
				}
			}()
			k.impl.Run(wi)
		}

		if itemsPerGroup == 1 {
			runItem(&Item{
				inv: inv, group: group,
				lsize: lsize, gsize: gsize, offset: offset,
				bar: bar, locals: locals,
			})
			return
		}

		var wg sync.WaitGroup
		wg.Add(itemsPerGroup)
		for li := 0; li < itemsPerGroup; li++ {
			var local [3]int
			rest := li
			for d := 0; d < dims; d++ {
				local[d] = rest % lsize[d]
				rest /= lsize[d]
			}
			go func(local [3]int) {
				defer wg.Done()
				runItem(&Item{
					inv: inv, group: group, local: local,
					lsize: lsize, gsize: gsize, offset: offset,
					bar: bar, locals: locals,
				})
			}(local)
		}
		wg.Wait()
	}, cfg)

	return runErr
}
