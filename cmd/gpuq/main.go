// Package main provides the gpuq command line tool: compute device
// discovery plus small end-to-end demos of the dispatch engine.
//
// Driver selection follows the library default: an explicit -driver flag,
// then the GPUQ_DRIVER environment variable, then the portable cpu driver.
// Hardware drivers compiled into this binary register themselves on start.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/hostbuf"
	"github.com/gpuq/gpuq/matrix"
	"github.com/gpuq/gpuq/queue"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "info":
		runInfo(rest)
	case "add":
		runAdd(rest)
	case "bench":
		runBench(rest)
	case "version":
		fmt.Printf("gpuq %s\n", version)
	default:
		klog.Errorf("Unknown command %q. See 'gpuq -help'.", cmd)
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `gpuq - compute device discovery and dispatch demos

Usage:

  gpuq [flags] <command> [command flags]

Commands:

  info     list registered drivers, platforms and devices
  add      run the element-wise vector add demo
  bench    time the tiled matrix product
  version  print the tool version

Run 'gpuq <command> -help' for the command's flags. Global flags:

`)
	flag.PrintDefaults()
}

func driverFlag(fs *flag.FlagSet) *string {
	return fs.String("driver", "",
		`driver spec, "name" or "name:config" (default $GPUQ_DRIVER, then cpu)`)
}

func newQueue(spec string) *queue.Queue {
	drv := must.M1(driver.Open(spec))
	q := must.M1(queue.NewOn(drv, "", ""))
	fmt.Printf("device: %s / %s\n", q.Platform().Name(), q.Device().Name())
	return q
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	spec := driverFlag(fs)
	must.M(fs.Parse(args))

	fmt.Printf("registered drivers: %s\n", strings.Join(driver.Available(), ", "))

	drv, err := driver.Open(*spec)
	if err != nil {
		klog.Exitf("Opening driver: %v", err)
	}
	fmt.Printf("selected driver:    %s\n\n", drv.Name())

	platforms, err := drv.Platforms()
	if err != nil {
		klog.Exitf("Enumerating platforms: %v", err)
	}
	for pi, p := range platforms {
		fmt.Printf("platform %d: %s (%s)\n", pi, p.Name(), p.Vendor())
		devices, err := p.Devices()
		if err != nil {
			klog.Exitf("Enumerating devices of %q: %v", p.Name(), err)
		}
		for di, d := range devices {
			info := d.Info()
			fmt.Printf("  device %d: %s (%s)\n", di, d.Name(), d.Vendor())
			fmt.Printf("    type               %s\n", info.Type)
			fmt.Printf("    global memory      %s\n", memSize(info.GlobalMemBytes))
			fmt.Printf("    local memory       %s\n", memSize(info.LocalMemBytes))
			fmt.Printf("    compute units      %s\n", humanize.Comma(int64(info.ComputeUnits)))
			fmt.Printf("    max work-group     %s items\n", humanize.Comma(int64(info.MaxWorkGroupSize)))
			fmt.Printf("    max item sizes     %v\n", info.MaxWorkItemSizes)
		}
	}
}

// memSize formats a byte count. The portable driver reports no dedicated
// global pool, so zero reads as host memory.
func memSize(n uint64) string {
	if n == 0 {
		return "shared with host"
	}
	return humanize.Bytes(n)
}

// Vector add sources per kernel language. The OpenCL C text serves the cpu
// and opencl drivers; the WGSL text serves webgpu, where the work-group
// shape lives in the declaration and the tail guard covers non-divisible
// global sizes. VAR_TYPE comes from the -D build option in both.
const (
	addSourceCL = `
#ifndef VAR_TYPE
#define VAR_TYPE int
#endif

__kernel void vector_add(__global const VAR_TYPE* a,
                         __global const VAR_TYPE* b,
                         __global VAR_TYPE* c) {
  int i = get_global_id(0);
  c[i] = a[i] + b[i];
}
`
	addSourceWGSL = `
@group(0) @binding(0) var<storage, read> a: array<VAR_TYPE>;
@group(0) @binding(1) var<storage, read> b: array<VAR_TYPE>;
@group(0) @binding(2) var<storage, read_write> c: array<VAR_TYPE>;

@compute @workgroup_size(64)
fn vector_add(@builtin(global_invocation_id) gid: vec3<u32>) {
  let i = gid.x;
  if (i < arrayLength(&c)) {
    c[i] = a[i] + b[i];
  }
}
`
)

func addSource(drv string) string {
	if drv == "webgpu" {
		return addSourceWGSL
	}
	return addSourceCL
}

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	n := fs.Int("n", 1<<20, "vector elements")
	spec := driverFlag(fs)
	must.M(fs.Parse(args))
	if *n <= 0 {
		klog.Exitf("-n must be positive, got %d", *n)
	}

	q := newQueue(*spec)
	defer q.Release()

	a := hostbuf.New[float32](*n)
	b := hostbuf.New[float32](*n)
	c := hostbuf.New[float32](*n)
	defer a.Release()
	defer b.Release()
	defer c.Release()
	for i := range a.Data() {
		a.Data()[i] = float32(i)
		b.Data()[i] = float32(2 * i)
	}

	k := must.M1(q.CompileSource("vector_add", addSource(q.Driver().Name()),
		"vector_add", "-D VAR_TYPE=float"))
	task := queue.NewTask(k, queue.In(a), queue.In(b), queue.Out(c))

	start := time.Now()
	fut := must.M1(q.Enqueue(task, queue.NewGrid(*n)))
	must.M1(fut.Get())
	elapsed := time.Since(start)

	for i, got := range c.Data() {
		if want := float32(3 * i); got != want {
			klog.Exitf("Element %d: got %v, want %v", i, got, want)
		}
	}
	fmt.Printf("added %s floats in %v, result verified\n",
		humanize.Comma(int64(*n)), elapsed.Round(time.Microsecond))
}

func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	size := fs.Int("size", 512, "square matrix dimension")
	iters := fs.Int("iters", 10, "timed iterations")
	spec := driverFlag(fs)
	must.M(fs.Parse(args))
	if *size <= 0 || *iters <= 0 {
		klog.Exitf("-size and -iters must be positive, got %d and %d", *size, *iters)
	}

	q := newQueue(*spec)
	defer q.Release()

	a := matrix.New[float32](*size, *size)
	b := matrix.New[float32](*size, *size)
	dst := matrix.New[float32](*size, *size)
	for i := range a.Data() {
		a.Data()[i] = rand.Float32()
		b.Data()[i] = rand.Float32()
	}

	// Warm-up run builds the program and primes the kernel cache, so the
	// timed loop measures dispatch alone.
	must.M1(must.M1(matrix.MulInto(q, dst, a, b)).Get())

	bar := progressbar.Default(int64(*iters), "matrix_mul")
	start := time.Now()
	for i := 0; i < *iters; i++ {
		must.M1(must.M1(matrix.MulInto(q, dst, a, b)).Get())
		must.M(bar.Add(1))
	}
	elapsed := time.Since(start)

	perOp := elapsed / time.Duration(*iters)
	flops := 2 * float64(*size) * float64(*size) * float64(*size)
	fmt.Printf("%s x %s matrix_mul: %v/op, %.2f GFLOPS over %s iterations\n",
		humanize.Comma(int64(*size)), humanize.Comma(int64(*size)),
		perOp.Round(time.Microsecond), flops/perOp.Seconds()/1e9,
		humanize.Comma(int64(*iters)))
}
