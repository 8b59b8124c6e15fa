//go:build windows

package webgpu

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

var entryDecl = regexp.MustCompile(`@compute\s+@workgroup_size\(([^)]*)\)\s*fn\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// program is a compiled WGSL module plus the work-group shapes scanned
// from its entry-point declarations.
type program struct {
	dev     *device
	module  *wgpu.ShaderModule
	entries map[string][3]int
	log     string
}

// NewProgram translates the build defines to WGSL declarations, prepends
// them to the source and compiles the module. The entry-point scan happens
// host-side: WGSL fixes each entry's work-group shape in its declaration,
// and submissions are validated against it.
func (d *device) NewProgram(source, options string) (prog driver.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			prog = nil
			err = &driver.BuildError{
				Status: driver.StatusBuildProgramFailure,
				Msg:    "webgpu: build",
				Log:    fmt.Sprint(r),
			}
		}
	}()

	defines, warnings := driver.ParseDefines(options)
	prelude, err := definesToWGSL(defines)
	if err != nil {
		return nil, err
	}

	text := prelude + source
	entries := scanEntries(text)
	if len(entries) == 0 {
		return nil, &driver.BuildError{
			Status: driver.StatusBuildProgramFailure,
			Msg:    "webgpu: build",
			Log:    strings.Join(append(warnings, "source declares no @compute entry points"), "\n"),
		}
	}

	module := d.wdev.CreateShaderModuleWGSL(text)
	klog.V(2).Infof("webgpu: built module with %d entry points, defines %v", len(entries), defines)
	return &program{
		dev:     d,
		module:  module,
		entries: entries,
		log:     strings.Join(warnings, "\n"),
	}, nil
}

func (p *program) Kernel(entry string) (k driver.Kernel, err error) {
	group, ok := p.entries[entry]
	if !ok {
		return nil, driver.Errf("webgpu: kernel "+entry, driver.StatusInvalidKernelName)
	}

	defer func() {
		if r := recover(); r != nil {
			k = nil
			err = driver.Errf("webgpu: kernel "+entry, driver.StatusInvalidKernelDefinition)
		}
	}()
	pipeline := p.dev.wdev.CreateComputePipelineSimple(nil, p.module, entry)
	return &kernel{name: entry, dev: p.dev, pipeline: pipeline, group: group}, nil
}

func (p *program) BuildLog() string { return p.log }

func (p *program) Release() {
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

type kernel struct {
	name     string
	dev      *device
	pipeline *wgpu.ComputePipeline
	group    [3]int
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) Release() {
	if k.pipeline != nil {
		k.pipeline.Release()
		k.pipeline = nil
	}
}

// scanEntries returns the @compute entry points of a WGSL text with their
// declared work-group shapes. Unspecified trailing dimensions are 1.
func scanEntries(source string) map[string][3]int {
	entries := map[string][3]int{}
	for _, m := range entryDecl.FindAllStringSubmatch(source, -1) {
		shape := [3]int{1, 1, 1}
		for i, part := range strings.Split(m[1], ",") {
			if i >= 3 {
				break
			}
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "u")))
			if err != nil || n < 1 {
				continue
			}
			shape[i] = n
		}
		if _, dup := entries[m[2]]; !dup {
			entries[m[2]] = shape
		}
	}
	return entries
}

// wgslTypes maps the kernel-language element names accepted in type
// defines to the WGSL types that can stand in for them.
var wgslTypes = map[hostbuf.Kind]string{
	hostbuf.Int32:   "i32",
	hostbuf.Uint32:  "u32",
	hostbuf.Float16: "f16",
	hostbuf.Float32: "f32",
}

// definesToWGSL renders the parsed defines as a WGSL prelude: type names
// become alias declarations, integer values become const declarations.
// Types WGSL cannot express fail the build.
func definesToWGSL(defines map[string]string) (string, error) {
	if len(defines) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, name := range sortedKeys(defines) {
		value := defines[name]
		if kind := hostbuf.KindByCLName(value); kind != hostbuf.Invalid {
			wgsl, ok := wgslTypes[kind]
			if !ok {
				return "", &driver.BuildError{
					Status: driver.StatusInvalidBuildOptions,
					Msg:    "webgpu: build",
					Log:    fmt.Sprintf("define %s=%s: element type %s has no WGSL equivalent", name, value, kind),
				}
			}
			fmt.Fprintf(&sb, "alias %s = %s;\n", name, wgsl)
			continue
		}
		if _, err := strconv.Atoi(value); err == nil {
			fmt.Fprintf(&sb, "const %s = %s;\n", name, value)
			continue
		}
		return "", &driver.BuildError{
			Status: driver.StatusInvalidBuildOptions,
			Msg:    "webgpu: build",
			Log:    fmt.Sprintf("define %s=%q: only integer values and element type names translate to WGSL", name, value),
		}
	}
	return sb.String(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
