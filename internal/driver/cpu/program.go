package cpu

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/driver"
)

var kernelDecl = regexp.MustCompile(`\b(?:__)?kernel\s+void\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// program is a built program of the portable driver: the scanned entry
// points of the source resolved against registered implementations, plus
// the parsed defines.
type program struct {
	dev     *device
	entries map[string]Impl
	defines map[string]string
	log     string
}

// NewProgram scans the source for kernel entry points and resolves each
// against the registered implementations. Unresolved entry points fail the
// build; the build log names them, one per line.
func (d *device) NewProgram(source, options string) (driver.Program, error) {
	defines, warnings := driver.ParseDefines(options)

	names := scanKernels(source)
	if len(names) == 0 {
		return nil, &driver.BuildError{
			Status: driver.StatusBuildProgramFailure,
			Msg:    "cpu: build",
			Log:    strings.Join(append(warnings, "source declares no kernel entry points"), "\n"),
		}
	}

	entries := make(map[string]Impl, len(names))
	var missing []string
	for _, name := range names {
		impl, ok := lookupImpl(name)
		if !ok {
			missing = append(missing, fmt.Sprintf("kernel %q: no implementation registered with this driver", name))
			continue
		}
		entries[name] = impl
	}
	if len(missing) > 0 {
		return nil, &driver.BuildError{
			Status: driver.StatusBuildProgramFailure,
			Msg:    "cpu: build",
			Log:    strings.Join(append(warnings, missing...), "\n"),
		}
	}

	klog.V(2).Infof("cpu: built program with %d entry points, defines %v", len(entries), defines)
	return &program{
		dev:     d,
		entries: entries,
		defines: defines,
		log:     strings.Join(warnings, "\n"),
	}, nil
}

func (p *program) Kernel(entry string) (driver.Kernel, error) {
	impl, ok := p.entries[entry]
	if !ok {
		return nil, driver.Errf("cpu: kernel "+entry, driver.StatusInvalidKernelName)
	}
	return &kernel{name: entry, impl: impl, prog: p}, nil
}

func (p *program) BuildLog() string { return p.log }

func (p *program) Release() {}

type kernel struct {
	name string
	impl Impl
	prog *program
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) Release() {}

// scanKernels returns the entry-point names declared in source, in order of
// appearance, without duplicates.
func scanKernels(source string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range kernelDecl.FindAllStringSubmatch(source, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

