package driver

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ConfigEnvVar is the environment variable consulted when Open is called
// with an empty spec. Its value has the same "name" or "name:config" form.
const ConfigEnvVar = "GPUQ_DRIVER"

// Constructor builds a driver from its configuration string, the part of
// the spec after "name:". Most drivers accept an empty config.
type Constructor func(config string) (Driver, error)

var (
	regMu    sync.RWMutex
	registry = map[string]Constructor{}
)

// Register makes a driver constructor available under the given name.
// Drivers call it from init, so programs select drivers with blank imports.
// Registering the same name twice panics.
func Register(name string, ctor Constructor) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("driver: Register called twice for " + name)
	}
	registry[name] = ctor
}

// Available returns the registered driver names, sorted.
func Available() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a driver from a "name" or "name:config" spec. An empty spec
// falls back to the GPUQ_DRIVER environment variable, then to "cpu" when
// registered, then to the first registered driver.
func Open(spec string) (Driver, error) {
	if spec == "" {
		spec = os.Getenv(ConfigEnvVar)
	}
	if spec == "" {
		spec = defaultSpec()
		if spec == "" {
			return nil, errors.New("driver: no compute drivers registered; blank-import a driver package such as driver/cpu")
		}
	}

	name, config := spec, ""
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		name, config = spec[:i], spec[i+1:]
	}

	regMu.RLock()
	ctor, ok := registry[name]
	regMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("driver: unknown driver %q, registered: %s",
			name, strings.Join(Available(), ", "))
	}

	klog.V(1).Infof("driver: opening %q (config %q)", name, config)
	drv, err := ctor(config)
	if err != nil {
		return nil, errors.Wrapf(err, "driver: opening %q", name)
	}
	return drv, nil
}

func defaultSpec() string {
	regMu.RLock()
	defer regMu.RUnlock()
	if _, ok := registry["cpu"]; ok {
		return "cpu"
	}
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
