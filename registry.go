package glprint

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// HostFactory creates a new host instance.
type HostFactory func() (Host, error)

// ErrHostNotRegistered is returned by NewHost for an unknown name.
var ErrHostNotRegistered = errors.New("glprint: host not registered")

// registry holds registered hosts.
var (
	registryMu sync.RWMutex
	hosts      = make(map[string]HostFactory)
	// Priority order for DefaultHost (first available wins).
	// A real browser is authoritative; soft is the deterministic fallback.
	hostPriority = []string{"jsgl", "browser", "wgpu", "soft"}
)

// RegisterHost registers a host factory with the given name.
// This is typically called from init() functions in host packages.
// If a host with the same name is already registered, it will be replaced.
func RegisterHost(name string, factory HostFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	hosts[name] = factory
}

// UnregisterHost removes a host from the registry.
// This is useful for testing.
func UnregisterHost(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(hosts, name)
}

// HostNames returns the registered host names, sorted.
func HostNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewHost creates the host registered under name.
func NewHost(name string) (Host, error) {
	registryMu.RLock()
	factory, ok := hosts[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHostNotRegistered, name)
	}
	return factory()
}

// DefaultHost creates the first host in priority order whose factory
// succeeds, falling back to any other registered host.
func DefaultHost() (Host, error) {
	registryMu.RLock()
	order := make([]HostFactory, 0, len(hosts))
	for _, name := range hostPriority {
		if f, ok := hosts[name]; ok {
			order = append(order, f)
		}
	}
	rest := make([]string, 0, len(hosts))
	for name := range hosts {
		if !slices.Contains(hostPriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		order = append(order, hosts[name])
	}
	registryMu.RUnlock()

	var errs []error
	for _, f := range order {
		h, err := f()
		if err == nil && h != nil {
			return h, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: no host available: %w", ErrHostNotRegistered, errors.Join(errs...))
	}
	return nil, fmt.Errorf("%w: no host available", ErrHostNotRegistered)
}
