package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Store from backend-specific configuration.
type Factory func(ctx context.Context, conf map[string]any) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available to Open under name.
// Backends call it from their init functions; registering the same name
// twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("kv: backend %q registered twice", name))
	}
	registry[name] = f
}

// Open creates a Store using the backend registered under name.
func Open(ctx context.Context, name string, conf map[string]any) (Store, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("kv: backend %q not registered (available: %v)", name, Backends())
	}
	return f(ctx, conf)
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
