package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Generator produces model text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Factory builds a Generator from config.
type Factory func(ctx context.Context, cfg Config) (Generator, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Factory{}
)

// RegisterBackend adds a backend to the global registry. Typically called
// from init() in backend packages:
//
//	func init() {
//	    llm.RegisterBackend("gemini", New)
//	}
func RegisterBackend(name string, f Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = f
}

// Registered reports whether a backend with name exists.
func Registered(name string) bool {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Backends returns the names of all registered backends, sorted.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the generator named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Generator, error) {
	cfg.ApplyDefaults()

	backendsMu.RLock()
	f, ok := backends[cfg.Backend]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm: unknown backend %q (forgot to import driver?)", cfg.Backend)
	}
	return f(ctx, cfg)
}
