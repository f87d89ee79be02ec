package sqldialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Constructor builds a dialect from options.
type Constructor func(options Options) (Dialect, error)

// Registry maps dialect names and aliases to constructors. Vendor packages
// register themselves in the default registry from init().
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	aliases      map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		aliases:      make(map[string]string),
	}
}

// foldName builds a Caser per call; Casers are not safe for concurrent use.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (registry *Registry) Register(name string, constructor Constructor, aliases ...string) {
	key := foldName(name)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.constructors[key] = constructor
	for _, alias := range aliases {
		registry.aliases[foldName(alias)] = key
	}
}

func (registry *Registry) resolve(name string) (string, Constructor, bool) {
	key := foldName(name)
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if target, ok := registry.aliases[key]; ok {
		key = target
	}
	constructor, ok := registry.constructors[key]
	return key, constructor, ok
}

func (registry *Registry) IsRegistered(name string) bool {
	_, _, ok := registry.resolve(name)
	return ok
}

// Registered lists the registered dialect names, without aliases, sorted.
func (registry *Registry) Registered() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.constructors))
	for name := range registry.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (registry *Registry) Open(name string, options Options) (Dialect, error) {
	_, constructor, ok := registry.resolve(name)
	if !ok {
		return nil, fmt.Errorf("sqldialect: unknown dialect '%s' (available: %s)", name, strings.Join(registry.Registered(), ", "))
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return constructor(options)
}

var defaultRegistry = NewRegistry()

func Register(name string, constructor Constructor, aliases ...string) {
	defaultRegistry.Register(name, constructor, aliases...)
}

func IsRegistered(name string) bool {
	return defaultRegistry.IsRegistered(name)
}

func Registered() []string {
	return defaultRegistry.Registered()
}

func Open(name string, options Options) (Dialect, error) {
	return defaultRegistry.Open(name, options)
}
