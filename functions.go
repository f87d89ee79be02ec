package sqldialect

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

type FunctionKind int

const (
	// NamedFunction renders as name(arg1,arg2,...).
	NamedFunction FunctionKind = iota + 1
	// PatternFunction renders through a ?N template.
	PatternFunction
	// NoArgsFunction renders as name or name().
	NoArgsFunction
)

func (kind FunctionKind) String() string {
	switch kind {
	case NamedFunction:
		return "named"
	case PatternFunction:
		return "pattern"
	case NoArgsFunction:
		return "noargs"
	}
	return fmt.Sprintf("FunctionKind(%d)", int(kind))
}

// Unbounded is the MaxArgs of variadic functions.
const Unbounded = -1

// Function describes how one SQL function is rendered by a database.
type Function struct {
	Name string
	Kind FunctionKind
	// Invocation is the SQL function name for named and no-args functions.
	Invocation string
	// Patterns holds the template per argument count. Key 0 is used for
	// counts without an entry of their own.
	Patterns    map[int]string
	MinArgs     int
	MaxArgs     int
	Returns     SQLType
	Aggregate   bool
	Parentheses bool
}

func (function *Function) acceptsArgs(n int) bool {
	if n < function.MinArgs {
		return false
	}
	return function.MaxArgs == Unbounded || n <= function.MaxArgs
}

func (function *Function) Render(args ...string) (string, error) {
	if !function.acceptsArgs(len(args)) {
		return "", fmt.Errorf("sqldialect: function '%s' takes %s arguments, got %d", function.Name, function.arity(), len(args))
	}
	switch function.Kind {
	case NoArgsFunction:
		if function.Parentheses {
			return function.Invocation + "()", nil
		}
		return function.Invocation, nil
	case PatternFunction:
		pattern, ok := function.Patterns[len(args)]
		if !ok {
			pattern = function.Patterns[0]
		}
		return Render(pattern, args...), nil
	}
	return function.Invocation + "(" + strings.Join(args, ",") + ")", nil
}

// Signature is a short human readable description, e.g. "substr(2..3) -> VARCHAR".
func (function *Function) Signature() string {
	var signature strings.Builder
	signature.WriteString(function.Name)
	signature.WriteString("(")
	signature.WriteString(function.arity())
	signature.WriteString(")")
	if function.Aggregate {
		signature.WriteString(" aggregate")
	}
	if function.Returns != 0 {
		signature.WriteString(" -> ")
		signature.WriteString(function.Returns.String())
	}
	return signature.String()
}

func (function *Function) arity() string {
	switch {
	case function.MaxArgs == Unbounded:
		return fmt.Sprintf("%d..", function.MinArgs)
	case function.MinArgs == function.MaxArgs:
		return fmt.Sprintf("%d", function.MinArgs)
	}
	return fmt.Sprintf("%d..%d", function.MinArgs, function.MaxArgs)
}

// FunctionRegistry maps function names to their per-database rendering.
// Registration normally happens once through a dialect's RegisterFunctions;
// lookups are safe for concurrent use.
type FunctionRegistry struct {
	mu         sync.RWMutex
	functions  map[string]*Function
	alternates map[string]string
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions:  make(map[string]*Function),
		alternates: make(map[string]string),
	}
}

// Register adds function, replacing any function or alternate key of the same name.
func (registry *FunctionRegistry) Register(function *Function) *Function {
	key := strings.ToLower(function.Name)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.alternates, key)
	registry.functions[key] = function
	return function
}

// RegisterNamed registers name(args) with between minArgs and maxArgs arguments.
func (registry *FunctionRegistry) RegisterNamed(name string, minArgs, maxArgs int, returns SQLType) *Function {
	return registry.RegisterNamedAs(name, name, minArgs, maxArgs, returns)
}

// RegisterNamedAs registers key rendered as invocation(args).
func (registry *FunctionRegistry) RegisterNamedAs(key, invocation string, minArgs, maxArgs int, returns SQLType) *Function {
	return registry.Register(&Function{
		Name:       key,
		Kind:       NamedFunction,
		Invocation: invocation,
		MinArgs:    minArgs,
		MaxArgs:    maxArgs,
		Returns:    returns,
	})
}

func (registry *FunctionRegistry) RegisterPattern(name, pattern string, minArgs, maxArgs int, returns SQLType) *Function {
	return registry.Register(&Function{
		Name:     name,
		Kind:     PatternFunction,
		Patterns: map[int]string{0: pattern},
		MinArgs:  minArgs,
		MaxArgs:  maxArgs,
		Returns:  returns,
	})
}

func (registry *FunctionRegistry) RegisterNoArgs(name string, parentheses bool, returns SQLType) *Function {
	return registry.RegisterNoArgsAs(name, name, parentheses, returns)
}

func (registry *FunctionRegistry) RegisterNoArgsAs(key, invocation string, parentheses bool, returns SQLType) *Function {
	return registry.Register(&Function{
		Name:        key,
		Kind:        NoArgsFunction,
		Invocation:  invocation,
		Returns:     returns,
		Parentheses: parentheses,
	})
}

// RegisterAggregate registers an aggregate. An empty pattern renders name(args).
func (registry *FunctionRegistry) RegisterAggregate(name, pattern string, args int, returns SQLType) *Function {
	if pattern == "" {
		function := registry.RegisterNamed(name, args, args, returns)
		function.Aggregate = true
		return function
	}
	function := registry.RegisterPattern(name, pattern, args, args, returns)
	function.Aggregate = true
	return function
}

// RegisterBinaryTernary registers a function taking two or three arguments
// with a template for each count.
func (registry *FunctionRegistry) RegisterBinaryTernary(name, binary, ternary string, returns SQLType) *Function {
	return registry.registerArities(name, 2, binary, ternary, returns)
}

// RegisterTernaryQuaternary registers a function taking three or four arguments.
func (registry *FunctionRegistry) RegisterTernaryQuaternary(name, ternary, quaternary string, returns SQLType) *Function {
	return registry.registerArities(name, 3, ternary, quaternary, returns)
}

func (registry *FunctionRegistry) registerArities(name string, arity int, shorter, longer string, returns SQLType) *Function {
	return registry.Register(&Function{
		Name:     name,
		Kind:     PatternFunction,
		Patterns: map[int]string{arity: shorter, arity + 1: longer},
		MinArgs:  arity,
		MaxArgs:  arity + 1,
		Returns:  returns,
	})
}

// RegisterAlternateKey makes alternate resolve to the function registered as
// name, replacing any function registered as alternate.
func (registry *FunctionRegistry) RegisterAlternateKey(alternate, name string) {
	key := strings.ToLower(alternate)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.functions, key)
	registry.alternates[key] = strings.ToLower(name)
}

// Lookup resolves name, following alternate keys.
func (registry *FunctionRegistry) Lookup(name string) (*Function, bool) {
	key := strings.ToLower(name)
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if function, ok := registry.functions[key]; ok {
		return function, true
	}
	if target, ok := registry.alternates[key]; ok {
		function, ok := registry.functions[target]
		return function, ok
	}
	return nil, false
}

// Names lists registered function names and alternate keys in sorted order.
func (registry *FunctionRegistry) Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.functions)+len(registry.alternates))
	for name := range registry.functions {
		names = append(names, name)
	}
	for name := range registry.alternates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (registry *FunctionRegistry) Render(name string, args ...string) (string, error) {
	function, ok := registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("sqldialect: unknown function '%s'", name)
	}
	return function.Render(args...)
}

// FunctionContributor fills a registry with the functions of one database.
type FunctionContributor interface {
	RegisterFunctions(registry *FunctionRegistry)
}

var functionRegistries sync.Map

// Functions returns the registry populated by contributor. Registries of
// comparable contributors are built once and shared, so callers must not
// register into them.
func Functions(contributor FunctionContributor) *FunctionRegistry {
	if !reflect.ValueOf(contributor).Comparable() {
		return buildFunctions(contributor)
	}
	if registry, ok := functionRegistries.Load(contributor); ok {
		return registry.(*FunctionRegistry)
	}
	registry, _ := functionRegistries.LoadOrStore(contributor, buildFunctions(contributor))
	return registry.(*FunctionRegistry)
}

func buildFunctions(contributor FunctionContributor) *FunctionRegistry {
	registry := NewFunctionRegistry()
	contributor.RegisterFunctions(registry)
	return registry
}
