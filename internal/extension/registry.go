package extension

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Variadic marks a descriptor that consumes every token up to the next
// extension keyword.
const Variadic = -1

// Descriptor registers an extension keyword.
type Descriptor struct {
	Name  string
	Order int

	// Arity is the exact operand count, or Variadic.
	Arity int

	// New returns a fresh, unparsed instance.
	New func() Extension
}

// IsVariadic reports whether the descriptor takes any number of operands.
func (d Descriptor) IsVariadic() bool {
	return d.Arity == Variadic
}

func (d Descriptor) String() string {
	if d.IsVariadic() {
		return fmt.Sprintf("%s(order=%d, arity=variadic)", d.Name, d.Order)
	}
	return fmt.Sprintf("%s(order=%d, arity=%d)", d.Name, d.Order, d.Arity)
}

// Registry maps case-insensitive keywords to descriptors.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

// Register adds or replaces the descriptor for d.Name. It panics on a
// descriptor without a name or factory, or with a negative fixed arity.
func (r *Registry) Register(d Descriptor) {
	if strings.TrimSpace(d.Name) == "" || d.New == nil {
		panic("extension: Register requires a name and a factory")
	}
	if d.Arity < Variadic {
		panic(fmt.Sprintf("extension: invalid arity %d for %s", d.Arity, d.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[fold(d.Name)] = d
}

// Lookup finds a descriptor by keyword, ignoring case.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[fold(name)]
	return d, ok
}

// Descriptors lists every registration by order, then name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		list = append(list, d)
	}
	slices.SortFunc(list, func(a, b Descriptor) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Name, b.Name)
	})
	return list
}

// Len returns the number of registered keywords.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var (
	defaultRegistry = NewRegistry()
	initOnce        sync.Once
)

// Initialize registers the built-in extensions in the process-wide
// registry. It must run before the first parse; later calls are no-ops.
func Initialize() {
	initOnce.Do(func() {
		RegisterBuiltins(defaultRegistry)
	})
}

// Default returns the process-wide registry, initializing it if needed.
func Default() *Registry {
	Initialize()
	return defaultRegistry
}

// RegisterBuiltins registers Where, Distinct, Sort and Limit in r.
func RegisterBuiltins(r *Registry) {
	r.Register(Descriptor{Name: "Where", Order: OrderWhere, Arity: Variadic, New: func() Extension { return &Where{} }})
	r.Register(Descriptor{Name: "Distinct", Order: OrderDistinct, Arity: Variadic, New: func() Extension { return &Distinct{} }})
	r.Register(Descriptor{Name: "Sort", Order: OrderSort, Arity: Variadic, New: func() Extension { return &Sort{} }})
	r.Register(Descriptor{Name: "Limit", Order: OrderLimit, Arity: 1, New: func() Extension { return &Limit{} }})
}

func fold(s string) string {
	return cases.Fold().String(s)
}
