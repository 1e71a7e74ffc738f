package suite

import (
	"fmt"
	"sort"
	"sync"

	"digital.vasic.assert/pkg/predicate"
)

// Factory builds the predicate for a definition of one assertion
// type. It returns an error when the definition's value does not
// fit the type.
type Factory func(def Definition) (predicate.Predicate, error)

// Registry maps assertion types to factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a Registry with all built-in assertion types
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for name, f := range builtinFactories() {
		r.factories[name] = f
	}
	return r
}

// DefaultRegistry is the registry used by engines created without
// WithRegistry.
var DefaultRegistry = NewRegistry()

// Register adds a factory for the given assertion type. Returns an
// error if the type is already registered.
func (r *Registry) Register(assertionType string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assertionType == "all" || assertionType == "any" {
		return fmt.Errorf("assertion type is reserved: %s", assertionType)
	}
	if _, exists := r.factories[assertionType]; exists {
		return fmt.Errorf(
			"assertion type already registered: %s",
			assertionType,
		)
	}

	r.factories[assertionType] = f
	return nil
}

// Has reports whether the assertion type has a registered
// factory.
func (r *Registry) Has(assertionType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[assertionType]
	return exists
}

// Types returns the registered assertion types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories)+2)
	for name := range r.factories {
		types = append(types, name)
	}
	types = append(types, "all", "any")
	sort.Strings(types)
	return types
}

// Build returns the predicate for def. "all" and "any" combine the
// predicates of their children with And and Or; Not wraps the
// result in predicate.Not.
func (r *Registry) Build(def Definition) (predicate.Predicate, error) {
	def = normalize(def)

	var (
		p   predicate.Predicate
		err error
	)

	switch def.Type {
	case "all":
		p, err = r.combine(def.Type, def.All, predicate.And)
	case "any":
		p, err = r.combine(def.Type, def.Any, predicate.Or)
	default:
		r.mu.RLock()
		f, exists := r.factories[def.Type]
		r.mu.RUnlock()

		if !exists {
			return nil, fmt.Errorf("unknown assertion type: %s", def.Type)
		}
		p, err = f(def)
		if err != nil {
			err = fmt.Errorf("assertion %s: %w", def.Type, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if def.Not {
		p = predicate.Not(p)
	}
	return p, nil
}

func (r *Registry) combine(
	kind string,
	children []Definition,
	join func(a, b predicate.Predicate) predicate.Predicate,
) (predicate.Predicate, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("assertion %s: no child assertions", kind)
	}

	var combined predicate.Predicate
	for i, child := range children {
		p, err := r.Build(child)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		if combined == nil {
			combined = p
			continue
		}
		combined = join(combined, p)
	}
	return combined, nil
}
