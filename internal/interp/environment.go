package interp

import (
	"github.com/dolthub/swiss"
)

// binding is a single environment slot: the declared kind (for the
// "strong" assignment rule of spec.md §4.4.3) and the current value.
type binding struct {
	kind  DeclKind
	value Value
}

// Environment is a (bindings, enclosing) pair forming a parent chain, per
// spec.md §3.3. The binding store is backed by a swiss-table map (see
// DESIGN.md — grounded on mna-nenuphar's machine.Map) rather than a
// built-in Go map, matching the pack's own choice of hash-table library
// for a language runtime's variable/value store.
type Environment struct {
	store   *swiss.Map[string, *binding]
	outer   *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: swiss.NewMap[string, *binding](8)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	e := NewEnvironment()
	e.outer = outer
	return e
}

func (e *Environment) Outer() *Environment { return e.outer }

// Define inserts or overwrites a binding in the current scope only.
func (e *Environment) Define(name string, kind DeclKind, value Value) {
	e.store.Put(name, &binding{kind: kind, value: value})
}

// Get walks the chain outward looking for name.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store.Get(name); ok {
			return b.value, true
		}
	}
	return nil, false
}

// DeclaredKind reports the declared kind of the nearest binding for name.
func (e *Environment) DeclaredKind(name string) (DeclKind, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store.Get(name); ok {
			return b.kind, true
		}
	}
	return KindAny, false
}

// Assign walks the chain outward to find the scope owning name and
// overwrites its value (keeping its declared kind). Returns false if no
// scope owns the name.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store.Get(name); ok {
			b.value = value
			return true
		}
	}
	return false
}

// Has reports whether name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Range walks every binding visible from this environment (current scope
// first, then outward), invoking f until it returns false. Used by the
// InstanceTable's mark phase to discover reachable handles.
func (e *Environment) Range(f func(name string, value Value) bool) {
	for env := e; env != nil; env = env.outer {
		cont := true
		env.store.Iter(func(name string, b *binding) bool {
			if !f(name, b.value) {
				cont = false
				return true
			}
			return false
		})
		if !cont {
			return
		}
	}
}
