// Package scope provides the parent-linked name tables used for both runtime
// environments and type environments.
package scope

// Scope maps names to T and falls back to its parent on lookup. The root
// scope has a nil parent.
type Scope[T any] struct {
	parent *Scope[T]
	names  map[string]T
}

func New[T any](parent *Scope[T]) *Scope[T] {
	return &Scope[T]{
		parent: parent,
		names:  map[string]T{},
	}
}

// Child opens a nested scope.
func (s *Scope[T]) Child() *Scope[T] {
	return New(s)
}

// Define binds name in this scope, shadowing any outer binding.
func (s *Scope[T]) Define(name string, v T) {
	s.names[name] = v
}

func (s *Scope[T]) Lookup(name string) (T, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.names[name]; ok {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// Assign rebinds the innermost existing binding of name. It reports false
// when name is not bound anywhere in the chain.
func (s *Scope[T]) Assign(name string, v T) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.names[name]; ok {
			cur.names[name] = v
			return true
		}
	}
	return false
}

// Contains reports whether name is bound in this scope itself.
func (s *Scope[T]) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Snapshot flattens the chain into a fresh map. Inner bindings win over
// outer ones.
func (s *Scope[T]) Snapshot() map[string]T {
	var chain []*Scope[T]
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	ret := map[string]T{}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].names {
			ret[k] = v
		}
	}
	return ret
}

// Names lists the names bound in this scope itself.
func (s *Scope[T]) Names() []string {
	ret := make([]string, 0, len(s.names))
	for k := range s.names {
		ret = append(ret, k)
	}
	return ret
}
