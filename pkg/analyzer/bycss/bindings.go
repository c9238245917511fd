package bycss

import "github.com/panbanda/selectorlint/pkg/selector"

// bindings records variables whose initializer is known to hold a class
// selector. Entries are added once at the declaration and never removed;
// reassignment is not tracked. A name absent from a table is unknown.
type bindings struct {
	// enabled is false when class selectors are allowed, in which case
	// nothing is tracked.
	enabled bool
	scalars map[string]bool
	arrays  map[string]bool
}

func newBindings(policy selector.Policy) bindings {
	return bindings{
		enabled: policy.DisallowClasses,
		scalars: make(map[string]bool),
		arrays:  make(map[string]bool),
	}
}

// observeDeclaration records name when init is a class-like string literal
// or an array literal with at least one class-like string literal element.
func (b *bindings) observeDeclaration(name string, init node) {
	if !b.enabled || name == "" {
		return
	}

	switch v := init.(type) {
	case stringLiteral:
		if selector.IsClassLike(v.value) {
			b.scalars[name] = true
		}
	case arrayLiteral:
		if containsClassSelector(v.elements) {
			b.arrays[name] = true
		}
	}
}

func (b *bindings) scalarIsClass(name string) bool {
	return b.scalars[name]
}

func (b *bindings) arrayHasClass(name string) bool {
	return b.arrays[name]
}

func containsClassSelector(elements []node) bool {
	for _, el := range elements {
		if s, ok := el.(stringLiteral); ok && selector.IsClassLike(s.value) {
			return true
		}
	}
	return false
}
