package bycss

import "github.com/panbanda/selectorlint/pkg/selector"

// observeCall classifies one call site and reports at most one diagnostic.
//
// Two shapes are recognised. A By.css(...) call with at least one argument
// is a locator call: a string literal argument is evaluated against the
// policy, and an identifier bound to a class selector is reported as
// noClasses without re-running the tag and ID checks. Any other call whose
// receiver is an array variable holding a class selector is reported as
// noClasses on the call itself. The second shape does not check that the
// array element actually reaches a locator; it flags, for example, the
// elements.forEach(...) call rather than a By.css call inside the callback.
func (s *fileState) observeCall(c call) {
	if isLocatorCall(c) {
		switch arg := c.args[0].(type) {
		case stringLiteral:
			if kind, ok := s.policy.Evaluate(arg.value); ok {
				s.report(c, kind)
			}
		case identifier:
			if s.policy.DisallowClasses && s.bindings.scalarIsClass(arg.name) {
				s.report(c, selector.NoClasses)
			}
		}
		return
	}

	m, ok := c.callee.(memberAccess)
	if !ok {
		return
	}
	recv, ok := m.object.(identifier)
	if !ok {
		return
	}
	if s.policy.DisallowClasses && s.bindings.arrayHasClass(recv.name) {
		s.report(c, selector.NoClasses)
	}
}

// isLocatorCall reports whether c is By.css(...) with at least one argument.
func isLocatorCall(c call) bool {
	m, ok := c.callee.(memberAccess)
	if !ok || m.property != "css" {
		return false
	}
	obj, ok := m.object.(identifier)
	return ok && obj.name == "By" && len(c.args) > 0
}
