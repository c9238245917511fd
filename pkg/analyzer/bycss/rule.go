package bycss

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/selectorlint/pkg/parser"
	"github.com/panbanda/selectorlint/pkg/selector"
)

// Rule metadata.
const (
	RuleName        = "no-classes-by-css"
	RuleType        = "problem"
	RuleDescription = "Disallow By.css locators built from class selectors, and optionally tag and ID selectors"
)

// Rule checks By.css locator calls against a selector policy. A Rule holds
// no per-file state and may be shared by concurrent Check calls.
type Rule struct {
	policy selector.Policy
}

// NewRule creates a rule enforcing policy.
func NewRule(policy selector.Policy) *Rule {
	return &Rule{policy: policy}
}

// Policy returns the policy the rule enforces.
func (r *Rule) Policy() selector.Policy {
	return r.policy
}

// Check runs the rule over one parsed file in a single document-order pass.
// A variable binding is visible only to calls that appear after its
// declaration. Diagnostics are returned in document order.
func (r *Rule) Check(result *parser.ParseResult) []Diagnostic {
	if result == nil || result.Tree == nil {
		return nil
	}

	st := newFileState(r.policy, result.Path, result.Source)
	parser.WalkTyped(result.Tree.RootNode(), result.Source, st.visit)
	return st.finish()
}

// fileState is the traversal context for one file. It owns the binding
// tables so that concurrent analyses never share them.
type fileState struct {
	policy      selector.Policy
	path        string
	source      []byte
	bindings    bindings
	suppressed  suppressions
	diagnostics []Diagnostic
}

func newFileState(policy selector.Policy, path string, source []byte) *fileState {
	return &fileState{
		policy:     policy,
		path:       path,
		source:     source,
		bindings:   newBindings(policy),
		suppressed: make(suppressions),
	}
}

func (s *fileState) visit(n *sitter.Node, nodeType string, _ []byte) bool {
	switch nodeType {
	case "variable_declarator":
		d := lowerDeclaration(n, s.source)
		s.bindings.observeDeclaration(d.name, d.init)
	case "call_expression":
		if c, ok := lowerCall(n, s.source); ok {
			s.observeCall(c)
		}
	case "comment":
		s.suppressed.observe(n, s.source)
	}
	return true
}

func (s *fileState) report(c call, kind selector.Kind) {
	start, end := c.raw.StartPoint(), c.raw.EndPoint()
	s.diagnostics = append(s.diagnostics, Diagnostic{
		File:      s.path,
		Line:      start.Row + 1,
		Column:    start.Column + 1,
		EndLine:   end.Row + 1,
		EndColumn: end.Column + 1,
		Rule:      RuleName,
		Kind:      kind,
		Message:   kind.Message(),
		Source:    parser.GetNodeText(c.raw, s.source),
	})
}

// finish drops suppressed diagnostics and fingerprints the rest.
func (s *fileState) finish() []Diagnostic {
	if len(s.diagnostics) == 0 {
		return nil
	}
	kept := s.diagnostics[:0]
	for _, d := range s.diagnostics {
		if !s.suppressed.covers(d) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	assignFingerprints(kept)
	return kept
}
