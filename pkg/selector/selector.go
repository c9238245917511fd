// Package selector classifies CSS selector strings and applies the
// selector-style policy used by the By.css locator rule.
//
// Selectors are not parsed as CSS. Three independent pattern predicates
// recognise class, tag and ID selectors, and Policy.Evaluate applies them
// in a fixed order (class, then tag, then ID), reporting at most one kind.
package selector

import "regexp"

// Kind identifies which policy a selector violates.
type Kind string

// String implements fmt.Stringer for toon serialization.
func (k Kind) String() string {
	return string(k)
}

const (
	NoClasses Kind = "noClasses"
	NoTags    Kind = "noTags"
	NoIDs     Kind = "noIds"
)

// Kinds lists every message kind in evaluation order.
var Kinds = []Kind{NoClasses, NoTags, NoIDs}

var messages = map[Kind]string{
	NoClasses: "Using class selectors is discouraged. Consider using data attributes instead",
	NoTags:    "Using tag selectors is discouraged unless explicitly allowed",
	NoIDs:     "Using ID selectors is discouraged unless explicitly allowed",
}

// Message returns the human-readable message for the kind.
func (k Kind) Message() string {
	return messages[k]
}

// jsSpace is the whitespace set of a JavaScript regexp \s, which includes
// Unicode spaces that RE2's ASCII \s does not.
const jsSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	// A "." preceded by start of string or a non-identifier, non-hyphen,
	// non-"#" character, followed by a non-whitespace run. \w stays ASCII,
	// as in JavaScript.
	classPattern = regexp.MustCompile(`(?:^|[^#\w-])[` + jsSpace + `]*\.[^` + jsSpace + `]+`)
	tagPattern   = regexp.MustCompile(`^[a-z]+$`)
	idPattern    = regexp.MustCompile(`^#[\w-]+$`)
)

// IsClassLike reports whether s contains a class selector anywhere,
// e.g. ".foo", "div .foo", ".a.b".
func IsClassLike(s string) bool {
	return classPattern.MatchString(s)
}

// IsTagLike reports whether the whole of s is a bare lowercase tag name.
func IsTagLike(s string) bool {
	return tagPattern.MatchString(s)
}

// IsIDLike reports whether the whole of s is a single ID selector.
func IsIDLike(s string) bool {
	return idPattern.MatchString(s)
}

// Policy is the selector-style policy. The zero value allows everything;
// use DefaultPolicy for the rule's defaults.
type Policy struct {
	AllowIDs        bool `json:"allowIds" koanf:"allowIds" toml:"allowIds" yaml:"allowIds"`
	AllowTags       bool `json:"allowTags" koanf:"allowTags" toml:"allowTags" yaml:"allowTags"`
	DisallowClasses bool `json:"disallowClasses" koanf:"disallowClasses" toml:"disallowClasses" yaml:"disallowClasses"`
}

// DefaultPolicy flags class, tag and ID selectors.
func DefaultPolicy() Policy {
	return Policy{
		AllowIDs:        false,
		AllowTags:       false,
		DisallowClasses: true,
	}
}

// Evaluate classifies s against the policy. The first violated rule wins:
// classes, then tags, then IDs. ok is false when s is acceptable.
func (p Policy) Evaluate(s string) (kind Kind, ok bool) {
	switch {
	case p.DisallowClasses && IsClassLike(s):
		return NoClasses, true
	case !p.AllowTags && IsTagLike(s):
		return NoTags, true
	case !p.AllowIDs && IsIDLike(s):
		return NoIDs, true
	default:
		return "", false
	}
}
