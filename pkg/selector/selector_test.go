package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		input string
		class bool
		tag   bool
		id    bool
	}{
		{".my-class", true, false, false},
		{".class1.class2", true, false, false},
		{".nested .my-class", true, false, false},
		{"div .my-class", true, false, false},
		{".my-class  .another-class", true, false, false},
		{"div.foo", false, false, false},
		{"a.b", false, false, false},
		{"button", false, true, false},
		{"div", false, true, false},
		{"Div", false, false, false},
		{"h1", false, false, false},
		{"#my-id", false, false, true},
		{"#another_id", false, false, true},
		{"#a .b", true, false, false},
		{"#a.b", false, false, false},
		{"div > span", false, false, false},
		{"[data-test='Hello']", false, false, false},
		{"input[type='text']", false, false, false},
		{"", false, false, false},
		{".", false, false, false},
		{".\u00a0", false, false, false},
		{".\u3000x", false, false, false},
		{".\ufeff", false, false, false},
		{"\u00a0.a", true, false, false},
		{"div\u2003.a", true, false, false},
		{".caf\u00e9", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.class, IsClassLike(tt.input), "IsClassLike")
			assert.Equal(t, tt.tag, IsTagLike(tt.input), "IsTagLike")
			assert.Equal(t, tt.id, IsIDLike(tt.input), "IsIDLike")
		})
	}
}

func TestPolicyEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		selector string
		want     Kind
	}{
		{"default tag", DefaultPolicy(), "button", NoTags},
		{"default id", DefaultPolicy(), "#my-id", NoIDs},
		{"default class", DefaultPolicy(), ".my-class", NoClasses},
		{"default combinator", DefaultPolicy(), "div > span", ""},
		{"default attribute", DefaultPolicy(), "[data-test='Hello']", ""},
		{"default compound tag class", DefaultPolicy(), "a.b", ""},
		{"allow tags button", Policy{AllowTags: true, DisallowClasses: true}, "button", ""},
		{"allow tags div", Policy{AllowTags: true, DisallowClasses: true}, "div", ""},
		{"allow tags class", Policy{AllowTags: true, DisallowClasses: true}, ".my-class", NoClasses},
		{"allow ids", Policy{AllowIDs: true, DisallowClasses: true}, "#my-id", ""},
		{"allow classes", Policy{}, ".my-class", ""},
		{"allow classes still flags tags", Policy{}, "div", NoTags},
		{"allow everything", Policy{AllowIDs: true, AllowTags: true}, "#x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.policy.Evaluate(tt.selector)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != "", ok)
		})
	}
}

func TestPolicyEvaluate_Idempotent(t *testing.T) {
	policies := []Policy{DefaultPolicy(), {}, {AllowIDs: true, AllowTags: true, DisallowClasses: true}}
	inputs := []string{"button", "#x", ".y", "div .z", "[data-qa]", ""}

	for _, p := range policies {
		for _, s := range inputs {
			k1, ok1 := p.Evaluate(s)
			k2, ok2 := p.Evaluate(s)
			assert.Equal(t, k1, k2, "policy %+v selector %q", p, s)
			assert.Equal(t, ok1, ok2)
		}
	}
}

func TestPolicyEvaluate_ClassTakesPrecedence(t *testing.T) {
	// "#a .b" is both ID-prefixed and class-like; only the class kind is reported.
	kind, ok := DefaultPolicy().Evaluate("#a .b")
	assert.True(t, ok)
	assert.Equal(t, NoClasses, kind)
}

func TestKindMessage(t *testing.T) {
	assert.Equal(t, "Using class selectors is discouraged. Consider using data attributes instead", NoClasses.Message())
	assert.Equal(t, "Using tag selectors is discouraged unless explicitly allowed", NoTags.Message())
	assert.Equal(t, "Using ID selectors is discouraged unless explicitly allowed", NoIDs.Message())
	assert.Empty(t, Kind("other").Message())

	for _, k := range Kinds {
		assert.NotEmpty(t, k.Message(), k.String())
	}
}
