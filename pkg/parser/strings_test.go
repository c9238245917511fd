package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringValue(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
		ok     bool
	}{
		{"double quoted", `x(".my-class")`, ".my-class", true},
		{"single quoted", `x('#id')`, "#id", true},
		{"empty", `x("")`, "", true},
		{"escaped quote", `x("[data-test=\"Hello\"]")`, `[data-test="Hello"]`, true},
		{"escaped single quote", `x('[data-test=\'Hello\']')`, `[data-test='Hello']`, true},
		{"unicode escape", `x("\u002emy-class")`, ".my-class", true},
		{"code point escape", `x("\u{2e}a")`, ".a", true},
		{"hex escape", `x("\x2ea")`, ".a", true},
		{"surrogate pair", `x("\uD83D\uDE00.a")`, "\U0001F600.a", true},
		{"lone high surrogate", `x("\uD83D.a")`, "\uFFFD.a", true},
		{"high surrogate before non-surrogate", `x("\uD83D\u002ea")`, "\uFFFD.a", true},
		{"tab escape", `x("div\t.a")`, "div\t.a", true},
		{"unknown escape", `x("\q")`, "q", true},
		{"template string", "x(`.a`)", "", false},
		{"identifier", `x(sel)`, "", false},
		{"number", `x(1)`, "", false},
	}

	p := New()
	defer p.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(tt.source)
			result, err := p.Parse(src, LangJavaScript, "strings.js")
			require.NoError(t, err)

			// program > expression_statement > call_expression
			call := result.Tree.RootNode().NamedChild(0).NamedChild(0)
			require.Equal(t, "call_expression", call.Type())
			args := call.ChildByFieldName("arguments")
			require.NotNil(t, args)
			require.Greater(t, int(args.NamedChildCount()), 0)

			got, ok := StringValue(args.NamedChild(0), src)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringValue_Nil(t *testing.T) {
	got, ok := StringValue(nil, nil)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestUnescapeJS(t *testing.T) {
	assert.Equal(t, "plain", unescapeJS("plain"))
	assert.Equal(t, "ab", unescapeJS("a\\\nb"))
	assert.Equal(t, "a\\", unescapeJS("a\\"))
	assert.Equal(t, "x", unescapeJS(`\x`))
	assert.Equal(t, "u{zz}", unescapeJS(`\u{zz}`))
}
