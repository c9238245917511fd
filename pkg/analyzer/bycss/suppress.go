package bycss

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/selectorlint/pkg/parser"
)

// Inline directives recognised in comments.
const (
	DirectiveDisableLine     = "selectorlint-disable-line"
	DirectiveDisableNextLine = "selectorlint-disable-next-line"
)

// suppressions holds 1-based line numbers silenced by inline directives.
type suppressions map[uint32]bool

func (s suppressions) observe(n *sitter.Node, src []byte) {
	text := parser.GetNodeText(n, src)
	switch {
	case strings.Contains(text, DirectiveDisableNextLine):
		s[n.EndPoint().Row+2] = true
	case strings.Contains(text, DirectiveDisableLine):
		s[n.StartPoint().Row+1] = true
	}
}

func (s suppressions) covers(d Diagnostic) bool {
	return s[d.Line]
}
