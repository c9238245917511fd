package bycss

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/selectorlint/pkg/parser"
)

// node is the closed set of syntax shapes the rule inspects. Every other
// tree-sitter node lowers to other.
type node interface {
	shape()
}

type (
	// declaration is a single variable declarator. name is empty for
	// destructuring patterns.
	declaration struct {
		name string
		init node
	}

	// call is a call expression with an ordinary argument list.
	call struct {
		raw    *sitter.Node
		callee node
		args   []node
	}

	stringLiteral struct {
		value string
	}

	arrayLiteral struct {
		elements []node
	}

	memberAccess struct {
		object   node
		property string
	}

	identifier struct {
		name string
	}

	other struct{}
)

func (declaration) shape()   {}
func (call) shape()          {}
func (stringLiteral) shape() {}
func (arrayLiteral) shape()  {}
func (memberAccess) shape()  {}
func (identifier) shape()    {}
func (other) shape()         {}

// lowerDeclaration converts a variable_declarator node.
func lowerDeclaration(n *sitter.Node, src []byte) declaration {
	d := declaration{init: other{}}
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
		d.name = parser.GetNodeText(name, src)
	}
	if value := n.ChildByFieldName("value"); value != nil {
		d.init = lowerExpr(value, src)
	}
	return d
}

// lowerCall converts a call_expression node. ok is false for tagged
// templates, which carry a template string instead of an argument list.
func lowerCall(n *sitter.Node, src []byte) (c call, ok bool) {
	argList := n.ChildByFieldName("arguments")
	if argList == nil || argList.Type() != "arguments" {
		return call{}, false
	}

	c = call{raw: n, callee: other{}}
	if fn := n.ChildByFieldName("function"); fn != nil {
		c.callee = lowerExpr(fn, src)
	}
	for i := range int(argList.NamedChildCount()) {
		arg := argList.NamedChild(i)
		if arg.Type() == "comment" {
			continue
		}
		c.args = append(c.args, lowerExpr(arg, src))
	}
	return c, true
}

// lowerExpr converts an expression node. Only the shapes the rule needs are
// lowered; nested calls and everything else become other.
func lowerExpr(n *sitter.Node, src []byte) node {
	switch n.Type() {
	case "parenthesized_expression":
		// ESTree drops parentheses, so (".a") is still a literal.
		if inner := firstNamedNonComment(n); inner != nil {
			return lowerExpr(inner, src)
		}
	case "string":
		if v, ok := parser.StringValue(n, src); ok {
			return stringLiteral{value: v}
		}
	case "identifier":
		return identifier{name: parser.GetNodeText(n, src)}
	case "array":
		arr := arrayLiteral{}
		for i := range int(n.NamedChildCount()) {
			el := n.NamedChild(i)
			if el.Type() == "comment" {
				continue
			}
			arr.elements = append(arr.elements, lowerExpr(el, src))
		}
		return arr
	case "member_expression":
		m := memberAccess{object: other{}}
		if obj := n.ChildByFieldName("object"); obj != nil {
			m.object = lowerExpr(obj, src)
		}
		if prop := n.ChildByFieldName("property"); prop != nil && prop.Type() == "property_identifier" {
			m.property = parser.GetNodeText(prop, src)
		}
		return m
	case "subscript_expression":
		// a[b] is a computed member access. Only a bare identifier index
		// names a property, so By[css] matches but By["css"] does not.
		m := memberAccess{object: other{}}
		if obj := n.ChildByFieldName("object"); obj != nil {
			m.object = lowerExpr(obj, src)
		}
		if idx := n.ChildByFieldName("index"); idx != nil && idx.Type() == "identifier" {
			m.property = parser.GetNodeText(idx, src)
		}
		return m
	}
	return other{}
}

func firstNamedNonComment(n *sitter.Node) *sitter.Node {
	for i := range int(n.NamedChildCount()) {
		if c := n.NamedChild(i); c.Type() != "comment" {
			return c
		}
	}
	return nil
}
