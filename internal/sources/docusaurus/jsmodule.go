package docusaurus

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"
	"gopkg.in/yaml.v3"
)

// maxJSDepth bounds nesting and identifier indirection, which also stops
// self-referencing bindings.
const maxJSDepth = 64

// esmDefaultExport matches "export default" at the start of a line. The
// parser only knows scripts, so it is rewritten to a CommonJS assignment on
// the same line.
var esmDefaultExport = regexp.MustCompile(`(?m)^export[ \t]+default\b`)

var errNoExport = errors.New("no module.exports or export default assignment found")

// parseJSModule parses a sidebars module and returns its exported value as a
// YAML node tree, so both file kinds share the same mapper. The module is
// parsed, never run: the export must be an object literal, or a variable
// declared in the same file holding one. Strings, numbers, booleans, null,
// arrays and objects are understood; anything else (calls, spreads,
// computed keys) is an error.
func parseJSModule(src []byte) (*yaml.Node, error) {
	code := esmDefaultExport.ReplaceAllString(string(src), "module.exports =")

	prog, err := parser.ParseFile(nil, "", code, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, err
	}
	if len(prog.Body) == 0 {
		return &yaml.Node{}, nil
	}

	m := &jsModule{src: code, bindings: make(map[string]ast.Expression)}
	var exported ast.Expression
	for _, stmt := range prog.Body {
		switch st := stmt.(type) {
		case *ast.VariableStatement:
			m.bind(st.List)
		case *ast.LexicalDeclaration:
			m.bind(st.List)
		case *ast.ExpressionStatement:
			if e, ok := exportValue(st.Expression); ok {
				exported = e
			}
		}
	}
	if exported == nil {
		return nil, errNoExport
	}

	return m.node(exported, 0)
}

// exportValue returns the right-hand side of "module.exports = <expr>".
func exportValue(expr ast.Expression) (ast.Expression, bool) {
	assign, ok := expr.(*ast.AssignExpression)
	if !ok || assign.Operator != token.ASSIGN {
		return nil, false
	}
	dot, ok := assign.Left.(*ast.DotExpression)
	if !ok || dot.Identifier.Name != "exports" {
		return nil, false
	}
	obj, ok := dot.Left.(*ast.Identifier)
	if !ok || obj.Name != "module" {
		return nil, false
	}
	return assign.Right, true
}

type jsModule struct {
	src      string
	bindings map[string]ast.Expression
}

func (m *jsModule) bind(list []*ast.Binding) {
	for _, b := range list {
		if id, ok := b.Target.(*ast.Identifier); ok {
			m.bindings[id.Name.String()] = b.Initializer
		}
	}
}

// line converts a parser offset (1-based) to a line number.
func (m *jsModule) line(idx file.Idx) int {
	off := int(idx) - 1
	if off < 0 {
		return 0
	}
	if off > len(m.src) {
		off = len(m.src)
	}
	return strings.Count(m.src[:off], "\n") + 1
}

func (m *jsModule) node(expr ast.Expression, depth int) (*yaml.Node, error) {
	if depth > maxJSDepth {
		return nil, fmt.Errorf("line %d: value nested too deep", m.line(expr.Idx0()))
	}
	line := m.line(expr.Idx0())

	switch e := expr.(type) {
	case *ast.ObjectLiteral:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
		for _, prop := range e.Value {
			key, value, err := m.property(prop, depth)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, value)
		}
		return n, nil

	case *ast.ArrayLiteral:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
		for _, v := range e.Value {
			if v == nil {
				return nil, fmt.Errorf("line %d: empty array element", line)
			}
			child, err := m.node(v, depth+1)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil

	case *ast.StringLiteral:
		return scalarNode("!!str", e.Value.String(), line), nil
	case *ast.NumberLiteral:
		tag := "!!int"
		if strings.ContainsAny(e.Literal, ".eE") {
			tag = "!!float"
		}
		return scalarNode(tag, e.Literal, line), nil
	case *ast.BooleanLiteral:
		return scalarNode(boolTag, e.Literal, line), nil
	case *ast.NullLiteral:
		return scalarNode(nullTag, "null", line), nil
	case *ast.Identifier:
		return m.resolve(e.Name.String(), line, depth)

	default:
		return nil, fmt.Errorf("line %d: unsupported expression %T, only literals are allowed", line, expr)
	}
}

func (m *jsModule) property(prop ast.Property, depth int) (*yaml.Node, *yaml.Node, error) {
	line := m.line(prop.Idx0())

	switch p := prop.(type) {
	case *ast.PropertyKeyed:
		if p.Computed {
			return nil, nil, fmt.Errorf("line %d: computed keys are not supported", line)
		}
		name, err := propertyName(p.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := m.node(p.Value, depth+1)
		if err != nil {
			return nil, nil, err
		}
		return scalarNode("!!str", name, line), value, nil

	case *ast.PropertyShort:
		if p.Initializer != nil {
			return nil, nil, fmt.Errorf("line %d: default values are not supported", line)
		}
		name := p.Name.Name.String()
		value, err := m.resolve(name, line, depth+1)
		if err != nil {
			return nil, nil, err
		}
		return scalarNode("!!str", name, line), value, nil

	default:
		return nil, nil, fmt.Errorf("line %d: unsupported property %T", line, prop)
	}
}

func (m *jsModule) resolve(name string, line, depth int) (*yaml.Node, error) {
	init, ok := m.bindings[name]
	if !ok {
		return nil, fmt.Errorf("line %d: %s is not declared in this file", line, name)
	}
	if init == nil {
		return nil, fmt.Errorf("line %d: %s has no value", line, name)
	}
	return m.node(init, depth+1)
}

func propertyName(key ast.Expression) (string, error) {
	switch k := key.(type) {
	case *ast.StringLiteral:
		return k.Value.String(), nil
	case *ast.Identifier:
		return k.Name.String(), nil
	case *ast.NumberLiteral:
		return k.Literal, nil
	default:
		return "", fmt.Errorf("unsupported key %T", key)
	}
}

func scalarNode(tag, value string, line int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: line}
}
