// Package signature rewrites function signatures and bodies of generated code.
//
// Two independent transforms are applied to annotated function declarations:
// GeneralizeArgs widens parameter types to "anything convertible into T", and
// NormalizeReturn synthesizes the body of functions whose result carries no
// payload.
package signature

import (
	"go/ast"
)

// IntoName is the generic type that marks a generalized parameter.
const IntoName = "Into"

// integerTypes is a narrow textual allow-list. Aliases such as byte and rune,
// and named integer types, are not in it and get generalized.
var integerTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

// GeneralizeArgs replaces the type T of every parameter of fn with
// qualifier.Into[T], unless T is a primitive integer, already an Into
// instantiation, context.Context, or variadic. An empty qualifier produces an
// unqualified Into[T]. Applying it twice is the same as applying it once.
func GeneralizeArgs(fn *ast.FuncType, qualifier string) {
	if fn == nil || fn.Params == nil {
		return
	}
	for _, field := range fn.Params.List {
		if !Generalizes(field.Type) {
			continue
		}
		field.Type = intoType(qualifier, field.Type)
	}
}

// Generalizes reports whether GeneralizeArgs rewrites a parameter of type t.
func Generalizes(t ast.Expr) bool {
	switch {
	case IsInteger(t), IsInto(t), isContext(t):
		return false
	}
	if _, ok := t.(*ast.Ellipsis); ok {
		return false
	}
	return true
}

// IsInteger reports whether t is literally one of the primitive integer types.
func IsInteger(t ast.Expr) bool {
	id, ok := t.(*ast.Ident)
	return ok && integerTypes[id.Name]
}

// IsInto reports whether t is an instantiation of a type named Into,
// qualified or not.
func IsInto(t ast.Expr) bool {
	idx, ok := t.(*ast.IndexExpr)
	if !ok {
		return false
	}
	switch x := idx.X.(type) {
	case *ast.Ident:
		return x.Name == IntoName
	case *ast.SelectorExpr:
		return x.Sel.Name == IntoName
	}
	return false
}

func isContext(t ast.Expr) bool {
	sel, ok := t.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

// intoType wraps inner in Into[...], spanning the positions of inner so the
// printer lays the parameter list out as it was written.
func intoType(qualifier string, inner ast.Expr) ast.Expr {
	pos := inner.Pos()
	var x ast.Expr = &ast.Ident{NamePos: pos, Name: IntoName}
	if qualifier != "" {
		x = &ast.SelectorExpr{
			X:   &ast.Ident{NamePos: pos, Name: qualifier},
			Sel: &ast.Ident{NamePos: pos, Name: IntoName},
		}
	}
	idx := &ast.IndexExpr{X: x, Lbrack: pos, Index: inner}
	if end := inner.End(); end.IsValid() {
		idx.Rbrack = end - 1
	}
	return idx
}
