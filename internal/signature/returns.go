package signature

import (
	"errors"
	"go/ast"
	"go/token"
)

// ReturnShape classifies a declared result list.
type ReturnShape int

const (
	// ShapeOther is any result list the normalizer leaves alone.
	ShapeOther ReturnShape = iota
	// ShapeEmpty is a function without results.
	ShapeEmpty
	// ShapeUnit is a single struct{} result.
	ShapeUnit
	// ShapeError is a single result spelled `error`.
	ShapeError
	// ShapeUnitError is exactly (struct{}, error).
	ShapeUnitError
)

var errNoBody = errors.New("function has no body")

// ClassifyReturn inspects the result list of fn. The match is textual: only
// the bare identifier `error` counts, so an alias of error or a concrete
// error type yields ShapeOther.
func ClassifyReturn(fn *ast.FuncType) ReturnShape {
	results := resultTypes(fn)
	switch {
	case len(results) == 0:
		return ShapeEmpty
	case len(results) == 1 && isEmptyStruct(results[0]):
		return ShapeUnit
	case len(results) == 1 && isErrorIdent(results[0]):
		return ShapeError
	case len(results) == 2 && isEmptyStruct(results[0]) && isErrorIdent(results[1]):
		return ShapeUnitError
	default:
		return ShapeOther
	}
}

// NormalizeReturn replaces the body of decl according to its result shape:
// no results get an empty body, an empty-payload result gets a single return
// of the empty success value, and anything else is left untouched.
func NormalizeReturn(decl *ast.FuncDecl) error {
	if decl.Body == nil {
		return errNoBody
	}

	pos := decl.Body.Lbrace
	var stmts []ast.Stmt
	switch ClassifyReturn(decl.Type) {
	case ShapeEmpty:
	case ShapeUnit:
		stmts = []ast.Stmt{returnStmt(emptyStructLit(pos))}
	case ShapeError:
		stmts = []ast.Stmt{returnStmt(ast.NewIdent("nil"))}
	case ShapeUnitError:
		stmts = []ast.Stmt{returnStmt(emptyStructLit(pos), ast.NewIdent("nil"))}
	default:
		return nil
	}

	decl.Body = &ast.BlockStmt{
		Lbrace: decl.Body.Lbrace,
		List:   stmts,
		Rbrace: decl.Body.Rbrace,
	}
	return nil
}

func resultTypes(fn *ast.FuncType) []ast.Expr {
	if fn == nil || fn.Results == nil {
		return nil
	}
	var types []ast.Expr
	for _, field := range fn.Results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			types = append(types, field.Type)
		}
	}
	return types
}

func isEmptyStruct(t ast.Expr) bool {
	st, ok := t.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}

func isErrorIdent(t ast.Expr) bool {
	id, ok := t.(*ast.Ident)
	return ok && id.Name == "error"
}

// emptyStructLit builds struct{}{}. Both braces of the field list sit at pos
// so the printer keeps them on one line.
func emptyStructLit(pos token.Pos) ast.Expr {
	fields := &ast.FieldList{Opening: pos, Closing: pos}
	return &ast.CompositeLit{Type: &ast.StructType{Fields: fields}}
}

func returnStmt(results ...ast.Expr) ast.Stmt {
	return &ast.ReturnStmt{Return: token.NoPos, Results: results}
}
