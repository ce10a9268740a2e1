package signature

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"slices"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// Directives attach a transform to the function declaration that follows.
const (
	DirectiveIntoArgs  = "//endpointgen:into-args"
	DirectiveRetOrUnit = "//endpointgen:ret-or-unit"
)

type Options struct {
	// IntoQualifier is the package name that declares Into, e.g. "apiclient".
	IntoQualifier string
}

// directive is a directive line cut out of the source. Line is the line of
// the stripped source that followed it, origLine its line in the input.
type directive struct {
	text     string
	line     int
	origLine int
}

// Rewrite applies the transforms named by directives on each function
// declaration of src, removes the directives and prints the file.
func Rewrite(src []byte, opts Options) ([]byte, error) {
	stripped, directives := stripDirectives(src)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", stripped, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	var errs []error
	attached := make([]bool, len(directives))
	astutil.Apply(file, func(c *astutil.Cursor) bool {
		decl, ok := c.Node().(*ast.FuncDecl)
		if !ok {
			return true
		}

		var names []string
		first := fset.Position(decl.Pos()).Line
		if decl.Doc != nil {
			first = fset.Position(decl.Doc.Pos()).Line
		}
		last := fset.Position(decl.Pos()).Line
		for i, d := range directives {
			if d.line >= first && d.line <= last {
				names = append(names, d.text)
				attached[i] = true
			}
		}

		if slices.Contains(names, DirectiveIntoArgs) {
			GeneralizeArgs(decl.Type, opts.IntoQualifier)
		}
		if slices.Contains(names, DirectiveRetOrUnit) {
			old := decl.Body
			if err := NormalizeReturn(decl); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", decl.Name.Name, err))
			} else if decl.Body != old {
				dropComments(file, old)
				closeBody(fset, decl.Body)
			}
		}
		return false
	}, nil)

	for i, d := range directives {
		if !attached[i] {
			errs = append(errs, fmt.Errorf("line %d: directive %s is not attached to a function", d.origLine, d.text))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("printing source: %w", err)
	}
	return buf.Bytes(), nil
}

func isDirective(text string) bool {
	return strings.HasPrefix(text, "//endpointgen:")
}

// stripDirectives cuts directive lines out of src, together with a bare "//"
// separating them from the doc comment above, so the remaining doc comment
// stays attached to its function.
func stripDirectives(src []byte) ([]byte, []directive) {
	lines := strings.SplitAfter(string(src), "\n")
	kept := make([]string, 0, len(lines))
	var found []directive
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if !isDirective(text) {
			kept = append(kept, line)
			continue
		}
		if n := len(kept); n > 0 && strings.TrimSpace(kept[n-1]) == "//" {
			kept = kept[:n-1]
		}
		found = append(found, directive{text: text, line: len(kept) + 1, origLine: i + 1})
	}
	if len(found) == 0 {
		return src, nil
	}
	return []byte(strings.Join(kept, "")), found
}

// dropComments removes comments that lived inside a replaced body so the
// printer does not float them into the new one.
func dropComments(file *ast.File, body *ast.BlockStmt) {
	if body == nil {
		return
	}
	file.Comments = slices.DeleteFunc(file.Comments, func(cg *ast.CommentGroup) bool {
		return cg.Pos() > body.Lbrace && cg.End() < body.Rbrace
	})
}

// closeBody moves the closing brace of a replaced body to the line after the
// opening one. The printer otherwise keeps the height of the old body as
// blank lines.
func closeBody(fset *token.FileSet, body *ast.BlockStmt) {
	tf := fset.File(body.Lbrace)
	if tf == nil {
		return
	}
	line := tf.Line(body.Lbrace)
	if tf.Line(body.Rbrace) > line+1 {
		body.Rbrace = tf.LineStart(line + 1)
	}
}
