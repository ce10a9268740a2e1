package golang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"strings"
)

// UUIDImport is the package providing uuid.UUID in generated code.
const UUIDImport = "github.com/google/uuid"

// ScalarType maps an OpenAPI scalar type and format to a Go type, and returns
// the import path that type needs, if any.
func ScalarType(typ, format string) (string, string) {
	switch typ {
	case "string":
		return stringType(format)
	case "integer":
		return integerType(format), ""
	case "number":
		return numberType(format), ""
	case "boolean":
		return "bool", ""
	default:
		return "any", ""
	}
}

func stringType(format string) (string, string) {
	switch format {
	case "date-time", "date":
		return "time.Time", "time"
	case "uuid":
		return "uuid.UUID", UUIDImport
	case "byte", "binary":
		return "[]byte", ""
	default:
		return "string", ""
	}
}

func integerType(format string) string {
	switch format {
	case "int32":
		return "int32"
	case "int64":
		return "int64"
	case "uint32":
		return "uint32"
	case "uint64":
		return "uint64"
	default:
		return "int"
	}
}

func numberType(format string) string {
	if format == "float" {
		return "float32"
	}
	return "float64"
}

// RefToTypeName turns "#/components/schemas/book_kind" into "BookKind".
func RefToTypeName(ref string) string {
	i := strings.LastIndexByte(ref, '/')
	if i < 0 || i == len(ref)-1 {
		return "any"
	}
	return PascalCase(ref[i+1:])
}

// ParseType parses a Go type expression such as "[]Book" or "*uint32".
func ParseType(typ string) (ast.Expr, error) {
	if strings.TrimSpace(typ) == "" {
		return nil, fmt.Errorf("empty type")
	}
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return nil, fmt.Errorf("invalid Go type %q: %w", typ, err)
	}
	if !isTypeExpr(expr) {
		return nil, fmt.Errorf("invalid Go type %q", typ)
	}
	return expr, nil
}

func isTypeExpr(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType:
		return isTypeExpr(t.Elt)
	case *ast.MapType:
		return isTypeExpr(t.Key) && isTypeExpr(t.Value)
	case *ast.IndexExpr:
		return isTypeExpr(t.X) && isTypeExpr(t.Index)
	case *ast.IndexListExpr:
		for _, idx := range t.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}
		return isTypeExpr(t.X)
	case *ast.StructType, *ast.InterfaceType, *ast.FuncType, *ast.ChanType:
		return true
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	default:
		return false
	}
}

// IsOptional reports whether values of typ have a nil state: pointers,
// slices, maps and the any interface.
func IsOptional(typ string) bool {
	typ = strings.TrimSpace(typ)
	return strings.HasPrefix(typ, "*") ||
		strings.HasPrefix(typ, "[]") ||
		strings.HasPrefix(typ, "map[") ||
		typ == "any" || typ == "interface{}"
}

// Optional returns the nilable form of typ.
func Optional(typ string) string {
	if IsOptional(typ) {
		return typ
	}
	return "*" + typ
}

// JSONTag returns the struct tag of a JSON body field.
func JSONTag(name string, optional bool) string {
	return structTag("json", SnakeCase(name), optional)
}

// QueryTag returns the struct tag of a querystring field. The key is encoded
// by gorilla/schema.
func QueryTag(name string, optional bool) string {
	return structTag("schema", KebabCase(name), optional)
}

func structTag(key, name string, optional bool) string {
	if optional {
		return fmt.Sprintf("`%s:\"%s,omitempty\"`", key, name)
	}
	return fmt.Sprintf("`%s:\"%s\"`", key, name)
}
