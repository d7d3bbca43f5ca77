package config

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"golang.org/x/tools/go/ast/astutil"
)

// FieldName maps a handler name such as my_source to its router field MySource.
func FieldName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func IsIdent(s string) bool {
	return token.IsIdentifier(s)
}

func isExported(s string) bool {
	return token.IsExported(s)
}

// ParseType parses a Go type expression.
func ParseType(expr string) (ast.Expr, error) {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}
	if !isTypeExpr(x) {
		return nil, &typeError{expr: expr}
	}
	return x, nil
}

type typeError struct {
	expr string
}

func (e *typeError) Error() string {
	return "not a type expression: " + e.expr
}

func isTypeExpr(x ast.Expr) bool {
	switch t := x.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		return isTypeExpr(t.X)
	case *ast.IndexListExpr:
		return isTypeExpr(t.X)
	default:
		return false
	}
}

func canonicalType(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	x, err := ParseType(expr)
	if err != nil {
		return expr
	}
	return types.ExprString(x)
}

// identityType spells expr the way reflect sees it, so expressions naming
// the same Go type compare equal: byte and uint8, rune and int32, any and
// interface{}, approuter.Unit and struct{}.
func identityType(expr string) string {
	x, err := ParseType(strings.TrimSpace(expr))
	if err != nil {
		return expr
	}
	out := astutil.Apply(x, func(c *astutil.Cursor) bool {
		switch n := c.Node().(type) {
		case *ast.Ident:
			if c.Name() == "Names" {
				return true
			}
			switch n.Name {
			case "byte":
				c.Replace(ast.NewIdent("uint8"))
			case "rune":
				c.Replace(ast.NewIdent("int32"))
			case "any":
				c.Replace(&ast.InterfaceType{Methods: &ast.FieldList{}})
			}
		case *ast.SelectorExpr:
			if pkg, ok := n.X.(*ast.Ident); ok && pkg.Name+"."+n.Sel.Name == UnitType {
				c.Replace(&ast.StructType{Fields: &ast.FieldList{}})
			}
			return false
		}
		return true
	}, nil)
	return types.ExprString(out.(ast.Expr))
}

// Qualifiers returns the package names referenced by a type expression.
func Qualifiers(expr string) []string {
	x, err := ParseType(expr)
	if err != nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	ast.Inspect(x, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
		return false
	})
	return out
}

// IsLocalNamed reports whether expr is T or *T for a non-generic type T
// declared in the generated package, so methods can be attached to it.
// Only the syntax is checked; a local interface type passes and needs
// no_send on its rules.
func IsLocalNamed(expr string) bool {
	_, ok := LocalBase(expr)
	return ok
}

// LocalBase returns T for a local T or *T source.
func LocalBase(expr string) (string, bool) {
	x, err := ParseType(expr)
	if err != nil {
		return "", false
	}
	if star, ok := x.(*ast.StarExpr); ok {
		x = star.X
	}
	id, ok := x.(*ast.Ident)
	if !ok || types.Universe.Lookup(id.Name) != nil {
		return "", false
	}
	return id.Name, true
}

// TypeIdent derives an identifier fragment from a type expression, used to
// build method names: middleware.MyMessage -> MyMessage, []byte -> Bytes.
func TypeIdent(expr string) string {
	x, err := ParseType(expr)
	if err != nil {
		return ""
	}
	return typeIdent(x)
}

func typeIdent(x ast.Expr) string {
	switch t := x.(type) {
	case *ast.Ident:
		return FieldName(t.Name)
	case *ast.SelectorExpr:
		return FieldName(t.Sel.Name)
	case *ast.StarExpr:
		return typeIdent(t.X)
	case *ast.ParenExpr:
		return typeIdent(t.X)
	case *ast.ArrayType:
		elem := typeIdent(t.Elt)
		if strings.HasSuffix(elem, "s") {
			return elem + "List"
		}
		return elem + "s"
	case *ast.MapType:
		return typeIdent(t.Key) + "To" + typeIdent(t.Value)
	case *ast.ChanType:
		return typeIdent(t.Value) + "Chan"
	case *ast.IndexExpr:
		return typeIdent(t.X) + typeIdent(t.Index)
	case *ast.IndexListExpr:
		out := typeIdent(t.X)
		for _, idx := range t.Indices {
			out += typeIdent(idx)
		}
		return out
	case *ast.FuncType:
		return "Func"
	case *ast.InterfaceType:
		return "Any"
	case *ast.StructType:
		return "Struct"
	default:
		return ""
	}
}
