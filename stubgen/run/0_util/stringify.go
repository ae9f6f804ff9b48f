// Package astutil renders DST type expressions back to Go source.
package astutil

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// Qualifier rewrites a bare identifier that appears in type position. It lets a
// caller prefix the source package's own types when code is emitted elsewhere.
type Qualifier func(name string) string

// Unqualified leaves every identifier as written.
func Unqualified(name string) string {
	return name
}

// ExportedIn returns a Qualifier that prefixes exported identifiers with pkg.
// Predeclared types are all lower case, so they are never touched.
func ExportedIn(pkg string) Qualifier {
	return func(name string) string {
		if !dst.IsExported(name) {
			return name
		}

		return pkg + "." + name
	}
}

// FieldTypes expands a field list into one type string per declared name, so
// "a, b int" yields two entries and an unnamed field yields one.
func FieldTypes(fields *dst.FieldList, qualify Qualifier) []string {
	if fields == nil {
		return nil
	}

	var parts []string

	for _, field := range fields.List {
		typeStr := TypeString(field.Type, qualify)

		for range max(len(field.Names), 1) {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// FieldNames expands a field list into one name per declared entry. Unnamed and
// blank entries get fallback(i), where i is the entry's position.
func FieldNames(fields *dst.FieldList, fallback func(int) string) []string {
	if fields == nil {
		return nil
	}

	var names []string

	for _, field := range fields.List {
		if len(field.Names) == 0 {
			names = append(names, fallback(len(names)))

			continue
		}

		for _, name := range field.Names {
			if name.Name == "_" {
				names = append(names, fallback(len(names)))

				continue
			}

			names = append(names, name.Name)
		}
	}

	return names
}

// TypeString renders a type expression.
//
//nolint:cyclop,funlen // one case per expression kind
func TypeString(expr dst.Expr, qualify Qualifier) string {
	if expr == nil {
		return ""
	}

	if qualify == nil {
		qualify = Unqualified
	}

	switch typed := expr.(type) {
	case *dst.Ident:
		if typed.Path != "" {
			return typed.Path + "." + typed.Name
		}

		return qualify(typed.Name)
	case *dst.BasicLit:
		return typed.Value
	case *dst.SelectorExpr:
		return TypeString(typed.X, Unqualified) + "." + typed.Sel.Name
	case *dst.StarExpr:
		return "*" + TypeString(typed.X, qualify)
	case *dst.ParenExpr:
		return "(" + TypeString(typed.X, qualify) + ")"
	case *dst.Ellipsis:
		return "..." + TypeString(typed.Elt, qualify)
	case *dst.ArrayType:
		return "[" + TypeString(typed.Len, Unqualified) + "]" + TypeString(typed.Elt, qualify)
	case *dst.MapType:
		return "map[" + TypeString(typed.Key, qualify) + "]" + TypeString(typed.Value, qualify)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return "chan<- " + TypeString(typed.Value, qualify)
		case dst.RECV:
			return "<-chan " + TypeString(typed.Value, qualify)
		default:
			return "chan " + TypeString(typed.Value, qualify)
		}
	case *dst.FuncType:
		return "func" + Signature(typed, qualify)
	case *dst.IndexExpr:
		return TypeString(typed.X, qualify) + "[" + TypeString(typed.Index, qualify) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typed.Indices))
		for i, idx := range typed.Indices {
			indices[i] = TypeString(idx, qualify)
		}

		return TypeString(typed.X, qualify) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.InterfaceType:
		return interfaceLiteral(typed, qualify)
	case *dst.StructType:
		return structLiteral(typed, qualify)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Signature renders the parameter and result lists of a function type, without
// the func keyword.
func Signature(fn *dst.FuncType, qualify Qualifier) string {
	params := "(" + strings.Join(FieldTypes(fn.Params, qualify), ", ") + ")"

	results := FieldTypes(fn.Results, qualify)

	switch len(results) {
	case 0:
		return params
	case 1:
		return params + " " + results[0]
	default:
		return params + " (" + strings.Join(results, ", ") + ")"
	}
}

func interfaceLiteral(iface *dst.InterfaceType, qualify Qualifier) string {
	if iface.Methods == nil || len(iface.Methods.List) == 0 {
		return "interface{}"
	}

	entries := make([]string, 0, len(iface.Methods.List))

	for _, field := range iface.Methods.List {
		fn, ok := field.Type.(*dst.FuncType)
		if !ok || len(field.Names) == 0 {
			entries = append(entries, TypeString(field.Type, qualify))

			continue
		}

		entries = append(entries, field.Names[0].Name+Signature(fn, qualify))
	}

	return "interface{ " + strings.Join(entries, "; ") + " }"
}

func structLiteral(st *dst.StructType, qualify Qualifier) string {
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(st.Fields.List))

	for _, field := range st.Fields.List {
		var entry strings.Builder

		if len(field.Names) > 0 {
			names := make([]string, len(field.Names))
			for i, name := range field.Names {
				names[i] = name.Name
			}

			entry.WriteString(strings.Join(names, ", ") + " ")
		}

		entry.WriteString(TypeString(field.Type, qualify))

		if field.Tag != nil {
			entry.WriteString(" " + field.Tag.Value)
		}

		fields = append(fields, entry.String())
	}

	return "struct{ " + strings.Join(fields, "; ") + " }"
}
