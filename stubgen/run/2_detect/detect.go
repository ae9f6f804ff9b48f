// Package detect finds the interface to stub and flattens it into a method list.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/impstub/stubgen/run/0_util"
)

// Errors returned while detecting an interface.
var (
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrNotInterface      = errors.New("not an interface")
	ErrGeneric           = errors.New("generic interfaces are not supported")
	ErrForeignEmbed      = errors.New("embedded interfaces from other packages are not supported")
	ErrTypeConstraint    = errors.New("type constraint interfaces cannot be stubbed")
	ErrEmbedCycle        = errors.New("interface embeds itself")
)

// Interface is a flattened interface declaration.
type Interface struct {
	Name    string
	Methods []Method
	// Imports maps each package name referenced by a method signature to its
	// import spec as written in the source file.
	Imports map[string]Import
}

// Import is one import needed by the generated code.
type Import struct {
	Name string // explicit alias, empty when the path's own name is used
	Path string
}

// Method is one interface method, with the types of its parameters and results.
type Method struct {
	Name     string
	Params   []Field
	Results  []Field
	Variadic bool
	Func     *dst.FuncType
}

// Field is one parameter or result. Name is empty when the source left it unnamed.
type Field struct {
	Name string
	Type dst.Expr
}

// Find locates the interface called name in files and flattens any embedded
// interfaces declared in the same files. Methods keep declaration order, with
// embedded methods at the embed's position; a method reached twice is kept once.
func Find(files []*dst.File, name string) (Interface, error) {
	decls := typeDecls(files)

	found, ok := decls[name]
	if !ok {
		return Interface{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
	}

	if found.spec.TypeParams != nil && len(found.spec.TypeParams.List) > 0 {
		return Interface{}, fmt.Errorf("%w: %s", ErrGeneric, name)
	}

	flat := flattener{decls: decls, seen: map[string]bool{}, visiting: map[string]bool{}}

	err := flat.add(name)
	if err != nil {
		return Interface{}, err
	}

	return Interface{Name: name, Methods: flat.methods, Imports: flat.imports()}, nil
}

type typeDecl struct {
	spec *dst.TypeSpec
	file *dst.File
}

type flattener struct {
	decls    map[string]typeDecl
	methods  []Method
	seen     map[string]bool
	visiting map[string]bool
	files    []*dst.File
}

func (f *flattener) add(name string) error {
	decl, ok := f.decls[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
	}

	iface, ok := decl.spec.Type.(*dst.InterfaceType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInterface, name)
	}

	if f.visiting[name] {
		return fmt.Errorf("%w: %s", ErrEmbedCycle, name)
	}

	f.visiting[name] = true
	defer delete(f.visiting, name)

	f.noteFile(decl.file)

	if iface.Methods == nil {
		return nil
	}

	for _, field := range iface.Methods.List {
		err := f.addField(name, field)
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *flattener) addField(owner string, field *dst.Field) error {
	if fn, ok := field.Type.(*dst.FuncType); ok {
		for _, ident := range field.Names {
			f.addMethod(ident.Name, fn)
		}

		return nil
	}

	switch embedded := field.Type.(type) {
	case *dst.Ident:
		if embedded.Name == "error" {
			f.addMethod("Error", errorMethod())

			return nil
		}

		return f.add(embedded.Name)
	case *dst.SelectorExpr:
		return fmt.Errorf("%w: %s embeds %s", ErrForeignEmbed, owner, astutil.TypeString(embedded, nil))
	default:
		return fmt.Errorf("%w: %s", ErrTypeConstraint, owner)
	}
}

func (f *flattener) addMethod(name string, fn *dst.FuncType) {
	if f.seen[name] {
		return
	}

	f.seen[name] = true

	method := Method{Name: name, Func: fn, Params: fields(fn.Params), Results: fields(fn.Results)}

	if n := len(method.Params); n > 0 {
		_, method.Variadic = method.Params[n-1].Type.(*dst.Ellipsis)
	}

	f.methods = append(f.methods, method)
}

func (f *flattener) noteFile(file *dst.File) {
	for _, known := range f.files {
		if known == file {
			return
		}
	}

	f.files = append(f.files, file)
}

// imports returns the imports of the contributing files that method signatures
// actually reference.
func (f *flattener) imports() map[string]Import {
	used := map[string]bool{}

	for _, method := range f.methods {
		dst.Inspect(method.Func, func(node dst.Node) bool {
			if sel, ok := node.(*dst.SelectorExpr); ok {
				if pkg, ok := sel.X.(*dst.Ident); ok {
					used[pkg.Name] = true
				}
			}

			return true
		})
	}

	out := make(map[string]Import, len(used))

	for _, file := range f.files {
		for _, spec := range file.Imports {
			imp := importOf(spec)

			local := imp.Name
			if local == "" {
				local = pathName(imp.Path)
			}

			if used[local] {
				out[local] = imp
			}
		}
	}

	// A package whose name differs from its path, like go-reorder, is matched
	// on the last path element instead.
	for name := range used {
		if _, ok := out[name]; ok {
			continue
		}

		for _, file := range f.files {
			for _, spec := range file.Imports {
				imp := importOf(spec)
				if imp.Name == "" && strings.Contains(pathName(imp.Path), name) {
					out[name] = imp
				}
			}
		}
	}

	return out
}

func errorMethod() *dst.FuncType {
	return &dst.FuncType{
		Params:  &dst.FieldList{},
		Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("string")}}},
	}
}

func fields(list *dst.FieldList) []Field {
	if list == nil {
		return nil
	}

	var out []Field

	for _, field := range list.List {
		if len(field.Names) == 0 {
			out = append(out, Field{Type: field.Type})

			continue
		}

		for _, ident := range field.Names {
			name := ident.Name
			if name == "_" {
				name = ""
			}

			out = append(out, Field{Name: name, Type: field.Type})
		}
	}

	return out
}

func importOf(spec *dst.ImportSpec) Import {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		path = strings.Trim(spec.Path.Value, "`\"")
	}

	imp := Import{Path: path}
	if spec.Name != nil {
		imp.Name = spec.Name.Name
	}

	return imp
}

// pathName guesses a package's name from its import path, skipping major
// version suffixes and gopkg.in style versions.
func pathName(path string) string {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]

	if len(parts) > 1 && len(last) > 1 && last[0] == 'v' && isDigits(last[1:]) {
		last = parts[len(parts)-2]
	}

	if base, _, ok := strings.Cut(last, ".v"); ok && strings.HasPrefix(path, "gopkg.in/") {
		last = base
	}

	return strings.ReplaceAll(last, "-", "")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}

func typeDecls(files []*dst.File) map[string]typeDecl {
	decls := map[string]typeDecl{}

	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*dst.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok {
					continue
				}

				if _, dup := decls[typeSpec.Name.Name]; !dup {
					decls[typeSpec.Name.Name] = typeDecl{spec: typeSpec, file: file}
				}
			}
		}
	}

	return decls
}
