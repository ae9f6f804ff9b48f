// Package generate renders the stub source for a detected interface.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"unicode"

	astutil "github.com/toejough/impstub/stubgen/run/0_util"
	detect "github.com/toejough/impstub/stubgen/run/2_detect"
)

// ImpstubPath is the import path of the runtime the generated code calls into.
const ImpstubPath = "github.com/toejough/impstub"

// ErrFormat means the rendered source did not parse. It always indicates a bug
// in the generator rather than in the input.
var ErrFormat = errors.New("generated code does not format")

// Options controls where and under which name the stub is emitted.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Name is the generated type; its method enum is Name+"Method".
	Name string
	// SourceName and SourcePath identify the interface's package when the stub
	// is emitted into a different one (an external test package). Leave both
	// empty to emit alongside the interface.
	SourceName string
	SourcePath string
}

// Shape classifies a method by its results and picks the dispatch helper.
type Shape int

// Shape values.
const (
	ShapeVoid       Shape = iota // no results: InvokeVoid
	ShapeError                   // error only: InvokeVoidE
	ShapeValue                   // one non-error result: Invoke
	ShapeValueError              // (T, error): InvokeE
	ShapeTuple                   // several results, no trailing error: Invoke on a results struct
	ShapeTupleError              // several results then error: InvokeE on a results struct
)

// ShapeOf classifies a result type list.
func ShapeOf(results []string) Shape {
	n := len(results)
	errLast := n > 0 && results[n-1] == "error"

	switch {
	case n == 0:
		return ShapeVoid
	case n == 1 && errLast:
		return ShapeError
	case n == 1:
		return ShapeValue
	case n == 2 && errLast:
		return ShapeValueError
	case errLast:
		return ShapeTupleError
	default:
		return ShapeTuple
	}
}

// Generate renders the complete, gofmt'd source of the stub for iface.
func Generate(iface detect.Interface, opts Options) (string, error) {
	data := buildFile(iface, opts)

	var buf bytes.Buffer

	err := fileTemplate.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", opts.Name, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFormat, opts.Name, err)
	}

	return string(formatted), nil
}

type fileData struct {
	Package   string
	Name      string
	EnumType  string
	Interface string
	Imports   []string
	Methods   []methodData
}

type methodData struct {
	Name     string
	Const    string
	Receiver string
	Params   string
	Args     string
	Results  string
	Shape    Shape
	// Result is the type argument passed to Invoke or InvokeE.
	Result string
	// Fields of the results struct for tuple shapes.
	Fields []resultField
}

type resultField struct {
	Name string
	Type string
}

func buildFile(iface detect.Interface, opts Options) fileData {
	qualify := astutil.Qualifier(astutil.Unqualified)
	ifaceRef := iface.Name

	imports := map[string]detect.Import{"impstub": {Path: ImpstubPath}}
	for local, imp := range iface.Imports {
		imports[local] = imp
	}

	if opts.SourcePath != "" {
		qualify = astutil.ExportedIn(opts.SourceName)
		ifaceRef = opts.SourceName + "." + iface.Name
		imports[opts.SourceName] = detect.Import{Path: opts.SourcePath}
	}

	data := fileData{
		Package:   opts.Package,
		Name:      opts.Name,
		EnumType:  opts.Name + "Method",
		Interface: ifaceRef,
		Imports:   importLines(imports),
	}

	for _, method := range iface.Methods {
		data.Methods = append(data.Methods, buildMethod(method, opts.Name, imports, qualify))
	}

	return data
}

func buildMethod(
	method detect.Method, stubName string, imports map[string]detect.Import, qualify astutil.Qualifier,
) methodData {
	reserved := map[string]bool{"r": true, "err": true}
	for local := range imports {
		reserved[local] = true
	}

	receiver := pickReceiver(method.Params, reserved)
	reserved[receiver] = true

	params := make([]string, len(method.Params))
	args := make([]string, len(method.Params))

	for i, param := range method.Params {
		name := param.Name
		if name == "" || reserved[name] {
			name = "arg" + strconv.Itoa(i)
		}

		params[i] = name + " " + astutil.TypeString(param.Type, qualify)
		args[i] = name
	}

	results := make([]string, len(method.Results))
	for i, result := range method.Results {
		results[i] = astutil.TypeString(result.Type, qualify)
	}

	data := methodData{
		Name:     method.Name,
		Const:    stubName + method.Name,
		Receiver: receiver,
		Params:   strings.Join(params, ", "),
		Args:     strings.Join(args, ", "),
		Results:  resultList(results),
		Shape:    ShapeOf(results),
	}

	switch data.Shape {
	case ShapeValue, ShapeValueError:
		data.Result = results[0]
	case ShapeTuple, ShapeTupleError:
		data.Result = stubName + method.Name + "Results"
		data.Fields = tupleFields(method.Results, results, data.Shape == ShapeTupleError)
	case ShapeVoid, ShapeError:
	}

	return data
}

func importLines(imports map[string]detect.Import) []string {
	lines := make([]string, 0, len(imports))

	for _, imp := range imports {
		line := strconv.Quote(imp.Path)
		if imp.Name != "" {
			line = imp.Name + " " + line
		}

		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		return unquotedPath(lines[i]) < unquotedPath(lines[j])
	})

	return lines
}

func pickReceiver(params []detect.Field, reserved map[string]bool) string {
	taken := map[string]bool{}
	for _, param := range params {
		taken[param.Name] = true
	}

	for _, candidate := range []string{"m", "mk", "mock", "stub"} {
		if !taken[candidate] && !reserved[candidate] {
			return candidate
		}
	}

	return "recv"
}

func resultList(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return results[0]
	default:
		return "(" + strings.Join(results, ", ") + ")"
	}
}

func tupleFields(declared []detect.Field, types []string, dropErr bool) []resultField {
	if dropErr {
		types = types[:len(types)-1]
	}

	fields := make([]resultField, len(types))
	used := map[string]bool{}

	for i, typ := range types {
		name := exportName(declared[i].Name)
		if name == "" || used[name] {
			name = "R" + strconv.Itoa(i)
		}

		used[name] = true
		fields[i] = resultField{Name: name, Type: typ}
	}

	return fields
}

func exportName(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

func unquotedPath(line string) string {
	if _, path, ok := strings.Cut(line, " "); ok {
		return path
	}

	return line
}
