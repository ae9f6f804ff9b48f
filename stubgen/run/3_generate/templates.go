package generate

import (
	"strconv"
	"text/template"
)

//nolint:gochecknoglobals // parsed once; the template text is a constant
var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"args": argsLiteral,
}).Parse(fileText))

func argsLiteral(names string) string {
	if names == "" {
		return "nil"
	}

	return "[]any{" + names + "}"
}

func (s Shape) String() string {
	switch s {
	case ShapeVoid:
		return "void"
	case ShapeError:
		return "error"
	case ShapeValue:
		return "value"
	case ShapeValueError:
		return "valueError"
	case ShapeTuple:
		return "tuple"
	case ShapeTupleError:
		return "tupleError"
	default:
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
}

const fileText = `// Code generated by stubgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)

// {{.EnumType}} identifies a method of {{.Name}}.
type {{.EnumType}} int

{{if .Methods -}}
// {{.Name}} methods.
const (
{{- range $i, $m := .Methods}}
	{{$m.Const}}{{if eq $i 0}} {{$.EnumType}} = iota{{end}}
{{- end}}
)
{{- end}}

// {{.Name}} is a stub implementation of {{.Interface}}. Install behavior with the
// impstub Stub helpers and inspect calls with its Invocations.
type {{.Name}} struct {
	impstub.Mock[{{.EnumType}}]
}

var _ {{.Interface}} = (*{{.Name}})(nil)

// New{{.Name}} returns a {{.Name}} in the default registry.
func New{{.Name}}() *{{.Name}} {
	return New{{.Name}}In(impstub.Default())
}

// New{{.Name}}In returns a {{.Name}} in reg.
func New{{.Name}}In(reg *impstub.Registry) *{{.Name}} {
	stub := &{{.Name}}{}
	stub.Mock = impstub.MockAtIn[{{.EnumType}}](reg, stub)

	return stub
}
{{range .Methods}}
{{- if .Fields}}
// {{$.Name}}{{.Name}}Results carries the results of {{.Name}}.
type {{.Result}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}
{{end}}
func ({{.Receiver}} *{{$.Name}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- $call := printf "%s, %s, %q, %s, nil" .Receiver .Const .Name (args .Args)}}
{{- $shape := .Shape.String}}
{{- if eq $shape "void"}}
	impstub.InvokeVoid({{$call}})
{{- else if eq $shape "error"}}
	return impstub.InvokeVoidE({{$call}})
{{- else if eq $shape "value"}}
	return impstub.Invoke[{{.Result}}]({{$call}})
{{- else if eq $shape "valueError"}}
	return impstub.InvokeE[{{.Result}}]({{$call}})
{{- else if eq $shape "tuple"}}
	r := impstub.Invoke[{{.Result}}]({{$call}})

	return {{range $i, $f := .Fields}}{{if $i}}, {{end}}r.{{$f.Name}}{{end}}
{{- else}}
	r, err := impstub.InvokeE[{{.Result}}]({{$call}})

	return {{range .Fields}}r.{{.Name}}, {{end}}err
{{- end}}
}
{{end}}
{{- if .Methods}}

// {{.EnumType}}Names holds the method names, indexed by {{.EnumType}}.
var {{.EnumType}}Names = [...]string{
{{- range .Methods}}
	{{printf "%q" .Name}},
{{- end}}
}
{{- end}}
`
