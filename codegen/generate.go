package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"golang.org/x/tools/imports"
)

// OutputSuffix ends the name of generated files.
const OutputSuffix = "_dyn.go"

var viewTemplate = template.Must(template.New("views").Funcs(template.FuncMap{
	"schemaVar": func(s *Shape) string { return lowerFirst(s.View) + "Schema" },
	"ctor": func(s *Shape) string {
		if lowerFirst(s.View) == s.View {
			return "new" + upperFirst(s.View)
		}
		return "New" + s.View
	},
}).Parse(`// Code generated by dyn-codegen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.Name}} "{{.Path}}"
{{- end}}
)
{{range $s := .Shapes}}
var {{schemaVar $s}} = schema.MustNew({{printf "%q" $s.Schema}},
{{- range $s.Fields}}
	schema.Of[{{.TypeText}}]({{printf "%q" .Name}}){{if .Key}}.WithKey({{printf "%q" .Key}}){{end}}{{if .Required}}.Req(){{end}}{{if .Cached}}.AsCached(){{end}}{{if .Meta}}.AsMeta(){{end}},
{{- end}}
)

// {{$s.View}} is a view of {{$s.Schema}} records with the fields of {{$s.Name}}.
type {{$s.View}} struct{ *record.Record }

func ({{$s.View}}) ViewSchema() *schema.Schema { return {{schemaVar $s}} }

// {{ctor $s}} returns an empty {{$s.View}}.
func {{ctor $s}}() {{$s.View}} { return record.Empty[{{$s.View}}]() }

func (v {{$s.View}}) Validate() ({{$s.View}}, error) { return record.Validate(v) }
{{range $s.Fields}}
func (v {{$s.View}}) {{.GoName}}() ({{.TypeText}}, error) {
	return record.Get[{{.TypeText}}](v.Record, {{printf "%q" .Name}})
}

func (v {{$s.View}}) With{{.GoName}}(x {{.TypeText}}) ({{$s.View}}, error) {
	r, err := record.With(v.Record, {{printf "%q" .Name}}, x)
	if err != nil {
		return {{$s.View}}{}, err
	}
	return {{$s.View}}{r}, nil
}
{{end}}{{end}}`))

// Generate renders f as formatted Go source.
func Generate(f *File) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := viewTemplate.Execute(buf, f); err != nil {
		return nil, err
	}
	src, err := imports.Process(f.Package+OutputSuffix, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generated invalid code: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

// Run generates views for the package in dir, writing them to output, or
// to <package>_dyn.go in dir if output is empty. It returns the path
// written, or "" when the package has no shapes.
func Run(dir, output string) (string, error) {
	p, err := Load(dir)
	if err != nil {
		return "", err
	}
	f, err := Extract(p)
	if err != nil || f == nil {
		return "", err
	}
	src, err := Generate(f)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = filepath.Join(dir, p.Name+OutputSuffix)
	}
	if err := os.WriteFile(output, src, 0644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", output, err)
	}
	return output, nil
}
