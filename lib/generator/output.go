package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"
)

// writePackage writes OutputFile for the components of one package.
func (g *Generator) writePackage(pkgPath, pkgName string, components []*ComponentInfo) error {
	outputFile := filepath.Join(pkgPath, OutputFile)
	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := render(pkgName, components)
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(code)
	if err != nil {
		if writeErr := os.WriteFile(outputFile+".unformatted", code, 0644); writeErr == nil {
			fmt.Fprintf(g.opts.Out, "  wrote unformatted code to %s.unformatted for debugging\n", outputFile)
		}
		return fmt.Errorf("format source: %w", err)
	}

	return os.WriteFile(outputFile, formatted, 0644)
}

// render executes the output template.
func render(pkgName string, components []*ComponentInfo) ([]byte, error) {
	tmpl, err := template.New("jinhx").Parse(outputTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package    string
		Components []*ComponentInfo
	}{
		Package:    pkgName,
		Components: components,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const outputTemplate = `// Code generated by jinhx generate. DO NOT EDIT.

package {{.Package}}

import "github.com/pthm/jinhx"

// RegisterComponents registers the component classes of this package with reg.
//
{{- range .Components}}
//   - {{.TypeName}}{{if .Template}} ({{.Template}}){{end}}
{{- range .Fields}}
//     {{.Key}} {{.Type}}
{{- end}}
{{- end}}
func RegisterComponents(reg *jinhx.ClassRegistry) {
{{- range .Components}}
	jinhx.RegisterIn[{{.TypeName}}](reg)
{{- end}}
}
`
