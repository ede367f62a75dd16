package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm/jinhx/lib/finder"
	"github.com/pthm/jinhx/lib/naming"
)

// OutputFile is the name of the file written into each component package.
const OutputFile = "components_jinhx.go"

// Options configures the generator.
type Options struct {
	DryRun bool

	// Extensions are the template extensions checked next to each
	// component source file. Defaults to naming.DefaultExtensions.
	Extensions []string

	// Out receives progress and warnings. Defaults to os.Stdout.
	Out io.Writer
}

// Generator writes registration code for jinhx components.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = naming.DefaultExtensions
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			base := d.Name()
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			if hasGoFiles(path) {
				packages = append(packages, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true
		}
	}
	return false
}

// generatePackage generates code for a single package.
func (g *Generator) generatePackage(pkgPath string) error {
	pkgs, err := parser.ParseDir(g.fset, pkgPath, func(info os.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, "_test.go") && name != OutputFile
	}, parser.ParseComments)
	if err != nil {
		return err
	}

	for pkgName, pkg := range pkgs {
		components := g.findComponents(pkg)
		if len(components) == 0 {
			continue
		}
		for _, comp := range components {
			g.checkTemplate(comp)
		}
		if err := g.writePackage(pkgPath, pkgName, components); err != nil {
			return err
		}
	}

	return nil
}

// checkTemplate warns when no template sits next to the component source.
// Such components still render if a template exists elsewhere under the
// template root.
func (g *Generator) checkTemplate(comp *ComponentInfo) {
	dir := filepath.Dir(comp.SourceFile)
	for _, candidate := range naming.TemplateCandidates(comp.TypeName, g.opts.Extensions) {
		if path, ok := finder.FindInDirectory(dir, candidate); ok {
			comp.Template = filepath.Base(path)
			return
		}
	}
	fmt.Fprintf(g.opts.Out, "warning: %s: no template for %s next to %s\n",
		dir, comp.TypeName, filepath.Base(comp.SourceFile))
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	path := filepath.Join(pkgPath, OutputFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	fmt.Fprintf(g.opts.Out, "removing %s\n", path)
	if g.opts.DryRun {
		return nil
	}
	return os.Remove(path)
}

// ComponentInfo holds information about a discovered component.
type ComponentInfo struct {
	SourceFile string
	TypeName   string
	Template   string // base name of the template next to SourceFile, if any
	Fields     []FieldInfo
}

// FieldInfo is a template-visible field of a component.
type FieldInfo struct {
	Name string // Go name
	Key  string // name inside templates and tag attributes
	Type string
}

// findComponents finds all struct types embedding jinhx.Base, sorted by
// type name.
func (g *Generator) findComponents(pkg *ast.Package) []*ComponentInfo {
	var components []*ComponentInfo

	for filename, file := range pkg.Files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok || typeSpec.TypeParams != nil {
					continue
				}
				structType, ok := typeSpec.Type.(*ast.StructType)
				if !ok || !embedsBase(structType) {
					continue
				}

				components = append(components, &ComponentInfo{
					SourceFile: filename,
					TypeName:   typeSpec.Name.Name,
					Fields:     g.fields(structType),
				})
			}
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].TypeName < components[j].TypeName
	})
	return components
}

// embedsBase reports whether st embeds jinhx.Base by value.
func embedsBase(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		sel, ok := field.Type.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Base" {
			continue
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == "jinhx" {
			return true
		}
	}
	return false
}

// fields lists the exported, named fields of st the way the renderer names
// them: the jinhx tag when present, otherwise snake_case.
func (g *Generator) fields(st *ast.StructType) []FieldInfo {
	var fields []FieldInfo
	for _, field := range st.Fields.List {
		var tag string
		if field.Tag != nil {
			if raw, err := strconv.Unquote(field.Tag.Value); err == nil {
				tag = reflect.StructTag(raw).Get("jinhx")
			}
		}
		key, _, _ := strings.Cut(tag, ",")
		if key == "-" {
			continue
		}

		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			k := key
			if k == "" {
				k = naming.ToSnake(name.Name)
			}
			fields = append(fields, FieldInfo{
				Name: name.Name,
				Key:  k,
				Type: typeToString(field.Type),
			})
		}
	}
	return fields
}

// typeToString converts an AST type to a string representation.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return "[...]" + typeToString(t.Elt)
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.IndexExpr:
		return typeToString(t.X) + "[" + typeToString(t.Index) + "]"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
