// Package goanalyzer resolves named top-level declarations in Go source files
// to line spans. It is the built-in source-object analyzer used when an
// include directive names an object in a .go file.
package goanalyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/snipdoc/snipdoc/internal/include"
)

// Analyzer resolves object names against a single Go source file. The zero
// value is ready to use.
type Analyzer struct{}

// New returns an Analyzer.
func New() *Analyzer { return &Analyzer{} }

// Resolve parses the Go file at path and returns the 1-based [start, end) line
// span of the named top-level object. Recognized names are function names,
// "Receiver.Method" for methods, type names, and const/var names. The span
// includes the declaration's doc comment.
//
// An unknown object returns an error wrapping include.ErrObjectNotFound.
func (a *Analyzer) Resolve(path, object string) (startLine, endLine int, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return 0, 0, fmt.Errorf("goanalyzer: parsing %s: %w", path, err)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if funcName(d) != object {
				continue
			}
			start := d.Pos()
			if d.Doc != nil {
				start = d.Doc.Pos()
			}
			return span(fset, start, d.End())
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				names, specStart, specEnd := specInfo(spec)
				if !contains(names, object) {
					continue
				}
				// A single-spec declaration spans the whole decl (including
				// any doc comment on the decl itself); a spec inside a block
				// spans just the spec.
				if len(d.Specs) == 1 {
					start := d.Pos()
					if d.Doc != nil {
						start = d.Doc.Pos()
					}
					return span(fset, start, d.End())
				}
				return span(fset, specStart, specEnd)
			}
		}
	}
	return 0, 0, fmt.Errorf("goanalyzer: object %q in %s: %w", object, path, include.ErrObjectNotFound)
}

func span(fset *token.FileSet, start, end token.Pos) (int, int, error) {
	return fset.Position(start).Line, fset.Position(end).Line + 1, nil
}

// funcName returns the lookup name of a function declaration: "Name" for
// plain functions, "Recv.Name" for methods.
func funcName(d *ast.FuncDecl) string {
	name := d.Name.Name
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return name
	}
	if recv := receiverTypeName(d.Recv.List[0].Type); recv != "" {
		return recv + "." + name
	}
	return name
}

// receiverTypeName unwraps pointer and type-parameter syntax around a
// receiver type to find its identifier.
func receiverTypeName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.Ident:
			return t.Name
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		default:
			return ""
		}
	}
}

func specInfo(spec ast.Spec) (names []string, start, end token.Pos) {
	switch s := spec.(type) {
	case *ast.TypeSpec:
		start = s.Pos()
		if s.Doc != nil {
			start = s.Doc.Pos()
		}
		return []string{s.Name.Name}, start, s.End()
	case *ast.ValueSpec:
		start = s.Pos()
		if s.Doc != nil {
			start = s.Doc.Pos()
		}
		for _, n := range s.Names {
			names = append(names, n.Name)
		}
		return names, start, s.End()
	}
	return nil, token.NoPos, token.NoPos
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
