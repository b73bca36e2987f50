// Package lint statically scans a target Go module for expr.MustParse(...)
// call sites whose argument is a string literal, and validates that each
// literal parses cleanly -- catching a typo'd default value or validator
// expression at build time instead of at first evaluation.
package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/jahlborn/jackcessgo/expr"
)

// Diagnostic is one MustParse call site whose literal failed to parse.
type Diagnostic struct {
	File       string
	Line       int
	Column     int
	Expression string
	Err        error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: expr.MustParse(%q): %v", d.File, d.Line, d.Column, d.Expression, d.Err)
}

// LoadPackages loads every package under dir for syntax inspection.
func LoadPackages(dir string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

// CheckMustParseCalls walks pkgs' syntax trees for expr.MustParse calls with
// a string-literal argument and returns one Diagnostic per literal that
// fails to parse. A call whose argument isn't a string literal (built from
// a variable or concatenation) is skipped rather than flagged -- only
// statically-checkable calls are in scope.
func CheckMustParseCalls(pkgs []*packages.Package) []Diagnostic {
	var diags []Diagnostic
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				if !isMustParseCall(call) {
					return true
				}
				lit, ok := mustParseLiteral(call)
				if !ok {
					return true
				}
				text, err := strconv.Unquote(lit.Value)
				if err != nil {
					return true
				}
				if _, parseErr := expr.Parse(expr.DefaultValue, text); parseErr != nil {
					pos := pkg.Fset.Position(call.Pos())
					diags = append(diags, Diagnostic{
						File:       pos.Filename,
						Line:       pos.Line,
						Column:     pos.Column,
						Expression: text,
						Err:        parseErr,
					})
				}
				return true
			})
		}
	}
	return diags
}

// isMustParseCall reports whether call invokes a function or method named
// MustParse, identified by name rather than by resolved type so it matches
// regardless of the package qualifier it's reached through.
func isMustParseCall(call *ast.CallExpr) bool {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name == "MustParse"
	case *ast.SelectorExpr:
		return fun.Sel.Name == "MustParse"
	default:
		return false
	}
}

func mustParseLiteral(call *ast.CallExpr) (*ast.BasicLit, bool) {
	if len(call.Args) == 0 {
		return nil, false
	}
	lit, ok := call.Args[len(call.Args)-1].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, false
	}
	return lit, true
}
