// Command enumerfix rewrites enumer output to build errors with
// cockroachdb/errors instead of fmt.Errorf.
//
//	//go:generate go run github.com/smykla-skalski/codemate/tools/enumerfix phase_enumer.go
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"
)

const (
	errorsPath = "github.com/cockroachdb/errors"
	fmtPath    = "fmt"

	filePermissions = 0o644
)

// ErrUsage indicates incorrect usage of the tool.
var ErrUsage = errors.New("usage: enumerfix <file>...")

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}

	for _, filename := range args[1:] {
		if err := fixFile(filename); err != nil {
			return errors.Wrapf(err, "fixing %s", filename)
		}
	}

	return nil
}

func fixFile(filename string) error {
	//nolint:gosec // G304: path comes from go:generate
	src, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}

	fixed, err := rewrite(filename, src)
	if err != nil {
		return err
	}

	if bytes.Equal(fixed, src) {
		return nil
	}

	return errors.Wrap(os.WriteFile(filename, fixed, filePermissions), "writing file")
}

// rewrite turns every fmt.Errorf call into errors.Newf and fixes the imports.
// Files without such calls come back unchanged.
func rewrite(filename string, src []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parsing file")
	}

	changed := false

	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Errorf" {
			return true
		}

		if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == "fmt" {
			pkg.Name = "errors"
			sel.Sel.Name = "Newf"
			changed = true
		}

		return true
	})

	if !changed {
		return src, nil
	}

	astutil.AddImport(fset, file, errorsPath)

	if !astutil.UsesImport(file, fmtPath) {
		astutil.DeleteImport(fset, file, fmtPath)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, errors.Wrap(err, "formatting file")
	}

	return buf.Bytes(), nil
}
