// Package arch_test checks repository-wide rules: package layering, GoDoc on
// exported API, package-level state and file size.
package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"
)

const internalPrefix = "github.com/srtdog64/TemplateForge/internal/"

// internalDir returns the absolute path of internal/, found relative to this
// source file.
func internalDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(filepath.Dir(file))
}

// packages lists the package directories under internal/, arch_test excluded.
func packages(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(internalDir(t))
	if err != nil {
		t.Fatalf("read internal/: %v", err)
	}
	var pkgs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "arch_test" {
			pkgs = append(pkgs, e.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// sourceFiles returns the non-test .go files of pkg.
func sourceFiles(t *testing.T, pkg string) []string {
	t.Helper()
	dir := filepath.Join(internalDir(t), pkg)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files
}

// parsed is one parsed source file.
type parsed struct {
	path string
	fset *token.FileSet
	file *ast.File
}

// parse parses every source file of pkg with comments.
func parse(t *testing.T, pkg string) []parsed {
	t.Helper()
	var out []parsed
	for _, path := range sourceFiles(t, pkg) {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		out = append(out, parsed{path: path, fset: fset, file: f})
	}
	return out
}

// internalImports returns the internal packages pkg's sources import.
func internalImports(t *testing.T, pkg string) []string {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range parse(t, pkg) {
		for _, imp := range p.file.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if name, ok := strings.CutPrefix(path, internalPrefix); ok {
				seen[name] = true
			}
		}
	}
	var out []string
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// position formats a node position relative to internal/.
func position(p parsed, pos token.Pos) string {
	at := p.fset.Position(pos)
	rel := p.path
	if i := strings.Index(rel, "internal"+string(filepath.Separator)); i >= 0 {
		rel = rel[i:]
	}
	return rel + ":" + strconv.Itoa(at.Line)
}
