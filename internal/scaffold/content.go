package scaffold

import (
	"bytes"
	"fmt"
	"go/token"
	"path"
	"strings"
	"text/template"
	"time"
	"unicode"

	"mvdan.cc/gofumpt/format"
)

// ReadmeExcerpt is how many characters of the source document a README
// embeds.
const ReadmeExcerpt = 500

// Readme renders the README written beside a generated module.
func Readme(module, text string, now time.Time) string {
	excerpt := text
	truncated := false
	if r := []rune(text); len(r) > ReadmeExcerpt {
		excerpt = string(r[:ReadmeExcerpt])
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", module)
	b.WriteString("## Overview\n")
	b.WriteString("This module was generated from a YAML specification.\n\n")
	b.WriteString("## Structure\n")
	b.WriteString("```yaml\n")
	b.WriteString(excerpt)
	if !strings.HasSuffix(excerpt, "\n") {
		b.WriteString("\n")
	}
	if truncated {
		b.WriteString("...\n")
	}
	b.WriteString("```\n\n")
	b.WriteString("## Generated\n")
	fmt.Fprintf(&b, "- Date: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("- Tool: TemplateForge\n")
	return b.String()
}

var stubTemplate = template.Must(template.New("stub").Parse(`// Code generated by TemplateForge from the {{.Module}} module spec.

package {{.Package}}

// {{.Type}} is declared by the {{.Section}} section of the {{.Module}} spec.
type {{.Type}} struct{}
`))

type stubData struct {
	Module  string
	Package string
	Section string
	Type    string
}

// Stub renders the gofumpt-formatted Go source for a planned stub file such
// as "Orders/api/CreateOrder.go". The package is named after the file's
// directory and the type after its base name.
func Stub(file, module string) ([]byte, error) {
	dir := path.Base(path.Dir(file))
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))

	data := stubData{
		Module:  module,
		Package: packageName(dir),
		Section: dir,
		Type:    typeName(base),
	}
	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("scaffold: render stub %s: %w", file, err)
	}
	out, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return nil, fmt.Errorf("scaffold: format stub %s: %w", file, err)
	}
	return out, nil
}

// typeName turns a file base name into an exported Go identifier.
func typeName(base string) string {
	var parts []string
	for _, f := range strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		parts = append(parts, string(r))
	}
	name := strings.Join(parts, "")
	if name == "" {
		return "Stub"
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "T" + name
	}
	return name
}

// packageName turns a directory name into a lower-case Go package name.
func packageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "pkg" + name
	}
	if token.IsKeyword(name) {
		name += "s"
	}
	return name
}
