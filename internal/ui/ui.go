// Package ui renders human-oriented status output for the tforge CLI. All
// output goes to the Printer's writer, stderr by default, so stdout stays
// free for document text.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/srtdog64/TemplateForge/internal/ansi"
	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/refs"
	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/space"
)

// Printer writes colored status lines.
type Printer struct {
	w  io.Writer
	nc bool
}

// New returns a Printer writing to stderr. Color is used only when stderr is
// a terminal.
func New() *Printer {
	return &Printer{w: os.Stderr, nc: !ansi.Enabled(os.Stderr)}
}

// NewWriter returns a Printer writing to w. With noColor set, no ANSI escape
// codes are emitted.
func NewWriter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, nc: noColor}
}

// c returns code unless color is disabled.
func (p *Printer) c(code string) string {
	if p.nc {
		return ""
	}
	return code
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Banner prints the program banner.
func (p *Printer) Banner() {
	p.printf("%s  TemplateForge%s %sspec documents to project scaffolds%s\n\n",
		p.c(ansi.Bold+ansi.Cyan), p.c(ansi.Reset), p.c(ansi.Dim), p.c(ansi.Reset))
}

// Error prints msg as an error line.
func (p *Printer) Error(msg string) {
	p.printf("%serror: %s%s\n", p.c(ansi.Red+ansi.Bold), p.c(ansi.Reset), msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	p.printf("%s%s%s\n", p.c(ansi.Dim), msg, p.c(ansi.Reset))
}

// Success prints msg with a check mark.
func (p *Printer) Success(msg string) {
	p.printf("%s✓ %s%s\n", p.c(ansi.Green+ansi.Bold), msg, p.c(ansi.Reset))
}

// Warn prints msg as a warning.
func (p *Printer) Warn(msg string) {
	p.printf("%s⚠ %s%s\n", p.c(ansi.Yellow+ansi.Bold), msg, p.c(ansi.Reset))
}

// GenerationResult reports the outcome of a generation run. Created paths
// are listed only in verbose mode.
func (p *Printer) GenerationResult(res scaffold.Result, verbose bool) {
	if !res.Success {
		p.printf("%s✗ generation failed%s: %s\n", p.c(ansi.Red+ansi.Bold), p.c(ansi.Reset), res.Message)
		return
	}
	p.printf("%s✓ %s%s %s(%s)%s\n", p.c(ansi.Green+ansi.Bold), res.Message, p.c(ansi.Reset),
		p.c(ansi.Dim), res.BasePath, p.c(ansi.Reset))
	if !verbose {
		return
	}
	for _, f := range res.CreatedFolders {
		p.printf("  %s+ %s/%s\n", p.c(ansi.Blue), f, p.c(ansi.Reset))
	}
	for _, f := range res.CreatedFiles {
		p.printf("  %s+ %s%s\n", p.c(ansi.Green), f, p.c(ansi.Reset))
	}
}

// References lists links as "from:line -> to".
func (p *Printer) References(rs []refs.Reference) {
	if len(rs) == 0 {
		p.Info("  (no references)")
		return
	}
	for _, r := range rs {
		p.printf("  %s%s:%d%s -> %s\n", p.c(ansi.Dim), r.From, r.Line, p.c(ansi.Reset), r.To)
	}
}

// Spaces lists every space, marking the active one.
func (p *Printer) Spaces(spaces []*space.Space, active *space.Space) {
	if len(spaces) == 0 {
		p.Info("no spaces; create one with `tforge space new` or `tforge space preset`")
		return
	}
	for _, s := range spaces {
		marker := " "
		color := ""
		if s == active {
			marker, color = "*", ansi.Cyan+ansi.Bold
		}
		p.printf("%s %s%-30s%s %d document(s)\n", marker, p.c(color), s.Name, p.c(ansi.Reset), s.Len())
	}
}

// Space shows a space's documents and the links between them.
func (p *Printer) Space(s *space.Space) {
	p.printf("%sspace: %s%s\n", p.c(ansi.Bold+ansi.Cyan), s.Name, p.c(ansi.Reset))
	p.printf("%screated %s, modified %s%s\n", p.c(ansi.Dim),
		s.CreatedAt.Format(catalog.DateLayout), s.ModifiedAt.Format(catalog.DateLayout), p.c(ansi.Reset))
	for _, d := range s.Documents() {
		mod := ""
		if d.Modified {
			mod = p.c(ansi.Yellow) + " *" + p.c(ansi.Reset)
		}
		p.printf("  %s  %-24s %-13s %s%s\n", d.ID.String()[:8], d.Name, d.Type, d.FilePath, mod)
	}
}

// DocumentAdded confirms a new document.
func (p *Printer) DocumentAdded(d *space.Document) {
	p.printf("%s+ %s%s %s(%s, %s)%s\n", p.c(ansi.Green), d.Name, p.c(ansi.Reset),
		p.c(ansi.Dim), d.Type, d.ID.String()[:8], p.c(ansi.Reset))
}

// Templates lists catalog entries grouped by category.
func (p *Printer) Templates(ds []catalog.Descriptor) {
	var last catalog.Category
	for i, d := range ds {
		if i == 0 || d.Category != last {
			p.printf("%s%s %s%s\n", p.c(ansi.Bold), d.Icon, d.Category, p.c(ansi.Reset))
			last = d.Category
		}
		origin := "built-in"
		if !d.BuiltIn {
			origin = d.FilePath
		}
		p.printf("  %-32s %s%s · %s%s\n", d.Name, p.c(ansi.Dim), d.Language, origin, p.c(ansi.Reset))
	}
}

// TemplateChange reports one watcher event.
func (p *Printer) TemplateChange(ch catalog.Change) {
	switch {
	case ch.Err != nil:
		p.Error(fmt.Sprintf("%s: %v", ch.File, ch.Err))
	case ch.Kind == catalog.ChangeRemoved:
		p.printf("%s- %s%s\n", p.c(ansi.Red), ch.File, p.c(ansi.Reset))
	default:
		p.printf("%s~ %s%s %s(%s)%s\n", p.c(ansi.Green), ch.Template.Name, p.c(ansi.Reset),
			p.c(ansi.Dim), ch.File, p.c(ansi.Reset))
	}
}

// Files lists written paths under a heading.
func (p *Printer) Files(heading string, paths []string) {
	p.printf("%s%s%s\n", p.c(ansi.Bold), heading, p.c(ansi.Reset))
	p.printf("  %s\n", strings.Join(paths, "\n  "))
}
