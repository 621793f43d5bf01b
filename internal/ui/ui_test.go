package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/refs"
	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/space"
	"github.com/srtdog64/TemplateForge/internal/structure"
)

// plain returns a colorless printer writing to buf.
func plain() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWriter(&buf, true), &buf
}

func TestNoColorOmitsEscapes(t *testing.T) {
	t.Parallel()
	p, buf := plain()

	p.Banner()
	p.Error("boom")
	p.Info("note")
	p.Success("done")
	p.Warn("careful")

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("noColor output contains ANSI escapes: %q", buf.String())
	}
	for _, want := range []string{"error: boom", "note", "✓ done", "⚠ careful"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestColorUsesEscapes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewWriter(&buf, false).Error("boom")
	if !strings.Contains(buf.String(), "\033[31m") {
		t.Errorf("colored error lacks red: %q", buf.String())
	}
}

func TestGenerationResult(t *testing.T) {
	t.Parallel()

	res := scaffold.Result{
		Success:        true,
		Message:        "Successfully generated 1 folders and 2 files",
		BasePath:       "/out/Orders",
		CreatedFolders: []string{"/out/Orders/Core"},
		CreatedFiles:   []string{"/out/Orders/README.md", "/out/Orders/module-spec.yaml"},
	}

	p, buf := plain()
	p.GenerationResult(res, false)
	if strings.Contains(buf.String(), "README.md") {
		t.Error("quiet mode lists created files")
	}
	if !strings.Contains(buf.String(), "/out/Orders") {
		t.Errorf("summary lacks base path:\n%s", buf.String())
	}

	p, buf = plain()
	p.GenerationResult(res, true)
	for _, want := range []string{"+ /out/Orders/Core/", "+ /out/Orders/README.md"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("verbose output lacks %q:\n%s", want, buf.String())
		}
	}

	p, buf = plain()
	p.GenerationResult(scaffold.Result{Message: "Error: permission denied"}, true)
	if !strings.Contains(buf.String(), "generation failed") || !strings.Contains(buf.String(), "permission denied") {
		t.Errorf("failure output:\n%s", buf.String())
	}
}

func TestReferences(t *testing.T) {
	t.Parallel()

	p, buf := plain()
	p.References([]refs.Reference{{From: "root", To: "modules/a.yaml", Line: 3}})
	if got := buf.String(); !strings.Contains(got, "root:3 -> modules/a.yaml") {
		t.Errorf("References output = %q", got)
	}

	p, buf = plain()
	p.References(nil)
	if !strings.Contains(buf.String(), "no references") {
		t.Errorf("empty References output = %q", buf.String())
	}
}

func TestSpacesMarksActive(t *testing.T) {
	t.Parallel()

	r := space.NewRegistry()
	a, _ := r.CreateSpace("alpha")
	if _, err := r.CreateSpace("beta"); err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	if _, err := a.AddDocument("core", nil, space.TypeModule); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	p, buf := plain()
	p.Spaces(r.Spaces(), r.Active())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "* beta") || strings.HasPrefix(lines[0], "*") {
		t.Errorf("active marker misplaced:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], "1 document(s)") {
		t.Errorf("document count missing: %q", lines[0])
	}
}

func TestSpaceShowsDocuments(t *testing.T) {
	t.Parallel()

	sp := space.New("shop")
	doc, err := sp.AddDocument("cart", nil, space.TypeModule)
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	p, buf := plain()
	p.Space(sp)
	for _, want := range []string{"space: shop", doc.ID.String()[:8], "cart.yaml", " *"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Space output lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestTemplatesGroupsByCategory(t *testing.T) {
	t.Parallel()

	ds := catalog.New(nil).List()
	p, buf := plain()
	p.Templates(ds)

	out := buf.String()
	if strings.Count(out, " "+string(catalog.CategoryModule)+"\n") != 1 {
		t.Errorf("Module heading should appear once:\n%s", out)
	}
	if !strings.Contains(out, "built-in") {
		t.Errorf("built-in origin missing:\n%s", out)
	}
}

func TestTemplateChange(t *testing.T) {
	t.Parallel()

	p, buf := plain()
	p.TemplateChange(catalog.Change{Kind: catalog.ChangeImported, File: "/t/a.yaml", Template: catalog.Descriptor{Name: "A"}})
	p.TemplateChange(catalog.Change{Kind: catalog.ChangeRemoved, File: "/t/b.yaml"})
	p.TemplateChange(catalog.Change{File: "/t/c.yaml", Err: errors.New("unreadable")})

	out := buf.String()
	for _, want := range []string{"~ A", "- /t/b.yaml", "error: /t/c.yaml: unreadable"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPlanTree(t *testing.T) {
	t.Parallel()

	plan := structure.Plan{
		ModuleName: "Orders",
		Folders:    []string{"Orders/Core", "Orders/Api"},
		Files:      []string{"Orders/README.md", "Orders/api/CreateOrder.go"},
	}
	out := PlanTree(plan)

	for _, want := range []string{"Orders/", "Core/", "Api/", "api/", "CreateOrder.go", "README.md"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Core/") > strings.Index(out, "README.md") {
		t.Errorf("folders should precede files:\n%s", out)
	}
	if strings.Contains(out, "Orders/Core") {
		t.Errorf("entries should be relative to the module:\n%s", out)
	}
}

func TestPrinterPlanSummary(t *testing.T) {
	t.Parallel()

	p, buf := plain()
	p.Plan(structure.Synthesize(""))
	if !strings.Contains(buf.String(), "4 folders, 2 files") {
		t.Errorf("summary missing:\n%s", buf.String())
	}
}
