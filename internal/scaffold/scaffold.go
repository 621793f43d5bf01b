// Package scaffold materializes a structure plan on disk. Each planned file
// gets content by extension: the source document verbatim for .yaml, a README
// for .md and a formatted Go stub for .go.
package scaffold

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/srtdog64/TemplateForge/internal/structure"
)

// ErrInvalidArgument marks a required argument that is empty or blank.
var ErrInvalidArgument = errors.New("invalid argument")

// Result reports one materialization call. Paths are OS paths under
// BasePath's parent. Failures set Success false with a message and leave
// whatever was created before the failure in place.
type Result struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	ModuleName     string   `json:"module_name"`
	BasePath       string   `json:"base_path"`
	CreatedFolders []string `json:"created_folders"`
	CreatedFiles   []string `json:"created_files"`
}

// Generator writes plans through a billy filesystem.
type Generator struct {
	FS  billy.Filesystem
	Now func() time.Time
}

// NewGenerator returns a generator over fs. A nil fs means the host
// filesystem, addressed by absolute paths.
func NewGenerator(fs billy.Filesystem) *Generator {
	if fs == nil {
		fs = osfs.New("/")
	}
	return &Generator{FS: fs, Now: time.Now}
}

// GenerateStructure is a convenience for NewGenerator(fs).Generate.
func GenerateStructure(fs billy.Filesystem, text, outputPath, moduleName string) Result {
	return NewGenerator(fs).Generate(text, outputPath, moduleName)
}

// Plan resolves the layout Generate would write: the synthesized plan
// re-rooted under the module name, where an explicit moduleName wins over
// the one named in text.
func Plan(text, moduleName string) structure.Plan {
	plan := structure.Synthesize(text)
	name := structure.Sanitize(moduleName)
	if name == "" || structure.IsPlaceholder(name) {
		return plan
	}
	return rebase(plan, name)
}

// Generate synthesizes text's plan and writes it under outputPath. Errors are
// reported in the Result, never returned or panicked. A blank outputPath is
// rejected before anything is written.
func (g *Generator) Generate(text, outputPath, moduleName string) Result {
	plan := Plan(text, moduleName)
	res := Result{ModuleName: plan.ModuleName}

	if strings.TrimSpace(outputPath) == "" {
		return failed(res, fmt.Errorf("output path is required: %w", ErrInvalidArgument))
	}

	out := outputPath
	if abs, err := filepath.Abs(outputPath); err == nil {
		out = abs
	}
	res.BasePath = filepath.Join(out, plan.ModuleName)

	if err := g.FS.MkdirAll(res.BasePath, 0o755); err != nil {
		return failed(res, err)
	}

	for _, folder := range plan.Folders {
		p := filepath.Join(out, filepath.FromSlash(folder))
		if err := g.FS.MkdirAll(p, 0o755); err != nil {
			return failed(res, err)
		}
		res.CreatedFolders = append(res.CreatedFolders, p)
	}

	for _, file := range plan.Files {
		p := filepath.Join(out, filepath.FromSlash(file))
		if err := g.FS.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return failed(res, err)
		}
		body, err := g.content(file, plan.ModuleName, text)
		if err != nil {
			return failed(res, err)
		}
		if err := util.WriteFile(g.FS, p, body, 0o644); err != nil {
			return failed(res, err)
		}
		res.CreatedFiles = append(res.CreatedFiles, p)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Successfully generated %d folders and %d files", len(res.CreatedFolders), len(res.CreatedFiles))
	return res
}

func (g *Generator) content(file, module, text string) ([]byte, error) {
	switch path.Ext(file) {
	case ".yaml", ".yml":
		return []byte(text), nil
	case ".md":
		return []byte(Readme(module, text, g.Now())), nil
	case "." + structure.StubExt:
		return Stub(file, module)
	}
	return nil, nil
}

func failed(res Result, err error) Result {
	res.Success = false
	res.Message = "Error: " + err.Error()
	return res
}

// rebase moves every planned path from plan.ModuleName to name.
func rebase(plan structure.Plan, name string) structure.Plan {
	from := plan.ModuleName + "/"
	move := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = name + "/" + strings.TrimPrefix(p, from)
		}
		return out
	}
	return structure.Plan{
		ModuleName: name,
		Folders:    move(plan.Folders),
		Files:      move(plan.Files),
	}
}
