package scaffold

import (
	"context"

	"github.com/srtdog64/TemplateForge/internal/structure"
)

// Request is the input to a generation backend.
type Request struct {
	Text       string `json:"yaml_content"`
	OutputPath string `json:"output_path"`
	ModuleName string `json:"module_name,omitempty"`
}

// Backend materializes documents. Local writes in process; remote backends
// forward the same request to a generation service. Both report
// materialization failures inside Result and reserve the error return for
// transport problems.
type Backend interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Preview(ctx context.Context, text string) (structure.Plan, error)
}

// Local is the in-process Backend.
type Local struct {
	gen *Generator
}

// NewLocal returns a Backend writing through g. A nil g writes to the host
// filesystem.
func NewLocal(g *Generator) *Local {
	if g == nil {
		g = NewGenerator(nil)
	}
	return &Local{gen: g}
}

// Generate implements Backend.
func (l *Local) Generate(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return l.gen.Generate(req.Text, req.OutputPath, req.ModuleName), nil
}

// Preview implements Backend.
func (l *Local) Preview(ctx context.Context, text string) (structure.Plan, error) {
	if err := ctx.Err(); err != nil {
		return structure.Plan{}, err
	}
	return structure.Synthesize(text), nil
}
