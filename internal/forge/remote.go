package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/structure"
)

// ErrToolFailed is returned when the remote service reports a tool error.
var ErrToolFailed = errors.New("remote tool failed")

// Remote is a scaffold.Backend backed by a generation service.
type Remote struct {
	session *mcp.ClientSession
}

var _ scaffold.Backend = (*Remote)(nil)

// Dial connects to the SSE endpoint at url.
func Dial(ctx context.Context, url string) (*Remote, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "tforge-client", Version: Version}, nil)
	cs, err := client.Connect(ctx, &mcp.SSEClientTransport{Endpoint: url}, nil)
	if err != nil {
		return nil, fmt.Errorf("forge: connect %s: %w", url, err)
	}
	return NewRemote(cs), nil
}

// NewRemote wraps an established client session.
func NewRemote(cs *mcp.ClientSession) *Remote {
	return &Remote{session: cs}
}

// Close ends the session.
func (r *Remote) Close() error {
	return r.session.Close()
}

// Generate implements scaffold.Backend.
func (r *Remote) Generate(ctx context.Context, req scaffold.Request) (scaffold.Result, error) {
	args := map[string]any{
		"yaml_content": req.Text,
		"output_path":  req.OutputPath,
	}
	if req.ModuleName != "" {
		args["module_name"] = req.ModuleName
	}
	var res scaffold.Result
	if err := r.call(ctx, ToolGenerate, args, &res); err != nil {
		return scaffold.Result{}, err
	}
	return res, nil
}

// Preview implements scaffold.Backend.
func (r *Remote) Preview(ctx context.Context, text string) (structure.Plan, error) {
	var plan structure.Plan
	if err := r.call(ctx, ToolPreview, map[string]any{"yaml_content": text}, &plan); err != nil {
		return structure.Plan{}, err
	}
	return plan, nil
}

// References returns the paths text links to, as scanned by the service.
func (r *Remote) References(ctx context.Context, text string) ([]string, error) {
	var out referencesOutput
	if err := r.call(ctx, ToolReferences, map[string]any{"yaml_content": text}, &out); err != nil {
		return nil, err
	}
	return out.References, nil
}

// Validate returns the problems the service finds in a module spec. An empty
// slice means the document is valid.
func (r *Remote) Validate(ctx context.Context, text string) ([]string, error) {
	var out validateOutput
	if err := r.call(ctx, ToolValidate, map[string]any{"yaml_content": text}, &out); err != nil {
		return nil, err
	}
	return out.Errors, nil
}

func (r *Remote) call(ctx context.Context, tool string, args map[string]any, out any) error {
	result, err := r.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("forge: call %s: %w", tool, err)
	}
	if result.IsError {
		return fmt.Errorf("forge: %s: %w: %s", tool, ErrToolFailed, toolText(result))
	}
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return fmt.Errorf("forge: marshal %s result: %w", tool, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("forge: decode %s result: %w", tool, err)
	}
	return nil
}

func toolText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
