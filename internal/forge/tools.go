package forge

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srtdog64/TemplateForge/internal/refs"
	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/structure"
)

// Tool names published by Server.
const (
	ToolGenerate   = "generate_structure"
	ToolPreview    = "preview_structure"
	ToolReferences = "extract_references"
	ToolValidate   = "validate_spec"
)

// generateInput is the input schema for the generate_structure tool.
type generateInput struct {
	YAMLContent string `json:"yaml_content" jsonschema:"Module spec document text"`
	OutputPath  string `json:"output_path" jsonschema:"Directory the module folder is created in"`
	ModuleName  string `json:"module_name,omitempty" jsonschema:"Overrides the module name found in the document"`
}

// previewInput is the input schema for the preview_structure tool.
type previewInput struct {
	YAMLContent string `json:"yaml_content" jsonschema:"Module spec document text"`
}

// referencesInput is the input schema for the extract_references tool.
type referencesInput struct {
	YAMLContent string `json:"yaml_content" jsonschema:"Document text to scan for ref: links"`
}

// referencesOutput is the output schema for the extract_references tool.
type referencesOutput struct {
	References []string `json:"references"`
}

// validateInput is the input schema for the validate_spec tool.
type validateInput struct {
	YAMLContent string `json:"yaml_content" jsonschema:"Module spec document text"`
}

// validateOutput is the output schema of the validate_spec tool.
type validateOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolGenerate,
		Description: "Create the folders and files described by a module spec",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in generateInput) (*mcp.CallToolResult, scaffold.Result, error) {
		if strings.TrimSpace(in.OutputPath) == "" {
			return nil, scaffold.Result{}, errors.New("output_path is required")
		}
		res := s.gen.Generate(in.YAMLContent, in.OutputPath, in.ModuleName)
		if res.CreatedFolders == nil {
			res.CreatedFolders = []string{}
		}
		if res.CreatedFiles == nil {
			res.CreatedFiles = []string{}
		}
		s.emit(ToolGenerate, map[string]any{"module": res.ModuleName, "success": res.Success})
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolPreview,
		Description: "Report the folders and files a module spec would produce without writing them",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in previewInput) (*mcp.CallToolResult, structure.Plan, error) {
		plan := structure.Synthesize(in.YAMLContent)
		s.emit(ToolPreview, map[string]any{"module": plan.ModuleName})
		return nil, plan, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolReferences,
		Description: "List the documents a document links to with ref: lines",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in referencesInput) (*mcp.CallToolResult, referencesOutput, error) {
		out := referencesOutput{References: refs.Extract(in.YAMLContent)}
		if out.References == nil {
			out.References = []string{}
		}
		s.emit(ToolReferences, map[string]any{"count": len(out.References)})
		return nil, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolValidate,
		Description: "Check that a module spec names its module and goal",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in validateInput) (*mcp.CallToolResult, validateOutput, error) {
		out := validateOutput{Errors: structure.Validate(in.YAMLContent)}
		if out.Errors == nil {
			out.Errors = []string{}
		}
		out.Valid = len(out.Errors) == 0
		s.emit(ToolValidate, map[string]any{"valid": out.Valid})
		return nil, out, nil
	})
}
