package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/structure"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
)

const billingSpec = `module: "Billing"
structure:
  - name: Core
api:
  - name: Charge
`

// testServer returns a server writing into a fresh in-memory filesystem.
func testServer(t *testing.T) (*Server, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	return NewServer(scaffold.NewGenerator(fs), "127.0.0.1:0", nil), fs
}

// mcpClientSession connects a client to srv over in-memory transports.
func mcpClientSession(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	ct, st := mcp.NewInMemoryTransports()

	ss, err := srv.mcp.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })

	return cs
}

// callTool calls a tool and returns the result.
func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	return result
}

// decode unmarshals a tool's structured content into out.
func decode(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal StructuredContent: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal StructuredContent: %v", err)
	}
}

func TestGenerateStructureTool(t *testing.T) {
	t.Parallel()
	srv, fs := testServer(t)
	cs := mcpClientSession(t, srv)

	result := callTool(t, cs, ToolGenerate, map[string]any{
		"yaml_content": billingSpec,
		"output_path":  "/srv/out",
	})
	if result.IsError {
		t.Fatalf("generate_structure returned error: %v", result.Content)
	}
	var res scaffold.Result
	decode(t, result, &res)

	if !res.Success || res.ModuleName != "Billing" {
		t.Fatalf("result = %+v", res)
	}
	if res.BasePath != filepath.Join("/srv/out", "Billing") {
		t.Errorf("BasePath = %q", res.BasePath)
	}
	if _, err := util.ReadFile(fs, "/srv/out/Billing/api/Charge.go"); err != nil {
		t.Errorf("stub not written: %v", err)
	}
}

func TestGenerateStructureTool_ModuleName(t *testing.T) {
	t.Parallel()
	srv, fs := testServer(t)
	cs := mcpClientSession(t, srv)

	result := callTool(t, cs, ToolGenerate, map[string]any{
		"yaml_content": billingSpec,
		"output_path":  "/srv/out",
		"module_name":  "Payments",
	})
	var res scaffold.Result
	decode(t, result, &res)
	if res.ModuleName != "Payments" {
		t.Errorf("ModuleName = %q, want Payments", res.ModuleName)
	}
	if _, err := fs.Stat("/srv/out/Payments/Core"); err != nil {
		t.Errorf("Core folder missing: %v", err)
	}
}

func TestGenerateStructureTool_MissingOutputPath(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t)
	cs := mcpClientSession(t, srv)

	result := callTool(t, cs, ToolGenerate, map[string]any{"yaml_content": billingSpec})
	if !result.IsError {
		t.Fatal("expected IsError=true")
	}
	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "output_path is required") {
		t.Errorf("error text = %q", text)
	}
}

func TestPreviewStructureTool(t *testing.T) {
	t.Parallel()
	srv, fs := testServer(t)
	cs := mcpClientSession(t, srv)

	result := callTool(t, cs, ToolPreview, map[string]any{"yaml_content": billingSpec})
	var plan structure.Plan
	decode(t, result, &plan)

	want := structure.Synthesize(billingSpec)
	if plan.ModuleName != want.ModuleName || len(plan.Folders) != len(want.Folders) || len(plan.Files) != len(want.Files) {
		t.Errorf("plan = %+v, want %+v", plan, want)
	}
	if entries, _ := fs.ReadDir("/"); len(entries) != 0 {
		t.Errorf("preview wrote %d entries", len(entries))
	}
}

func TestExtractReferencesTool(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t)
	cs := mcpClientSession(t, srv)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"links", "a:\n  ref: \"./modules/a.yaml\"\n  ref: 'b.yml'\n", []string{"modules/a.yaml", "b.yml"}},
		{"none", "module: X\n", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out referencesOutput
			decode(t, callTool(t, cs, ToolReferences, map[string]any{"yaml_content": tc.text}), &out)
			if fmt.Sprint(out.References) != fmt.Sprint(tc.want) {
				t.Errorf("references = %v, want %v", out.References, tc.want)
			}
		})
	}
}

func TestValidateSpecTool(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t)
	cs := mcpClientSession(t, srv)

	tests := []struct {
		name      string
		text      string
		wantValid bool
		wantErrs  int
	}{
		{"valid", "module: Billing\ngoal: charge customers\n", true, 0},
		{"missing goal", billingSpec, false, 1},
		{"empty", "", false, 2},
	}
	for _, tt := range tests {
		result := callTool(t, cs, ToolValidate, map[string]any{"yaml_content": tt.text})
		if result.IsError {
			t.Fatalf("%s: validate_spec returned error: %v", tt.name, result.Content)
		}
		var out validateOutput
		decode(t, result, &out)
		if out.Valid != tt.wantValid || len(out.Errors) != tt.wantErrs {
			t.Errorf("%s: validate_spec = %+v, want valid=%v with %d errors", tt.name, out, tt.wantValid, tt.wantErrs)
		}
	}
}

func TestToolCallsEmitTelemetry(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	em, err := telemetry.NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	srv := NewServer(scaffold.NewGenerator(memfs.New()), "127.0.0.1:0", em)
	cs := mcpClientSession(t, srv)

	callTool(t, cs, ToolPreview, map[string]any{"yaml_content": billingSpec})
	em.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var evt telemetry.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if evt.Kind != telemetry.KindToolCall || evt.Document != ToolPreview {
		t.Errorf("event = %+v", evt)
	}
}

func TestServerStartAndSSEReachable(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	if srv.Addr() == nil {
		t.Fatal("expected non-nil listener address after Start")
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(srv.URL())
	if err != nil {
		t.Fatalf("GET %s: %v", srv.URL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("SSE status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/event-stream")
	}
}

func TestServerStopBeforeStart(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t)
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if srv.URL() != "" || srv.Addr() != nil {
		t.Error("unstarted server reports an address")
	}
}

func TestStartListenError(t *testing.T) {
	t.Parallel()
	srv := NewServer(nil, "256.0.0.1:bad", nil)
	if err := srv.Start(context.Background()); err == nil {
		srv.Stop(context.Background())
		t.Fatal("Start succeeded on an invalid address")
	}
}
