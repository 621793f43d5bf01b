package structure

import (
	"reflect"
	"strings"
	"testing"
)

func TestSynthesize_EmptyInputFallsBack(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\n\t\n", "# just a comment"} {
		plan := Synthesize(text)
		wantFolders := []string{"MyModule/Core", "MyModule/Services", "MyModule/Models", "MyModule/Interfaces"}
		if !reflect.DeepEqual(plan.Folders, wantFolders) {
			t.Errorf("Synthesize(%q).Folders = %v, want %v", text, plan.Folders, wantFolders)
		}
		wantFiles := []string{"MyModule/README.md", "MyModule/module-spec.yaml"}
		if !reflect.DeepEqual(plan.Files, wantFiles) {
			t.Errorf("Synthesize(%q).Files = %v, want %v", text, plan.Files, wantFiles)
		}
	}
}

func TestSynthesize_StructureSection(t *testing.T) {
	t.Parallel()

	plan := Synthesize("module: \"Billing\"\nstructure:\n  - name: Core\n  - name: Api")
	want := []string{"Billing/Core", "Billing/Api"}
	if !reflect.DeepEqual(plan.Folders, want) {
		t.Errorf("Folders = %v, want %v", plan.Folders, want)
	}
	if plan.ModuleName != "Billing" {
		t.Errorf("ModuleName = %q, want %q", plan.ModuleName, "Billing")
	}
}

func TestSynthesize_PlaceholderModuleName(t *testing.T) {
	t.Parallel()

	for _, text := range []string{`module: "MODULE_NAME"`, "composition: APP_NAME", "module:"} {
		plan := Synthesize(text)
		if plan.ModuleName != DefaultModuleName {
			t.Errorf("Synthesize(%q).ModuleName = %q, want %q", text, plan.ModuleName, DefaultModuleName)
		}
		for _, f := range plan.Folders {
			if strings.Contains(f, "MODULE_NAME") || strings.Contains(f, "APP_NAME") {
				t.Errorf("folder %q contains placeholder", f)
			}
		}
	}
}

func TestSynthesize_FullModule(t *testing.T) {
	t.Parallel()

	text := `# module spec
module: Orders
goal: "Order handling"

structure:
  - name: Core
    description: "core logic"
  - Models
  - name: "Services"

api:
  - name: CreateOrder
    method: POST
  - method: GET

events:
  - name: OrderPlaced
    payload: OrderData

models:
  - name: 'Order'

constraints:
  perf:
    - name: Ignored
`
	plan := Synthesize(text)

	wantFolders := []string{"Orders/Core", "Orders/Models", "Orders/Services"}
	if !reflect.DeepEqual(plan.Folders, wantFolders) {
		t.Errorf("Folders = %v, want %v", plan.Folders, wantFolders)
	}
	wantFiles := []string{
		"Orders/api/CreateOrder.go",
		"Orders/api/GET.go",
		"Orders/events/OrderPlaced.go",
		"Orders/models/Order.go",
		"Orders/README.md",
		"Orders/module-spec.yaml",
	}
	if !reflect.DeepEqual(plan.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", plan.Files, wantFiles)
	}
}

func TestSynthesize_NestedSectionEndsFolderScan(t *testing.T) {
	t.Parallel()

	text := "composition:\n  modules:\n    - id: \"CoreModule\"\n      ref: \"./modules/core.yaml\"\n  integrations:\n    - id: \"Api\"\n"
	plan := Synthesize(text)
	want := []string{"MyModule/CoreModule"}
	if !reflect.DeepEqual(plan.Folders, want) {
		t.Errorf("Folders = %v, want %v", plan.Folders, want)
	}
}

func TestSynthesize_EntriesCannotEscapeModule(t *testing.T) {
	t.Parallel()

	plan := Synthesize("module: Safe\nlayers:\n  - name: ../../etc\n  - name: ./domain/model\n")
	want := []string{"Safe/etc", "Safe/domain/model"}
	if !reflect.DeepEqual(plan.Folders, want) {
		t.Errorf("Folders = %v, want %v", plan.Folders, want)
	}
}

func TestSynthesize_CRLF(t *testing.T) {
	t.Parallel()

	plan := Synthesize("module: Win\r\nstructure:\r\n  - name: Core\r\n")
	want := []string{"Win/Core"}
	if !reflect.DeepEqual(plan.Folders, want) {
		t.Errorf("Folders = %v, want %v", plan.Folders, want)
	}
}

func TestExtractValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{`module: "Billing"`, "Billing"},
		{"module: 'Billing'", "Billing"},
		{"- name: Core", "Core"},
		{`- name: "Core"`, "Core"},
		{"- Core", "Core"},
		{"- method: GET", "GET"},
		{"  - id: \"CoreModule\"", "CoreModule"},
		{"no colon here", ""},
		{"key:", ""},
	}
	for _, tt := range tests {
		if got := ExtractValue(tt.line); got != tt.want {
			t.Errorf("ExtractValue(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestModuleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"module: Billing", "Billing"},
		{"composition: \"Shop\"", "Shop"},
		{"module: MODULE_NAME\nmodule: Real", "Real"},
		{"module: First\nmodule: Second", "Second"},
		{"module: Real\ncomposition: APP_NAME", "Real"},
		{"goal: nothing", DefaultModuleName},
		{"", DefaultModuleName},
	}
	for _, tt := range tests {
		if got := ModuleName(tt.text); got != tt.want {
			t.Errorf("ModuleName(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Billing", "Billing"},
		{"  Bill:ing?  ", "Billing"},
		{`a<b>c|d*e"f`, "abcdef"},
		{"path/to\\name", "pathtoname"},
		{"tab\there", "tabhere"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSynthesize_ModuleNamedAfterSections(t *testing.T) {
	t.Parallel()

	plan := Synthesize("structure:\n  - name: Core\napi:\n  - name: Pay\nmodule: Billing\n")
	if plan.ModuleName != "Billing" {
		t.Fatalf("ModuleName = %q, want Billing", plan.ModuleName)
	}
	wantFolders := []string{"Billing/Core"}
	if !reflect.DeepEqual(plan.Folders, wantFolders) {
		t.Errorf("Folders = %v, want %v", plan.Folders, wantFolders)
	}
	wantFiles := []string{"Billing/api/Pay.go", "Billing/README.md", "Billing/module-spec.yaml"}
	if !reflect.DeepEqual(plan.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", plan.Files, wantFiles)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"valid", "module: Billing\ngoal: \"Charge\"\n", nil},
		{"composition counts as module", "composition: Shop\ngoal: sell\n", nil},
		{"placeholder is still a value", "module: MODULE_NAME\ngoal: x\n", nil},
		{"empty", "", []string{"'module' field is required", "'goal' field is required"}},
		{"missing goal", "module: Billing\n", []string{"'goal' field is required"}},
		{"empty module", "module: \"\"\ngoal: x\n", []string{"'module' field must be a non-empty string"}},
		{"nested keys count", "  module: Billing\n  goal: x\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Validate(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
