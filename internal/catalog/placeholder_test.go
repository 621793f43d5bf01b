package catalog

import (
	"strings"
	"testing"
	"time"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		vals Values
		want string
	}{
		{
			name: "overlapping tokens",
			text: "product: APP_OR_GAME_NAME\ncomposition: APP_NAME",
			vals: Values{TokenAppName: "Shop", TokenAppOrGameName: "Quest"},
			want: "product: Quest\ncomposition: Shop",
		},
		{
			name: "applied once",
			text: "module: MODULE_NAME",
			vals: Values{TokenModuleName: "APP_NAME", TokenAppName: "Shop"},
			want: "module: APP_NAME",
		},
		{
			name: "case sensitive",
			text: "module_name MODULE_NAME",
			vals: Values{TokenModuleName: "Billing"},
			want: "module_name Billing",
		},
		{
			name: "every occurrence",
			text: "OWNER_NAME/OWNER_NAME",
			vals: Values{TokenOwnerName: "Team"},
			want: "Team/Team",
		},
		{
			name: "no values",
			text: "MODULE_NAME",
			vals: nil,
			want: "MODULE_NAME",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Substitute(tt.text, tt.vals); got != tt.want {
				t.Errorf("Substitute = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	vals := DefaultValues("Shop", "", now)
	if vals[TokenDate] != "2024-03-09" {
		t.Errorf("date = %q, want %q", vals[TokenDate], "2024-03-09")
	}
	if vals[TokenOwnerName] != DefaultOwner {
		t.Errorf("owner = %q, want %q", vals[TokenOwnerName], DefaultOwner)
	}
	got := Substitute(MustBuiltin(KeyAppExtended), vals)
	if strings.Contains(got, TokenAppName) || !strings.Contains(got, `composition: "Shop"`) {
		t.Errorf("app-extended not fully substituted:\n%s", got)
	}
}

func TestLinkedStructure(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	files := LinkedStructure(MustBuiltin(KeyArchitecture), "Galaxy", "Core Team", now)

	wantPaths := []string{
		RootFile,
		"modules/core_module.yaml",
		"modules/data_module.yaml",
		"integrations/api_integration.yaml",
		"pipelines/data_pipeline.yaml",
		"testing/test_suite.yaml",
		"ops/monitoring.yaml",
		"ops/migration_v1.yaml",
	}
	if len(files) != len(wantPaths) {
		t.Errorf("len(files) = %d, want %d", len(files), len(wantPaths))
	}
	for _, p := range wantPaths {
		if _, ok := files[p]; !ok {
			t.Errorf("missing %s", p)
		}
	}

	root := files[RootFile]
	for _, want := range []string{"Galaxy", "Core Team", "2025-01-02"} {
		if !strings.Contains(root, want) {
			t.Errorf("root lacks %q", want)
		}
	}
	if strings.Contains(root, TokenAppOrGameName) {
		t.Error("root still contains the product placeholder")
	}

	mod := files["modules/core_module.yaml"]
	if !strings.Contains(mod, `module: "core_module"`) || !strings.Contains(mod, "CORE_MODULE") {
		t.Errorf("module document not named from its path:\n%s", mod)
	}
	if !strings.Contains(files["ops/migration_v1.yaml"], `migration: "migration_v1"`) {
		t.Errorf("migration document not named from its path:\n%s", files["ops/migration_v1.yaml"])
	}
}

func TestLinkedStructure_SkipsUnknownDirectories(t *testing.T) {
	t.Parallel()

	root := "system:\n  ref: \"./docs/notes.yaml\"\n  ref: \"./modules/a.yaml\"\n  ref: \"./modules/a.yaml\"\n"
	files := LinkedStructure(root, "P", "O", time.Now())
	if len(files) != 2 {
		t.Errorf("files = %v, want root and modules/a.yaml", keys(files))
	}
	if _, ok := files["docs/notes.yaml"]; ok {
		t.Error("unknown directory produced a document")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
