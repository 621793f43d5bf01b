package catalog

import (
	"embed"
	"fmt"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// Keys of the built-in templates. Each key is also the descriptor FileName.
const (
	KeyEmptyProject   = "empty-project"
	KeyModuleSpec     = "module-spec"
	KeyAppComposition = "app-composition"
	KeyMicroservice   = "microservice"
	KeyDataPipeline   = "data-pipeline"
	KeyArchitecture   = "architecture"
	KeyModuleMini     = "module-mini"
	KeyModuleExtended = "module-extended"
	KeyAppMini        = "app-mini"
	KeyAppExtended    = "app-extended"
	KeyIntegration    = "integration"
	KeyPipeline       = "pipeline"
	KeyTesting        = "testing"
	KeyMonitoring     = "monitoring"
	KeyMigration      = "migration"
)

// builtins returns the immutable built-in descriptor set.
func builtins() []Descriptor {
	b := func(name string, cat Category, key, desc string) Descriptor {
		return Descriptor{
			Name:        name,
			Category:    cat,
			Icon:        cat.Icon(),
			Language:    LanguageDefault,
			FileName:    key,
			BuiltIn:     true,
			Description: desc,
		}
	}
	return []Descriptor{
		b("Empty Project", CategoryBasic, KeyEmptyProject, "Blank starting point for a new project"),
		b("Module Spec", CategoryModule, KeyModuleSpec, "API, events and constraints of a single module"),
		b("App Composition", CategoryAppComposition, KeyAppComposition, "Global wiring, lifecycle and event routing"),
		b("Microservice", CategoryService, KeyMicroservice, "Microservice architecture layout"),
		b("Data Pipeline", CategoryDataPipeline, KeyDataPipeline, "Staged data processing pipeline"),
		b("Architecture Root", CategoryArchitecture, KeyArchitecture, "System root referencing modules, integrations and pipelines"),
		b("Module Spec (Mini)", CategoryModule, KeyModuleMini, "Single module specification, short form"),
		b("Module Spec (Extended)", CategoryModule, KeyModuleExtended, "Single module specification, long form"),
		b("App Composition (Mini)", CategoryAppComposition, KeyAppMini, "Application wiring, short form"),
		b("App Composition (Extended)", CategoryAppComposition, KeyAppExtended, "Application wiring, long form"),
		b("Integration", CategoryIntegration, KeyIntegration, "External system integration"),
		b("Pipeline", CategoryDataPipeline, KeyPipeline, "Data pipeline stage specification"),
		b("Testing Strategy", CategoryTesting, KeyTesting, "Test levels, automation and gates"),
		b("Monitoring", CategoryMonitoring, KeyMonitoring, "Metrics, alerts and dashboards"),
		b("Migration", CategoryMigration, KeyMigration, "Versioned migration strategy"),
	}
}

// Builtin returns the body of a built-in template by key.
func Builtin(key string) (string, error) {
	data, err := builtinFS.ReadFile("templates/" + key + ".yaml")
	if err != nil {
		return "", fmt.Errorf("%w: built-in %q", ErrNotFound, key)
	}
	return string(data), nil
}

// MustBuiltin is Builtin for keys declared in this package.
func MustBuiltin(key string) string {
	body, err := Builtin(key)
	if err != nil {
		panic(err)
	}
	return body
}
