package catalog

import (
	"path"
	"strings"
	"time"

	"github.com/srtdog64/TemplateForge/internal/refs"
)

// RootFile is the path of the architecture root in a linked structure.
const RootFile = "architecture.yaml"

// NameValues returns the name and ID substitutions for a document created
// from the built-in template key and named name. The ID is the upper-cased
// name. Keys without name tokens yield nil.
func NameValues(key, name string) Values {
	id := strings.ToUpper(name)
	switch key {
	case KeyModuleMini, KeyModuleExtended, KeyModuleSpec:
		return Values{TokenModuleName: name, TokenModuleID: id}
	case KeyAppMini, KeyAppExtended, KeyAppComposition:
		return Values{TokenAppName: name}
	case KeyMicroservice:
		return Values{TokenServiceName: name}
	case KeyIntegration:
		return Values{TokenIntegrationName: name, TokenIntegrationID: id}
	case KeyPipeline, KeyDataPipeline:
		return Values{TokenPipelineName: name, TokenPipelineID: id}
	case KeyTesting:
		return Values{TokenTestSuiteName: name, TokenTestSuiteID: id}
	case KeyMonitoring:
		return Values{TokenMonitoringName: name, TokenMonitoringID: id}
	case KeyMigration:
		return Values{TokenMigrationName: name, TokenMigrationID: id}
	case KeyArchitecture:
		return Values{TokenAppOrGameName: name}
	}
	return nil
}

// LinkedStructure expands an architecture root into the full set of linked
// documents, keyed by relative path. The root is stored under RootFile with
// project, owner and date filled in. Each distinct reference under modules/,
// integrations/, pipelines/, testing/ or ops/ gets the matching built-in with
// its name tokens set from the file base name. Other references are skipped.
func LinkedStructure(rootText, project, owner string, now time.Time) map[string]string {
	if owner == "" {
		owner = DefaultOwner
	}
	out := map[string]string{
		RootFile: Substitute(rootText, Values{
			TokenAppOrGameName: project,
			TokenOwnerName:     owner,
			TokenDate:          now.Format(DateLayout),
		}),
	}

	for _, ref := range refs.Unique(refs.Extract(rootText)) {
		key := linkedKey(ref)
		if key == "" {
			continue
		}
		base := strings.TrimSuffix(path.Base(ref), path.Ext(ref))
		out[ref] = Substitute(MustBuiltin(key), NameValues(key, base))
	}
	return out
}

// linkedKey maps a referenced path to the built-in used to fill it, by its
// leading directory.
func linkedKey(ref string) string {
	switch {
	case strings.HasPrefix(ref, "modules/"):
		return KeyModuleMini
	case strings.HasPrefix(ref, "integrations/"):
		return KeyIntegration
	case strings.HasPrefix(ref, "pipelines/"):
		return KeyPipeline
	case strings.HasPrefix(ref, "testing/"):
		return KeyTesting
	case strings.HasPrefix(ref, "ops/"):
		switch {
		case strings.Contains(ref, "monitoring"):
			return KeyMonitoring
		case strings.Contains(ref, "migration"):
			return KeyMigration
		}
	}
	return ""
}
