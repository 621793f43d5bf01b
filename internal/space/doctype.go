package space

import (
	"fmt"
	"strings"
	"time"

	"github.com/srtdog64/TemplateForge/internal/catalog"
)

// DocType classifies a document and selects its skeleton.
type DocType string

// Document types.
const (
	TypeModule       DocType = "module"
	TypeArchitecture DocType = "architecture"
	TypeIntegration  DocType = "integration"
	TypePipeline     DocType = "pipeline"
	TypeTesting      DocType = "testing"
	TypeMonitoring   DocType = "monitoring"
	TypeMigration    DocType = "migration"
	TypeGeneric      DocType = "generic"
	TypeImported     DocType = "imported"
)

// skeletonKeys is the single type → built-in template table. Types missing
// here get the generic skeleton.
var skeletonKeys = map[DocType]string{
	TypeArchitecture: catalog.KeyArchitecture,
	TypeModule:       catalog.KeyModuleMini,
	TypeIntegration:  catalog.KeyIntegration,
	TypePipeline:     catalog.KeyPipeline,
	TypeTesting:      catalog.KeyTesting,
	TypeMonitoring:   catalog.KeyMonitoring,
	TypeMigration:    catalog.KeyMigration,
}

// Types lists every document type in display order.
func Types() []DocType {
	return []DocType{
		TypeModule, TypeArchitecture, TypeIntegration, TypePipeline,
		TypeTesting, TypeMonitoring, TypeMigration, TypeGeneric, TypeImported,
	}
}

// ParseDocType resolves a type name case-insensitively. "root" is accepted as
// an alias of architecture.
func ParseDocType(s string) (DocType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "root" {
		return TypeArchitecture, nil
	}
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidArgument, s)
}

// Skeleton returns the default body for a new document of type t, with
// placeholder tokens left intact.
func Skeleton(t DocType) string {
	if key, ok := skeletonKeys[t]; ok {
		return catalog.MustBuiltin(key)
	}
	return genericSkeleton(t, time.Now())
}

// TemplateKey returns the built-in template behind t's skeleton, or "".
func TemplateKey(t DocType) string {
	return skeletonKeys[t]
}

func genericSkeleton(t DocType, now time.Time) string {
	return fmt.Sprintf(`# YAML Document
# Type: %s
# Created: %s

name: "%s"
content:
  - item1
  - item2
`, t, now.Format("2006-01-02 15:04:05"), t)
}

// InferType guesses a document type from a referenced path. Rules are tried
// in order on the lower-cased path.
func InferType(path string) DocType {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "module"):
		return TypeModule
	case strings.Contains(lower, "integration"):
		return TypeIntegration
	case strings.Contains(lower, "pipeline"):
		return TypePipeline
	case strings.Contains(lower, "test"):
		return TypeTesting
	case strings.Contains(lower, "monitor"):
		return TypeMonitoring
	case strings.Contains(lower, "migration"):
		return TypeMigration
	case strings.Contains(lower, "architecture"), strings.Contains(lower, "root"):
		return TypeArchitecture
	}
	return TypeGeneric
}
