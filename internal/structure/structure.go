// Package structure derives a folder/file scaffold from a single document's
// raw text. It never parses YAML; it classifies lines and tracks the current
// top-level section, so hand-authored and partially broken documents still
// produce a usable plan.
package structure

import (
	"strings"
)

// DefaultModuleName is used when a document names no module, or names it with
// an un-substituted placeholder token.
const DefaultModuleName = "MyModule"

// StubExt is the extension given to source stubs planned for api, events and
// models entries.
const StubExt = "go"

// Fixed files appended to every plan.
const (
	ReadmeFile   = "README.md"
	SpecCopyFile = "module-spec.yaml"
)

// DefaultFolders is the fallback layout emitted when scanning finds no
// structure entries.
var DefaultFolders = []string{"Core", "Services", "Models", "Interfaces"}

// placeholderNames are values of module:/composition: that mean "not named yet".
var placeholderNames = map[string]bool{
	"MODULE_NAME":      true,
	"APP_NAME":         true,
	"APP_OR_GAME_NAME": true,
	"SERVICE_NAME":     true,
}

// folderSections list entries that become folders; fileSections list entries
// that become source stubs.
var (
	folderSections = map[string]bool{"structure": true, "modules": true, "layers": true}
	fileSections   = map[string]bool{"api": true, "events": true, "models": true}
)

// Plan is the folder/file layout implied by a document. Paths are relative and
// slash separated, each prefixed with the module name. A Plan produced by
// Synthesize always has at least one folder and two files.
type Plan struct {
	ModuleName string   `json:"module_name"`
	Folders    []string `json:"folders"`
	Files      []string `json:"files"`
}

// Synthesize scans text line by line and returns the plan it describes.
// Entries are collected first and prefixed with the module name once the whole
// document has been read, so a module: line after the sections still roots
// every path.
func Synthesize(text string) Plan {
	var folders, files []string
	section := ""

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "#") && strings.HasSuffix(line, ":") {
			section = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(line, ":")))
		}

		switch {
		case folderSections[section]:
			if strings.HasPrefix(line, "- name:") || strings.HasPrefix(line, "- ") {
				if name := cleanEntry(ExtractValue(line)); name != "" {
					folders = append(folders, name)
				}
			}
		case fileSections[section]:
			if strings.HasPrefix(line, "- name:") || strings.HasPrefix(line, "- method:") {
				if name := cleanEntry(ExtractValue(line)); name != "" {
					files = append(files, section+"/"+name+"."+StubExt)
				}
			}
		}
	}

	if len(folders) == 0 {
		folders = append(folders, DefaultFolders...)
	}
	files = append(files, ReadmeFile, SpecCopyFile)

	module := ModuleName(text)
	plan := Plan{ModuleName: module}
	for _, f := range folders {
		plan.Folders = append(plan.Folders, module+"/"+f)
	}
	for _, f := range files {
		plan.Files = append(plan.Files, module+"/"+f)
	}
	return plan
}

// ModuleName returns the sanitized value of the last module: or composition:
// line that names a real module, or DefaultModuleName when there is none.
// Empty values and placeholder tokens are skipped.
func ModuleName(text string) string {
	name := DefaultModuleName
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if !isModuleLine(line) {
			continue
		}
		if v := Sanitize(moduleValue(line)); v != "" {
			name = v
		}
	}
	return name
}

// Validate reports what a module document is missing: a module: (or
// composition:) line, a goal: line, and a non-empty module value. The result
// is empty for a valid document.
func Validate(text string) []string {
	var hasModule, hasGoal, named bool
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		switch {
		case isModuleLine(line):
			hasModule = true
			if ExtractValue(line) != "" {
				named = true
			}
		case strings.HasPrefix(line, "goal:"):
			hasGoal = true
		}
	}

	var problems []string
	if !hasModule {
		problems = append(problems, "'module' field is required")
	}
	if !hasGoal {
		problems = append(problems, "'goal' field is required")
	}
	if hasModule && !named {
		problems = append(problems, "'module' field must be a non-empty string")
	}
	return problems
}

// ExtractValue pulls the value out of a "key: value" or list-item line.
//
// For a list item the value is re-derived from the text after "- ", and if
// that text is itself "key: value", the part after the nested colon wins.
// This accepts both "- name: Core" and a bare "- Core". Surrounding quotes are
// stripped.
func ExtractValue(line string) string {
	line = strings.TrimSpace(line)

	var value string
	if strings.HasPrefix(line, "- ") {
		value = strings.TrimSpace(line[2:])
		if i := strings.Index(value, ":"); i >= 0 {
			value = value[i+1:]
		}
	} else {
		i := strings.Index(line, ":")
		if i < 0 {
			return ""
		}
		value = line[i+1:]
	}
	return unquote(strings.TrimSpace(value))
}

// Sanitize strips characters that are invalid in file or directory names on
// any supported platform, plus control characters, and trims whitespace.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// IsPlaceholder reports whether name is an un-substituted template token.
func IsPlaceholder(name string) bool {
	return placeholderNames[name]
}

func isModuleLine(line string) bool {
	return strings.HasPrefix(line, "module:") || strings.HasPrefix(line, "composition:")
}

// moduleValue returns the usable module name on a module:/composition: line,
// or "" when the value is empty or a placeholder.
func moduleValue(line string) string {
	name := ExtractValue(line)
	if name == "" || IsPlaceholder(name) {
		return ""
	}
	return name
}

// cleanEntry sanitizes each slash-separated segment of an entry name and drops
// empty, "." and ".." segments so planned paths stay under the module folder.
func cleanEntry(name string) string {
	var parts []string
	for _, seg := range strings.Split(strings.ReplaceAll(name, `\`, "/"), "/") {
		seg = Sanitize(seg)
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

// splitLines splits on both \n and \r so CRLF and bare CR input behave like LF.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
}
