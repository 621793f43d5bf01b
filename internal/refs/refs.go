// Package refs finds cross-document links embedded in a document's raw text.
//
// A link is any line containing the token "ref:" followed, on the same line,
// by a quoted path ending in .yaml or .yml:
//
//	modules:
//	  - id: "CoreModule"
//	    ref: "./modules/core_module.yaml"
//
// Scanning is line oriented and tolerant. A line that does not match (missing
// quotes, unbalanced quotes, wrong extension) yields nothing instead of an error.
package refs

import "strings"

// Token is the marker that introduces a reference on a line.
const Token = "ref:"

// Reference is a single link discovered in a document. It is derived fresh on
// every analysis and never persisted.
type Reference struct {
	From string // Name of the document containing the link
	To   string // Referenced path, relative, with any leading "./" removed
	Line int    // 1-based line number of the link in From
}

// Extract returns the referenced paths in text in line order. Duplicates are
// preserved; use Unique when a set is needed.
func Extract(text string) []string {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		if p, ok := parseLine(line); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// Analyze is Extract with provenance: each result carries the source document
// name and the line the link was found on.
func Analyze(from, text string) []Reference {
	var out []Reference
	for i, line := range strings.Split(text, "\n") {
		if p, ok := parseLine(line); ok {
			out = append(out, Reference{From: from, To: p, Line: i + 1})
		}
	}
	return out
}

// Unique returns paths with later duplicates removed, preserving the order of
// first occurrence.
func Unique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// parseLine captures the text between the first and last quote following the
// ref: token. The captured path must name a YAML file; otherwise the line is
// not a reference.
func parseLine(line string) (string, bool) {
	idx := strings.Index(line, Token)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimSpace(line[idx+len(Token):])

	start := strings.IndexAny(rest, `"'`)
	end := strings.LastIndexAny(rest, `"'`)
	if start < 0 || end <= start {
		return "", false
	}

	path := strings.TrimSpace(rest[start+1 : end])
	if !isYAMLPath(path) {
		return "", false
	}
	return strings.TrimPrefix(path, "./"), true
}

func isYAMLPath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
