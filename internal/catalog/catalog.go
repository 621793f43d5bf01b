// Package catalog holds the template catalog: immutable built-in bodies
// embedded in the binary, plus user-imported template files that are re-read
// from disk on every load. It also owns filename-based classification and
// placeholder substitution.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Descriptor describes one catalog entry. Built-ins have no FilePath and are
// looked up by FileName; imports carry an absolute FilePath.
type Descriptor struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Icon        string   `json:"icon"`
	Language    string   `json:"language"`
	FileName    string   `json:"file_name"`
	FilePath    string   `json:"file_path,omitempty"`
	BuiltIn     bool     `json:"built_in"`
	Description string   `json:"description"`
}

// Catalog is the set of available templates. It is safe for concurrent use;
// the import list is shared with a Watcher goroutine.
type Catalog struct {
	fs       billy.Filesystem
	builtins []Descriptor

	mu      sync.RWMutex
	imports []Descriptor
}

// New returns a catalog that reads imported templates through fs. A nil fs
// means the host filesystem, addressed by absolute paths.
func New(fs billy.Filesystem) *Catalog {
	if fs == nil {
		fs = osfs.New("/")
	}
	return &Catalog{fs: fs, builtins: builtins()}
}

// List returns built-ins and imports sorted by Category, then Name.
func (c *Catalog) List() []Descriptor {
	c.mu.RLock()
	out := make([]Descriptor, 0, len(c.builtins)+len(c.imports))
	out = append(out, c.builtins...)
	out = append(out, c.imports...)
	c.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Imported returns the imported descriptors in import order.
func (c *Catalog) Imported() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, len(c.imports))
	copy(out, c.imports)
	return out
}

// Load returns the body of d. A FilePath that exists is read from disk on
// every call; otherwise a built-in is looked up by FileName.
func (c *Catalog) Load(d Descriptor) (string, error) {
	if d.FilePath != "" {
		data, err := util.ReadFile(c.fs, d.FilePath)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("catalog: read %s: %w", d.FilePath, err)
		}
	}
	if d.BuiltIn {
		return Builtin(d.FileName)
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, d.Name)
}

// LoadByName returns the body of the template whose FileName matches name
// case-insensitively. Built-ins are searched before imports. An import also
// matches by its file name without extension.
func (c *Catalog) LoadByName(name string) (string, error) {
	d, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	return c.Load(d)
}

// Lookup resolves a template name to its descriptor using the LoadByName
// matching rules.
func (c *Catalog) Lookup(name string) (Descriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Descriptor{}, fmt.Errorf("%w: empty template name", ErrInvalidArgument)
	}
	for _, d := range c.builtins {
		if strings.EqualFold(d.FileName, name) {
			return d, nil
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.imports {
		if strings.EqualFold(d.FileName, name) || strings.EqualFold(trimExt(d.FileName), name) {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Import classifies the file at path and adds it to the catalog. Importing a
// file whose FileName collides (case-insensitively) with an existing import
// replaces that entry.
func (c *Catalog) Import(path string) (Descriptor, error) {
	if strings.TrimSpace(path) == "" {
		return Descriptor{}, fmt.Errorf("%w: empty template path", ErrInvalidArgument)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("catalog: resolve %s: %w", path, err)
	}
	info, err := c.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return Descriptor{}, fmt.Errorf("catalog: stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return Descriptor{}, fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, abs)
	}

	d := describeFile(abs)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.imports {
		if strings.EqualFold(existing.FileName, d.FileName) {
			c.imports[i] = d
			return d, nil
		}
	}
	c.imports = append(c.imports, d)
	return d, nil
}

// ImportGlob imports every regular file matching a doublestar pattern such as
// "templates/**/*.yaml". Relative patterns resolve against the working
// directory. The first import error aborts the walk.
func (c *Catalog) ImportGlob(pattern string) ([]Descriptor, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidArgument)
	}
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolve %s: %w", pattern, err)
	}
	abs = filepath.ToSlash(abs)
	if !doublestar.ValidatePattern(abs) {
		return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidArgument, pattern)
	}

	base, _ := doublestar.SplitPattern(abs)
	var matched []string
	err = util.Walk(c.fs, filepath.FromSlash(base), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ok, _ := doublestar.Match(abs, filepath.ToSlash(p)); ok {
			matched = append(matched, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walk %s: %w", base, err)
	}

	sort.Strings(matched)
	out := make([]Descriptor, 0, len(matched))
	for _, p := range matched {
		d, err := c.Import(p)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Remove drops the import whose FileName matches name case-insensitively.
// Built-ins cannot be removed.
func (c *Catalog) Remove(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty template name", ErrInvalidArgument)
	}
	for _, d := range c.builtins {
		if strings.EqualFold(d.FileName, name) {
			return fmt.Errorf("%w: %s is built in", ErrInvalidArgument, name)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.imports {
		if strings.EqualFold(d.FileName, name) || strings.EqualFold(d.FilePath, name) {
			c.imports = append(c.imports[:i], c.imports[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// describeFile classifies an imported template from its file name.
func describeFile(abs string) Descriptor {
	fileName := filepath.Base(abs)
	base := trimExt(fileName)
	cat := Classify(base)
	lang := DetectLanguage(base)
	return Descriptor{
		Name:        DisplayName(base),
		Category:    cat,
		Icon:        cat.Icon(),
		Language:    lang,
		FileName:    fileName,
		FilePath:    abs,
		Description: describe(base, lang == LanguageLocalized),
	}
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
