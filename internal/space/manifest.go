package space

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the name of the metadata file written beside exported
// documents.
const ManifestFile = ".templatespace"

// Manifest is the on-disk description of an exported space. Unknown keys are
// ignored when reading.
type Manifest struct {
	Name       string          `toml:"name"`
	CreatedAt  time.Time       `toml:"created_at"`
	ModifiedAt time.Time       `toml:"modified_at"`
	Documents  []ManifestEntry `toml:"documents"`
}

// ManifestEntry records one document's identity and location.
type ManifestEntry struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	FilePath string `toml:"file_path"`
}

// Manifest builds the manifest for the space's current documents.
func (s *Space) Manifest() Manifest {
	m := Manifest{Name: s.Name, CreatedAt: s.CreatedAt, ModifiedAt: s.ModifiedAt}
	for _, doc := range s.Documents() {
		m.Documents = append(m.Documents, ManifestEntry{
			ID:       doc.ID.String(),
			Name:     doc.Name,
			Type:     string(doc.Type),
			FilePath: doc.FilePath,
		})
	}
	return m
}

// Export writes every document to basePath/FilePath, creating directories as
// needed, then writes the manifest. Existing files are overwritten, so
// exporting twice yields the same tree. Exported documents are no longer
// marked modified.
func (s *Space) Export(fs billy.Filesystem, basePath string) error {
	for _, doc := range s.Documents() {
		rel, err := localPath(doc.FilePath)
		if err != nil {
			return err
		}
		full := fs.Join(basePath, rel)
		if err := fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("space: create directory for %s: %w", doc.FilePath, err)
		}
		if err := util.WriteFile(fs, full, []byte(doc.Content), 0o644); err != nil {
			return fmt.Errorf("space: write %s: %w", doc.FilePath, err)
		}
	}
	if err := SaveManifest(fs, basePath, s.Manifest()); err != nil {
		return err
	}
	for _, doc := range s.docs {
		doc.Modified = false
	}
	return nil
}

// SaveManifest writes m to dir/.templatespace through a temporary file.
func SaveManifest(fs billy.Filesystem, dir string, m Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("space: marshal manifest: %w", err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("space: create %s: %w", dir, err)
	}

	p := fs.Join(dir, ManifestFile)
	tmp := p + ".tmp"
	if err := util.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("space: write temp manifest: %w", err)
	}
	if err := fs.Rename(tmp, p); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("space: rename manifest: %w", err)
	}
	return nil
}

// LoadManifest reads dir/.templatespace.
func LoadManifest(fs billy.Filesystem, dir string) (Manifest, error) {
	var m Manifest
	data, err := util.ReadFile(fs, fs.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return m, fmt.Errorf("%w: %s", ErrNoManifest, dir)
		}
		return m, fmt.Errorf("space: read manifest: %w", err)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("space: parse manifest: %w", err)
	}
	return m, nil
}

// Load reads an exported space back from dir. Entries whose file is missing
// are skipped. Entries with an unparsable ID get a fresh one, and repeated
// IDs keep only the first entry.
func Load(fs billy.Filesystem, dir string) (*Space, error) {
	m, err := LoadManifest(fs, dir)
	if err != nil {
		return nil, err
	}

	s := New(m.Name)
	if !m.CreatedAt.IsZero() {
		s.CreatedAt = m.CreatedAt
	}
	if !m.ModifiedAt.IsZero() {
		s.ModifiedAt = m.ModifiedAt
	}

	for _, e := range m.Documents {
		rel, err := localPath(e.FilePath)
		if err != nil {
			return nil, err
		}
		full := fs.Join(dir, rel)
		data, err := util.ReadFile(fs, full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("space: read %s: %w", e.FilePath, err)
		}
		var updated time.Time
		if info, err := fs.Stat(full); err == nil {
			updated = info.ModTime()
		}

		id, err := uuid.Parse(e.ID)
		if err != nil {
			id = uuid.New()
		}
		t, err := ParseDocType(e.Type)
		if err != nil {
			t = TypeGeneric
		}
		if _, ok := s.docs[id]; ok {
			continue
		}
		if _, err := s.Restore(Document{
			ID:        id,
			Name:      e.Name,
			Type:      t,
			Content:   string(data),
			FilePath:  e.FilePath,
			UpdatedAt: updated,
		}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// localPath converts a slash-separated document path to an OS path and
// rejects paths that leave the space root.
func localPath(p string) (string, error) {
	rel := filepath.FromSlash(path.Clean(p))
	if p == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: unsafe document path %q", ErrInvalidArgument, p)
	}
	return rel, nil
}
