// Package space manages template spaces: named sets of related documents
// linked by ref: entries. A space can fill in documents its members reference
// but do not yet contain, and can be exported to and loaded from a directory
// carrying a .templatespace manifest.
package space

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/refs"
)

// DocExt is appended to a document name to form its default FilePath.
const DocExt = ".yaml"

// Document is one YAML-like text in a space. ID never changes once assigned.
type Document struct {
	ID        uuid.UUID
	Name      string
	Type      DocType
	Content   string
	FilePath  string // Slash separated, relative to the space root
	Modified  bool
	UpdatedAt time.Time
}

// Space is a named, ordered set of documents. It is not safe for concurrent
// use.
type Space struct {
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time

	docs  map[uuid.UUID]*Document
	order []uuid.UUID
}

// New returns an empty space.
func New(name string) *Space {
	now := time.Now()
	return &Space{
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
		docs:       make(map[uuid.UUID]*Document),
	}
}

// AddDocument creates a document with a fresh ID. A nil content gives the
// skeleton for t with its placeholders intact. FilePath is name + DocExt.
func (s *Space) AddDocument(name string, content *string, t DocType) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty document name", ErrInvalidArgument)
	}
	if t == "" {
		t = TypeModule
	}
	body := Skeleton(t)
	if content != nil {
		body = *content
	}

	now := time.Now()
	doc := &Document{
		ID:        uuid.New(),
		Name:      name,
		Type:      t,
		Content:   body,
		FilePath:  name + DocExt,
		Modified:  true,
		UpdatedAt: now,
	}
	s.insert(doc)
	s.ModifiedAt = now
	return doc, nil
}

// Restore inserts a document that already has an identity, such as one read
// back from a manifest or a store. A nil or duplicate ID is rejected.
func (s *Space) Restore(doc Document) (*Document, error) {
	if doc.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: document %q has no id", ErrInvalidArgument, doc.Name)
	}
	if _, ok := s.docs[doc.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate document id %s", ErrInvalidArgument, doc.ID)
	}
	if doc.FilePath == "" {
		doc.FilePath = doc.Name + DocExt
	}
	d := doc
	s.insert(&d)
	return &d, nil
}

func (s *Space) insert(doc *Document) {
	if s.docs == nil {
		s.docs = make(map[uuid.UUID]*Document)
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
}

// Remove deletes the document with the given ID.
func (s *Space) Remove(id uuid.UUID) error {
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	delete(s.docs, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.ModifiedAt = time.Now()
	return nil
}

// SetContent replaces a document's content wholesale.
func (s *Space) SetContent(id uuid.UUID, text string) error {
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	now := time.Now()
	doc.Content = text
	doc.Modified = true
	doc.UpdatedAt = now
	s.ModifiedAt = now
	return nil
}

// Document returns the document with the given ID.
func (s *Space) Document(id uuid.UUID) (*Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// Find resolves a document by full ID, unique ID prefix, Name or FilePath.
func (s *Space) Find(key string) (*Document, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: empty document key", ErrInvalidArgument)
	}
	if id, err := uuid.Parse(key); err == nil {
		return s.Document(id)
	}
	var prefixed []*Document
	for _, doc := range s.Documents() {
		if doc.Name == key || doc.FilePath == key {
			return doc, nil
		}
		if strings.HasPrefix(doc.ID.String(), key) {
			prefixed = append(prefixed, doc)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, key)
}

// Documents returns the documents in insertion order.
func (s *Space) Documents() []*Document {
	out := make([]*Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// Len returns the number of documents.
func (s *Space) Len() int { return len(s.order) }

// References returns every reference made by every document, in document
// then line order. From is the referencing document's name.
func (s *Space) References() []refs.Reference {
	var out []refs.Reference
	for _, doc := range s.Documents() {
		out = append(out, refs.Analyze(doc.Name, doc.Content)...)
	}
	return out
}

// GenerateReferencedDocuments creates one document for each referenced path
// that no existing document covers. A path is covered when it equals a
// document's FilePath or its base name equals a document's Name. New
// documents take the inferred type's skeleton with name tokens set from the
// base name. Only references present before the call are considered, so a
// second call with nothing new creates nothing.
func (s *Space) GenerateReferencedDocuments() []*Document {
	var created []*Document
	for _, ref := range s.References() {
		base := strings.TrimSuffix(path.Base(ref.To), path.Ext(ref.To))
		if s.covers(ref.To, base) {
			continue
		}
		t := InferType(ref.To)
		body := catalog.Substitute(Skeleton(t), catalog.NameValues(TemplateKey(t), base))
		doc, err := s.AddDocument(base, &body, t)
		if err != nil {
			continue
		}
		doc.FilePath = ref.To
		created = append(created, doc)
	}
	return created
}

func (s *Space) covers(filePath, base string) bool {
	for _, doc := range s.docs {
		if doc.FilePath == filePath || doc.Name == base {
			return true
		}
	}
	return false
}
