package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/store"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

// watchSession returns a session over a fresh store that prints into buf.
func watchSession(t *testing.T, buf *bytes.Buffer) *session {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "watch.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return &session{store: st, printer: ui.NewWriter(buf, true)}
}

// feed returns a closed channel holding changes.
func feed(changes ...catalog.Change) <-chan catalog.Change {
	ch := make(chan catalog.Change, len(changes))
	for _, c := range changes {
		ch <- c
	}
	close(ch)
	return ch
}

func TestWatchLoop_RemovalOfUnrecordedTemplateIsQuiet(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := watchSession(t, &buf)

	err := watchLoop(context.Background(), s, feed(catalog.Change{Kind: catalog.ChangeRemoved, File: "/t/gone.yaml"}))
	if err != nil {
		t.Fatalf("watchLoop: %v", err)
	}
	if strings.Contains(buf.String(), "⚠") {
		t.Errorf("unexpected warning:\n%s", buf.String())
	}
}

func TestWatchLoop_StoreFailureIsReported(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := watchSession(t, &buf)
	s.store.Close()

	err := watchLoop(context.Background(), s, feed(catalog.Change{Kind: catalog.ChangeRemoved, File: "/t/gone.yaml"}))
	if err != nil {
		t.Fatalf("watchLoop: %v", err)
	}
	if !strings.Contains(buf.String(), "remove template") {
		t.Errorf("store failure not reported:\n%s", buf.String())
	}
}

func TestWatchLoop_RecordsImports(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s := watchSession(t, &buf)

	change := catalog.Change{Kind: catalog.ChangeImported, File: "/t/a-module.yaml",
		Template: catalog.Descriptor{Name: "A"}}
	if err := watchLoop(context.Background(), s, feed(change)); err != nil {
		t.Fatalf("watchLoop: %v", err)
	}
	paths, err := s.store.TemplatePaths(context.Background())
	if err != nil || len(paths) != 1 || paths[0] != "/t/a-module.yaml" {
		t.Errorf("TemplatePaths = %v, %v", paths, err)
	}
}
