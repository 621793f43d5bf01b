package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func nextChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
	return Change{}
}

func TestWatcher_ImportsAndRemoves(t *testing.T) {
	dir := t.TempDir()
	cat := New(nil)

	w, err := NewWatcher(cat, dir, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	file := filepath.Join(dir, "billing-module.yaml")
	if err := os.WriteFile(file, []byte("module: Billing\n"), 0o644); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	change := nextChange(t, w)
	if change.Kind != ChangeImported || change.Err != nil {
		t.Fatalf("change = %+v, want a successful import", change)
	}
	if change.Template.Category != CategoryModule {
		t.Errorf("Category = %q, want %q", change.Template.Category, CategoryModule)
	}
	if body, err := cat.LoadByName("billing-module"); err != nil || body != "module: Billing\n" {
		t.Errorf("LoadByName = %q, %v", body, err)
	}

	if err := os.Remove(file); err != nil {
		t.Fatalf("failed to remove template: %v", err)
	}
	for {
		change = nextChange(t, w)
		if change.Kind == ChangeRemoved {
			break
		}
	}
	if len(cat.Imported()) != 0 {
		t.Errorf("Imported after removal = %+v", cat.Imported())
	}
}

func TestWatcher_IgnoresNonTemplates(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(New(nil), dir, []string{"*.yml"})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	for _, name := range []string{"notes.txt", "spec.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	select {
	case change := <-w.Changes:
		t.Errorf("unexpected change event: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopWithUnreadChanges(t *testing.T) {
	dir := t.TempDir()
	cat := New(nil)

	w, err := NewWatcher(cat, dir, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// More files than the Changes buffer holds, and nobody reading.
	for i := range 40 {
		file := filepath.Join(dir, fmt.Sprintf("t%02d-module.yaml", i))
		if err := os.WriteFile(file, []byte("module: M\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	time.Sleep(300 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked on undelivered changes")
	}
}
