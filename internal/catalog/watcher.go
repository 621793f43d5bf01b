package catalog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultPatterns selects the files a Watcher treats as templates.
var DefaultPatterns = []string{"*.yaml", "*.yml"}

// ChangeKind describes what a Watcher did with a changed file.
type ChangeKind int

const (
	ChangeImported ChangeKind = iota // File created or edited and (re)imported
	ChangeRemoved                    // File deleted and dropped from the catalog
)

// Change reports one applied template directory change.
type Change struct {
	Kind     ChangeKind
	File     string     // Absolute path
	Template Descriptor // Zero on removal
	Err      error      // Non-nil when the import or removal failed
}

// Watcher keeps a Catalog in sync with a template directory: created and
// modified files are imported, deleted files are removed.
type Watcher struct {
	Dir      string
	Patterns []string
	Changes  <-chan Change // Read-only external channel

	catalog *Catalog
	changes chan Change
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher that applies changes in dir to cat. Base
// names are filtered through doublestar patterns; nil means DefaultPatterns.
func NewWatcher(cat *Catalog, dir string, patterns []string) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Dir:      abs,
		Patterns: patterns,
		Changes:  ch,
		catalog:  cat,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching the template directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. Pending files are still
// applied to the catalog, but changes nobody receives are dropped.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Editors write in bursts; settle per file before applying.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.apply(file)
				}
				return
			}
			if !w.isTemplate(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.apply(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) isTemplate(name string) bool {
	base := filepath.Base(name)
	for _, p := range w.Patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) apply(file string) {
	if _, err := os.Stat(file); err != nil {
		c := Change{Kind: ChangeRemoved, File: file}
		if err := w.catalog.Remove(filepath.Base(file)); err != nil {
			c.Err = err
		}
		w.send(c)
		return
	}

	d, err := w.catalog.Import(file)
	w.send(Change{Kind: ChangeImported, File: file, Template: d, Err: err})
}

// send delivers c unless Stop has been called.
func (w *Watcher) send(c Change) {
	select {
	case w.changes <- c:
	case <-w.stop:
	}
}
