package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/config"
	"github.com/srtdog64/TemplateForge/internal/space"
	"github.com/srtdog64/TemplateForge/internal/store"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

// errNoActiveSpace is returned by commands that need a current space.
var errNoActiveSpace = errors.New("no active space; create one with `tforge space new <name>`")

// session bundles what a command needs: resolved configuration, the
// persistent registry, the template catalog and the event stream.
type session struct {
	cfg      config.Config
	store    *store.Store
	registry *space.Registry
	catalog  *catalog.Catalog
	events   *telemetry.Emitter
	printer  *ui.Printer
}

// openSession loads configuration and opens the registry store. The caller
// must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	st, err := store.Open(cmd.Context(), cfg.StorePath)
	if err != nil {
		return nil, err
	}

	reg, err := st.LoadRegistry(cmd.Context())
	if err != nil {
		st.Close()
		return nil, err
	}

	var events *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		events, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	s := &session{
		cfg:      cfg,
		store:    st,
		registry: reg,
		catalog:  catalog.New(osfs.New("/")),
		events:   events,
		printer:  ui.New(),
	}
	s.loadTemplates(cmd.Context())
	return s, nil
}

// loadTemplates re-imports recorded template files and scans configured
// template directories. Files that no longer import are reported and skipped.
func (s *session) loadTemplates(ctx context.Context) {
	paths, err := s.store.TemplatePaths(ctx)
	if err != nil {
		s.printer.Warn(err.Error())
	}
	for _, p := range paths {
		if _, err := s.catalog.Import(p); err != nil && s.cfg.Verbose {
			s.printer.Warn(fmt.Sprintf("skipping template %s: %v", p, err))
		}
	}
	for _, dir := range s.cfg.TemplateDirs {
		for _, pattern := range s.cfg.TemplatePatterns {
			if _, err := s.catalog.ImportGlob(filepath.Join(dir, pattern)); err != nil && s.cfg.Verbose {
				s.printer.Warn(fmt.Sprintf("scanning %s: %v", dir, err))
			}
		}
	}
}

// Close releases the store and the event stream.
func (s *session) Close() {
	if err := s.events.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
	s.store.Close()
}

// active returns the current space.
func (s *session) active() (*space.Space, error) {
	sp := s.registry.Active()
	if sp == nil {
		return nil, errNoActiveSpace
	}
	return sp, nil
}

// save persists every space and the active selection.
func (s *session) save(ctx context.Context) error {
	return s.store.SaveRegistry(ctx, s.registry)
}

// emit records an event, reporting but not failing on write errors.
func (s *session) emit(evt telemetry.Event) {
	if err := s.events.Emit(evt); err != nil {
		s.printer.Warn(err.Error())
	}
}

// readInput returns the contents of path, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
