package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/store"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
)

func init() {
	templateCmd.AddCommand(&cobra.Command{
		Use:   "watch <dir>",
		Short: "Keep imported templates in sync with a directory until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplateWatch,
	})
}

func runTemplateWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := catalog.NewWatcher(s.catalog, args[0], s.cfg.TemplatePatterns)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := w.Start(); err != nil {
		s.printer.Error(err.Error())
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.printer.Info("watching " + w.Dir + " (ctrl-c to stop)")
	return watchLoop(ctx, s, w.Changes)
}

// watchLoop records every applied change until ctx ends.
func watchLoop(ctx context.Context, s *session, changes <-chan catalog.Change) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			s.printer.TemplateChange(ch)
			if ch.Err != nil {
				continue
			}
			if ch.Kind == catalog.ChangeRemoved {
				if err := s.store.RemoveTemplate(ctx, ch.File); err != nil && !errors.Is(err, store.ErrNotFound) {
					s.printer.Warn(err.Error())
				}
				s.emit(telemetry.Event{Kind: telemetry.KindTemplateRemoved, Data: map[string]string{"path": ch.File}})
				continue
			}
			if err := s.store.AddTemplate(ctx, ch.File); err != nil {
				s.printer.Warn(err.Error())
			}
			s.emit(telemetry.Event{Kind: telemetry.KindTemplateImported, Document: ch.Template.Name,
				Data: map[string]string{"path": ch.File}})
		}
	}
}
