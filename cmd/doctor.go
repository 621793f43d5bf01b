package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/ansi"
	"github.com/srtdog64/TemplateForge/internal/config"
	"github.com/srtdog64/TemplateForge/internal/forge"
	"github.com/srtdog64/TemplateForge/internal/store"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, the registry store and the remote service",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	p := ui.NewWriter(cmd.ErrOrStderr(), !ansi.Enabled(cmd.ErrOrStderr()))
	ok := true
	check := func(name string, err error) {
		if err != nil {
			p.Error(fmt.Sprintf("%s: %v", name, err))
			ok = false
			return
		}
		p.Success(name)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	check("configuration", err)
	if err != nil {
		return errors.New("doctor: configuration is invalid")
	}

	check("store "+cfg.StorePath, probeStore(cmd.Context(), cfg.StorePath))
	for _, dir := range cfg.TemplateDirs {
		check("template dir "+dir, probeDir(dir))
	}
	if cfg.RemoteURL != "" {
		check("remote "+cfg.RemoteURL, probeRemote(cmd.Context(), cfg.RemoteURL))
	}

	if !ok {
		return errors.New("doctor: some checks failed")
	}
	return nil
}

// probeStore opens the registry store and reads it once.
func probeStore(ctx context.Context, path string) error {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return err
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.SpaceNames(ctx)
	return err
}

func probeDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// probeRemote connects to the generation service and lists its tools.
func probeRemote(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	r, err := forge.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = r.Preview(ctx, "")
	return err
}
