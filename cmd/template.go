package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/catalog"
	"github.com/srtdog64/TemplateForge/internal/store"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Browse, import and render templates",
	Long: `The catalog holds the built-in templates plus any imported template files.
Imported paths are remembered in the registry database; files found in the
configured template_dirs are imported on every run.`,
}

var templateRenderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Print a template with project, owner and date filled in",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateRender,
}

var templateLinkedCmd = &cobra.Command{
	Use:   "linked [template]",
	Short: "Write an architecture root and every document it links to",
	Long: `Expands an architecture root (a catalog template, default the built-in
architecture template, or --file) into architecture.yaml plus one document per
ref: link under modules/, integrations/, pipelines/, testing/ or ops/, and
writes them below --output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplateLinked,
}

func init() {
	for _, c := range []*cobra.Command{templateRenderCmd, templateLinkedCmd} {
		c.Flags().String("project", "MyProject", "project name")
		c.Flags().String("owner", "", "owner name (default owner_name from config)")
	}
	templateLinkedCmd.Flags().StringP("output", "o", ".", "directory to write into")
	templateLinkedCmd.Flags().StringP("file", "f", "", "read the root from this file")

	templateCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List templates by category",
			Args:  cobra.NoArgs,
			RunE:  runTemplateList,
		},
		&cobra.Command{
			Use:   "show <template>",
			Short: "Print a template's text",
			Args:  cobra.ExactArgs(1),
			RunE:  runTemplateShow,
		},
		&cobra.Command{
			Use:   "import <path|glob>...",
			Short: "Import template files; globs support ** (quote them)",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runTemplateImport,
		},
		&cobra.Command{
			Use:   "remove <template>",
			Short: "Forget an imported template",
			Args:  cobra.ExactArgs(1),
			RunE:  runTemplateRemove,
		},
		templateRenderCmd,
		templateLinkedCmd,
	)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	s.printer.Templates(s.catalog.List())
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.catalog.LoadByName(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// isGlob reports whether arg contains doublestar pattern syntax.
func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func runTemplateImport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var imported []catalog.Descriptor
	for _, arg := range args {
		if isGlob(arg) {
			ds, err := s.catalog.ImportGlob(arg)
			if err != nil {
				s.printer.Error(err.Error())
				return err
			}
			imported = append(imported, ds...)
			continue
		}
		d, err := s.catalog.Import(arg)
		if err != nil {
			s.printer.Error(err.Error())
			return err
		}
		imported = append(imported, d)
	}

	for _, d := range imported {
		if err := s.store.AddTemplate(cmd.Context(), d.FilePath); err != nil {
			return err
		}
		s.emit(telemetry.Event{Kind: telemetry.KindTemplateImported, Document: d.Name,
			Data: map[string]string{"path": d.FilePath, "category": string(d.Category)}})
		s.printer.Success(fmt.Sprintf("imported %s %s (%s)", d.Icon, d.Name, d.Category))
	}
	if len(imported) == 0 {
		s.printer.Warn("no template files matched")
	}
	return nil
}

func runTemplateRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := s.catalog.Lookup(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.catalog.Remove(args[0]); err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.store.RemoveTemplate(cmd.Context(), d.FilePath); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindTemplateRemoved, Document: d.Name})
	s.printer.Success(fmt.Sprintf("removed %s", d.Name))
	return nil
}

// owner returns the --owner flag or the configured owner.
func owner(cmd *cobra.Command, s *session) string {
	if o, _ := cmd.Flags().GetString("owner"); o != "" {
		return o
	}
	return s.cfg.OwnerName
}

func runTemplateRender(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.catalog.LoadByName(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	fmt.Fprint(cmd.OutOrStdout(), catalog.Substitute(text, catalog.DefaultValues(project, owner(cmd, s), time.Now())))
	return nil
}

func runTemplateLinked(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var root string
	switch path, _ := cmd.Flags().GetString("file"); {
	case path != "":
		root, err = readInput(path)
	case len(args) == 1:
		root, err = s.catalog.LoadByName(args[0])
	default:
		root, err = catalog.Builtin(catalog.KeyArchitecture)
	}
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	dir, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	project, _ := cmd.Flags().GetString("project")
	docs := catalog.LinkedStructure(root, project, owner(cmd, s), time.Now())

	rels := make([]string, 0, len(docs))
	for rel := range docs {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	fs := osfs.New("/")
	written := make([]string, 0, len(rels))
	for _, rel := range rels {
		local := filepath.FromSlash(rel)
		if !filepath.IsLocal(local) {
			s.printer.Warn(fmt.Sprintf("skipping %s: outside the output directory", rel))
			continue
		}
		full := filepath.Join(dir, local)
		if err := fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(full), err)
		}
		if err := util.WriteFile(fs, full, []byte(docs[rel]), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", full, err)
		}
		written = append(written, full)
	}
	s.printer.Files(fmt.Sprintf("wrote %d document(s):", len(written)), written)
	return nil
}
