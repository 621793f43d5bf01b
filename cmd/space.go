package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/space"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage document spaces (new, list, use, add, link, export, load)",
	Long: `A space is a named set of documents. Spaces are kept in the registry
database between runs; exactly one is active and receives document commands.`,
}

func init() {
	spaceCmd.AddCommand(
		&cobra.Command{
			Use:   "new <name>",
			Short: "Create an empty space and make it active",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceNew,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List spaces; the active one is starred",
			Args:  cobra.NoArgs,
			RunE:  runSpaceList,
		},
		&cobra.Command{
			Use:   "use <name>",
			Short: "Make a space active",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceUse,
		},
		&cobra.Command{
			Use:   "drop <name>",
			Short: "Delete a space from the registry",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceDrop,
		},
		&cobra.Command{
			Use:   "preset [microservice|game|default]",
			Short: "Create a space seeded with a preset document set",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runSpacePreset,
		},
		&cobra.Command{
			Use:   "export <dir>",
			Short: "Write the active space's documents and manifest to a directory",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceExport,
		},
		&cobra.Command{
			Use:   "load <dir>",
			Short: "Read an exported space back into the registry",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceLoad,
		},
	)
	rootCmd.AddCommand(spaceCmd)
}

func runSpaceNew(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sp, err := s.registry.CreateSpace(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindSpaceCreated, Space: sp.Name})
	s.printer.Success(fmt.Sprintf("created space %q", sp.Name))
	return nil
}

func runSpaceList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	s.printer.Spaces(s.registry.Spaces(), s.registry.Active())
	return nil
}

func runSpaceUse(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.registry.SetActive(args[0]); err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindSpaceActivated, Space: args[0]})
	s.printer.Success(fmt.Sprintf("active space is now %q", args[0]))
	return nil
}

func runSpaceDrop(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.DeleteSpace(cmd.Context(), args[0]); err != nil {
		s.printer.Error(err.Error())
		return err
	}
	s.printer.Success(fmt.Sprintf("dropped space %q", args[0]))
	return nil
}

func runSpacePreset(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	kind := space.PresetDefault
	if len(args) == 1 {
		kind = args[0]
	}
	sp, err := s.registry.CreateFromPreset(kind)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindSpaceCreated, Space: sp.Name, Data: map[string]any{"preset": kind, "documents": sp.Len()}})
	s.printer.Success(fmt.Sprintf("created space %q from the %s preset", sp.Name, kind))
	s.printer.Space(sp)
	return nil
}

func runSpaceExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sp, err := s.active()
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if err := sp.Export(osfs.New("/"), dir); err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindSpaceExported, Space: sp.Name, Data: map[string]string{"dir": dir}})
	s.printer.Success(fmt.Sprintf("exported %d document(s) to %s", sp.Len(), dir))
	return nil
}

func runSpaceLoad(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	sp, err := space.Load(osfs.New("/"), dir)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.registry.Add(sp); err != nil {
		return err
	}
	if err := s.registry.SetActive(sp.Name); err != nil {
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindSpaceLoaded, Space: sp.Name, Data: map[string]string{"dir": dir}})
	s.printer.Success(fmt.Sprintf("loaded space %q with %d document(s)", sp.Name, sp.Len()))
	return nil
}
