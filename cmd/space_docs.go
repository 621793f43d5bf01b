package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srtdog64/TemplateForge/internal/space"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

var spaceAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a document to the active space",
	Long: `Adds a document to the active space. The content comes from --file, from a
catalog template with --template, or else from the skeleton for --type.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpaceAdd,
}

var spaceSetCmd = &cobra.Command{
	Use:   "set <document> <file>",
	Short: "Replace a document's content with a file (\"-\" for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSpaceSet,
}

func init() {
	spaceAddCmd.Flags().StringP("type", "t", string(space.TypeModule), "document type")
	spaceAddCmd.Flags().StringP("file", "f", "", "read content from this file")
	spaceAddCmd.Flags().String("template", "", "start from this catalog template")

	spaceCmd.AddCommand(
		spaceAddCmd,
		spaceSetCmd,
		&cobra.Command{
			Use:   "remove <document>",
			Short: "Remove a document from the active space",
			Args:  cobra.ExactArgs(1),
			RunE:  runSpaceRemove,
		},
		&cobra.Command{
			Use:   "show [document]",
			Short: "Show the active space, or print one document",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runSpaceShow,
		},
		&cobra.Command{
			Use:   "refs",
			Short: "List the ref: links between documents of the active space",
			Args:  cobra.NoArgs,
			RunE:  runSpaceRefs,
		},
		&cobra.Command{
			Use:   "link",
			Short: "Create skeleton documents for link targets that do not exist yet",
			Args:  cobra.NoArgs,
			RunE:  runSpaceLink,
		},
	)
}

func runSpaceAdd(cmd *cobra.Command, args []string) error {
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
	typeName, _ := cmd.Flags().GetString("type")
	t, err := space.ParseDocType(typeName)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}

	var content *string
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		text, err := readInput(path)
		if err != nil {
			return err
		}
		content = &text
	} else if name, _ := cmd.Flags().GetString("template"); name != "" {
		text, err := s.catalog.LoadByName(name)
		if err != nil {
			s.printer.Error(err.Error())
			return err
		}
		content = &text
	}

	doc, err := sp.AddDocument(args[0], content, t)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindDocumentAdded, Space: sp.Name, Document: doc.Name,
		Data: map[string]string{"type": string(doc.Type), "file_path": doc.FilePath}})
	s.printer.DocumentAdded(doc)
	return nil
}

func runSpaceSet(cmd *cobra.Command, args []string) error {
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
	doc, err := sp.Find(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	text, err := readInput(args[1])
	if err != nil {
		return err
	}
	if err := sp.SetContent(doc.ID, text); err != nil {
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.printer.Success(fmt.Sprintf("updated %q", doc.Name))
	return nil
}

func runSpaceRemove(cmd *cobra.Command, args []string) error {
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
	doc, err := sp.Find(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	if err := sp.Remove(doc.ID); err != nil {
		return err
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindDocumentRemoved, Space: sp.Name, Document: doc.Name})
	s.printer.Success(fmt.Sprintf("removed %q", doc.Name))
	return nil
}

func runSpaceShow(cmd *cobra.Command, args []string) error {
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
	if len(args) == 0 {
		s.printer.Space(sp)
		return nil
	}
	doc, err := sp.Find(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), doc.Content)
	return nil
}

func runSpaceRefs(cmd *cobra.Command, _ []string) error {
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
	ui.NewWriter(cmd.OutOrStdout(), true).References(sp.References())
	return nil
}

func runSpaceLink(cmd *cobra.Command, _ []string) error {
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
	created := sp.GenerateReferencedDocuments()
	if len(created) == 0 {
		s.printer.Info("every referenced document already exists")
		return nil
	}
	if err := s.save(cmd.Context()); err != nil {
		return err
	}
	for _, doc := range created {
		s.printer.DocumentAdded(doc)
	}
	s.emit(telemetry.Event{Kind: telemetry.KindReferencesResolved, Space: sp.Name, Data: map[string]int{"created": len(created)}})
	return nil
}
