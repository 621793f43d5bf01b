package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srtdog64/TemplateForge/internal/config"
	"github.com/srtdog64/TemplateForge/internal/forge"
	"github.com/srtdog64/TemplateForge/internal/refs"
	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/structure"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate [spec.yaml]",
	Short: "Create the folders and files a module spec describes",
	Long: `Reads a module spec and creates <output>/<module>/ with the folders listed
under structure/modules/layers, a stub per api/events/models entry, a README
and a copy of the spec.

The spec is read from the file argument ("-" for stdin) or, with --doc, from
a document in the active space. With --remote (or remote_url in config) the
request is sent to a generation service started with "tforge serve". The
output directory is resolved to an absolute path on this machine before it is
sent, so the service writes where the client points.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var previewCmd = &cobra.Command{
	Use:   "preview [spec.yaml]",
	Short: "Show the layout generate would produce without writing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var refsCmd = &cobra.Command{
	Use:   "refs <file>",
	Short: "List the documents a file links to with ref: lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

var validateCmd = &cobra.Command{
	Use:   "validate [spec.yaml]",
	Short: "Check that a module spec names its module and goal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output directory (default output_dir from config)")
	generateCmd.Flags().String("module", "", "module name overriding the one in the spec")
	for _, c := range []*cobra.Command{generateCmd, previewCmd, validateCmd} {
		c.Flags().String("doc", "", "read the spec from this document of the active space")
	}
	for _, c := range []*cobra.Command{generateCmd, previewCmd, validateCmd, refsCmd} {
		c.Flags().String("remote", "", "generation service SSE endpoint")
	}
	_ = viper.BindPFlag("output_dir", generateCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(validateCmd)
}

// specText resolves the spec from --doc or the file argument.
func specText(cmd *cobra.Command, s *session, args []string) (string, error) {
	if name, _ := cmd.Flags().GetString("doc"); name != "" {
		sp, err := s.active()
		if err != nil {
			return "", err
		}
		doc, err := sp.Find(name)
		if err != nil {
			return "", err
		}
		return doc.Content, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("%s: a spec file or --doc is required", cmd.Name())
	}
	return readInput(args[0])
}

// remoteURL returns --remote, falling back to remote_url from config.
func remoteURL(cmd *cobra.Command, cfg config.Config) string {
	if url, _ := cmd.Flags().GetString("remote"); url != "" {
		return url
	}
	return cfg.RemoteURL
}

// dialRemote connects to the configured generation service, or returns nil
// when none is configured.
func dialRemote(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*forge.Remote, error) {
	url := remoteURL(cmd, cfg)
	if url == "" {
		return nil, nil
	}
	return forge.Dial(ctx, url)
}

// backend returns the remote backend when a URL is configured, otherwise the
// local one. The returned func releases it.
func backend(ctx context.Context, cmd *cobra.Command, s *session) (scaffold.Backend, func(), error) {
	r, err := dialRemote(ctx, cmd, s.cfg)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return scaffold.NewLocal(nil), func() {}, nil
	}
	return r, func() { r.Close() }, nil
}

// outputPath resolves dir against the working directory. Blank input is
// passed through so the generator can reject it.
func outputPath(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory %q: %w", dir, err)
	}
	return abs, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := specText(cmd, s, args)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	b, release, err := backend(cmd.Context(), cmd, s)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	defer release()

	out, err := outputPath(s.cfg.OutputDir)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	module, _ := cmd.Flags().GetString("module")
	req := scaffold.Request{Text: text, OutputPath: out, ModuleName: module}
	s.emit(telemetry.Event{Kind: telemetry.KindGenerationStart, Data: map[string]string{"output": req.OutputPath}})

	res, err := b.Generate(cmd.Context(), req)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	s.emit(telemetry.Event{Kind: telemetry.KindGenerationDone, Document: res.ModuleName, Data: res})
	s.printer.GenerationResult(res, s.cfg.Verbose)
	if !res.Success {
		return fmt.Errorf("generation failed")
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := specText(cmd, s, args)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	b, release, err := backend(cmd.Context(), cmd, s)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	defer release()

	plan, err := b.Preview(cmd.Context(), text)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	ui.NewWriter(cmd.OutOrStdout(), false).Plan(plan)
	return nil
}

func runRefs(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	r, err := dialRemote(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	if r == nil {
		ui.NewWriter(cmd.OutOrStdout(), true).References(refs.Analyze(filepath.Base(args[0]), text))
		return nil
	}
	defer r.Close()

	paths, err := r.References(cmd.Context(), text)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := specText(cmd, s, args)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}

	r, err := dialRemote(cmd.Context(), cmd, s.cfg)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	var problems []string
	if r == nil {
		problems = structure.Validate(text)
	} else {
		defer r.Close()
		if problems, err = r.Validate(cmd.Context(), text); err != nil {
			s.printer.Error(err.Error())
			return err
		}
	}

	w := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintln(w, "valid")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(w, p)
	}
	return fmt.Errorf("spec has %d problem(s)", len(problems))
}
