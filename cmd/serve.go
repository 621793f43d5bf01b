package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srtdog64/TemplateForge/internal/config"
	"github.com/srtdog64/TemplateForge/internal/forge"
	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
	"github.com/srtdog64/TemplateForge/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation service (MCP over SSE)",
	Long: `Serves generate_structure, preview_structure and extract_references as MCP
tools over SSE at http://<addr>/sse. Generated files are written on this host.
Point clients at it with "tforge generate --remote http://<addr>/sse".`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server_addr from config)")
	_ = viper.BindPFlag("server_addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	printer := ui.New()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var events *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		events, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			printer.Error(err.Error())
			return err
		}
		defer events.Close()
	}

	srv := forge.NewServer(scaffold.NewGenerator(osfs.New("/")), cfg.ServerAddr, events)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.Banner()
	printer.Success("serving on " + srv.URL())

	<-ctx.Done()
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	printer.Info("shutting down")
	return srv.Stop(shutCtx)
}
