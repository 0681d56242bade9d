// Package cli implements the safetyqa command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safetyqa/internal/core/ports/driving"
	"github.com/custodia-labs/safetyqa/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Global flags.
var (
	verbose    bool
	configPath string
)

// Services wired by the application entry point.
var (
	qaService        driving.QAService
	ingestionService driving.IngestionService
	settingsService  driving.SettingsService
)

// Services groups the driving ports used by the commands.
type Services struct {
	QA        driving.QAService
	Ingestion driving.IngestionService
	Settings  driving.SettingsService
}

// BootstrapFunc builds the services once flags are parsed.
// The returned cleanup function is called after the command finishes.
type BootstrapFunc func(ctx context.Context, configPath string) (Services, func(), error)

var (
	bootstrap BootstrapFunc
	cleanup   func()
)

// annotationNoServices marks commands that run without building services.
const annotationNoServices = "no-services"

var rootCmd = &cobra.Command{
	Use:   "safetyqa",
	Short: "Question answering over industrial safety documents",
	Long: `safetyqa ingests industrial safety PDFs listed in a source file and answers
questions over them with vector retrieval and hybrid reranking.

Start with:
  safetyqa ingest init
  safetyqa ask "What PPE is required for confined space entry?"`,
	SilenceUsage:       true,
	PersistentPreRunE:  prepare,
	PersistentPostRunE: release,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.safetyqa/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects services directly, bypassing the bootstrap function.
func SetServices(s Services) {
	qaService = s.QA
	ingestionService = s.Ingestion
	settingsService = s.Settings
}

// SetBootstrap registers the function that builds services on first use.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands use for cancellation.
// Command output goes to stdout so that --json results can be piped.
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" || bootstrap == nil || servicesReady() {
		return nil
	}

	services, done, err := bootstrap(cmd.Context(), configPath)
	if err != nil {
		return fmt.Errorf("starting safetyqa: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}

func release(_ *cobra.Command, _ []string) error {
	Shutdown()
	return nil
}

// Shutdown releases whatever the bootstrap function opened. It is safe to call twice.
func Shutdown() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

func servicesReady() bool {
	return qaService != nil && ingestionService != nil && settingsService != nil
}
