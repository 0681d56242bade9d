package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the document corpus",
	Long: `Runs the ingestion steps. Each step can be re-run safely.

  load    - read the source list and register its documents
  process - extract and chunk the PDFs of unprocessed documents
  embed   - rebuild the vector store from all chunks
  init    - reset everything, then load, process and embed`,
}

var ingestLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Register documents from the source list",
	Args:  cobra.NoArgs,
	RunE:  ingestStep("Load", func(ctx context.Context) (domain.IngestStats, error) { return ingestionService.LoadSources(ctx) }),
}

var ingestProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract and chunk unprocessed documents",
	Args:  cobra.NoArgs,
	RunE:  ingestStep("Process", func(ctx context.Context) (domain.IngestStats, error) { return ingestionService.ProcessDocuments(ctx) }),
}

var ingestEmbedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed every chunk into the vector store",
	Args:  cobra.NoArgs,
	RunE:  ingestStep("Embed", func(ctx context.Context) (domain.IngestStats, error) { return ingestionService.GenerateEmbeddings(ctx) }),
}

var ingestInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Reset and run the full ingestion",
	Args:  cobra.NoArgs,
	RunE:  ingestStep("Initialise", func(ctx context.Context) (domain.IngestStats, error) { return ingestionService.Initialize(ctx) }),
}

func init() {
	ingestCmd.AddCommand(ingestLoadCmd, ingestProcessCmd, ingestEmbedCmd, ingestInitCmd)
	rootCmd.AddCommand(ingestCmd)
}

func ingestStep(name string, run func(context.Context) (domain.IngestStats, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ingestionService == nil {
			return errors.New("ingestion service not configured")
		}

		stats, err := run(cmd.Context())
		if err != nil {
			if errors.Is(err, domain.ErrPDFToolNotFound) {
				cmd.PrintErrln("pdftotext is required to read PDFs. Install poppler-utils and retry.")
			}
			return fmt.Errorf("%s failed: %w", name, err)
		}

		cmd.Printf("%s complete.\n", name)
		printStats(cmd, stats)
		return nil
	}
}

func printStats(cmd *cobra.Command, s domain.IngestStats) {
	rows := []struct {
		label string
		value int
	}{
		{"Loaded", s.Loaded},
		{"Processed", s.Processed},
		{"Chunks", s.Chunks},
		{"Embedded", s.Embedded},
		{"Skipped", s.Skipped},
		{"Failed", s.Failed},
	}
	for _, r := range rows {
		if r.value > 0 {
			cmd.Printf("  %-10s %d\n", r.label+":", r.value)
		}
	}
}
