package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	diagnosticJSON bool
	checkPDFsJSON  bool
	questionsJSON  bool
)

var diagnosticCmd = &cobra.Command{
	Use:   "diagnostic",
	Short: "Show corpus counts",
	Long:  `Reports how many documents, processed documents, chunks and vectors are stored.`,
	Args:  cobra.NoArgs,
	RunE:  runDiagnostic,
}

var checkPDFsCmd = &cobra.Command{
	Use:   "check-pdfs",
	Short: "Show how document titles map onto PDF files",
	Args:  cobra.NoArgs,
	RunE:  runCheckPDFs,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List suggested questions",
	Args:  cobra.NoArgs,
	RunE:  runQuestions,
}

func init() {
	diagnosticCmd.Flags().BoolVar(&diagnosticJSON, "json", false, "output as JSON")
	checkPDFsCmd.Flags().BoolVar(&checkPDFsJSON, "json", false, "output as JSON")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(diagnosticCmd, checkPDFsCmd, questionsCmd)
}

func runDiagnostic(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	d, err := ingestionService.Diagnostics(cmd.Context())
	if err != nil {
		return fmt.Errorf("diagnostics failed: %w", err)
	}
	if diagnosticJSON {
		return outputJSON(cmd, d)
	}

	cmd.Println("Corpus:")
	cmd.Printf("  Documents:           %d\n", d.Documents)
	cmd.Printf("  Processed documents: %d\n", d.ProcessedDocuments)
	cmd.Printf("  Chunks:              %d\n", d.Chunks)
	cmd.Printf("  Vectors:             %d\n", d.Vectors)
	if d.Chunks > 0 && d.Vectors == 0 {
		cmd.Println()
		cmd.Println("Chunks exist but no vectors are stored. Run 'safetyqa ingest embed'.")
	}
	return nil
}

func runCheckPDFs(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	report, err := ingestionService.CheckPDFs(cmd.Context())
	if err != nil {
		return fmt.Errorf("check pdfs failed: %w", err)
	}
	if checkPDFsJSON {
		return outputJSON(cmd, report)
	}

	cmd.Printf("PDF files: %d\n", len(report.Files))
	for _, f := range report.Files {
		cmd.Printf("  %s\n", filepath.Base(f))
	}
	cmd.Println()

	matched := 0
	cmd.Println("Documents:")
	for _, m := range report.Matches {
		if m.Matched() {
			matched++
			cmd.Printf("  [ok]      %s -> %s\n", m.Title, filepath.Base(m.Path))
		} else {
			cmd.Printf("  [missing] %s\n", m.Title)
		}
	}
	cmd.Println()
	cmd.Printf("%d of %d documents matched a PDF.\n", matched, len(report.Matches))
	return nil
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	categories, err := ingestionService.Questions(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading questions failed: %w", err)
	}
	if questionsJSON {
		return outputJSON(cmd, categories)
	}
	if len(categories) == 0 {
		cmd.Println("No questions configured.")
		return nil
	}

	for _, c := range categories {
		cmd.Printf("%s:\n", c.Category)
		for _, q := range c.Questions {
			cmd.Printf("  - %s\n", q)
		}
		cmd.Println()
	}
	return nil
}
