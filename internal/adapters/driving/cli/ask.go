package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

var (
	askK    int
	askMode string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieves the passages closest to the question and returns the best one
as the answer when it is confident enough.

Modes:
  baseline - vector similarity only
  reranked - vector similarity fused with BM25, title and length signals (default)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "k", "k", domain.DefaultK, "number of passages to return (1-10)")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", string(domain.ModeReranked), "ranking mode: baseline or reranked")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if qaService == nil {
		return errors.New("qa service not configured")
	}

	mode, err := domain.ParseSearchMode(askMode)
	if err != nil {
		return err
	}

	req := domain.QueryRequest{
		Query: strings.Join(args, " "),
		K:     askK,
		Mode:  mode,
	}

	result, err := qaService.Ask(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, result)
	}
	outputAnswer(cmd, result)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswer(cmd *cobra.Command, result *domain.AnswerResult) {
	if result.HasAnswer() {
		cmd.Println("Answer:")
		cmd.Printf("  %s\n", *result.Answer)
	} else if len(result.Contexts) > 0 {
		cmd.Println("No confident answer. Closest passages are listed below.")
	} else {
		cmd.Println("No relevant passages found.")
		return
	}
	cmd.Println()

	label := "baseline"
	if result.RerankerUsed {
		label = "reranked"
	}
	cmd.Printf("Contexts (%s):\n", label)
	cmd.Println()
	for i, c := range result.Contexts {
		cmd.Printf("  [%d] %s, chunk %d (%.3f)\n", i+1, c.Source.Title, c.Source.ChunkIndex, c.Score)
		if c.Source.URL != "" {
			cmd.Printf("      %s\n", c.Source.URL)
		}
		cmd.Printf("      %s\n", snippet(c.Text, 200))
		cmd.Println()
	}
}

// snippet shortens s to at most n runes on a word boundary.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
