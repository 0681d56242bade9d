package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Shows the effective settings: defaults, overridden by the config file,
overridden by environment variables (OPENAI_API_KEY, SAFETYQA_DATABASE_URL).`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting",
	Long: `Parses, validates and saves a setting in the config file.

Pass "-" as the value to type it without echo, which is useful for API keys:
  safetyqa settings set embedding.api_key -`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd, settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cmd.Println("Settings:")
	for _, row := range settingsRows(s) {
		cmd.Printf("  %-28s %s\n", row[0], row[1])
	}
	if err := s.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if value == "-" {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return fmt.Errorf("unknown setting %q (see 'safetyqa settings keys')", key)
		}
		return fmt.Errorf("setting %s: %w", key, err)
	}

	if isSecretKey(key) {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func settingsRows(s *domain.Settings) [][2]string {
	apiKey := "(not set)"
	if s.Embedding.APIKey != "" {
		apiKey = maskAPIKey(s.Embedding.APIKey)
	}
	dbURL := "(not set)"
	if s.Vector.DatabaseURL != "" {
		dbURL = maskDatabaseURL(s.Vector.DatabaseURL)
	}

	return [][2]string{
		{"data.dir", s.Data.Dir},
		{"data.base_dir", orDefault(s.Data.BaseDir, "(working directory)")},
		{"data.sources_file", s.Data.SourcesFile},
		{"data.questions_file", s.Data.QuestionsFile},
		{"data.pdf_dir", s.Data.PDFDir},
		{"embedding.provider", fmt.Sprintf("%s (%s)", s.Embedding.Provider, s.Embedding.Provider.Description())},
		{"embedding.model", orDefault(s.Embedding.Model, "(provider default)")},
		{"embedding.base_url", orDefault(s.Embedding.BaseURL, "(provider default)")},
		{"embedding.api_key", apiKey},
		{"embedding.dimensions", strconv.Itoa(s.Embedding.Dimensions)},
		{"embedding.rate_limit", formatFloat(s.Embedding.RateLimit)},
		{"vector.backend", string(s.Vector.Backend)},
		{"vector.database_url", dbURL},
		{"chunking.chunk_size", strconv.Itoa(s.Chunking.ChunkSize)},
		{"chunking.overlap", strconv.Itoa(s.Chunking.Overlap)},
		{"chunking.min_words", strconv.Itoa(s.Chunking.MinWords)},
		{"ranking.alpha", formatFloat(s.Ranking.Alpha)},
		{"answer.confidence_threshold", formatFloat(s.Ranking.ConfidenceThreshold)},
		{"answer.max_chars", strconv.Itoa(s.Ranking.MaxAnswerChars)},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isSecretKey(key string) bool {
	return key == "embedding.api_key" || key == "vector.database_url"
}

// readSecret reads a line without echo when r is the terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(r io.Reader) string {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	input, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDatabaseURL hides the password of a URL-style DSN.
func maskDatabaseURL(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "****"
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return dsn
	}
	return scheme + "://" + user + ":****@" + host
}
