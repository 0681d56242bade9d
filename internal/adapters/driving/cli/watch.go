package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/safetyqa/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-ingest when PDFs change",
	Long: `Watches the PDF directory and, once changes settle, reloads the source list,
processes the documents again and rebuilds the vector store.

Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "quiet period before re-ingesting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	dir := s.Data.Resolve(s.Data.PDFDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating pdf directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	w := &pdfWatcher{
		debounce: watchDebounce,
		reingest: func(ctx context.Context) error {
			return reingest(ctx, cmd)
		},
	}
	return w.loop(cmd.Context(), watcher.Events, watcher.Errors)
}

// pdfWatcher coalesces bursts of file events into a single re-ingest.
type pdfWatcher struct {
	debounce time.Duration
	reingest func(ctx context.Context) error
}

func (w *pdfWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !isPDFEvent(ev) {
				continue
			}
			logger.Debug("watch: %s %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-timer.C:
			if err := w.reingest(ctx); err != nil {
				logger.Error("re-ingest failed: %v", err)
			}
		}
	}
}

// isPDFEvent reports whether ev changes the set or content of visible PDF files.
func isPDFEvent(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".pdf") {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func reingest(ctx context.Context, cmd *cobra.Command) error {
	cmd.Println("PDF directory changed, re-ingesting...")

	load, err := ingestionService.LoadSources(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	processed, err := ingestionService.ProcessDocuments(ctx)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	embedded, err := ingestionService.GenerateEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	cmd.Println("Re-ingest complete.")
	printStats(cmd, load.Add(processed).Add(embedded))
	return nil
}
