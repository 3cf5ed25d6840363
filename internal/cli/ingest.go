package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vrmt-search/internal/indexer"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [FILE]",
		Short: "Replace the namespace contents with a markdown file",
		Long: `Chunk, embed and upload a markdown file, replacing everything currently
stored in the configured namespace. Defaults to SOURCE_PATH.

Examples:
  chunkctl ingest
  chunkctl ingest docs/vr-system.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	source := a.Config.SourcePath
	if len(args) > 0 {
		source = args[0]
	}

	out := cmd.OutOrStdout()
	var (
		bar   *progressbar.ProgressBar
		barMu sync.Mutex
	)
	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(out),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(out)
				}),
			)
		}
		_ = bar.Set(done)
	}

	fmt.Fprintf(out, "Ingesting %s into namespace %q...\n", source, a.Config.Namespace)
	result := a.NewPipeline(indexer.WithProgress(progress)).Ingest(cmd.Context(), source)

	fmt.Fprintf(out, "Status:   %s\n", result.Status)
	fmt.Fprintf(out, "Chunks:   %d\n", result.Chunks)
	fmt.Fprintf(out, "Uploaded: %d\n", result.Uploaded)
	fmt.Fprintf(out, "Duration: %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if result.DeleteErr != nil {
		fmt.Fprintf(out, "Warning: namespace was not cleared: %v\n", result.DeleteErr)
	}

	if info, err := a.VectorStore.GetCollectionInfo(cmd.Context()); err == nil {
		fmt.Fprintf(out, "Collection %s: %d points (%s)\n", a.VectorStore.Collection(), info.PointsCount, info.Status)
	}

	if result.Status != indexer.IngestSucceeded {
		return fmt.Errorf("ingestion %s: %w", result.Status, result.Err)
	}
	return nil
}
