package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vrmt-search/internal/config"
	"vrmt-search/internal/indexer"
)

type chunkOptions struct {
	minWords       int
	plain          bool
	dumpPath       string
	vocabularyPath string
}

func newChunkCmd() *cobra.Command {
	opts := &chunkOptions{}

	cmd := &cobra.Command{
		Use:   "chunk FILE",
		Short: "Chunk a markdown file and print a summary",
		Long: `Chunk a markdown file the way ingestion does, without calling any
external service. Prints one line per chunk with its title, tag and word count.

Examples:
  chunkctl chunk vr-system.md
  chunkctl chunk vr-system.md --min-words 0 --plain --dump chunks.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunk(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.minWords, "min-words", indexer.DefaultMinWords, "drop chunks with fewer words (0 disables)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "strip markdown markup from chunk text")
	cmd.Flags().StringVar(&opts.dumpPath, "dump", "", "write a full chunk dump to this path")
	cmd.Flags().StringVar(&opts.vocabularyPath, "vocabulary", os.Getenv("VOCABULARY_PATH"), "vocabulary YAML file")
	return cmd
}

func runChunk(cmd *cobra.Command, path string, opts *chunkOptions) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	vocab, err := config.LoadVocabulary(opts.vocabularyPath)
	if err != nil {
		return err
	}

	chunkerOpts := []indexer.ChunkerOption{indexer.WithMinWords(opts.minWords)}
	if opts.plain {
		chunkerOpts = append(chunkerOpts, indexer.WithPlainText())
	}
	chunker := indexer.NewChunker(indexer.NewTagger(vocab.Targets, vocab.DefaultTag), chunkerOpts...)
	chunks := chunker.Chunk(string(content))

	out := cmd.OutOrStdout()
	for _, c := range chunks {
		fmt.Fprintf(out, "%3d  %-16s %5d words  %s\n", c.Index+1, c.Tag, indexer.WordCount(c.Text), c.Title)
	}
	fmt.Fprintf(out, "\n%d chunks (min words: %d)\n", len(chunks), chunker.MinWords())

	if opts.dumpPath != "" {
		if err := indexer.WriteDumpFile(opts.dumpPath, chunks); err != nil {
			return err
		}
		fmt.Fprintf(out, "Dump written to %s\n", opts.dumpPath)
	}
	return nil
}
