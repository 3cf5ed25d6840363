package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vrmt-search/internal/rag"
)

func newSearchCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Run a query through the retrieval engine",
		Long: `Run a query exactly as POST /search would and print the JSON response.

Examples:
  chunkctl search "how do I start the forehearth"
  chunkctl search yes --target lehr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()
			return runSearch(cmd, a.Engine, rag.SearchRequest{Query: args[0], FocusTarget: target})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "restrict results to this tag")
	return cmd
}

func runSearch(cmd *cobra.Command, engine rag.Engine, req rag.SearchRequest) error {
	resp, err := engine.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var v any = resp
	if resp.Mode == rag.ModeRaw {
		v = resp.Matches
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
