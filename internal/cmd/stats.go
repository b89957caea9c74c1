package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hamamukku/reviewtrust-backend/internal/logger"
	"github.com/hamamukku/reviewtrust-backend/internal/parser"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
)

var statsProofRoot string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the labelled corpus per bucket",
	Long: `Count batch files, review records and histogram records in each bucket of
the labelled corpus using DuckDB, along with the share of five-star ratings
and empty bodies. Useful when calibrating thresholds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolveSetting(cmd, "proof-root", statsProofRoot, envProofRoot)
		return runStats(cmd.Context(), root, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsProofRoot, "proof-root", defaultProofRoot, "Root directory of the labelled corpus")
}

func runStats(ctx context.Context, root string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := parser.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	fmt.Fprintf(out, "Corpus: %s\n", root)
	fmt.Fprintf(out, "%-20s %8s %8s %10s %10s %10s\n", "bucket", "files", "reviews", "histograms", "5star%", "empty%")

	var total parser.FileStats
	for _, b := range signals.Buckets {
		files, err := parser.FindBatchFiles(filepath.Join(root, b.Dir))
		if err != nil {
			return err
		}

		stats, err := p.GetFileStats(ctx, files)
		if err != nil {
			return fmt.Errorf("failed to summarize %s: %w", b.Dir, err)
		}
		log.Debug("bucket summarized", logger.String("bucket", b.Dir), logger.Int("files", stats.Files))

		fmt.Fprintf(out, "%-20s %8d %8d %10d %10.2f %10.2f\n",
			b.Dir, stats.Files, stats.Reviews, stats.Histograms, stats.FiveStarShare, stats.EmptyBodyShare)

		total.Files += stats.Files
		total.Reviews += stats.Reviews
		total.Histograms += stats.Histograms
	}

	fmt.Fprintf(out, "%-20s %8d %8d %10d\n", "total", total.Files, total.Reviews, total.Histograms)
	return nil
}
