package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hamamukku/reviewtrust-backend/internal/output"
	"github.com/hamamukku/reviewtrust-backend/internal/pipeline"
)

var (
	featuresThresholds string
	featuresEngine     string
)

var featuresCmd = &cobra.Command{
	Use:   "features <file>...",
	Short: "Print the feature vector and predicted label of individual batches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveSetting(cmd, "thresholds", featuresThresholds, envThresholds)
		return runFeatures(cmd.Context(), args, path, featuresEngine, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresCmd.Flags().StringVar(&featuresThresholds, "thresholds", defaultThresholds, "Threshold YAML file")
	featuresCmd.Flags().StringVar(&featuresEngine, "engine", "native", "Batch reader (native, duckdb)")
}

func runFeatures(ctx context.Context, files []string, thresholdsPath, engine string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _, err := loadThresholds(thresholdsPath)
	if err != nil {
		return err
	}

	src, err := newBatchSource(engine)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	rows := make([]output.FeatureRow, 0, len(files))
	for _, f := range files {
		reviews, err := src.Load(ctx, f)
		if err != nil {
			return fmt.Errorf("failed to load batch: %w", err)
		}

		res, err := p.Process(reviews)
		if err != nil {
			return fmt.Errorf("failed to process %s: %w", f, err)
		}

		rows = append(rows, output.FeatureRow{Path: f, Result: res})
	}

	return output.WriteFeatures(out, rows)
}
