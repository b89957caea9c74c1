package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamamukku/reviewtrust-backend/internal/aggregator"
	"github.com/hamamukku/reviewtrust-backend/internal/logger"
	"github.com/hamamukku/reviewtrust-backend/internal/metrics"
	"github.com/hamamukku/reviewtrust-backend/internal/output"
	"github.com/hamamukku/reviewtrust-backend/internal/parser"
	"github.com/hamamukku/reviewtrust-backend/internal/pipeline"
	"github.com/hamamukku/reviewtrust-backend/internal/thresholds"
)

const (
	defaultProofRoot  = "backend/delivery/proof"
	defaultThresholds = "backend/src/main/resources/scoring/thresholds.yml"

	envProofRoot  = "SAKURA_PROOF_ROOT"
	envThresholds = "SAKURA_THRESHOLDS"
)

type evaluateOptions struct {
	ProofRoot   string
	Thresholds  string
	Workers     int
	Engine      string
	Format      string
	Out         string
	MetricsFile string
}

var evalOpts evaluateOptions

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score every labelled batch and print a confusion matrix",
	Long: `Walk the labelled corpus (sakura, probably_sakura, probably_not_sakura,
not_sakura), compute the sakura features of every batch file, classify it with
the threshold table and compare the prediction with the bucket it came from.

The corpus root and threshold file default to the repository layout and can
be overridden with SAKURA_PROOF_ROOT and SAKURA_THRESHOLDS (also read from
.env). Explicit flags take precedence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := evalOpts
		opts.ProofRoot = resolveSetting(cmd, "proof-root", opts.ProofRoot, envProofRoot)
		opts.Thresholds = resolveSetting(cmd, "thresholds", opts.Thresholds, envThresholds)
		return runEvaluate(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalOpts.ProofRoot, "proof-root", defaultProofRoot, "Root directory of the labelled corpus")
	evaluateCmd.Flags().StringVar(&evalOpts.Thresholds, "thresholds", defaultThresholds, "Threshold YAML file")
	evaluateCmd.Flags().IntVarP(&evalOpts.Workers, "workers", "w", 1, "Number of batches evaluated in parallel")
	evaluateCmd.Flags().StringVar(&evalOpts.Engine, "engine", "native", "Batch reader (native, duckdb)")
	evaluateCmd.Flags().StringVarP(&evalOpts.Format, "format", "f", "text", "Report format (text, markdown)")
	evaluateCmd.Flags().StringVarP(&evalOpts.Out, "out", "o", "", "Write the report to this file instead of stdout")
	evaluateCmd.Flags().StringVar(&evalOpts.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
}

// resolveSetting prefers an explicit flag, then the environment, then the
// flag default.
func resolveSetting(cmd *cobra.Command, flag, value, env string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return value
}

func newBatchSource(engine string) (aggregator.BatchSource, error) {
	switch strings.ToLower(engine) {
	case "", "native":
		return parser.NewReader(), nil
	case "duckdb":
		p, err := parser.NewParser()
		if err != nil {
			return nil, fmt.Errorf("failed to create duckdb parser: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

func loadThresholds(path string) (*thresholds.Config, thresholds.Source, error) {
	cfg, source, err := thresholds.Load(path)
	if err != nil {
		return nil, "", err
	}

	if source == thresholds.SourceFile {
		log.Info("thresholds loaded", logger.String("path", path))
	} else {
		log.Warn("using default thresholds", logger.String("path", path), logger.String("reason", string(source)))
	}

	return cfg, source, nil
}

func runEvaluate(ctx context.Context, opts evaluateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	format, err := output.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	cfg, source, err := loadThresholds(opts.Thresholds)
	if err != nil {
		return err
	}

	samples, err := aggregator.Discover(opts.ProofRoot)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		fmt.Fprintln(out, "No labelled samples found under", opts.ProofRoot)
		return nil
	}

	log.Info("corpus discovered",
		logger.String("proof_root", opts.ProofRoot),
		logger.Int("batches", len(samples)),
		logger.String("engine", opts.Engine))

	src, err := newBatchSource(opts.Engine)
	if err != nil {
		return err
	}

	evaluator := aggregator.NewEvaluator(aggregator.Config{Workers: opts.Workers}, pipeline.New(cfg), src, log)
	matrix, err := evaluator.Run(ctx, samples)
	if err != nil {
		return err
	}

	gen := output.NewGenerator(format)
	report := output.Report{
		ProofRoot:        opts.ProofRoot,
		ThresholdsSource: string(source),
		RunID:            runID,
	}

	if opts.Out != "" {
		if err := gen.WriteFile(opts.Out, matrix, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", opts.Out)
	} else if err := gen.Write(out, matrix, report); err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		m := metrics.New()
		m.Observe(matrix, time.Since(start), time.Now())
		if err := m.WriteToTextfile(opts.MetricsFile); err != nil {
			return err
		}
		log.Info("metrics written", logger.String("path", opts.MetricsFile))
	}

	return nil
}
