package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hamamukku/reviewtrust-backend/internal/logger"
)

var (
	logLevel  string
	logFormat string

	runID string
	log   logger.Logger = logger.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sakura-eval",
	Short: "Evaluate the sakura review detector against a labelled corpus",
	Long: `sakura-eval replays labelled review batches through the sakura detector,
classifies each batch with the configured thresholds and reports how the
predictions line up with the ground truth.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
}

// setup loads .env files and builds the run logger. Variables already set in
// the environment are never overwritten.
func setup(cmd *cobra.Command, args []string) error {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := logger.DefaultConfig()
	cfg.Level = logLevel
	cfg.Format = logFormat
	cfg.Output = cmd.ErrOrStderr()

	l, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	runID = uuid.NewString()
	log = l.With(logger.String("run_id", runID), logger.String("command", cmd.Name()))

	return nil
}
