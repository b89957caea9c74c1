package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/hamamukku/reviewtrust-backend/internal/pipeline"
)

type FeatureRow struct {
	Path   string
	Result pipeline.Result
}

// WriteFeatures prints one line per batch: path, review count, the four
// features and the predicted label.
func WriteFeatures(w io.Writer, rows []FeatureRow) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-40s %8s %10s %10s %10s %10s %10s\n",
		"file", "reviews", "dist_bias", "duplicates", "surge", "noise", "label"))

	for _, r := range rows {
		f := r.Result.Features
		sb.WriteString(fmt.Sprintf("%-40s %8d %10.2f %10.2f %10.2f %10.2f %10s\n",
			r.Path, r.Result.Reviews, f.DistBias, f.Duplicates, f.Surge, f.Noise, r.Result.Label))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}
	return nil
}
