package output

import (
	"fmt"
	"strings"

	"github.com/hamamukku/reviewtrust-backend/internal/aggregator"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
)

func renderMarkdown(m *aggregator.Matrix, report Report) string {
	var sb strings.Builder

	sb.WriteString("# Sakura Evaluation\n\n")
	if report.ProofRoot != "" {
		sb.WriteString(fmt.Sprintf("**Corpus:** %s\n", report.ProofRoot))
	}
	if report.ThresholdsSource != "" {
		sb.WriteString(fmt.Sprintf("**Thresholds:** %s\n", report.ThresholdsSource))
	}
	if report.RunID != "" {
		sb.WriteString(fmt.Sprintf("**Run:** %s\n", report.RunID))
	}
	sb.WriteString(fmt.Sprintf("**Accuracy:** %.2f%% (%d/%d)\n\n", m.Accuracy()*100, m.Correct(), m.Total()))

	sb.WriteString("## Confusion Matrix\n\n")
	sb.WriteString("| actual \\ predicted |")
	for _, l := range signals.Labels {
		sb.WriteString(fmt.Sprintf(" %s |", l))
	}
	sb.WriteString("\n|---|")
	for range signals.Labels {
		sb.WriteString("---:|")
	}
	sb.WriteString("\n")

	for _, actual := range signals.Labels {
		sb.WriteString(fmt.Sprintf("| %s |", actual))
		for _, predicted := range signals.Labels {
			count := m.Count(actual, predicted)
			if actual == predicted {
				sb.WriteString(fmt.Sprintf(" **%d** |", count))
			} else {
				sb.WriteString(fmt.Sprintf(" %d |", count))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Recall\n\n")
	sb.WriteString("| label | matched | total | recall |\n")
	sb.WriteString("|---|---:|---:|---:|\n")
	for _, l := range signals.Labels {
		recall, ok := m.Recall(l)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f%% |\n", l, m.Count(l, l), m.Totals(l), recall*100))
	}

	return sb.String()
}
