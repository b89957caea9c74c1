package output

import (
	"fmt"
	"strings"

	"github.com/hamamukku/reviewtrust-backend/internal/aggregator"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
)

const columnWidth = 12

func renderText(m *aggregator.Matrix) string {
	var sb strings.Builder

	sb.WriteString("Confusion Matrix (rows = actual, columns = predicted)\n")
	sb.WriteString(fmt.Sprintf("%*s", columnWidth, ""))
	for _, l := range signals.Labels {
		sb.WriteString(fmt.Sprintf("%*s", columnWidth, l))
	}
	sb.WriteString("\n")

	for _, actual := range signals.Labels {
		sb.WriteString(fmt.Sprintf("%*s", columnWidth, actual))
		for _, predicted := range signals.Labels {
			sb.WriteString(fmt.Sprintf("%*d", columnWidth, m.Count(actual, predicted)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Accuracy: %.2f%%  (%d/%d)\n", m.Accuracy()*100, m.Correct(), m.Total()))

	for _, l := range signals.Labels {
		if total := m.Totals(l); total > 0 {
			sb.WriteString(fmt.Sprintf("%*s: %d/%d matched\n", columnWidth, l, m.Count(l, l), total))
		}
	}

	return sb.String()
}
