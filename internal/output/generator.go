package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamamukku/reviewtrust-backend/internal/aggregator"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Report is everything a rendered evaluation needs besides the matrix.
type Report struct {
	ProofRoot        string
	ThresholdsSource string
	RunID            string
}

type Generator struct {
	format Format
}

func NewGenerator(format Format) *Generator {
	return &Generator{
		format: format,
	}
}

func (g *Generator) Render(m *aggregator.Matrix, report Report) string {
	if g.format == FormatMarkdown {
		return renderMarkdown(m, report)
	}
	return renderText(m)
}

func (g *Generator) Write(w io.Writer, m *aggregator.Matrix, report Report) error {
	if _, err := io.WriteString(w, g.Render(m, report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders the report into path, creating parent directories.
func (g *Generator) WriteFile(path string, m *aggregator.Matrix, report Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(g.Render(m, report)), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
