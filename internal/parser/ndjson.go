package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

const maxLineSize = 32 * 1024 * 1024

// Reader decodes review files line by line in process. It stops at the first
// line that is not a JSON object.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Load(ctx context.Context, path string) ([]Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(ctx, f, path)
}

// Decode drops histogram records and blank lines; every other line must be a
// valid record.
func Decode(ctx context.Context, src io.Reader, name string) ([]Review, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var reviews []Review
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] != '{' {
			return nil, fmt.Errorf("%w: %s:%d: not a JSON object", ErrMalformedRecord, name, lineNo)
		}

		var rec ReviewRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformedRecord, name, lineNo, err)
		}

		review := rec.Review()
		if review.IsHistogram() {
			continue
		}
		reviews = append(reviews, review)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return reviews, nil
}
