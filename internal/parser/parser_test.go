package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParserLoadMatchesReader(t *testing.T) {
	dir := t.TempDir()
	path := writeBatch(t, dir, "it's.ndjson", `{"type":"histogram","rating":5}
{"rating":5,"body":"最高です","dateText":"2024年1月2日"}
{"rating":"3","body":"  普通  "}
{"body":"no rating"}
{"rating":true,"body":"yes"}
{"rating":false,"body":"no"}
{"rating":null,"body":"null"}
`)

	p, err := NewParser()
	require.NoError(t, err)

	got, err := p.Load(context.Background(), path)
	require.NoError(t, err)

	want, err := NewReader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Rating, got[i].Rating)
		assert.Equal(t, want[i].Body, got[i].Body)
		assert.Equal(t, want[i].DateText, got[i].DateText)
	}
	assert.Equal(t, 1.0, got[4].Rating)
	assert.Equal(t, 0.0, got[5].Rating)
}

func TestParserLoadMalformed(t *testing.T) {
	path := writeBatch(t, t.TempDir(), "bad.ndjson", "{\"rating\":5}\n{\"rating\":\n")

	p, err := NewParser()
	require.NoError(t, err)

	_, err = p.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParserGetFileStats(t *testing.T) {
	dir := t.TempDir()
	a := writeBatch(t, dir, "a.ndjson", `{"type":"histogram"}
{"rating":5,"body":"x"}
{"rating":1,"body":""}
`)
	b := writeBatch(t, dir, "b.jsonl", `{"rating":5,"body":"y"}
{"rating":5,"body":"z"}
`)

	p, err := NewParser()
	require.NoError(t, err)

	stats, err := p.GetFileStats(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 4, stats.Reviews)
	assert.Equal(t, 1, stats.Histograms)
	assert.InDelta(t, 75.0, stats.FiveStarShare, 1e-9)
	assert.InDelta(t, 25.0, stats.EmptyBodyShare, 1e-9)
}

func TestParserGetFileStatsNoFiles(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	stats, err := p.GetFileStats(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, FileStats{}, stats)
}
