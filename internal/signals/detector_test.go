package signals

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamamukku/reviewtrust-backend/internal/parser"
)

const longBody = "この商品は毎日使っていますが、とても使いやすくて家族にも好評です。値段の割に品質が高く、耐久性にも満足しています。また購入したいと思います。"

func review(rating float64, body string) parser.Review {
	return parser.Review{Rating: rating, Body: body}
}

func dated(rating float64, body, date string) parser.Review {
	return parser.Review{Rating: rating, Body: body, DateText: date}
}

func distinctBodies(n int) []string {
	bodies := make([]string, n)
	for i := range bodies {
		bodies[i] = fmt.Sprintf("%s 通し番号%03d", longBody, i)
	}
	return bodies
}

func TestExtractEmptyBatch(t *testing.T) {
	d := NewDetector()

	assert.Equal(t, FeatureVector{}, d.Extract(nil))
	assert.Equal(t, FeatureVector{}, d.Extract([]parser.Review{}))
}

func TestExtractIdenticalFiveStarBatch(t *testing.T) {
	d := NewDetector()

	for _, n := range []int{1, 2, 5, 37} {
		reviews := make([]parser.Review, n)
		for i := range reviews {
			reviews[i] = review(5, "最高の商品です")
		}

		f := d.Extract(reviews)
		assert.Equal(t, 100.0, f.DistBias, "n=%d", n)
		assert.Equal(t, 100.0, f.Duplicates, "n=%d", n)
	}
}

func TestExtractNineOfTenFiveStar(t *testing.T) {
	d := NewDetector()
	bodies := distinctBodies(10)

	reviews := make([]parser.Review, 10)
	for i := range reviews {
		rating := 5.0
		if i == 9 {
			rating = 3
		}
		reviews[i] = review(rating, bodies[i])
	}

	f := d.Extract(reviews)
	assert.InDelta(t, 90.0, f.DistBias, 1e-9)
	assert.InDelta(t, 10.0, f.Duplicates, 1e-9)
	assert.Equal(t, 0.0, f.Surge)
	assert.Equal(t, 0.0, f.Noise)
}

func TestDistBiasUsesThreshold(t *testing.T) {
	d := NewDetector()
	reviews := []parser.Review{review(5.5, "a"), review(5, "b"), review(4.9, "c"), review(0, "d")}

	assert.InDelta(t, 50.0, d.Extract(reviews).DistBias, 1e-9)
}

func TestDuplicatesIgnoresEmptyBodiesAndTrims(t *testing.T) {
	d := NewDetector()
	reviews := []parser.Review{
		review(1, ""),
		review(1, "   "),
		review(1, "\n"),
		review(1, " 同じ "),
		review(1, "同じ"),
		review(1, "違う"),
	}

	f := d.Extract(reviews)
	assert.InDelta(t, 100.0*2/6, f.Duplicates, 1e-9)
}

func TestDuplicatesAllEmpty(t *testing.T) {
	d := NewDetector()
	f := d.Extract([]parser.Review{review(5, ""), review(5, "  ")})

	assert.Equal(t, 0.0, f.Duplicates)
	assert.Equal(t, 100.0, f.DistBias)
}

func TestSurge(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name    string
		reviews []parser.Review
		want    float64
	}{
		{
			name:    "no dates",
			reviews: []parser.Review{review(5, "a"), dated(5, "b", "unknown")},
			want:    0,
		},
		{
			name: "even spread",
			reviews: []parser.Review{
				dated(5, "a", "2024年1月1日"),
				dated(5, "b", "2024年1月2日"),
			},
			want: 100,
		},
		{
			name: "busy day plus undated reviews",
			reviews: []parser.Review{
				dated(5, "a", "2024年1月1日"),
				dated(5, "b", "2024年1月1日"),
				dated(5, "c", "2024年01月01日に日本でレビュー済み"),
				dated(5, "d", "2024年1月2日"),
				review(5, "e"),
				review(5, "f"),
			},
			// avg = 6/2 = 3, busiest = 3
			want: 100,
		},
		{
			name: "below average busiest day",
			reviews: []parser.Review{
				dated(5, "a", "2024年1月1日"),
				review(5, "b"),
				review(5, "c"),
				review(5, "d"),
			},
			// avg = 4/1, busiest = 1
			want: 25,
		},
		{
			name: "impossible date ignored",
			reviews: []parser.Review{
				dated(5, "a", "2024年2月30日"),
				dated(5, "b", "2024年2月29日"),
			},
			// avg = 2/1, busiest = 1
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, d.Extract(tt.reviews).Surge, 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		text string
		want Date
		ok   bool
	}{
		{"2024年3月5日に日本でレビュー済み", Date{2024, time.March, 5}, true},
		{"Reviewed in Japan on 2024年12月31日", Date{2024, time.December, 31}, true},
		{"２０２３年１１月２日", Date{2023, time.November, 2}, true},
		{"2023年2月29日", Date{}, false},
		{"2024年13月1日", Date{}, false},
		{"0000年1月1日", Date{}, false},
		{"2024/03/05", Date{}, false},
		{"", Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := d.ParseDate(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoiseSignals(t *testing.T) {
	d := NewDetector()

	urls := []string{"http://example", "see HTTPS://x", "www.shop", "example.com", "shop.co.jp", "foo.jp"}
	for _, u := range urls {
		assert.True(t, d.HasURL(u), u)
	}
	assert.False(t, d.HasURL("no links here"))

	runs := []string{"!!!", "最高！！！", "???", "？？？", "...", ",,,", "。。。", "、、、", "〜〜〜", "～～～", "ーーー", "---", "wow!!!!"}
	for _, r := range runs {
		assert.True(t, d.HasSymbolRun(r), r)
	}
	notRuns := []string{"!!", "!?!", "!！!", "・・・", "***", "…", "ab..c"}
	for _, r := range notRuns {
		assert.False(t, d.HasSymbolRun(r), r)
	}

	assert.True(t, ContainsEmoji("good 👍"))
	assert.True(t, ContainsEmoji("☀"))
	assert.True(t, ContainsEmoji("✨"))
	assert.False(t, ContainsEmoji("plain → text"))
	assert.False(t, ContainsEmoji("日本語"))
}

func TestNoiseComposite(t *testing.T) {
	d := NewDetector()

	reviews := []parser.Review{
		review(5, longBody+" https://example.com"),
		review(5, longBody+" 👍"),
		review(5, longBody+"!!!"),
		review(5, "短い"),
		review(5, longBody),
	}

	rates := d.NoiseRates([]string{
		strings.TrimSpace(reviews[0].Body),
		strings.TrimSpace(reviews[1].Body),
		strings.TrimSpace(reviews[2].Body),
		strings.TrimSpace(reviews[3].Body),
		strings.TrimSpace(reviews[4].Body),
	})
	assert.InDelta(t, 0.2, rates.URL, 1e-9)
	assert.InDelta(t, 0.2, rates.Emoji, 1e-9)
	assert.InDelta(t, 0.2, rates.SymbolRun, 1e-9)
	assert.InDelta(t, 0.2, rates.Short, 1e-9)

	// 100 * (0.4*0.2 + 0.2*0.2*3)
	assert.InDelta(t, 20.0, d.Extract(reviews).Noise, 1e-9)
}

func TestNoiseEmptyBodiesCountAsShortAndCap(t *testing.T) {
	d := NewDetector()

	f := d.Extract([]parser.Review{review(1, ""), review(1, "  ")})
	assert.InDelta(t, 20.0, f.Noise, 1e-9)

	loud := "www.example.com 👍!!!"
	f = d.Extract([]parser.Review{review(1, loud), review(1, loud)})
	assert.InDelta(t, 100.0, f.Noise, 1e-9)
	assert.LessOrEqual(t, f.Noise, 100.0)
}

func TestShortUsesRuneCount(t *testing.T) {
	d := NewDetector()

	fiftyNineKana := strings.Repeat("あ", 59)
	sixtyKana := strings.Repeat("あ", 60)

	rates := d.NoiseRates([]string{fiftyNineKana, sixtyKana})
	assert.InDelta(t, 0.5, rates.Short, 1e-9)
}

func TestFeaturesBounded(t *testing.T) {
	d := NewDetector()

	batches := [][]parser.Review{
		{review(5, "a")},
		{review(1, ""), review(5, "a"), review(5, "a"), dated(3, "b", "2024年1月1日")},
		{dated(5, "x", "2024年1月1日"), dated(5, "x", "2024年1月1日"), dated(5, "y", "2024年1月2日")},
		{review(-1, "!!!"), review(10, "www.x.jp 😀")},
	}

	for i, b := range batches {
		f := d.Extract(b)
		for name, v := range map[string]float64{"dist_bias": f.DistBias, "duplicates": f.Duplicates, "surge": f.Surge, "noise": f.Noise} {
			assert.GreaterOrEqual(t, v, 0.0, "batch %d %s", i, name)
			assert.LessOrEqual(t, v, 100.0, "batch %d %s", i, name)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	d := NewDetector()
	reviews := []parser.Review{
		dated(5, "同じ", "2024年1月1日"),
		dated(4, "同じ", "2024年1月2日"),
		dated(5, "違う!!!", "2024年1月2日"),
		review(2, "https://spam.example.com"),
	}

	first := d.Extract(reviews)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, d.Extract(reviews))
	}
}

func TestParseLabel(t *testing.T) {
	for _, l := range Labels {
		got, err := ParseLabel(strings.ToLower(l.String()))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := ParseLabel("maybe")
	assert.Error(t, err)
	assert.Equal(t, "Label(9)", Label(9).String())
	assert.True(t, LabelSakura.MoreSuspiciousThan(LabelGenuine))
	assert.False(t, LabelUnlikely.MoreSuspiciousThan(LabelLikely))
}
