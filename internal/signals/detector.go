package signals

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/hamamukku/reviewtrust-backend/internal/parser"
)

const (
	fiveStar       = 5.0
	shortBodyRunes = 60
	minSymbolRun   = 3

	urlWeight       = 0.4
	emojiWeight     = 0.2
	symbolRunWeight = 0.2
	shortWeight     = 0.2
)

// symbolAlphabet includes the full-width and CJK forms reviewers type.
const symbolAlphabet = "!！?？.,。、〜～ー-"

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Detector holds compiled patterns only and is safe for concurrent use.
type Detector struct {
	datePattern      *regexp.Regexp
	urlPattern       *regexp.Regexp
	symbolRunPattern *regexp.Regexp
}

func NewDetector() *Detector {
	return &Detector{
		datePattern:      regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`),
		urlPattern:       regexp.MustCompile(`(?i)https?://|www\.|\.co(m|\.jp)|\.jp`),
		symbolRunPattern: regexp.MustCompile(symbolRunExpr(symbolAlphabet, minSymbolRun)),
	}
}

// symbolRunExpr spells out one repetition branch per symbol since RE2 has no
// backreferences.
func symbolRunExpr(alphabet string, minRun int) string {
	branches := make([]string, 0, utf8.RuneCountInString(alphabet))
	for _, r := range alphabet {
		branches = append(branches, regexp.QuoteMeta(string(r))+"{"+strconv.Itoa(minRun)+",}")
	}
	return strings.Join(branches, "|")
}

func (d *Detector) Extract(reviews []parser.Review) FeatureVector {
	if len(reviews) == 0 {
		return FeatureVector{}
	}

	bodies := make([]string, len(reviews))
	for i, r := range reviews {
		bodies[i] = strings.TrimSpace(r.Body)
	}

	return FeatureVector{
		DistBias:   d.distBias(reviews),
		Duplicates: d.duplicates(bodies),
		Surge:      d.surge(reviews),
		Noise:      d.noise(bodies),
	}
}

func (d *Detector) distBias(reviews []parser.Review) float64 {
	fiveStars := 0
	for _, r := range reviews {
		if r.Rating >= fiveStar {
			fiveStars++
		}
	}
	return float64(fiveStars) / float64(len(reviews)) * 100
}

func (d *Detector) duplicates(bodies []string) float64 {
	clusters := make(map[string]int)
	largest := 0
	for _, b := range bodies {
		if b == "" {
			continue
		}
		clusters[b]++
		if clusters[b] > largest {
			largest = clusters[b]
		}
	}
	return float64(largest) / float64(len(bodies)) * 100
}

func (d *Detector) surge(reviews []parser.Review) float64 {
	perDay := make(map[Date]int)
	busiest := 0
	for _, r := range reviews {
		date, ok := d.ParseDate(r.DateText)
		if !ok {
			continue
		}
		perDay[date]++
		if perDay[date] > busiest {
			busiest = perDay[date]
		}
	}

	if len(perDay) == 0 {
		return 0
	}

	avgPerDay := float64(len(reviews)) / float64(len(perDay))
	return math.Min(100, float64(busiest)/avgPerDay*100)
}

// ParseDate finds the first 年/月/日 date in text. Full-width digits are
// accepted; dates that do not exist on the calendar are treated as absent.
func (d *Detector) ParseDate(text string) (Date, bool) {
	if text == "" {
		return Date{}, false
	}

	m := d.datePattern.FindStringSubmatch(width.Fold.String(text))
	if m == nil {
		return Date{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if year < 1 {
		return Date{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}

	return Date{Year: year, Month: t.Month(), Day: day}, true
}

func (d *Detector) noise(bodies []string) float64 {
	rates := d.NoiseRates(bodies)
	score := (rates.URL*urlWeight +
		rates.Emoji*emojiWeight +
		rates.SymbolRun*symbolRunWeight +
		rates.Short*shortWeight) * 100
	return math.Min(100, score)
}

// NoiseRates returns the hit rate of each noise sub-signal over trimmed
// bodies. Empty bodies count as short.
func (d *Detector) NoiseRates(bodies []string) NoiseRates {
	if len(bodies) == 0 {
		return NoiseRates{}
	}

	var url, emoji, symbols, short int
	for _, b := range bodies {
		if d.urlPattern.MatchString(b) {
			url++
		}
		if ContainsEmoji(b) {
			emoji++
		}
		if d.symbolRunPattern.MatchString(b) {
			symbols++
		}
		if utf8.RuneCountInString(b) < shortBodyRunes {
			short++
		}
	}

	total := float64(len(bodies))
	return NoiseRates{
		URL:       float64(url) / total,
		Emoji:     float64(emoji) / total,
		SymbolRun: float64(symbols) / total,
		Short:     float64(short) / total,
	}
}

func (d *Detector) HasURL(text string) bool {
	return d.urlPattern.MatchString(text)
}

func (d *Detector) HasSymbolRun(text string) bool {
	return d.symbolRunPattern.MatchString(text)
}

func ContainsEmoji(text string) bool {
	for _, r := range text {
		if r >= 0x1F000 || (r >= 0x2600 && r <= 0x27BF) {
			return true
		}
	}
	return false
}
