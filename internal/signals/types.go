package signals

import (
	"fmt"
	"strings"
)

// Label is ordered from most to least suspicious.
type Label int

const (
	LabelSakura Label = iota
	LabelLikely
	LabelUnlikely
	LabelGenuine
)

const LabelCount = 4

var Labels = []Label{LabelSakura, LabelLikely, LabelUnlikely, LabelGenuine}

var labelNames = [LabelCount]string{"SAKURA", "LIKELY", "UNLIKELY", "GENUINE"}

func (l Label) String() string {
	if !l.IsValid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

func (l Label) IsValid() bool {
	return l >= LabelSakura && l <= LabelGenuine
}

// MoreSuspiciousThan reports whether l sits in a stricter tier than other.
func (l Label) MoreSuspiciousThan(other Label) bool {
	return l < other
}

func ParseLabel(s string) (Label, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("unknown label %q", s)
}

// Bucket ties a corpus directory to the ground-truth label of every batch
// found under it.
type Bucket struct {
	Dir   string
	Label Label
}

var Buckets = []Bucket{
	{Dir: "sakura", Label: LabelSakura},
	{Dir: "probably_sakura", Label: LabelLikely},
	{Dir: "probably_not_sakura", Label: LabelUnlikely},
	{Dir: "not_sakura", Label: LabelGenuine},
}

// FeatureVector fields are percentages in [0, 100].
type FeatureVector struct {
	DistBias   float64 `json:"dist_bias"`
	Duplicates float64 `json:"duplicates"`
	Surge      float64 `json:"surge"`
	Noise      float64 `json:"noise"`
}

type NoiseRates struct {
	URL       float64
	Emoji     float64
	SymbolRun float64
	Short     float64
}
