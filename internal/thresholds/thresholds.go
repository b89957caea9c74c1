package thresholds

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrMissingThreshold = errors.New("missing threshold value")

type TierName string

const (
	TierSakura   TierName = "sakura"
	TierLikely   TierName = "likely"
	TierUnlikely TierName = "unlikely"
)

type Field string

const (
	FieldDistBias   Field = "dist_bias"
	FieldDuplicates Field = "duplicates"
)

// Tier leaves are pointers so a value left out of the file stays
// distinguishable from an explicit zero.
type Tier struct {
	DistBias   *float64 `yaml:"dist_bias"`
	Duplicates *float64 `yaml:"duplicates"`
}

type Config struct {
	Sakura   *Tier `yaml:"sakura"`
	Likely   *Tier `yaml:"likely"`
	Unlikely *Tier `yaml:"unlikely"`
}

type Source string

const (
	SourceFile      Source = "file"
	SourceNoFile    Source = "defaults (file not readable)"
	SourceNoSection Source = "defaults (no sakura_percent section)"
)

type document struct {
	SakuraPercent *Config `yaml:"sakura_percent"`
}

func Float(v float64) *float64 {
	return &v
}

func Default() *Config {
	return &Config{
		Sakura:   &Tier{DistBias: Float(80), Duplicates: Float(50)},
		Likely:   &Tier{DistBias: Float(65), Duplicates: Float(40)},
		Unlikely: &Tier{DistBias: Float(45), Duplicates: Float(0)},
	}
}

// Load never fails on a missing or unreadable file; only a file that exists
// and cannot be decoded is an error.
func Load(path string) (*Config, Source, error) {
	if path == "" {
		return Default(), SourceNoFile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), SourceNoFile, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("failed to parse thresholds %s: %w", path, err)
	}

	if doc.SakuraPercent.isEmpty() {
		return Default(), SourceNoSection, nil
	}

	return doc.SakuraPercent, SourceFile, nil
}

func (c *Config) isEmpty() bool {
	return c == nil || (c.Sakura == nil && c.Likely == nil && c.Unlikely == nil)
}

func (c *Config) tier(name TierName) *Tier {
	if c == nil {
		return nil
	}
	switch name {
	case TierSakura:
		return c.Sakura
	case TierLikely:
		return c.Likely
	case TierUnlikely:
		return c.Unlikely
	}
	return nil
}

// Value looks up a single boundary. Callers resolve leaves one at a time so
// an incomplete table only fails on the comparisons that are actually made.
func (c *Config) Value(name TierName, field Field) (float64, error) {
	t := c.tier(name)
	if t == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingThreshold, name)
	}

	var v *float64
	switch field {
	case FieldDistBias:
		v = t.DistBias
	case FieldDuplicates:
		v = t.Duplicates
	}
	if v == nil {
		return 0, fmt.Errorf("%w: %s.%s", ErrMissingThreshold, name, field)
	}
	return *v, nil
}
