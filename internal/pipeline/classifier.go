package pipeline

import (
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
	"github.com/hamamukku/reviewtrust-backend/internal/thresholds"
)

// Classify applies the tiers in order and returns the first that matches.
// The sakura tier needs both signals, the likely tier either one, and the
// unlikely tier only dist_bias. Surge and noise are not consulted.
//
// Boundaries are looked up only when a comparison needs them, so a table with
// a missing leaf fails only for the feature vectors that reach it.
func Classify(f signals.FeatureVector, cfg *thresholds.Config) (signals.Label, error) {
	c := &classifier{cfg: cfg}

	if c.atLeast(f.DistBias, thresholds.TierSakura, thresholds.FieldDistBias) &&
		c.atLeast(f.Duplicates, thresholds.TierSakura, thresholds.FieldDuplicates) {
		return signals.LabelSakura, nil
	}
	if c.err != nil {
		return 0, c.err
	}

	if c.atLeast(f.DistBias, thresholds.TierLikely, thresholds.FieldDistBias) ||
		c.atLeast(f.Duplicates, thresholds.TierLikely, thresholds.FieldDuplicates) {
		return signals.LabelLikely, nil
	}
	if c.err != nil {
		return 0, c.err
	}

	if c.atLeast(f.DistBias, thresholds.TierUnlikely, thresholds.FieldDistBias) {
		return signals.LabelUnlikely, nil
	}
	if c.err != nil {
		return 0, c.err
	}

	return signals.LabelGenuine, nil
}

type classifier struct {
	cfg *thresholds.Config
	err error
}

// atLeast reports false once a lookup has failed so the surrounding
// condition short-circuits without consulting further leaves.
func (c *classifier) atLeast(value float64, tier thresholds.TierName, field thresholds.Field) bool {
	if c.err != nil {
		return false
	}
	boundary, err := c.cfg.Value(tier, field)
	if err != nil {
		c.err = err
		return false
	}
	return value >= boundary
}
