package pipeline

import (
	"fmt"

	"github.com/hamamukku/reviewtrust-backend/internal/parser"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
	"github.com/hamamukku/reviewtrust-backend/internal/thresholds"
)

type Pipeline struct {
	detector   *signals.Detector
	thresholds *thresholds.Config
}

func New(cfg *thresholds.Config) *Pipeline {
	return &Pipeline{
		detector:   signals.NewDetector(),
		thresholds: cfg,
	}
}

type Result struct {
	Reviews  int
	Features signals.FeatureVector
	Label    signals.Label
}

func (p *Pipeline) Process(reviews []parser.Review) (Result, error) {
	result := Result{
		Reviews:  len(reviews),
		Features: p.detector.Extract(reviews),
	}

	label, err := Classify(result.Features, p.thresholds)
	if err != nil {
		return result, fmt.Errorf("classification failed: %w", err)
	}
	result.Label = label

	return result, nil
}
