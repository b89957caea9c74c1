package aggregator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hamamukku/reviewtrust-backend/internal/logger"
	"github.com/hamamukku/reviewtrust-backend/internal/parser"
	"github.com/hamamukku/reviewtrust-backend/internal/pipeline"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
)

// BatchSource loads the reviews of one batch file with histogram records
// already removed.
type BatchSource interface {
	Load(ctx context.Context, path string) ([]parser.Review, error)
}

type Sample struct {
	Label signals.Label
	Path  string
}

type Config struct {
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Workers: 1,
	}
}

type Evaluator struct {
	config   Config
	pipeline *pipeline.Pipeline
	source   BatchSource
	log      logger.Logger
}

func NewEvaluator(cfg Config, p *pipeline.Pipeline, src BatchSource, log logger.Logger) *Evaluator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Evaluator{
		config:   cfg,
		pipeline: p,
		source:   src,
		log:      log,
	}
}

// Discover lists every batch file under the four bucket directories of root,
// bucket by bucket in fixed order and lexically within a bucket.
func Discover(root string) ([]Sample, error) {
	var samples []Sample
	for _, b := range signals.Buckets {
		files, err := parser.FindBatchFiles(filepath.Join(root, b.Dir))
		if err != nil {
			return nil, fmt.Errorf("failed to scan bucket %s: %w", b.Dir, err)
		}
		for _, f := range files {
			samples = append(samples, Sample{Label: b.Label, Path: f})
		}
	}
	return samples, nil
}

// Run classifies every sample and tallies the results. With more than one
// worker each goroutine fills its own matrix; the partials are merged once
// all of them finish. The first error cancels the remaining work.
func (e *Evaluator) Run(ctx context.Context, samples []Sample) (*Matrix, error) {
	start := time.Now()
	if len(samples) == 0 {
		return NewMatrix(), nil
	}

	workers := min(e.config.Workers, len(samples))
	if workers == 1 {
		m := NewMatrix()
		for _, s := range samples {
			if err := e.evaluate(ctx, s, m); err != nil {
				return nil, err
			}
		}
		e.log.Info("evaluation finished",
			logger.Int("batches", m.Total()),
			logger.Duration("elapsed", time.Since(start)))
		return m, nil
	}

	partials := make([]*Matrix, workers)
	jobs := make(chan Sample)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, s := range samples {
			select {
			case jobs <- s:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := range partials {
		partials[i] = NewMatrix()
		m := partials[i]
		g.Go(func() error {
			for s := range jobs {
				if err := e.evaluate(gctx, s, m); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewMatrix()
	for _, p := range partials {
		result.Merge(p)
	}

	e.log.Info("evaluation finished",
		logger.Int("batches", result.Total()),
		logger.Int("workers", workers),
		logger.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (e *Evaluator) evaluate(ctx context.Context, s Sample, m *Matrix) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reviews, err := e.source.Load(ctx, s.Path)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}

	res, err := e.pipeline.Process(reviews)
	if err != nil {
		return fmt.Errorf("failed to evaluate %s: %w", s.Path, err)
	}

	e.log.Debug("batch classified",
		logger.String("file", s.Path),
		logger.String("actual", s.Label.String()),
		logger.String("predicted", res.Label.String()),
		logger.Int("reviews", res.Reviews),
		logger.Float64("dist_bias", res.Features.DistBias),
		logger.Float64("duplicates", res.Features.Duplicates))

	m.Add(s.Label, res.Label)
	return nil
}
