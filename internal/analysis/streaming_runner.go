package analysis

import (
	"context"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/sirupsen/logrus"
)

// StreamingRunner drops a variant from the run as soon as it fails a
// filter step; steps after the one that failed it record no result for it.
// Passed-Only and Simple execution produce identical rankings for the
// variants and genes that survive to the end.
type StreamingRunner struct {
	baseRunner
}

// NewStreamingRunner constructs a StreamingRunner with a worker pool sized
// maxWorkers for pure per-variant filter steps.
func NewStreamingRunner(maxWorkers int, log *logrus.Logger) *StreamingRunner {
	return &StreamingRunner{baseRunner: newBaseRunner(maxWorkers, log)}
}

func (r *StreamingRunner) Run(ctx context.Context, a *Analysis, variants []*domain.VariantEvaluation) ([]*domain.Gene, error) {
	steps, err := validate(a.Steps)
	if err != nil {
		return nil, err
	}

	surviving := variants
	var genes []*domain.Gene
	grouped := false

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch step.Kind {
		case StepVariantFilter:
			results, err := applyVariantFilterConcurrent(ctx, r.maxWorkers, step.VariantFilter, surviving)
			if err != nil {
				return nil, err
			}
			surviving = keepPassing(surviving, results)
		case StepGeneFilter, StepPrioritizer:
			if !grouped {
				genes = groupByGene(surviving)
				grouped = true
			}
			if err := r.runGeneStep(ctx, step, a, genes); err != nil {
				return nil, err
			}
		}
	}

	if !grouped {
		genes = groupByGene(surviving)
	}
	return genes, nil
}

func keepPassing(variants []*domain.VariantEvaluation, results []bool) []*domain.VariantEvaluation {
	out := make([]*domain.VariantEvaluation, 0, len(variants))
	for i, v := range variants {
		if results[i] {
			out = append(out, v)
		}
	}
	return out
}
