package analysis

import (
	"context"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/sirupsen/logrus"
)

// SimpleRunner holds every variant in memory for the duration of the run;
// a variant that fails a filter remains visible to every later step, so
// every step's result is recorded on it regardless of earlier outcomes.
type SimpleRunner struct {
	baseRunner
}

// NewSimpleRunner constructs a SimpleRunner with a worker pool sized
// maxWorkers for pure per-variant filter steps.
func NewSimpleRunner(maxWorkers int, log *logrus.Logger) *SimpleRunner {
	return &SimpleRunner{baseRunner: newBaseRunner(maxWorkers, log)}
}

func (r *SimpleRunner) Run(ctx context.Context, a *Analysis, variants []*domain.VariantEvaluation) ([]*domain.Gene, error) {
	steps, err := validate(a.Steps)
	if err != nil {
		return nil, err
	}

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
			if _, err := applyVariantFilterConcurrent(ctx, r.maxWorkers, step.VariantFilter, variants); err != nil {
				return nil, err
			}
		case StepGeneFilter, StepPrioritizer:
			if !grouped {
				genes = groupByGene(variants)
				grouped = true
			}
			if err := r.runGeneStep(ctx, step, a, genes); err != nil {
				return nil, err
			}
		}
	}

	if !grouped {
		genes = groupByGene(variants)
	}
	return genes, nil
}

func (r *baseRunner) runGeneStep(ctx context.Context, step Step, a *Analysis, genes []*domain.Gene) error {
	switch step.Kind {
	case StepPrioritizer:
		return step.Prioritizer.Prioritize(ctx, genes)
	case StepGeneFilter:
		if step.isInheritanceFilter() {
			r.computeInheritance(genes, a.Pedigree, a.Ceilings)
		}
		for _, g := range genes {
			step.GeneFilter.Apply(g)
		}
	}
	return nil
}
