package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/filters"
	"github.com/genopri/analysis-engine/internal/inheritance"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner executes an Analysis over a batch of variants and returns the
// resulting genes, grouped and filtered per the schedule.
type Runner interface {
	Run(ctx context.Context, a *Analysis, variants []*domain.VariantEvaluation) ([]*domain.Gene, error)
}

// baseRunner holds the state and helpers shared by SimpleRunner and
// StreamingRunner; the two differ only in whether a variant failing a
// filter remains visible to later steps.
type baseRunner struct {
	log        *logrus.Logger
	maxWorkers int
	engine     *inheritance.Engine
}

func newBaseRunner(maxWorkers int, log *logrus.Logger) baseRunner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return baseRunner{log: log, maxWorkers: maxWorkers, engine: inheritance.NewEngine(log)}
}

// validate orders steps so every inheritance filter step runs last
// (stable among themselves), and checks that any priority-score filter is
// preceded by a prioritizer of its matching PriorityType.
func validate(steps []Step) ([]Step, error) {
	ordered := make([]Step, 0, len(steps))
	var tail []Step
	ranPriority := make(map[domain.PriorityType]bool)

	for _, s := range steps {
		if s.isInheritanceFilter() {
			tail = append(tail, s)
			continue
		}
		ordered = append(ordered, s)
	}

	for _, s := range ordered {
		if s.Kind == StepPrioritizer {
			ranPriority[s.Prioritizer.PriorityType()] = true
			continue
		}
		if s.Kind != StepGeneFilter || s.GeneFilter.FilterType() != domain.FilterPriorityScore {
			continue
		}
		pf, ok := s.GeneFilter.(*filters.PriorityScoreFilter)
		if !ok {
			continue
		}
		if !ranPriority[pf.Type] {
			return nil, fmt.Errorf("%w: priority-score filter for %s scheduled before any matching prioritizer",
				domain.ErrStepDependencyUnsatisfied, pf.Type)
		}
	}

	return append(ordered, tail...), nil
}

// groupByGene partitions variants into genes keyed by GeneID, dropping
// variants with domain.UnknownGeneID. Genes are returned sorted by symbol
// ascending so downstream iteration order is deterministic.
func groupByGene(variants []*domain.VariantEvaluation) []*domain.Gene {
	byID := make(map[string]*domain.Gene)
	for _, v := range variants {
		if v.GeneID == domain.UnknownGeneID {
			continue
		}
		g, ok := byID[v.GeneID]
		if !ok {
			g = domain.NewGene(v.GeneSymbol, v.GeneID)
			byID[v.GeneID] = g
		}
		g.Variants = append(g.Variants, v)
	}
	genes := make([]*domain.Gene, 0, len(byID))
	for _, g := range byID {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i].Symbol < genes[j].Symbol })
	return genes
}

// applyVariantFilterConcurrent runs f.Apply over variants using a bounded
// worker pool; variants is the set currently eligible for the step
// (already-dropped variants in streaming mode are excluded by the caller).
func applyVariantFilterConcurrent(ctx context.Context, maxWorkers int, f domain.VariantFilter, variants []*domain.VariantEvaluation) ([]bool, error) {
	results := make([]bool, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxWorkers)

	for i, v := range variants {
		i, v := i, v
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			continue
		}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = f.Apply(v)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *baseRunner) computeInheritance(genes []*domain.Gene, pedigree *domain.Pedigree, ceilings map[domain.InheritanceMode]float64) {
	if pedigree == nil {
		return
	}
	for _, g := range genes {
		res, err := r.engine.Compute(pedigree, g.Variants, ceilings)
		if err != nil {
			r.log.WithFields(logrus.Fields{"gene": g.Symbol, "error": err}).Warn("inheritance compatibility check failed for gene")
			continue
		}
		for mode, ok := range res.Compatible {
			g.InheritanceModes[mode] = ok
		}
		for mode, support := range res.Support {
			g.InheritanceSupport[mode] = support
		}
	}
}
