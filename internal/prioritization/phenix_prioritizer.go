package prioritization

import (
	"context"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/phenotype"
)

// OrganismSource pairs one organism's OrganismMatcher with the models
// (disease records, mouse/fish phenotype annotations) available for that
// organism, keyed by gene symbol.
type OrganismSource struct {
	Organism     string
	Matcher      domain.OrganismMatcher
	GeneToModels map[string][]domain.Model
}

// PhenixPrioritizer scores genes by phenotype-semantic similarity to known
// disease/model-organism annotations. It shares one theoretical-best model
// across organisms, derived from the strongest organism, so cross-species
// scores land on the same scale.
type PhenixPrioritizer struct {
	Query   []domain.PhenotypeTerm
	Sources []OrganismSource
	scorer  *phenotype.PhenixScorer
}

// NewPhenixPrioritizer constructs a PhenixPrioritizer with the given
// per-instance normalization factor, never shared process-wide state.
func NewPhenixPrioritizer(query []domain.PhenotypeTerm, sources []OrganismSource, normalizationFactor float64) *PhenixPrioritizer {
	return &PhenixPrioritizer{
		Query:   query,
		Sources: sources,
		scorer:  phenotype.NewPhenixScorer(normalizationFactor, nil),
	}
}

func (p *PhenixPrioritizer) PriorityType() domain.PriorityType { return domain.PriorityPhenix }

func (p *PhenixPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	// Share one theoretical-best model across organisms, taken from the
	// strongest (highest MaxMatchScore) organism's theoretical best.
	theoretical, err := p.sharedTheoreticalBest(ctx)
	if err != nil {
		return err
	}

	for _, g := range genes {
		best := 0.0
		for _, src := range p.Sources {
			models := src.GeneToModels[g.Symbol]
			if len(models) == 0 {
				continue
			}
			matches, err := src.Matcher.BestMatches(ctx, p.Query, models)
			if err != nil {
				continue
			}
			score := p.scorer.Score(p.Query, matches, theoretical)
			if score > best {
				best = score
			}
		}
		g.Priorities[domain.PriorityPhenix] = domain.PriorityResult{Type: domain.PriorityPhenix, Score: best}
	}
	return nil
}

func (p *PhenixPrioritizer) sharedTheoreticalBest(ctx context.Context) (domain.TheoreticalModel, error) {
	var strongest domain.TheoreticalModel
	for _, src := range p.Sources {
		tb, err := src.Matcher.TheoreticalBest(ctx, p.Query)
		if err != nil {
			continue
		}
		if tb.MaxMatchScore > strongest.MaxMatchScore {
			strongest = tb
		}
	}
	return strongest, nil
}
