// Package ranking computes the combined per-gene score that determines
// final output order: a filter-evidence component, a prioritizer-evidence
// component, an optional down-weighting for variant-count outliers, and a
// deterministic tie-break.
package ranking

import (
	"sort"

	"github.com/genopri/analysis-engine/internal/domain"
)

// Config carries the aggregator's tunables, independent of domain.Config so
// callers can rank with ad hoc values in tests.
type Config struct {
	DownweightThreshold int
	DownweightFactor    float64
}

// DefaultConfig matches the legacy down-weighting heuristic: a gene with
// more than 5 surviving variants loses filterScore.
func DefaultConfig() Config {
	return Config{DownweightThreshold: 5, DownweightFactor: 0.05}
}

// Aggregator computes filterScore/priorityScore/combinedScore for a set of
// genes and returns them sorted by combinedScore descending.
type Aggregator struct {
	cfg Config
}

// NewAggregator constructs an Aggregator with the given Config.
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Rank computes every gene's filterScore, priorityScore and combinedScore
// under mode, then returns the genes sorted by combinedScore descending,
// gene symbol ascending on ties. pedigree identifies which sample indices
// are affected, needed for the autosomal-recessive homozygous-duplication
// rule; it may be nil for non-AR modes.
func (a *Aggregator) Rank(genes []*domain.Gene, pedigree *domain.Pedigree, mode domain.InheritanceMode) []*domain.Gene {
	for _, g := range genes {
		g.FilterScore = a.filterScore(g, pedigree, mode)
		g.PriorityScore = priorityScore(g)
	}

	ranked := make([]*domain.Gene, len(genes))
	copy(ranked, genes)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := combinedScore(ranked[i]), combinedScore(ranked[j])
		if ci != cj {
			return ci > cj
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	return ranked
}

// filterScore implements the per-variant-component collection, the
// autosomal-recessive top-2-average special case, and down-weighting.
func (a *Aggregator) filterScore(g *domain.Gene, pedigree *domain.Pedigree, mode domain.InheritanceMode) float64 {
	scores := variantFilterScores(g.PassedVariants())

	if mode == domain.AutosomalRecessive {
		for _, v := range g.PassedVariants() {
			if homozygousInAffected(v, pedigree) {
				scores = append(scores, variantFilterScore(v))
			}
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
		if len(scores) < 2 {
			return 0
		}
		avg := (scores[0] + scores[1]) / 2
		return a.downWeight(avg, len(g.PassedVariants()))
	}

	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}

	return a.downWeight(max, len(g.PassedVariants()))
}

// downWeight implements downWeightGeneWithManyVariants: a gene with more
// than DownweightThreshold passed variants has its filterScore scaled
// down by an accelerating per-excess-variant penalty, capped at removing
// the entire score. The legacy downrankGeneIfMoreVariantsThanThreshold
// function (an inverted threshold comparison) is not reproduced.
func (a *Aggregator) downWeight(score float64, numVariants int) float64 {
	if numVariants < a.cfg.DownweightThreshold {
		return score
	}
	sum := 0.0
	for i := 1; i <= numVariants-a.cfg.DownweightThreshold; i++ {
		sum += a.cfg.DownweightFactor * pow(1.5, i-1)
	}
	if sum > 1 {
		sum = 1
	}
	return score * (1 - sum)
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func variantFilterScores(variants []*domain.VariantEvaluation) []float64 {
	out := make([]float64, 0, len(variants))
	for _, v := range variants {
		out = append(out, variantFilterScore(v))
	}
	return out
}

// variantFilterScore is the max of a variant's pathogenicity components,
// capped to [0,1].
func variantFilterScore(v *domain.VariantEvaluation) float64 {
	score := v.Pathogenicity.MostPathogenicScore()
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func homozygousInAffected(v *domain.VariantEvaluation, pedigree *domain.Pedigree) bool {
	if pedigree == nil {
		return false
	}
	for i, m := range pedigree.Members() {
		if !m.Affected {
			continue
		}
		a, b := v.GenotypeOf(i)
		if domain.IsHomAlt(a, b) {
			return true
		}
	}
	return false
}

// priorityScore is the product of every attached PriorityResult's score,
// 1.0 if the gene carries none.
func priorityScore(g *domain.Gene) float64 {
	score := 1.0
	for _, p := range g.Priorities {
		score *= p.Score
	}
	if score < 0 {
		score = 0
	}
	return score
}

func combinedScore(g *domain.Gene) float64 {
	return (g.PriorityScore + g.FilterScore) / 2
}
