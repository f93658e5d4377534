// Package phenotype implements the Phenodigm/Phenix semantic-similarity
// scoring used by the phenotype-driven prioritizers.
package phenotype

import (
	"math"

	"github.com/genopri/analysis-engine/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// PhenodigmScorer computes a cross-species-normalized phenotype semantic
// similarity score from a query phenotype set and a best-match table.
type PhenodigmScorer struct{}

// NewPhenodigmScorer constructs a stateless PhenodigmScorer.
func NewPhenodigmScorer() *PhenodigmScorer { return &PhenodigmScorer{} }

// Score computes the Phenodigm score of a query phenotype set against one
// candidate model, given the best-match table produced by an
// domain.OrganismMatcher and the theoretical-best model for that organism.
func (s *PhenodigmScorer) Score(query []domain.PhenotypeTerm, matches []domain.PhenotypeMatch, theoretical domain.TheoreticalModel) float64 {
	return s.ScoreWithTheoreticalAvg(query, matches, theoretical.MaxMatchScore, theoretical.BestAvgScore)
}

// ScoreWithTheoreticalAvg is Score with the theoretical max-match and
// best-average scores supplied independently; the final combination
// normalizes against both denominators separately before averaging.
func (s *PhenodigmScorer) ScoreWithTheoreticalAvg(query []domain.PhenotypeTerm, matches []domain.PhenotypeMatch, theoreticalMaxMatchScore, theoreticalBestAvgScore float64) float64 {
	if len(query) == 0 {
		return 0
	}

	// Step 1: best match score per query term.
	perQueryBest := make(map[string]float64, len(query))
	for _, q := range query {
		perQueryBest[q.ID] = 0
	}
	matchedModelTerms := make(map[string]bool)
	for _, m := range matches {
		if m.Score > perQueryBest[m.Query.ID] {
			perQueryBest[m.Query.ID] = m.Score
		}
		if m.Score > 0 {
			matchedModelTerms[m.Matched.ID] = true
		}
	}

	scores := make([]float64, 0, len(query))
	for _, q := range query {
		scores = append(scores, perQueryBest[q.ID])
	}

	// Step 2.
	maxModelMatchScore := floats.Max(scores)
	sumModelBestMatchScores := 0.0
	for _, sc := range scores {
		if sc > 0 {
			sumModelBestMatchScores += sc
		}
	}
	numMatchingPhenotypesForModel := len(matchedModelTerms)

	// Step 3.
	totalPhenotypesWithMatch := len(query) + numMatchingPhenotypesForModel

	// Step 4.
	if sumModelBestMatchScores == 0 {
		return 0
	}

	// Step 5.
	modelBestAvgScore := sumModelBestMatchScores / float64(totalPhenotypesWithMatch)

	// Step 6.
	combined := 50 * (maxModelMatchScore/theoreticalMaxMatchScore + modelBestAvgScore/theoreticalBestAvgScore)

	// Step 7.
	if combined > 100 {
		combined = 100
	}
	return combined / 100
}

// PhenixScorer wraps a PhenodigmScorer with a per-instance normalization
// factor and a p-value transform. Unlike the legacy implementation this
// scorer carries normalizationFactor as explicit instance state rather
// than process-wide global state, set once at construction.
type PhenixScorer struct {
	base                *PhenodigmScorer
	normalizationFactor float64
	empiricalCDF        func(score float64) float64
}

// NewPhenixScorer constructs a PhenixScorer. normalizationFactor rescales
// raw semantic scores across ontology versions; empiricalCDF supplies the
// Phenomizer-style empirical p-value for NegLogP and may be nil if the
// caller never calls NegLogP.
func NewPhenixScorer(normalizationFactor float64, empiricalCDF func(score float64) float64) *PhenixScorer {
	return &PhenixScorer{
		base:                NewPhenodigmScorer(),
		normalizationFactor: normalizationFactor,
		empiricalCDF:        empiricalCDF,
	}
}

// NormalizationFactor returns the scorer's configured rescaling factor.
func (s *PhenixScorer) NormalizationFactor() float64 { return s.normalizationFactor }

// Score returns hpoSemSimScore × normalizationFactor, where hpoSemSimScore
// is the underlying Phenodigm score; with normalizationFactor=1 this equals
// the raw semantic score.
func (s *PhenixScorer) Score(query []domain.PhenotypeTerm, matches []domain.PhenotypeMatch, theoretical domain.TheoreticalModel) float64 {
	return s.base.Score(query, matches, theoretical) * s.normalizationFactor
}

// NegLogP returns the negative natural logarithm of the empirical p-value
// for a raw semantic-similarity score.
func (s *PhenixScorer) NegLogP(hpoSemSimScore float64) float64 {
	if s.empiricalCDF == nil {
		return 0
	}
	p := s.empiricalCDF(hpoSemSimScore)
	if p <= 0 {
		p = 1e-300
	}
	return -math.Log(p)
}
