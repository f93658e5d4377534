package phenotype_test

import (
	"testing"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/phenotype"
	"github.com/stretchr/testify/require"
)

func TestScenarioS5PhenodigmScoring(t *testing.T) {
	hpA := domain.PhenotypeTerm{ID: "HP:A"}
	hpB := domain.PhenotypeTerm{ID: "HP:B"}
	t1 := domain.PhenotypeTerm{ID: "T1"}
	t2 := domain.PhenotypeTerm{ID: "T2"}

	matches := []domain.PhenotypeMatch{
		{Query: hpA, Matched: t1, Score: 2.0},
		{Query: hpB, Matched: t2, Score: 3.0},
		{Query: hpA, Matched: t2, Score: 1.0},
	}

	theoretical := domain.TheoreticalModel{MaxMatchScore: 4.0, BestAvgScore: 3.5}

	scorer := phenotype.NewPhenodigmScorer()
	score := scorer.Score([]domain.PhenotypeTerm{hpA, hpB}, matches, theoretical)

	require.InDelta(t, 0.5536, score, 1e-4)
}

func TestPhenodigmScoreIsZeroOnlyWithoutAnyMatch(t *testing.T) {
	query := []domain.PhenotypeTerm{{ID: "HP:A"}}
	theoretical := domain.TheoreticalModel{MaxMatchScore: 1, BestAvgScore: 1}
	scorer := phenotype.NewPhenodigmScorer()

	require.Zero(t, scorer.Score(query, nil, theoretical))

	matches := []domain.PhenotypeMatch{{Query: query[0], Matched: domain.PhenotypeTerm{ID: "T1"}, Score: 1}}
	require.Greater(t, scorer.Score(query, matches, theoretical), 0.0)
}

func TestPhenodigmScoreBoundedToUnitInterval(t *testing.T) {
	query := []domain.PhenotypeTerm{{ID: "HP:A"}}
	theoretical := domain.TheoreticalModel{MaxMatchScore: 1, BestAvgScore: 1}
	matches := []domain.PhenotypeMatch{{Query: query[0], Matched: domain.PhenotypeTerm{ID: "T1"}, Score: 100}}

	scorer := phenotype.NewPhenodigmScorer()
	score := scorer.Score(query, matches, theoretical)

	require.LessOrEqual(t, score, 1.0)
	require.GreaterOrEqual(t, score, 0.0)
}

func TestPhenixScorerAppliesNormalizationFactor(t *testing.T) {
	query := []domain.PhenotypeTerm{{ID: "HP:A"}}
	theoretical := domain.TheoreticalModel{MaxMatchScore: 1, BestAvgScore: 1}
	matches := []domain.PhenotypeMatch{{Query: query[0], Matched: domain.PhenotypeTerm{ID: "T1"}, Score: 1}}

	unit := phenotype.NewPhenixScorer(1.0, nil)
	scaled := phenotype.NewPhenixScorer(2.0, nil)

	unitScore := unit.Score(query, matches, theoretical)
	scaledScore := scaled.Score(query, matches, theoretical)

	require.InDelta(t, unitScore*2, scaledScore, 1e-9)
}

func TestPhenixScorersAreIndependentInstances(t *testing.T) {
	a := phenotype.NewPhenixScorer(1.0, nil)
	b := phenotype.NewPhenixScorer(3.0, nil)

	require.NotEqual(t, a.NormalizationFactor(), b.NormalizationFactor())
}
