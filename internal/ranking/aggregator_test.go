package ranking_test

import (
	"testing"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/ranking"
	"github.com/stretchr/testify/require"
)

func pathogenicVariant(geneSymbol string, cadd float64, genotypes ...domain.GenotypeCall) *domain.VariantEvaluation {
	score := cadd
	v := &domain.VariantEvaluation{
		GeneSymbol:    geneSymbol,
		Pathogenicity: &domain.PathogenicityData{CADD: &score},
		Genotypes:     genotypes,
	}
	v.RecordFilterResult(domain.FilterQuality, true)
	return v
}

func TestScenarioS6DownWeightsGeneWithManyVariants(t *testing.T) {
	cfg := ranking.DefaultConfig()
	agg := ranking.NewAggregator(cfg)

	many := domain.NewGene("MANYVAR", "HGNC:99")
	for i := 0; i < 7; i++ {
		many.Variants = append(many.Variants, pathogenicVariant("MANYVAR", 0.9))
	}
	many.Priorities[domain.PriorityMock] = domain.PriorityResult{Type: domain.PriorityMock, Score: 1.0}

	few := domain.NewGene("FEWVAR", "HGNC:1")
	few.Variants = append(few.Variants, pathogenicVariant("FEWVAR", 0.9))
	few.Priorities[domain.PriorityMock] = domain.PriorityResult{Type: domain.PriorityMock, Score: 1.0}

	ranked := agg.Rank([]*domain.Gene{many, few}, nil, domain.AutosomalDominant)

	require.Less(t, many.FilterScore, 0.9)
	require.Equal(t, 0.9, few.FilterScore)
	require.Equal(t, "FEWVAR", ranked[0].Symbol)
}

func TestRankBreaksTiesByGeneSymbolAscending(t *testing.T) {
	agg := ranking.NewAggregator(ranking.DefaultConfig())

	zed := domain.NewGene("ZED", "HGNC:2")
	zed.Variants = append(zed.Variants, pathogenicVariant("ZED", 0.5))
	alpha := domain.NewGene("ALPHA", "HGNC:1")
	alpha.Variants = append(alpha.Variants, pathogenicVariant("ALPHA", 0.5))

	ranked := agg.Rank([]*domain.Gene{zed, alpha}, nil, domain.AutosomalDominant)

	require.Equal(t, "ALPHA", ranked[0].Symbol)
	require.Equal(t, "ZED", ranked[1].Symbol)
}

func TestAutosomalRecessiveFilterScoreRequiresTwoEntries(t *testing.T) {
	agg := ranking.NewAggregator(ranking.DefaultConfig())

	gene := domain.NewGene("RBM8A", "HGNC:1")
	gene.Variants = append(gene.Variants, pathogenicVariant("RBM8A", 0.8, domain.CallRef, domain.CallAlt))

	pedigree, err := domain.NewPedigree([]domain.Individual{{ID: "proband", Affected: true}})
	require.NoError(t, err)

	ranked := agg.Rank([]*domain.Gene{gene}, pedigree, domain.AutosomalRecessive)
	require.Equal(t, 0.0, ranked[0].FilterScore)
}

func TestAutosomalRecessiveDuplicatesHomozygousAffectedVariant(t *testing.T) {
	agg := ranking.NewAggregator(ranking.DefaultConfig())

	gene := domain.NewGene("RBM8A", "HGNC:1")
	gene.Variants = append(gene.Variants, pathogenicVariant("RBM8A", 0.8, domain.CallAlt, domain.CallAlt))

	pedigree, err := domain.NewPedigree([]domain.Individual{{ID: "proband", Affected: true}})
	require.NoError(t, err)

	ranked := agg.Rank([]*domain.Gene{gene}, pedigree, domain.AutosomalRecessive)
	require.InDelta(t, 0.8, ranked[0].FilterScore, 1e-9)
}

func TestAutosomalRecessiveDownWeightsGeneWithManyVariants(t *testing.T) {
	agg := ranking.NewAggregator(ranking.DefaultConfig())

	gene := domain.NewGene("MANYVAR", "HGNC:99")
	for i := 0; i < 7; i++ {
		gene.Variants = append(gene.Variants, pathogenicVariant("MANYVAR", 0.9, domain.CallAlt, domain.CallAlt))
	}

	pedigree, err := domain.NewPedigree([]domain.Individual{{ID: "proband", Affected: true}})
	require.NoError(t, err)

	ranked := agg.Rank([]*domain.Gene{gene}, pedigree, domain.AutosomalRecessive)
	require.Less(t, ranked[0].FilterScore, 0.9)
}
