package analysis_test

import (
	"context"
	"testing"

	"github.com/genopri/analysis-engine/internal/analysis"
	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/filters"
	"github.com/genopri/analysis-engine/internal/prioritization"
	"github.com/stretchr/testify/require"
)

func gnomadVariant(gene, geneID string, chr domain.Chromosome, pos int64, quality float64) *domain.VariantEvaluation {
	return &domain.VariantEvaluation{
		Coordinate: domain.GenomicCoordinate{Chromosome: chr, Position: pos, Ref: "A", Alt: "G"},
		Quality:    quality,
		Effect:     domain.EffectMissense,
		GeneSymbol: gene,
		GeneID:     geneID,
		Genotypes:  []domain.GenotypeCall{domain.CallAlt, domain.CallAlt},
	}
}

func TestSimpleRunnerGroupsByGeneAndDropsUnknown(t *testing.T) {
	quality, err := filters.NewQualityFilter(0)
	require.NoError(t, err)

	v1 := gnomadVariant("RBM8A", "HGNC:1", 1, 100, 10)
	v2 := gnomadVariant("", domain.UnknownGeneID, 2, 200, 10)

	pedigree, err := domain.NewPedigree([]domain.Individual{{ID: "proband", Affected: true}})
	require.NoError(t, err)

	a := analysis.NewAnalysis([]analysis.Step{
		analysis.NewVariantFilterStep(quality),
		analysis.NewGeneFilterStep(mustPriorityFilter(t)),
	}, pedigree, nil)

	runner := analysis.NewSimpleRunner(4, nil)
	mock := prioritization.NewMockPrioritizer(domain.PriorityMock, map[string]float64{"RBM8A": 1.0})
	a.Steps = append([]analysis.Step{analysis.NewPrioritizerStep(mock)}, a.Steps...)

	genes, err := runner.Run(context.Background(), a, []*domain.VariantEvaluation{v1, v2})
	require.NoError(t, err)
	require.Len(t, genes, 1)
	require.Equal(t, "RBM8A", genes[0].Symbol)
}

func mustPriorityFilter(t *testing.T) domain.GeneFilter {
	t.Helper()
	f, err := filters.NewPriorityScoreFilter(domain.PriorityMock, 0.5)
	require.NoError(t, err)
	return f
}

func TestValidateRejectsPriorityFilterWithoutPrecedingPrioritizer(t *testing.T) {
	f, err := filters.NewPriorityScoreFilter(domain.PriorityMock, 0.5)
	require.NoError(t, err)

	a := analysis.NewAnalysis([]analysis.Step{
		analysis.NewGeneFilterStep(f),
	}, nil, nil)

	runner := analysis.NewSimpleRunner(2, nil)
	_, err = runner.Run(context.Background(), a, []*domain.VariantEvaluation{
		gnomadVariant("RBM8A", "HGNC:1", 1, 100, 10),
	})
	require.ErrorIs(t, err, domain.ErrStepDependencyUnsatisfied)
}

func TestStreamingRunnerDropsFailedVariantsBeforeLaterSteps(t *testing.T) {
	strict, err := filters.NewQualityFilter(100)
	require.NoError(t, err)
	lenient, err := filters.NewQualityFilter(0)
	require.NoError(t, err)

	lowQuality := gnomadVariant("RBM8A", "HGNC:1", 1, 100, 1)

	a := analysis.NewAnalysis([]analysis.Step{
		analysis.NewVariantFilterStep(strict),
		analysis.NewVariantFilterStep(lenient),
	}, nil, nil)

	runner := analysis.NewStreamingRunner(2, nil)
	genes, err := runner.Run(context.Background(), a, []*domain.VariantEvaluation{lowQuality})
	require.NoError(t, err)
	require.Empty(t, genes)

	results := lowQuality.FilterResults()
	require.Len(t, results, 1)
	require.Equal(t, domain.FilterQuality, results[0].Type)
	require.False(t, results[0].Pass)
}

func TestInheritanceFilterScheduledLastRegardlessOfDeclarationOrder(t *testing.T) {
	inheritanceFilter := filters.NewInheritanceFilter([]domain.InheritanceMode{domain.AutosomalRecessive})
	mock := prioritization.NewMockPrioritizer(domain.PriorityMock, map[string]float64{"RBM8A": 1.0})
	priorityFilter := mustPriorityFilter(t)

	pedigree, err := domain.NewPedigree([]domain.Individual{{ID: "proband", Affected: true}})
	require.NoError(t, err)
	v1 := gnomadVariant("RBM8A", "HGNC:1", 1, 100, 10)

	a := analysis.NewAnalysis([]analysis.Step{
		analysis.NewInheritanceFilterStep(inheritanceFilter, domain.AutosomalRecessive),
		analysis.NewPrioritizerStep(mock),
		analysis.NewGeneFilterStep(priorityFilter),
	}, pedigree, map[domain.InheritanceMode]float64{domain.AutosomalRecessive: 1.0})

	runner := analysis.NewSimpleRunner(2, nil)
	genes, err := runner.Run(context.Background(), a, []*domain.VariantEvaluation{v1})
	require.NoError(t, err)
	require.Len(t, genes, 1)
	require.True(t, genes[0].InheritanceModes[domain.AutosomalRecessive])
}
