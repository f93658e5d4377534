package filters_test

import (
	"testing"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/filters"
	"github.com/stretchr/testify/require"
)

func variantAt(chr domain.Chromosome, pos int64, quality float64) *domain.VariantEvaluation {
	return &domain.VariantEvaluation{
		Coordinate: domain.GenomicCoordinate{Chromosome: chr, Position: pos, Ref: "A", Alt: "G"},
		Quality:    quality,
		Effect:     domain.EffectMissense,
	}
}

func TestQualityFilterRejectsNegativeThreshold(t *testing.T) {
	_, err := filters.NewQualityFilter(-1)
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestScenarioS1TwoFiltersAllVariantsFail(t *testing.T) {
	rbm8aPassing := variantAt(1, 145508800, 1)
	rbm8aOther := variantAt(1, 145507800, 1)
	gnrhr2 := variantAt(2, 1000, 1)

	interval := filters.NewIntervalFilter([]domain.GenomicInterval{
		{Chromosome: 1, Start: 145508800, End: 145508800},
	})
	quality, err := filters.NewQualityFilter(9_999_999)
	require.NoError(t, err)

	all := []*domain.VariantEvaluation{rbm8aPassing, rbm8aOther, gnrhr2}
	for _, v := range all {
		interval.Apply(v)
		quality.Apply(v)
	}

	for _, v := range all {
		require.Len(t, v.FilterResults(), 2)
	}

	intervalPass, ok := rbm8aPassing.FilterResult(domain.FilterInterval)
	require.True(t, ok)
	require.True(t, intervalPass)
	qualityPass, ok := rbm8aPassing.FilterResult(domain.FilterQuality)
	require.True(t, ok)
	require.False(t, qualityPass)

	for _, v := range all {
		require.Equal(t, domain.StatusFailed, v.FilterStatus())
	}
}

func TestScenarioS2IntervalPassesOneVariant(t *testing.T) {
	rbm8aPassing := variantAt(1, 145508800, 1)
	rbm8aOther := variantAt(1, 145507800, 1)
	gnrhr2 := variantAt(2, 1000, 1)

	interval := filters.NewIntervalFilter([]domain.GenomicInterval{
		{Chromosome: 1, Start: 145508800, End: 145508800},
	})

	for _, v := range []*domain.VariantEvaluation{rbm8aPassing, rbm8aOther, gnrhr2} {
		interval.Apply(v)
	}

	require.True(t, rbm8aPassing.PassedFilters())
	require.False(t, rbm8aOther.PassedFilters())
	require.False(t, gnrhr2.PassedFilters())
}

func TestFrequencyFilterConstructorRejectsOutOfRangeThreshold(t *testing.T) {
	_, err := filters.NewFrequencyFilter(-0.1, false)
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	_, err = filters.NewFrequencyFilter(100.1, false)
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestFrequencyFilterNonStrictPassesNilFrequency(t *testing.T) {
	f, err := filters.NewFrequencyFilter(0, false)
	require.NoError(t, err)
	v := variantAt(1, 100, 1)
	require.True(t, f.Apply(v))
}

func TestFrequencyFilterStrictModeFailsEveryVariant(t *testing.T) {
	f, err := filters.NewFrequencyFilter(50, true)
	require.NoError(t, err)

	represented := variantAt(1, 100, 1)
	represented.Frequency = &domain.FrequencyData{PerSource: map[string]float64{"GNOMAD": 0.001}}
	require.False(t, f.Apply(represented))

	unrepresented := variantAt(1, 100, 1)
	require.False(t, f.Apply(unrepresented))
}

func TestPathogenicityFilterPassesNonMissenseDeleteriousRegardless(t *testing.T) {
	f, err := filters.NewPathogenicityFilter(0.9, true)
	require.NoError(t, err)
	v := variantAt(1, 100, 1)
	v.Effect = domain.EffectStopGained
	require.True(t, f.Apply(v))
}

func TestFilterDeterminism(t *testing.T) {
	f, err := filters.NewQualityFilter(10)
	require.NoError(t, err)
	v := variantAt(1, 5, 5)
	first := f.Apply(v)
	second := f.Apply(v)
	require.Equal(t, first, second)
	require.Len(t, v.FilterResults(), 1)
}

func TestInheritanceFilterMarksSupportingVariants(t *testing.T) {
	supported := variantAt(1, 100, 1)
	unsupported := variantAt(1, 200, 1)
	gene := domain.NewGene("RBM8A", "HGNC:1")
	gene.Variants = []*domain.VariantEvaluation{supported, unsupported}
	gene.InheritanceModes[domain.AutosomalDominant] = true
	gene.InheritanceSupport[domain.AutosomalDominant] = []*domain.VariantEvaluation{supported}

	f := filters.NewInheritanceFilter([]domain.InheritanceMode{domain.AutosomalDominant})
	pass := f.Apply(gene)
	require.True(t, pass)

	p, ok := supported.FilterResult(domain.FilterInheritance)
	require.True(t, ok)
	require.True(t, p)

	p, ok = unsupported.FilterResult(domain.FilterInheritance)
	require.True(t, ok)
	require.False(t, p)
}
