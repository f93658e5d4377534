package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreUninitializedNeverEqualsItself(t *testing.T) {
	require.False(t, HasScore(ScoreUninitialized))
	require.True(t, HasScore(0))
	require.True(t, HasScore(0.5))
}

func TestVariantEvaluationFilterStatusProgression(t *testing.T) {
	v := &VariantEvaluation{}
	require.Equal(t, StatusUnfiltered, v.FilterStatus())
	require.True(t, v.PassedFilters())

	v.RecordFilterResult(FilterQuality, true)
	require.Equal(t, StatusPassed, v.FilterStatus())
	require.True(t, v.PassedFilters())

	v.RecordFilterResult(FilterFrequency, false)
	require.Equal(t, StatusFailed, v.FilterStatus())
	require.False(t, v.PassedFilters())

	results := v.FilterResults()
	require.Len(t, results, 2)
	require.Equal(t, FilterQuality, results[0].Type)
	require.Equal(t, FilterFrequency, results[1].Type)
}

func TestVariantEvaluationGenotypeOfMissingSampleReturnsNoCall(t *testing.T) {
	v := &VariantEvaluation{Genotypes: []GenotypeCall{CallRef, CallAlt}}
	a, b := v.GenotypeOf(0)
	require.Equal(t, CallRef, a)
	require.Equal(t, CallAlt, b)

	a, b = v.GenotypeOf(1)
	require.Equal(t, CallNoCall, a)
	require.Equal(t, CallNoCall, b)
}

func TestGenePassedFiltersRequiresAtLeastOnePassingVariant(t *testing.T) {
	g := NewGene("RBM8A", "ENSG00000155438")
	require.False(t, g.PassedFilters())

	failing := &VariantEvaluation{}
	failing.RecordFilterResult(FilterQuality, false)
	g.Variants = append(g.Variants, failing)
	require.False(t, g.PassedFilters())

	passing := &VariantEvaluation{}
	passing.RecordFilterResult(FilterQuality, true)
	g.Variants = append(g.Variants, passing)
	require.True(t, g.PassedFilters())
	require.Len(t, g.PassedVariants(), 1)
}

func TestGenePassedFiltersFalseWhenNoVariantEverPassed(t *testing.T) {
	g := NewGene("RBM8A", "ENSG00000155438")
	g.Variants = append(g.Variants, &VariantEvaluation{}, &VariantEvaluation{})
	require.Equal(t, StatusUnfiltered, g.Variants[0].FilterStatus())
	require.False(t, g.PassedFilters())
}

func TestGeneFilterResultFailureOverridesPassingVariants(t *testing.T) {
	g := NewGene("RBM8A", "ENSG00000155438")
	passing := &VariantEvaluation{}
	passing.RecordFilterResult(FilterQuality, true)
	g.Variants = append(g.Variants, passing)
	require.True(t, g.PassedFilters())

	g.RecordFilterResult(FilterPriorityScore, false)
	require.False(t, g.PassedFilters())
}

func TestNewPedigreeRejectsUnknownParentReference(t *testing.T) {
	_, err := NewPedigree([]Individual{
		{ID: "child", FatherID: "ghost"},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPedigreeIncompatible))
}

func TestFrequencyDataMaxFrequencyNilSafe(t *testing.T) {
	var f *FrequencyData
	require.Equal(t, 0.0, f.MaxFrequency())

	f = &FrequencyData{PerSource: map[string]float64{"gnomad": 0.01, "esp": 0.03}}
	require.Equal(t, 0.03, f.MaxFrequency())
}

func TestPathogenicityDataMostPathogenicScoreNilSafe(t *testing.T) {
	var p *PathogenicityData
	require.Equal(t, 0.0, p.MostPathogenicScore())

	cadd := 0.9
	sift := 0.4
	p = &PathogenicityData{CADD: &cadd, SIFT: &sift}
	require.Equal(t, 0.9, p.MostPathogenicScore())
}
