package inheritance

import (
	"errors"
	"testing"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func trio() *domain.Pedigree {
	members := []domain.Individual{
		{ID: "father", Sex: domain.Male, Affected: false},
		{ID: "mother", Sex: domain.Female, Affected: false},
		{ID: "child", Sex: domain.Male, Affected: true, FatherID: "father", MotherID: "mother"},
	}
	p, err := domain.NewPedigree(members)
	if err != nil {
		panic(err)
	}
	return p
}

func variant(chr domain.Chromosome, genotypes ...domain.GenotypeCall) *domain.VariantEvaluation {
	return &domain.VariantEvaluation{
		Coordinate: domain.GenomicCoordinate{Chromosome: chr, Position: 100, Ref: "A", Alt: "G"},
		Genotypes:  genotypes,
		Frequency:  &domain.FrequencyData{PerSource: map[string]float64{"gnomad": 0.0001}},
	}
}

func TestScenarioS4AutosomalRecessiveHomAltInAffectedChild(t *testing.T) {
	engine := NewEngine(logrus.StandardLogger())
	v := variant(1,
		domain.CallRef, domain.CallAlt, // father: het carrier
		domain.CallRef, domain.CallAlt, // mother: het carrier
		domain.CallAlt, domain.CallAlt, // child: hom alt, affected
	)

	result, err := engine.Compute(trio(), []*domain.VariantEvaluation{v}, nil)
	require.NoError(t, err)
	require.True(t, result.Compatible[domain.AutosomalRecessiveHomAlt])
	require.True(t, result.Compatible[domain.AutosomalRecessive])
	require.False(t, result.Compatible[domain.AutosomalDominant])
}

func TestAutosomalRecessiveSymmetryWithCompHet(t *testing.T) {
	engine := NewEngine(logrus.StandardLogger())
	v1 := variant(1,
		domain.CallRef, domain.CallAlt, // father het at v1
		domain.CallRef, domain.CallRef, // mother hom ref at v1
		domain.CallRef, domain.CallAlt, // child het at v1
	)
	v2 := variant(1,
		domain.CallRef, domain.CallRef, // father hom ref at v2
		domain.CallRef, domain.CallAlt, // mother het at v2
		domain.CallRef, domain.CallAlt, // child het at v2
	)

	result, err := engine.Compute(trio(), []*domain.VariantEvaluation{v1, v2}, nil)
	require.NoError(t, err)
	require.True(t, result.Compatible[domain.AutosomalRecessiveCompHet])
	require.True(t, result.Compatible[domain.AutosomalRecessive])
	require.ElementsMatch(t, result.Support[domain.AutosomalRecessiveCompHet], []*domain.VariantEvaluation{v1, v2})
}

func TestMismatchedGenotypeCountReturnsPedigreeIncompatible(t *testing.T) {
	engine := NewEngine(logrus.StandardLogger())
	v := variant(1, domain.CallRef, domain.CallAlt) // only one sample's worth of calls for a trio

	result, err := engine.Compute(trio(), []*domain.VariantEvaluation{v}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrPedigreeIncompatible))
	require.Empty(t, result.Compatible)
}

func TestFrequencyCeilingExcludesVariantFromMode(t *testing.T) {
	engine := NewEngine(logrus.StandardLogger())
	v := variant(1,
		domain.CallRef, domain.CallRef, // father hom ref
		domain.CallRef, domain.CallRef, // mother hom ref
		domain.CallRef, domain.CallAlt, // child het: AD-compatible without a ceiling
	)
	v.Frequency = &domain.FrequencyData{PerSource: map[string]float64{"gnomad": 0.05}}

	ceilings := map[domain.InheritanceMode]float64{domain.AutosomalDominant: 0.01}
	result, err := engine.Compute(trio(), []*domain.VariantEvaluation{v}, ceilings)
	require.NoError(t, err)
	require.False(t, result.Compatible[domain.AutosomalDominant])
}

func TestAnyInheritanceAlwaysCompatible(t *testing.T) {
	engine := NewEngine(logrus.StandardLogger())
	result, err := engine.Compute(trio(), nil, nil)
	require.NoError(t, err)
	require.True(t, result.Compatible[domain.AnyInheritance])
}
