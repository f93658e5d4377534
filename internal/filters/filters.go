// Package filters implements the variant- and gene-level Filter Framework:
// a closed set of pure, deterministic, idempotent pass/fail predicates that
// record their outcome on the entity they evaluate regardless of result.
package filters

import (
	"fmt"

	"github.com/genopri/analysis-engine/internal/domain"
)

// QualityFilter passes a variant whose Quality meets or exceeds Threshold.
type QualityFilter struct {
	Threshold float64
}

// NewQualityFilter constructs a QualityFilter, rejecting a negative
// threshold with domain.ErrInvalidConfiguration.
func NewQualityFilter(threshold float64) (*QualityFilter, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: quality threshold must be >= 0, got %v", domain.ErrInvalidConfiguration, threshold)
	}
	return &QualityFilter{Threshold: threshold}, nil
}

func (f *QualityFilter) FilterType() domain.FilterType { return domain.FilterQuality }

func (f *QualityFilter) Equals(other domain.VariantFilter) bool {
	o, ok := other.(*QualityFilter)
	return ok && o.Threshold == f.Threshold
}

func (f *QualityFilter) Apply(v *domain.VariantEvaluation) bool {
	pass := v.Quality >= f.Threshold
	v.RecordFilterResult(domain.FilterQuality, pass)
	return pass
}

// IntervalFilter passes a variant whose coordinate falls within any of its
// configured intervals, inclusive of both endpoints.
type IntervalFilter struct {
	Intervals []domain.GenomicInterval
}

// NewIntervalFilter constructs an IntervalFilter over the given intervals.
func NewIntervalFilter(intervals []domain.GenomicInterval) *IntervalFilter {
	return &IntervalFilter{Intervals: intervals}
}

func (f *IntervalFilter) FilterType() domain.FilterType { return domain.FilterInterval }

func (f *IntervalFilter) Equals(other domain.VariantFilter) bool {
	o, ok := other.(*IntervalFilter)
	if !ok || len(o.Intervals) != len(f.Intervals) {
		return false
	}
	for i := range f.Intervals {
		if f.Intervals[i] != o.Intervals[i] {
			return false
		}
	}
	return true
}

func (f *IntervalFilter) Apply(v *domain.VariantEvaluation) bool {
	pass := false
	for _, iv := range f.Intervals {
		if iv.Contains(v.Coordinate) {
			pass = true
			break
		}
	}
	v.RecordFilterResult(domain.FilterInterval, pass)
	return pass
}

// FrequencyFilter passes a variant whose maximum reported population
// frequency is at or below MaxFreq. When FailIfRepresented is set, every
// variant fails, whether or not it carries a frequency record.
type FrequencyFilter struct {
	MaxFreq           float64
	FailIfRepresented bool
}

// NewFrequencyFilter validates maxFreq ∈ [0,100] before constructing the
// filter.
func NewFrequencyFilter(maxFreq float64, failIfRepresented bool) (*FrequencyFilter, error) {
	if maxFreq < 0 || maxFreq > 100 {
		return nil, fmt.Errorf("%w: frequency threshold must be in [0,100], got %v", domain.ErrInvalidConfiguration, maxFreq)
	}
	return &FrequencyFilter{MaxFreq: maxFreq, FailIfRepresented: failIfRepresented}, nil
}

func (f *FrequencyFilter) FilterType() domain.FilterType { return domain.FilterFrequency }

func (f *FrequencyFilter) Equals(other domain.VariantFilter) bool {
	o, ok := other.(*FrequencyFilter)
	return ok && o.MaxFreq == f.MaxFreq && o.FailIfRepresented == f.FailIfRepresented
}

// Apply passes v iff FailIfRepresented is unset and either v has no
// frequency record or maxFreq(v) ≤ MaxFreq. A null frequency object also
// FAILS in strict mode, so FailIfRepresented is effectively a blanket-fail mode:
// it exists to make "definitively novel" unsatisfiable by a frequency
// lookup alone, not to threshold-gate known variants.
func (f *FrequencyFilter) Apply(v *domain.VariantEvaluation) bool {
	var pass bool
	switch {
	case f.FailIfRepresented:
		pass = false
	case v.Frequency == nil:
		pass = true
	default:
		pass = v.Frequency.MaxFrequency() <= f.MaxFreq
	}
	v.RecordFilterResult(domain.FilterFrequency, pass)
	return pass
}

// PathogenicityFilter passes missense-equivalent variants whose best
// computational score meets Threshold, always passes non-missense
// deleterious effects, and, when StrictBenign is set, fails effects
// presumed benign absent other evidence.
type PathogenicityFilter struct {
	Threshold    float64
	StrictBenign bool
}

// NewPathogenicityFilter validates threshold ∈ [0,1].
func NewPathogenicityFilter(threshold float64, strictBenign bool) (*PathogenicityFilter, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: pathogenicity threshold must be in [0,1], got %v", domain.ErrInvalidConfiguration, threshold)
	}
	return &PathogenicityFilter{Threshold: threshold, StrictBenign: strictBenign}, nil
}

func (f *PathogenicityFilter) FilterType() domain.FilterType { return domain.FilterPathogenicity }

func (f *PathogenicityFilter) Equals(other domain.VariantFilter) bool {
	o, ok := other.(*PathogenicityFilter)
	return ok && o.Threshold == f.Threshold && o.StrictBenign == f.StrictBenign
}

func (f *PathogenicityFilter) Apply(v *domain.VariantEvaluation) bool {
	var pass bool
	switch {
	case v.Effect.IsMissenseEquivalent():
		pass = v.Pathogenicity.MostPathogenicScore() >= f.Threshold
	case v.Effect.IsNonMissenseDeleterious():
		pass = true
	case v.Effect.IsBenignEffect():
		pass = !f.StrictBenign
	default:
		pass = v.Pathogenicity.MostPathogenicScore() >= f.Threshold
	}
	v.RecordFilterResult(domain.FilterPathogenicity, pass)
	return pass
}

// PriorityScoreFilter is a gene-level filter that passes a gene carrying a
// PriorityResult of Type with Score at or above Threshold.
type PriorityScoreFilter struct {
	Type      domain.PriorityType
	Threshold float64
}

// NewPriorityScoreFilter validates threshold ∈ [0,1].
func NewPriorityScoreFilter(priorityType domain.PriorityType, threshold float64) (*PriorityScoreFilter, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: priority score threshold must be in [0,1], got %v", domain.ErrInvalidConfiguration, threshold)
	}
	return &PriorityScoreFilter{Type: priorityType, Threshold: threshold}, nil
}

func (f *PriorityScoreFilter) FilterType() domain.FilterType { return domain.FilterPriorityScore }

func (f *PriorityScoreFilter) Equals(other domain.GeneFilter) bool {
	o, ok := other.(*PriorityScoreFilter)
	return ok && o.Type == f.Type && o.Threshold == f.Threshold
}

func (f *PriorityScoreFilter) Apply(g *domain.Gene) bool {
	result, ok := g.Priorities[f.Type]
	pass := ok && result.Score >= f.Threshold
	g.RecordFilterResult(domain.FilterPriorityScore, pass)
	return pass
}

// InheritanceFilter is a gene-level filter that passes a gene whose
// compatible inheritance modes intersect TargetModes, and marks each
// member variant PASS/FAIL on whether it supports one of those modes.
type InheritanceFilter struct {
	TargetModes []domain.InheritanceMode
}

// NewInheritanceFilter constructs an InheritanceFilter targeting modes.
func NewInheritanceFilter(modes []domain.InheritanceMode) *InheritanceFilter {
	return &InheritanceFilter{TargetModes: modes}
}

func (f *InheritanceFilter) FilterType() domain.FilterType { return domain.FilterInheritance }

func (f *InheritanceFilter) Equals(other domain.GeneFilter) bool {
	o, ok := other.(*InheritanceFilter)
	if !ok || len(o.TargetModes) != len(f.TargetModes) {
		return false
	}
	for i := range f.TargetModes {
		if f.TargetModes[i] != o.TargetModes[i] {
			return false
		}
	}
	return true
}

func (f *InheritanceFilter) Apply(g *domain.Gene) bool {
	supporting := make(map[*domain.VariantEvaluation]bool)
	pass := false
	for _, mode := range f.TargetModes {
		if !g.InheritanceModes[mode] {
			continue
		}
		pass = true
		for _, v := range g.InheritanceSupport[mode] {
			supporting[v] = true
		}
	}
	for _, v := range g.Variants {
		v.RecordFilterResult(domain.FilterInheritance, supporting[v])
	}
	g.RecordFilterResult(domain.FilterInheritance, pass)
	return pass
}
