// Package analysis schedules and executes an ordered sequence of filter and
// prioritizer steps over a batch of variants, grouping them into genes and
// running the inheritance compatibility engine before the inheritance filter.
package analysis

import (
	"github.com/genopri/analysis-engine/internal/domain"
)

// StepKind distinguishes what a Step wraps.
type StepKind int

const (
	StepVariantFilter StepKind = iota
	StepGeneFilter
	StepPrioritizer
)

// Step is one scheduled unit of work: exactly one of VariantFilter,
// GeneFilter, or Prioritizer is set, matching Kind. Mode records the
// inheritance mode the step was declared under; the runners do not read
// it (the inheritance filter and OMIM prioritizer carry their own modes).
type Step struct {
	Kind          StepKind
	VariantFilter domain.VariantFilter
	GeneFilter    domain.GeneFilter
	Prioritizer   domain.Prioritizer
	Mode          domain.InheritanceMode
}

// NewVariantFilterStep wraps a variant-level filter as a Step.
func NewVariantFilterStep(f domain.VariantFilter) Step {
	return Step{Kind: StepVariantFilter, VariantFilter: f}
}

// NewGeneFilterStep wraps a gene-level filter as a Step.
func NewGeneFilterStep(f domain.GeneFilter) Step {
	return Step{Kind: StepGeneFilter, GeneFilter: f}
}

// NewInheritanceFilterStep wraps a gene-level filter as a Step scheduled
// under the given mode of inheritance; the runner always moves inheritance
// filter steps to the end of the schedule.
func NewInheritanceFilterStep(f domain.GeneFilter, mode domain.InheritanceMode) Step {
	return Step{Kind: StepGeneFilter, GeneFilter: f, Mode: mode}
}

// NewPrioritizerStep wraps a prioritizer as a Step.
func NewPrioritizerStep(p domain.Prioritizer) Step {
	return Step{Kind: StepPrioritizer, Prioritizer: p}
}

func (s Step) isInheritanceFilter() bool {
	return s.Kind == StepGeneFilter && s.GeneFilter != nil && s.GeneFilter.FilterType() == domain.FilterInheritance
}

func (s Step) filterType() (domain.FilterType, bool) {
	switch s.Kind {
	case StepVariantFilter:
		return s.VariantFilter.FilterType(), true
	case StepGeneFilter:
		return s.GeneFilter.FilterType(), true
	default:
		return "", false
	}
}

// Analysis is an ordered sequence of steps, plus the pedigree and
// per-mode frequency ceilings the inheritance engine needs.
type Analysis struct {
	Steps     []Step
	Pedigree  *domain.Pedigree
	Ceilings  map[domain.InheritanceMode]float64
}

// NewAnalysis constructs an Analysis over the given step sequence.
func NewAnalysis(steps []Step, pedigree *domain.Pedigree, ceilings map[domain.InheritanceMode]float64) *Analysis {
	return &Analysis{Steps: steps, Pedigree: pedigree, Ceilings: ceilings}
}
