package domain

import (
	"fmt"
	"math"
)

// ScoreUninitialized is the sentinel value for a score that has not yet
// been computed. Use HasScore to test for it rather than comparing floats
// directly, since NaN never compares equal to itself.
var ScoreUninitialized = math.NaN()

// HasScore reports whether s is a computed score rather than the
// uninitialized sentinel.
func HasScore(s float64) bool { return !math.IsNaN(s) }

// GenomicCoordinate locates a single-allele variant call.
type GenomicCoordinate struct {
	Chromosome  Chromosome
	Position    int64
	Ref         string
	Alt         string
	AltAlleleID int
}

func (g GenomicCoordinate) String() string {
	return fmt.Sprintf("%s:%d%s>%s", g.Chromosome, g.Position, g.Ref, g.Alt)
}

// FrequencyData is the population-frequency evidence for a variant,
// keyed by source database (e.g. "GNOMAD_EXOMES", "ESP", "1000G"). A nil
// *FrequencyData means no frequency evidence is available.
type FrequencyData struct {
	PerSource map[string]float64
}

// MaxFrequency returns the highest allele frequency reported by any
// source, or 0 if f is nil or carries no sources.
func (f *FrequencyData) MaxFrequency() float64 {
	if f == nil {
		return 0
	}
	max := 0.0
	for _, freq := range f.PerSource {
		if freq > max {
			max = freq
		}
	}
	return max
}

// PathogenicityData is computational pathogenicity evidence for a variant.
// Each score is nullable independently since not every predictor scores
// every variant. Scores are normalized to [0,1], with 1 most pathogenic.
type PathogenicityData struct {
	PolyPhen       *float64
	SIFT           *float64
	MutationTaster *float64
	CADD           *float64
}

// MostPathogenicScore returns the single highest normalized score among
// the predictors present, or 0 if none are set.
func (p *PathogenicityData) MostPathogenicScore() float64 {
	if p == nil {
		return 0
	}
	max := 0.0
	for _, s := range []*float64{p.PolyPhen, p.SIFT, p.MutationTaster, p.CADD} {
		if s != nil && *s > max {
			max = *s
		}
	}
	return max
}

// FilterResult records the outcome of applying one filter to one entity.
type FilterResult struct {
	Type FilterType
	Pass bool
}

// filterLedger is embedded in VariantEvaluation and Gene to track filter
// results in declaration order while also supporting O(1) lookups.
type filterLedger struct {
	ordered []FilterResult
	byType  map[FilterType]bool
}

func (l *filterLedger) record(t FilterType, pass bool) {
	if l.byType == nil {
		l.byType = make(map[FilterType]bool)
	}
	if _, seen := l.byType[t]; !seen {
		l.ordered = append(l.ordered, FilterResult{Type: t, Pass: pass})
	}
	l.byType[t] = pass
}

func (l *filterLedger) result(t FilterType) (bool, bool) {
	pass, ok := l.byType[t]
	return pass, ok
}

func (l *filterLedger) results() []FilterResult {
	out := make([]FilterResult, len(l.ordered))
	copy(out, l.ordered)
	return out
}

func (l *filterLedger) status() FilterStatus {
	if len(l.byType) == 0 {
		return StatusUnfiltered
	}
	for _, pass := range l.byType {
		if !pass {
			return StatusFailed
		}
	}
	return StatusPassed
}

// VariantEvaluation is a single annotated, filtered alt-allele call.
type VariantEvaluation struct {
	Coordinate     GenomicCoordinate
	Effect         VariantEffect
	GeneSymbol     string
	GeneID         string
	Genotypes      []GenotypeCall // one call per sample, pedigree order
	Frequency      *FrequencyData
	Pathogenicity  *PathogenicityData
	Quality        float64

	filters filterLedger
}

// RecordFilterResult appends (or, if already recorded, overwrites) the
// outcome of filter type t for this variant.
func (v *VariantEvaluation) RecordFilterResult(t FilterType, pass bool) {
	v.filters.record(t, pass)
}

// FilterResult reports the recorded outcome for filter type t, if any.
func (v *VariantEvaluation) FilterResult(t FilterType) (pass bool, recorded bool) {
	return v.filters.result(t)
}

// FilterResults returns every recorded filter result in declaration order.
func (v *VariantEvaluation) FilterResults() []FilterResult { return v.filters.results() }

// FilterStatus is StatusUnfiltered if no filter has run yet, StatusFailed
// if any recorded filter failed, and StatusPassed otherwise.
func (v *VariantEvaluation) FilterStatus() FilterStatus { return v.filters.status() }

// PassedFilters reports whether every filter applied so far passed. A
// variant with no filters applied is considered passed.
func (v *VariantEvaluation) PassedFilters() bool { return v.filters.status() != StatusFailed }

// IsX reports whether the variant lies on the X chromosome.
func (v *VariantEvaluation) IsX() bool { return v.Coordinate.Chromosome.IsX() }

// IsAutosome reports whether the variant lies on an autosome.
func (v *VariantEvaluation) IsAutosome() bool { return v.Coordinate.Chromosome.IsAutosome() }

// GenotypeOf returns the two allele calls for sample index idx, where
// idx*2 and idx*2+1 index into Genotypes. Genotypes is stored as a flat
// slice of per-sample call pairs to avoid an allocation per sample.
func (v *VariantEvaluation) GenotypeOf(idx int) (a, b GenotypeCall) {
	if 2*idx+1 >= len(v.Genotypes) {
		return CallNoCall, CallNoCall
	}
	return v.Genotypes[2*idx], v.Genotypes[2*idx+1]
}

// PriorityResult is the outcome of one prioritizer run against one gene.
type PriorityResult struct {
	Type      PriorityType
	Score     float64
	SubScores map[string]float64
}

// Gene aggregates every VariantEvaluation annotated to one gene symbol,
// together with the gene-level filter and prioritization results computed
// over the course of an analysis run.
type Gene struct {
	Symbol           string
	ID               string
	Variants         []*VariantEvaluation
	Priorities       map[PriorityType]PriorityResult
	PriorityScore    float64
	FilterScore      float64
	InheritanceModes map[InheritanceMode]bool

	// InheritanceSupport holds, per compatible mode, the variants the
	// inheritance engine found supporting that mode. The inheritance
	// filter uses this to mark individual member variants PASS/FAIL.
	InheritanceSupport map[InheritanceMode][]*VariantEvaluation

	geneFilters filterLedger
}

// NewGene constructs an empty Gene with uninitialized scores.
func NewGene(symbol, id string) *Gene {
	return &Gene{
		Symbol:              symbol,
		ID:                  id,
		Priorities:          make(map[PriorityType]PriorityResult),
		PriorityScore:       ScoreUninitialized,
		FilterScore:         ScoreUninitialized,
		InheritanceModes:    make(map[InheritanceMode]bool),
		InheritanceSupport:  make(map[InheritanceMode][]*VariantEvaluation),
	}
}

// HasPriorityScore reports whether PriorityScore has been computed.
func (g *Gene) HasPriorityScore() bool { return HasScore(g.PriorityScore) }

// HasFilterScore reports whether FilterScore has been computed.
func (g *Gene) HasFilterScore() bool { return HasScore(g.FilterScore) }

// RecordFilterResult appends the outcome of a gene-level filter.
func (g *Gene) RecordFilterResult(t FilterType, pass bool) { g.geneFilters.record(t, pass) }

// FilterResults returns every recorded gene-level filter result, in
// declaration order.
func (g *Gene) FilterResults() []FilterResult { return g.geneFilters.results() }

// PassedFilters reports whether the gene itself, and at least one variant
// assigned to it, passed every filter applied so far. A variant that has
// not yet been through any filter does not count: at least one member
// variant must carry an explicit PASSED status.
func (g *Gene) PassedFilters() bool {
	if g.geneFilters.status() == StatusFailed {
		return false
	}
	for _, v := range g.Variants {
		if v.FilterStatus() == StatusPassed {
			return true
		}
	}
	return false
}

// CompatibleWith reports whether mode has been marked compatible for this
// gene by the inheritance engine.
func (g *Gene) CompatibleWith(mode InheritanceMode) bool { return g.InheritanceModes[mode] }

// PassedVariants returns the variants assigned to this gene that passed
// every filter applied to them so far.
func (g *Gene) PassedVariants() []*VariantEvaluation {
	out := make([]*VariantEvaluation, 0, len(g.Variants))
	for _, v := range g.Variants {
		if v.PassedFilters() {
			out = append(out, v)
		}
	}
	return out
}

// Individual is one member of a Pedigree.
type Individual struct {
	ID       string
	Sex      Sex
	Affected bool
	FatherID string // empty if founder
	MotherID string // empty if founder
}

// Pedigree is an immutable family structure: a founder-validated set of
// Individuals in declaration order.
type Pedigree struct {
	members []Individual
	byID    map[string]*Individual
}

// NewPedigree validates that every non-empty FatherID/MotherID reference
// resolves to a member of members, and returns an immutable Pedigree.
func NewPedigree(members []Individual) (*Pedigree, error) {
	byID := make(map[string]*Individual, len(members))
	cp := make([]Individual, len(members))
	copy(cp, members)
	for i := range cp {
		byID[cp[i].ID] = &cp[i]
	}
	for _, m := range cp {
		if m.FatherID != "" {
			if _, ok := byID[m.FatherID]; !ok {
				return nil, fmt.Errorf("%w: individual %q references unknown father %q", ErrPedigreeIncompatible, m.ID, m.FatherID)
			}
		}
		if m.MotherID != "" {
			if _, ok := byID[m.MotherID]; !ok {
				return nil, fmt.Errorf("%w: individual %q references unknown mother %q", ErrPedigreeIncompatible, m.ID, m.MotherID)
			}
		}
	}
	return &Pedigree{members: cp, byID: byID}, nil
}

// Members returns the pedigree's individuals in declaration order. The
// slice returned is the pedigree's own backing array; callers must not
// mutate it.
func (p *Pedigree) Members() []Individual { return p.members }

// Size returns the number of individuals in the pedigree.
func (p *Pedigree) Size() int { return len(p.members) }

// ByID looks up an individual by ID.
func (p *Pedigree) ByID(id string) (Individual, bool) {
	ind, ok := p.byID[id]
	if !ok {
		return Individual{}, false
	}
	return *ind, true
}

// Affected returns the individuals marked affected, in declaration order.
func (p *Pedigree) Affected() []Individual {
	out := make([]Individual, 0, len(p.members))
	for _, m := range p.members {
		if m.Affected {
			out = append(out, m)
		}
	}
	return out
}

// IsSingleton reports whether the pedigree has exactly one member.
func (p *Pedigree) IsSingleton() bool { return len(p.members) == 1 }

// PhenotypeTerm is a single HPO-style phenotype identifier and label.
type PhenotypeTerm struct {
	ID    string
	Label string
}

// PhenotypeMatch is the outcome of aligning one query phenotype term
// against the phenotype annotated to a disease or model organism gene.
type PhenotypeMatch struct {
	Query   PhenotypeTerm
	Matched PhenotypeTerm
	LCA     PhenotypeTerm
	Score   float64
}

// Model is a disease or model-organism gene annotated with a set of
// phenotype terms, used as the comparison target for phenotype matching.
type Model struct {
	ID           string
	GeneSymbol   string
	Organism     string
	PhenotypeIDs []string
}

// TheoreticalModel is the best achievable self-match for a set of query
// phenotypes against one organism's term universe, used to normalize
// Phenodigm/Phenix scores into [0,1].
type TheoreticalModel struct {
	MaxMatchScore float64
	BestAvgScore  float64
}
