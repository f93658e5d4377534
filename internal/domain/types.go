// Package domain contains the core entities of the variant-prioritization
// analysis pipeline: annotated variants, genes, pedigrees, and the
// phenotype vocabulary consumed by the prioritizers.
package domain

import (
	"fmt"
	"strings"
)

// Chromosome is a 1-based chromosome index. 1..22 are autosomes, 23 is X,
// 24 is Y, 25 is MT.
type Chromosome int

const (
	ChromosomeX  Chromosome = 23
	ChromosomeY  Chromosome = 24
	ChromosomeMT Chromosome = 25
)

// IsAutosome reports whether c is one of chromosomes 1..22.
func (c Chromosome) IsAutosome() bool { return c >= 1 && c <= 22 }

// IsX reports whether c is the X chromosome.
func (c Chromosome) IsX() bool { return c == ChromosomeX }

// IsY reports whether c is the Y chromosome.
func (c Chromosome) IsY() bool { return c == ChromosomeY }

// IsMT reports whether c is the mitochondrial chromosome.
func (c Chromosome) IsMT() bool { return c == ChromosomeMT }

// IsValid reports whether c falls in the closed range [1, 25].
func (c Chromosome) IsValid() bool { return c >= 1 && c <= 25 }

// String renders the chromosome using its clinical label (X, Y, MT) where
// applicable and the bare number otherwise.
func (c Chromosome) String() string {
	switch c {
	case ChromosomeX:
		return "X"
	case ChromosomeY:
		return "Y"
	case ChromosomeMT:
		return "MT"
	default:
		return fmt.Sprintf("%d", int(c))
	}
}

// ParseChromosome parses a clinical chromosome label ("1".."22", "X", "Y",
// "MT"/"M") into its numeric index.
func ParseChromosome(s string) (Chromosome, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return ChromosomeX, nil
	case "Y":
		return ChromosomeY, nil
	case "MT", "M":
		return ChromosomeMT, nil
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err != nil {
		return 0, fmt.Errorf("parsing chromosome %q: %w", s, err)
	}
	c := Chromosome(n)
	if !c.IsValid() {
		return 0, fmt.Errorf("chromosome %q out of range [1,25]", s)
	}
	return c, nil
}

// GenotypeCall is one allele call at a variant site for one sample.
type GenotypeCall string

const (
	CallRef      GenotypeCall = "REF"
	CallAlt      GenotypeCall = "ALT"
	CallOtherAlt GenotypeCall = "OTHER_ALT"
	CallNoCall   GenotypeCall = "NO_CALL"
)

// IsHomAlt reports whether a sample's pair of allele calls is
// homozygous-alternate.
func IsHomAlt(a, b GenotypeCall) bool { return a == CallAlt && b == CallAlt }

// IsHet reports whether a sample's pair of allele calls is heterozygous.
func IsHet(a, b GenotypeCall) bool {
	return (a == CallRef && b == CallAlt) || (a == CallAlt && b == CallRef)
}

// IsHomRef reports whether a sample's pair of allele calls is
// homozygous-reference.
func IsHomRef(a, b GenotypeCall) bool { return a == CallRef && b == CallRef }

// IsCalled reports whether both calls in the pair carry genotype
// information; a pair with either call NO_CALL is not called.
func IsCalled(a, b GenotypeCall) bool { return a != CallNoCall && b != CallNoCall }

// VariantEffect is the functional consequence annotation of a variant.
type VariantEffect string

const (
	EffectMissense         VariantEffect = "MISSENSE"
	EffectSynonymous       VariantEffect = "SYNONYMOUS"
	EffectSpliceDonor      VariantEffect = "SPLICE_DONOR"
	EffectSpliceAcceptor   VariantEffect = "SPLICE_ACCEPTOR"
	EffectSpliceRegion     VariantEffect = "SPLICE_REGION"
	EffectStopGained       VariantEffect = "STOP_GAINED"
	EffectStopLost         VariantEffect = "STOP_LOST"
	EffectFrameshift       VariantEffect = "FRAMESHIFT"
	EffectInframeIndel     VariantEffect = "INFRAME_INDEL"
	EffectStartLost        VariantEffect = "START_LOST"
	EffectDownstream       VariantEffect = "DOWNSTREAM"
	EffectUpstream         VariantEffect = "UPSTREAM"
	EffectIntronic         VariantEffect = "INTRONIC"
	EffectRegulatoryRegion VariantEffect = "REGULATORY_REGION"
)

// IsMissenseEquivalent reports whether computational pathogenicity scores
// (PolyPhen/SIFT/MutationTaster/CADD) are the relevant pathogenicity
// evidence for this effect.
func (e VariantEffect) IsMissenseEquivalent() bool { return e == EffectMissense }

// IsNonMissenseDeleterious reports whether the effect is, on its own,
// treated as deleterious regardless of computational scores.
func (e VariantEffect) IsNonMissenseDeleterious() bool {
	switch e {
	case EffectSpliceDonor, EffectSpliceAcceptor, EffectStopGained, EffectStopLost,
		EffectFrameshift, EffectStartLost:
		return true
	default:
		return false
	}
}

// IsBenignEffect reports whether the effect is presumed benign absent other
// evidence.
func (e VariantEffect) IsBenignEffect() bool {
	switch e {
	case EffectSynonymous, EffectDownstream, EffectUpstream, EffectIntronic:
		return true
	default:
		return false
	}
}

// FilterType identifies the kind of a variant- or gene-level filter. The
// enumeration is closed: the runner never invents new filter types.
type FilterType string

const (
	FilterQuality           FilterType = "QUALITY"
	FilterInterval          FilterType = "INTERVAL"
	FilterFrequency         FilterType = "FREQUENCY"
	FilterPathogenicity     FilterType = "PATHOGENICITY"
	FilterKnownVariant      FilterType = "KNOWN_VARIANT"
	FilterRegulatoryFeature FilterType = "REGULATORY_FEATURE"
	FilterInheritance       FilterType = "INHERITANCE"
	FilterPriorityScore     FilterType = "PRIORITY_SCORE"
)

// PriorityType identifies a gene-level prioritization strategy. Scores
// produced under different PriorityTypes are not comparable to each other.
type PriorityType string

const (
	PriorityOMIM        PriorityType = "OMIM"
	PriorityPhenix      PriorityType = "PHENIX"
	PriorityPhenodigm   PriorityType = "PHENODIGM"
	PriorityHiPhive     PriorityType = "HIPHIVE"
	PriorityExomeWalker PriorityType = "EXOMEWALKER"
	PriorityMock        PriorityType = "MOCK"
)

// InheritanceMode is a Mendelian segregation pattern.
type InheritanceMode string

const (
	AutosomalDominant         InheritanceMode = "AUTOSOMAL_DOMINANT"
	AutosomalRecessive        InheritanceMode = "AUTOSOMAL_RECESSIVE"
	AutosomalRecessiveCompHet InheritanceMode = "AUTOSOMAL_RECESSIVE_COMP_HET"
	AutosomalRecessiveHomAlt  InheritanceMode = "AUTOSOMAL_RECESSIVE_HOM_ALT"
	XDominant                 InheritanceMode = "X_DOMINANT"
	XRecessive                InheritanceMode = "X_RECESSIVE"
	Mitochondrial             InheritanceMode = "MITOCHONDRIAL"
	AnyInheritance            InheritanceMode = "ANY"
)

// IsValid reports whether m is one of the closed set of inheritance modes.
func (m InheritanceMode) IsValid() bool {
	switch m {
	case AutosomalDominant, AutosomalRecessive, AutosomalRecessiveCompHet,
		AutosomalRecessiveHomAlt, XDominant, XRecessive, Mitochondrial, AnyInheritance:
		return true
	default:
		return false
	}
}

// FilterStatus is the derived pass/fail state of an entity across every
// filter recorded on it so far.
type FilterStatus string

const (
	StatusUnfiltered FilterStatus = "UNFILTERED"
	StatusPassed     FilterStatus = "PASSED"
	StatusFailed     FilterStatus = "FAILED"
)

// Sex of a pedigree member.
type Sex string

const (
	Male        Sex = "MALE"
	Female      Sex = "FEMALE"
	UnknownSex  Sex = "UNKNOWN"
)

// UnknownGeneID is the sentinel gene identifier used when the upstream
// annotator could not resolve a variant to a known gene.
const UnknownGeneID = ""
