// Package inheritance computes, for a pedigree and the variants annotated
// to one gene, which Mendelian inheritance modes the gene's genotypes are
// compatible with.
package inheritance

import (
	"fmt"
	"math"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of Engine.Compute for one gene.
type Result struct {
	Compatible map[domain.InheritanceMode]bool
	Support    map[domain.InheritanceMode][]*domain.VariantEvaluation
}

// NewEmptyResult returns a Result with every mode absent, used on the
// PEDIGREE_INCOMPATIBLE non-fatal path.
func NewEmptyResult() Result {
	return Result{
		Compatible: make(map[domain.InheritanceMode]bool),
		Support:    make(map[domain.InheritanceMode][]*domain.VariantEvaluation),
	}
}

// Engine implements the Mendelian inheritance compatibility checks: which
// modes a gene's variants are consistent with, given a pedigree's affection
// status and genotype calls.
type Engine struct {
	log *logrus.Logger
}

// NewEngine constructs an Engine logging through the given logger.
func NewEngine(log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{log: log}
}

// Compute evaluates every inheritance mode against geneVariants under
// pedigree, applying the per-mode frequency ceilings in ceilings. On a
// PEDIGREE_INCOMPATIBLE condition it logs and returns an empty Result plus
// the wrapped sentinel error; the caller should treat this as non-fatal.
func (e *Engine) Compute(pedigree *domain.Pedigree, geneVariants []*domain.VariantEvaluation, ceilings map[domain.InheritanceMode]float64) (Result, error) {
	for _, v := range geneVariants {
		if len(v.Genotypes) != 2*pedigree.Size() {
			e.log.WithFields(logrus.Fields{
				"variant":          v.Coordinate.String(),
				"genotype_calls":   len(v.Genotypes),
				"pedigree_members": pedigree.Size(),
			}).Warn("genotype call count does not match pedigree size")
			return NewEmptyResult(), fmt.Errorf("%w: variant %s carries %d genotype calls for a %d-member pedigree",
				domain.ErrPedigreeIncompatible, v.Coordinate.String(), len(v.Genotypes), pedigree.Size())
		}
	}

	result := NewEmptyResult()
	members := pedigree.Members()

	eligible := func(mode domain.InheritanceMode) []*domain.VariantEvaluation {
		ceiling, ok := ceilings[mode]
		if !ok {
			ceiling = math.Inf(1)
		}
		out := make([]*domain.VariantEvaluation, 0, len(geneVariants))
		for _, v := range geneVariants {
			if v.Frequency.MaxFrequency() <= ceiling {
				out = append(out, v)
			}
		}
		return out
	}

	adVariants := autosomalDominantSupport(eligible(domain.AutosomalDominant), members)
	result.setMode(domain.AutosomalDominant, adVariants)

	homVariants := autosomalRecessiveHomSupport(eligible(domain.AutosomalRecessiveHomAlt), members)
	result.setMode(domain.AutosomalRecessiveHomAlt, homVariants)

	compHetVariants := autosomalRecessiveCompHetSupport(eligible(domain.AutosomalRecessiveCompHet), members)
	result.setMode(domain.AutosomalRecessiveCompHet, compHetVariants)

	arSupport := unionVariants(homVariants, compHetVariants)
	result.setMode(domain.AutosomalRecessive, arSupport)

	xdVariants := xDominantSupport(eligible(domain.XDominant), members)
	result.setMode(domain.XDominant, xdVariants)

	xrVariants := xRecessiveSupport(eligible(domain.XRecessive), members)
	result.setMode(domain.XRecessive, xrVariants)

	mtVariants := mitochondrialSupport(eligible(domain.Mitochondrial), members)
	result.setMode(domain.Mitochondrial, mtVariants)

	// ANY is always compatible but excluded from result aggregation;
	// record compatibility without a meaningful support set.
	result.Compatible[domain.AnyInheritance] = true
	result.Support[domain.AnyInheritance] = nil

	return result, nil
}

func (r Result) setMode(mode domain.InheritanceMode, support []*domain.VariantEvaluation) {
	if len(support) > 0 {
		r.Compatible[mode] = true
		r.Support[mode] = support
	}
}

func unionVariants(a, b []*domain.VariantEvaluation) []*domain.VariantEvaluation {
	seen := make(map[*domain.VariantEvaluation]bool, len(a)+len(b))
	out := make([]*domain.VariantEvaluation, 0, len(a)+len(b))
	for _, v := range append(append([]*domain.VariantEvaluation{}, a...), b...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func genotypeAt(v *domain.VariantEvaluation, memberIdx int) (a, b domain.GenotypeCall) {
	return v.GenotypeOf(memberIdx)
}

func carriesAlt(a, b domain.GenotypeCall) bool {
	return domain.IsHet(a, b) || domain.IsHomAlt(a, b)
}

func indexOf(members []domain.Individual, id string) int {
	for i, m := range members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// autosomalDominantSupport finds autosomal variants where every affected
// member carries at least one alt allele and every unaffected member is
// homozygous-reference or no-call.
func autosomalDominantSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	var support []*domain.VariantEvaluation
	for _, v := range variants {
		if !v.IsAutosome() {
			continue
		}
		ok := true
		for i, m := range members {
			a, b := genotypeAt(v, i)
			if m.Affected {
				if !carriesAlt(a, b) {
					ok = false
					break
				}
			} else if !(domain.IsHomRef(a, b) || !domain.IsCalled(a, b)) {
				ok = false
				break
			}
		}
		if ok {
			support = append(support, v)
		}
	}
	return support
}

// autosomalRecessiveHomSupport finds autosomal variants homozygous-alt in
// every affected member and homozygous-alt in no unaffected member.
func autosomalRecessiveHomSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	var support []*domain.VariantEvaluation
	for _, v := range variants {
		if !v.IsAutosome() {
			continue
		}
		ok := true
		for i, m := range members {
			a, b := genotypeAt(v, i)
			if m.Affected {
				if !domain.IsHomAlt(a, b) {
					ok = false
					break
				}
			} else if domain.IsHomAlt(a, b) {
				ok = false
				break
			}
		}
		if ok {
			support = append(support, v)
		}
	}
	return support
}

// autosomalRecessiveCompHetSupport finds pairs of distinct autosomal
// variants heterozygous in every affected member, where every unaffected
// parent of an affected member is heterozygous at exactly one of the pair.
func autosomalRecessiveCompHetSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	autosomal := make([]*domain.VariantEvaluation, 0, len(variants))
	for _, v := range variants {
		if v.IsAutosome() {
			autosomal = append(autosomal, v)
		}
	}

	seen := make(map[*domain.VariantEvaluation]bool)
	var support []*domain.VariantEvaluation

	for i := 0; i < len(autosomal); i++ {
		for j := i + 1; j < len(autosomal); j++ {
			v1, v2 := autosomal[i], autosomal[j]
			if !affectedHetAtBoth(v1, v2, members) {
				continue
			}
			if !parentsSegregate(v1, v2, members) {
				continue
			}
			if !seen[v1] {
				seen[v1] = true
				support = append(support, v1)
			}
			if !seen[v2] {
				seen[v2] = true
				support = append(support, v2)
			}
		}
	}
	return support
}

func affectedHetAtBoth(v1, v2 *domain.VariantEvaluation, members []domain.Individual) bool {
	for i, m := range members {
		if !m.Affected {
			continue
		}
		a1, b1 := genotypeAt(v1, i)
		a2, b2 := genotypeAt(v2, i)
		if !domain.IsHet(a1, b1) || !domain.IsHet(a2, b2) {
			return false
		}
	}
	return true
}

func parentsSegregate(v1, v2 *domain.VariantEvaluation, members []domain.Individual) bool {
	parentIDs := make(map[string]bool)
	for _, m := range members {
		if !m.Affected {
			continue
		}
		if m.FatherID != "" {
			parentIDs[m.FatherID] = true
		}
		if m.MotherID != "" {
			parentIDs[m.MotherID] = true
		}
	}
	for pid := range parentIDs {
		idx := indexOf(members, pid)
		if idx < 0 || members[idx].Affected {
			continue
		}
		a1, b1 := genotypeAt(v1, idx)
		a2, b2 := genotypeAt(v2, idx)
		het1, het2 := domain.IsHet(a1, b1), domain.IsHet(a2, b2)
		if het1 == het2 {
			// Heterozygous at neither, or at both: the phase can't
			// distinguish which chromosome carries which variant.
			return false
		}
	}
	return true
}

// xDominantSupport is analogous to autosomalDominantSupport restricted to
// chromosome X, with hemizygous males treated as carriers on any alt call.
func xDominantSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	var support []*domain.VariantEvaluation
	for _, v := range variants {
		if !v.IsX() {
			continue
		}
		ok := true
		for i, m := range members {
			a, b := genotypeAt(v, i)
			if m.Affected {
				if !carriesAlt(a, b) {
					ok = false
					break
				}
			} else if !(domain.IsHomRef(a, b) || !domain.IsCalled(a, b)) {
				ok = false
				break
			}
		}
		if ok {
			support = append(support, v)
		}
	}
	return support
}

// xRecessiveSupport requires affected males hemizygous-alt (represented as
// homozygous-alt) and affected females homozygous-alt; unaffected members
// must not be homozygous-alt.
func xRecessiveSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	var support []*domain.VariantEvaluation
	for _, v := range variants {
		if !v.IsX() {
			continue
		}
		ok := true
		for i, m := range members {
			a, b := genotypeAt(v, i)
			if m.Affected {
				if !domain.IsHomAlt(a, b) {
					ok = false
					break
				}
			} else if domain.IsHomAlt(a, b) {
				ok = false
				break
			}
		}
		if ok {
			support = append(support, v)
		}
	}
	return support
}

// mitochondrialSupport requires the variant lie on MT and every affected
// member carry an alt call; maternal-only transmission is advisory and not
// enforced.
func mitochondrialSupport(variants []*domain.VariantEvaluation, members []domain.Individual) []*domain.VariantEvaluation {
	var support []*domain.VariantEvaluation
	for _, v := range variants {
		if !v.Coordinate.Chromosome.IsMT() {
			continue
		}
		ok := true
		for i, m := range members {
			a, b := genotypeAt(v, i)
			if m.Affected && !carriesAlt(a, b) {
				ok = false
				break
			}
		}
		if ok {
			support = append(support, v)
		}
	}
	return support
}
