// Package prioritization implements the gene-level scoring strategies of
// the Prioritizer Framework: OMIM, phenotype-semantic (Phenix/Phenodigm),
// random-walk network propagation (ExomeWalker), and a constant-score test
// fixture (Mock).
package prioritization

import (
	"context"

	"github.com/genopri/analysis-engine/internal/domain"
)

// OMIMPrioritizer scores 1.0 for genes linked to an OMIM disease compatible
// with the requested inheritance mode, 0.5 otherwise; it never returns 0 so
// that absence of OMIM evidence does not zero out the combined score.
type OMIMPrioritizer struct {
	// CompatibleGenes maps gene symbol to the set of inheritance modes an
	// OMIM disease record associates with that gene.
	CompatibleGenes map[string]map[domain.InheritanceMode]bool
	Mode            domain.InheritanceMode
}

// NewOMIMPrioritizer constructs an OMIMPrioritizer for the given mode of
// inheritance and gene→mode evidence table.
func NewOMIMPrioritizer(mode domain.InheritanceMode, compatibleGenes map[string]map[domain.InheritanceMode]bool) *OMIMPrioritizer {
	return &OMIMPrioritizer{CompatibleGenes: compatibleGenes, Mode: mode}
}

func (p *OMIMPrioritizer) PriorityType() domain.PriorityType { return domain.PriorityOMIM }

func (p *OMIMPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	for _, g := range genes {
		score := 0.5
		if modes, ok := p.CompatibleGenes[g.Symbol]; ok && (modes[p.Mode] || modes[domain.AnyInheritance]) {
			score = 1.0
		}
		g.Priorities[domain.PriorityOMIM] = domain.PriorityResult{Type: domain.PriorityOMIM, Score: score}
	}
	return nil
}

// MockPrioritizer is a deterministic test fixture returning a constant
// gene-symbol → score mapping, defaulting to 0 for unlisted genes.
type MockPrioritizer struct {
	Type   domain.PriorityType
	Scores map[string]float64
}

// NewMockPrioritizer constructs a MockPrioritizer reporting as priorityType.
func NewMockPrioritizer(priorityType domain.PriorityType, scores map[string]float64) *MockPrioritizer {
	return &MockPrioritizer{Type: priorityType, Scores: scores}
}

func (p *MockPrioritizer) PriorityType() domain.PriorityType { return p.Type }

func (p *MockPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	for _, g := range genes {
		score := p.Scores[g.Symbol]
		g.Priorities[p.Type] = domain.PriorityResult{Type: p.Type, Score: score}
	}
	return nil
}
