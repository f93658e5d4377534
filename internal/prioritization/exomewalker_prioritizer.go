package prioritization

import (
	"context"
	"math"

	"github.com/genopri/analysis-engine/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// ExomeWalkerPrioritizer scores genes by random-walk-with-restart (RWR)
// visit probability over a protein-protein interaction network seeded by a
// supplied gene list. Scores are scaled into [0,1] by the largest visit
// probability reached at convergence.
type ExomeWalkerPrioritizer struct {
	GeneIndex   map[string]int
	Adjacency   *mat.Dense // column-stochastic transition matrix, n x n
	SeedGenes   []string
	RestartProb float64
	MaxIter     int
	Tolerance   float64
}

// NewExomeWalkerPrioritizer constructs an ExomeWalkerPrioritizer over a
// gene universe (geneIndex maps symbol to its row/column in adjacency).
// restartProb is the RWR restart probability (typically 0.1-0.5); maxIter
// and tolerance bound the power-iteration fixed point search.
func NewExomeWalkerPrioritizer(geneIndex map[string]int, adjacency *mat.Dense, seedGenes []string, restartProb float64, maxIter int, tolerance float64) *ExomeWalkerPrioritizer {
	return &ExomeWalkerPrioritizer{
		GeneIndex:   geneIndex,
		Adjacency:   adjacency,
		SeedGenes:   seedGenes,
		RestartProb: restartProb,
		MaxIter:     maxIter,
		Tolerance:   tolerance,
	}
}

func (p *ExomeWalkerPrioritizer) PriorityType() domain.PriorityType { return domain.PriorityExomeWalker }

func (p *ExomeWalkerPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	n := len(p.GeneIndex)
	if n == 0 {
		for _, g := range genes {
			g.Priorities[domain.PriorityExomeWalker] = domain.PriorityResult{Type: domain.PriorityExomeWalker, Score: 0}
		}
		return nil
	}

	p0 := mat.NewVecDense(n, nil)
	validSeeds := 0
	for _, s := range p.SeedGenes {
		if idx, ok := p.GeneIndex[s]; ok {
			p0.SetVec(idx, 1)
			validSeeds++
		}
	}
	if validSeeds > 0 {
		for i := 0; i < n; i++ {
			if p0.AtVec(i) != 0 {
				p0.SetVec(i, 1.0/float64(validSeeds))
			}
		}
	}

	pt := mat.NewVecDense(n, nil)
	pt.CopyVec(p0)

	restart := p.RestartProb
	if restart <= 0 || restart >= 1 {
		restart = 0.15
	}

	next := mat.NewVecDense(n, nil)
	for iter := 0; iter < p.maxIterations(); iter++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		next.MulVec(p.Adjacency, pt)
		for i := 0; i < n; i++ {
			next.SetVec(i, (1-restart)*next.AtVec(i)+restart*p0.AtVec(i))
		}

		if vecDiffNorm(next, pt) < p.tolerance() {
			pt.CopyVec(next)
			break
		}
		pt.CopyVec(next)
	}

	max := 0.0
	for i := 0; i < n; i++ {
		if v := pt.AtVec(i); v > max {
			max = v
		}
	}

	for _, g := range genes {
		score := 0.0
		if idx, ok := p.GeneIndex[g.Symbol]; ok && max > 0 {
			score = pt.AtVec(idx) / max
		}
		g.Priorities[domain.PriorityExomeWalker] = domain.PriorityResult{Type: domain.PriorityExomeWalker, Score: score}
	}
	return nil
}

func (p *ExomeWalkerPrioritizer) maxIterations() int {
	if p.MaxIter <= 0 {
		return 100
	}
	return p.MaxIter
}

func (p *ExomeWalkerPrioritizer) tolerance() float64 {
	if p.Tolerance <= 0 {
		return 1e-8
	}
	return p.Tolerance
}

func vecDiffNorm(a, b *mat.VecDense) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		d := a.AtVec(i) - b.AtVec(i)
		sum += d * d
	}
	return math.Sqrt(sum)
}
