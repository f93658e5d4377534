package analysis

import (
	"fmt"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/filters"
	"github.com/genopri/analysis-engine/internal/prioritization"
)

// BuildPipeline assembles the default step sequence from an AnalysisConfig:
// quality, interval (if any regions are configured), frequency and
// pathogenicity variant filters, an OMIM prioritizer seeded from
// omimEvidence, a priority-score gene filter, and the inheritance filter
// for cfg.ModeOfInheritance. Step order here does not matter for the
// inheritance filter, which a Runner always schedules last regardless.
func BuildPipeline(cfg domain.AnalysisConfig, omimEvidence map[string]map[domain.InheritanceMode]bool) ([]Step, error) {
	var steps []Step

	quality, err := filters.NewQualityFilter(cfg.QualityThreshold)
	if err != nil {
		return nil, fmt.Errorf("building quality filter: %w", err)
	}
	steps = append(steps, NewVariantFilterStep(quality))

	if len(cfg.Intervals) > 0 {
		steps = append(steps, NewVariantFilterStep(filters.NewIntervalFilter(cfg.Intervals)))
	}

	frequency, err := filters.NewFrequencyFilter(cfg.FrequencyThreshold, cfg.FailIfKnownVariant)
	if err != nil {
		return nil, fmt.Errorf("building frequency filter: %w", err)
	}
	steps = append(steps, NewVariantFilterStep(frequency))

	pathogenicity, err := filters.NewPathogenicityFilter(cfg.PathogenicityFilterCutoff, true)
	if err != nil {
		return nil, fmt.Errorf("building pathogenicity filter: %w", err)
	}
	steps = append(steps, NewVariantFilterStep(pathogenicity))

	omim := prioritization.NewOMIMPrioritizer(cfg.ModeOfInheritance, omimEvidence)
	steps = append(steps, NewPrioritizerStep(omim))

	priorityFilter, err := filters.NewPriorityScoreFilter(domain.PriorityOMIM, cfg.PriorityScoreCutoff)
	if err != nil {
		return nil, fmt.Errorf("building priority score filter: %w", err)
	}
	steps = append(steps, NewGeneFilterStep(priorityFilter))

	modes := []domain.InheritanceMode{cfg.ModeOfInheritance}
	if cfg.ModeOfInheritance == "" {
		modes = []domain.InheritanceMode{domain.AnyInheritance}
	}
	steps = append(steps, NewInheritanceFilterStep(filters.NewInheritanceFilter(modes), modes[0]))

	return steps, nil
}
