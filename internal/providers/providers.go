// Package providers declares the evidence-lookup contracts the analysis
// pipeline depends on. Concrete implementations (resilient HTTP clients,
// cached adapters, test doubles) live outside internal/domain so the core
// pipeline never imports a transport or cache library directly.
package providers

import (
	"context"

	"github.com/genopri/analysis-engine/internal/domain"
)

// FrequencyDataProvider resolves population-frequency evidence for a
// variant coordinate.
type FrequencyDataProvider interface {
	GetFrequencyData(ctx context.Context, coord domain.GenomicCoordinate) (*domain.FrequencyData, error)
}

// PathogenicityDataProvider resolves computational pathogenicity evidence
// for a variant coordinate and its annotated effect.
type PathogenicityDataProvider interface {
	GetPathogenicityData(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect) (*domain.PathogenicityData, error)
}
