package domain

import "context"

// VariantFilter evaluates a single VariantEvaluation in isolation.
// Implementations must be safe to share across concurrently-processed
// variants; they hold their own configuration but never per-variant state.
type VariantFilter interface {
	FilterType() FilterType
	Equals(other VariantFilter) bool
	Apply(v *VariantEvaluation) bool
}

// GeneFilter evaluates a Gene after its variants have been through every
// variant-level filter step.
type GeneFilter interface {
	FilterType() FilterType
	Equals(other GeneFilter) bool
	Apply(g *Gene) bool
}

// Prioritizer assigns a PriorityResult to every gene in genes. Prioritizers
// may use cross-gene context (e.g. random-walk propagation) and so run
// once over the whole gene set rather than per-gene.
type Prioritizer interface {
	PriorityType() PriorityType
	Prioritize(ctx context.Context, genes []*Gene) error
}

// OrganismMatcher scores a set of query phenotype terms against the
// phenotype annotations of models from one organism (human, mouse, fish).
type OrganismMatcher interface {
	BestMatches(ctx context.Context, query []PhenotypeTerm, models []Model) ([]PhenotypeMatch, error)
	TheoreticalBest(ctx context.Context, query []PhenotypeTerm) (TheoreticalModel, error)
}

// ConfigManager exposes the application's layered configuration (server,
// database, cache, analysis defaults) and supports hot reload.
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	GetAnalysisConfig() *AnalysisConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}

// EvidenceCacheRepository persists resolved frequency/pathogenicity
// evidence so repeated analyses over the same coordinates skip the
// upstream provider round-trip.
type EvidenceCacheRepository interface {
	GetFrequency(ctx context.Context, coord GenomicCoordinate) (*FrequencyData, bool, error)
	PutFrequency(ctx context.Context, coord GenomicCoordinate, data *FrequencyData) error
	GetPathogenicity(ctx context.Context, coord GenomicCoordinate, effect VariantEffect) (*PathogenicityData, bool, error)
	PutPathogenicity(ctx context.Context, coord GenomicCoordinate, effect VariantEffect, data *PathogenicityData) error
}

// PedigreeRepository persists and retrieves pedigrees submitted with an
// analysis request.
type PedigreeRepository interface {
	Save(ctx context.Context, analysisID string, pedigree *Pedigree) error
	Get(ctx context.Context, analysisID string) (*Pedigree, error)
}

// AnalysisResultRepository persists the ranked gene list produced by a
// completed analysis run.
type AnalysisResultRepository interface {
	SaveResult(ctx context.Context, analysisID string, genes []*Gene) error
	GetResult(ctx context.Context, analysisID string) ([]*Gene, error)
}
