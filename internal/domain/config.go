package domain

import "time"

// Config is the root application configuration, loaded and validated by
// internal/config.Manager.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Provider ProviderConfig `mapstructure:"provider"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig is the HTTP server's listen and timeout configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
	CertFile     string        `mapstructure:"cert_file"`
	KeyFile      string        `mapstructure:"key_file"`
}

// DatabaseConfig is the Postgres connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CacheConfig is the two-tier evidence cache configuration: an in-memory
// LRU tier backed by Redis.
type CacheConfig struct {
	RedisURL      string        `mapstructure:"redis_url"`
	DefaultTTL    time.Duration `mapstructure:"default_ttl"`
	MaxRetries    int           `mapstructure:"max_retries"`
	PoolSize      int           `mapstructure:"pool_size"`
	PoolTimeout   time.Duration `mapstructure:"pool_timeout"`
	LRUSize       int           `mapstructure:"lru_size"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// ProviderConfig configures the upstream frequency/pathogenicity data
// providers wrapped by the resilient provider adapter.
type ProviderConfig struct {
	FrequencyBaseURL     string        `mapstructure:"frequency_base_url"`
	PathogenicityBaseURL string        `mapstructure:"pathogenicity_base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	RateLimit            int           `mapstructure:"rate_limit_per_second"`
	RetryCount           int           `mapstructure:"retry_count"`
	CircuitBreakerMaxFail uint32       `mapstructure:"circuit_breaker_max_failures"`
	CircuitBreakerTimeout time.Duration `mapstructure:"circuit_breaker_timeout"`
	MaxConcurrentLookups int          `mapstructure:"max_concurrent_lookups"`
}

// AnalysisConfig is the set of tunable parameters for one analysis run,
// submitted as part of an analysis request and defaulted from config.
type AnalysisConfig struct {
	ModeOfInheritance               InheritanceMode `mapstructure:"mode_of_inheritance"`
	FrequencyThreshold               float64         `mapstructure:"frequency_threshold"`
	FailIfKnownVariant                bool            `mapstructure:"fail_if_known_variant"`
	QualityThreshold                 float64         `mapstructure:"quality_threshold"`
	PathogenicityFilterCutoff         float64         `mapstructure:"pathogenicity_filter_cutoff"`
	PriorityScoreCutoff               float64         `mapstructure:"priority_score_cutoff"`
	Intervals                         []GenomicInterval `mapstructure:"intervals"`
	DownweightVariantCountThreshold  int             `mapstructure:"downweight_variant_count_threshold"`
	PhenixNormalizationFactor         float64         `mapstructure:"phenix_normalization_factor"`
	MaxWorkers                        int             `mapstructure:"max_workers"`
	EnabledPriorityTypes               []PriorityType  `mapstructure:"enabled_priority_types"`

	// InheritanceFrequencyCeilings maps a (sub)mode to the maximum allele
	// frequency a variant may have and still support that mode. A mode
	// absent from this map has no ceiling (unbounded).
	InheritanceFrequencyCeilings map[InheritanceMode]float64 `mapstructure:"inheritance_frequency_ceilings"`
}

// GenomicInterval is an inclusive genomic region used by the interval
// filter (e.g. a candidate-region restriction from linkage analysis).
type GenomicInterval struct {
	Chromosome Chromosome `mapstructure:"chromosome"`
	Start      int64      `mapstructure:"start"`
	End        int64      `mapstructure:"end"`
}

// Contains reports whether coord falls within the interval.
func (iv GenomicInterval) Contains(coord GenomicCoordinate) bool {
	return coord.Chromosome == iv.Chromosome && coord.Position >= iv.Start && coord.Position <= iv.End
}
