package config

import (
	"fmt"
	"strings"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/spf13/viper"
)

// Manager implements domain.ConfigManager using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager loads configuration from file, environment, and defaults.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/genopri/")

	viper.SetEnvPrefix("GENOPRI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables.
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.tls_enabled", false)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "genopri")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	viper.SetDefault("provider.frequency_base_url", "https://gnomad.broadinstitute.org/api/")
	viper.SetDefault("provider.pathogenicity_base_url", "https://cadd.gs.washington.edu/api/")
	viper.SetDefault("provider.timeout", "10s")
	viper.SetDefault("provider.rate_limit_per_second", 20)
	viper.SetDefault("provider.retry_count", 3)
	viper.SetDefault("provider.circuit_breaker_max_failures", 5)
	viper.SetDefault("provider.circuit_breaker_timeout", "30s")
	viper.SetDefault("provider.max_concurrent_lookups", 16)

	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.default_ttl", "24h")
	viper.SetDefault("cache.max_retries", 3)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")
	viper.SetDefault("cache.lru_size", 100000)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	viper.SetDefault("analysis.mode_of_inheritance", string(domain.AnyInheritance))
	viper.SetDefault("analysis.frequency_threshold", 1.0)
	viper.SetDefault("analysis.fail_if_known_variant", false)
	viper.SetDefault("analysis.quality_threshold", 0.0)
	viper.SetDefault("analysis.pathogenicity_filter_cutoff", 0.0)
	viper.SetDefault("analysis.priority_score_cutoff", 0.0)
	viper.SetDefault("analysis.downweight_variant_count_threshold", 5)
	viper.SetDefault("analysis.phenix_normalization_factor", 1.0)
	viper.SetDefault("analysis.max_workers", 8)
	viper.SetDefault("analysis.enabled_priority_types", []string{string(domain.PriorityOMIM)})
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config { return m.config }

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig { return &m.config.Database }

// GetServerConfig returns the HTTP server configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig { return &m.config.Server }

// GetAnalysisConfig returns the default analysis parameters.
func (m *Manager) GetAnalysisConfig() *domain.AnalysisConfig { return &m.config.Analysis }

// Reload re-reads configuration from file, environment, and defaults.
func (m *Manager) Reload() error { return m.loadConfig() }

// Validate checks the loaded configuration for internal consistency.
func (m *Manager) Validate() error {
	cfg := m.config

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port %d", domain.ErrInvalidConfiguration, cfg.Server.Port)
	}
	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: database host is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Database.Database == "" {
		return fmt.Errorf("%w: database name is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Database.Username == "" {
		return fmt.Errorf("%w: database username is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Cache.RedisURL == "" {
		return fmt.Errorf("%w: redis URL is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Provider.FrequencyBaseURL == "" {
		return fmt.Errorf("%w: frequency provider base URL is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Provider.PathogenicityBaseURL == "" {
		return fmt.Errorf("%w: pathogenicity provider base URL is required", domain.ErrInvalidConfiguration)
	}
	if cfg.Analysis.FrequencyThreshold < 0 || cfg.Analysis.FrequencyThreshold > 100 {
		return fmt.Errorf("%w: frequency_threshold must be in [0,100], got %v", domain.ErrInvalidConfiguration, cfg.Analysis.FrequencyThreshold)
	}
	if cfg.Analysis.ModeOfInheritance != "" && !cfg.Analysis.ModeOfInheritance.IsValid() {
		return fmt.Errorf("%w: invalid mode_of_inheritance %q", domain.ErrInvalidConfiguration, cfg.Analysis.ModeOfInheritance)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("%w: invalid log level %q", domain.ErrInvalidConfiguration, cfg.Logging.Level)
	}

	return nil
}

// GetDatabaseConnectionString returns a libpq-style DSN for the configured
// Postgres database.
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetRedisConnectionString returns the configured Redis connection URL.
func (m *Manager) GetRedisConnectionString() string { return m.config.Cache.RedisURL }

// IsProduction reports whether the "environment" setting is "production".
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

// IsDevelopment reports whether the "environment" setting is unset,
// "development", or "dev".
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(viper.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}
