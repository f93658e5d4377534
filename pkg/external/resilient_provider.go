// Package external adapts the core's providers.FrequencyDataProvider and
// providers.PathogenicityDataProvider contracts with resilience concerns
// (circuit breaking, tiered caching, rate limiting) so the analysis
// pipeline itself never imports a transport or cache library directly.
package external

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/providers"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// CacheConfig configures the in-memory and Redis cache tiers shared by a
// ResilientProvider.
type CacheConfig struct {
	RedisURL    string
	DefaultTTL  time.Duration
	LRUSize     int
}

// ResilientProvider wraps a FrequencyDataProvider/PathogenicityDataProvider
// pair with an in-memory LRU tier, a Redis tier, one rate limiter and one
// circuit breaker shared by both providers, falling back to the next tier/the
// upstream provider on a miss.
type ResilientProvider struct {
	frequency     providers.FrequencyDataProvider
	pathogenicity providers.PathogenicityDataProvider

	lru     *lru.Cache[string, []byte]
	redis   *redis.Client
	ttl     time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewResilientProvider constructs a ResilientProvider wrapping the given
// upstream providers. requestsPerSecond bounds calls that reach the
// breaker/upstream provider (cache hits bypass it entirely).
func NewResilientProvider(freq providers.FrequencyDataProvider, path providers.PathogenicityDataProvider, cache CacheConfig, requestsPerSecond float64) (*ResilientProvider, error) {
	lruCache, err := lru.New[string, []byte](cacheSizeOrDefault(cache.LRUSize))
	if err != nil {
		return nil, fmt.Errorf("constructing LRU tier: %w", err)
	}

	var redisClient *redis.Client
	if cache.RedisURL != "" {
		opts, err := redis.ParseURL(cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing redis URL: %v", domain.ErrInvalidConfiguration, err)
		}
		redisClient = redis.NewClient(opts)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "evidence-provider",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &ResilientProvider{
		frequency:     freq,
		pathogenicity: path,
		lru:           lruCache,
		redis:         redisClient,
		ttl:           ttlOrDefault(cache.DefaultTTL),
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker:       breaker,
	}, nil
}

func cacheSizeOrDefault(n int) int {
	if n <= 0 {
		return 10_000
	}
	return n
}

func ttlOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// GetFrequencyData resolves frequency evidence for coord, checking the LRU
// then Redis tier before falling through to the upstream provider behind
// the rate limiter and circuit breaker.
func (p *ResilientProvider) GetFrequencyData(ctx context.Context, coord domain.GenomicCoordinate) (*domain.FrequencyData, error) {
	key := cacheKey("freq", coord.String())

	if raw, ok := p.lru.Get(key); ok {
		var data domain.FrequencyData
		if err := json.Unmarshal(raw, &data); err == nil {
			return &data, nil
		}
	}

	if p.redis != nil {
		if raw, err := p.redis.Get(ctx, key).Bytes(); err == nil {
			var data domain.FrequencyData
			if err := json.Unmarshal(raw, &data); err == nil {
				p.lru.Add(key, raw)
				return &data, nil
			}
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := p.breaker.Execute(func() (any, error) {
		return p.frequency.GetFrequencyData(ctx, coord)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataProviderUnavailable, err)
	}

	data := result.(*domain.FrequencyData)
	p.store(ctx, key, data)
	return data, nil
}

// GetPathogenicityData resolves pathogenicity evidence for coord and
// effect using the same tiered-cache, rate-limited, circuit-broken path as
// GetFrequencyData.
func (p *ResilientProvider) GetPathogenicityData(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect) (*domain.PathogenicityData, error) {
	key := cacheKey("path", coord.String(), string(effect))

	if raw, ok := p.lru.Get(key); ok {
		var data domain.PathogenicityData
		if err := json.Unmarshal(raw, &data); err == nil {
			return &data, nil
		}
	}

	if p.redis != nil {
		if raw, err := p.redis.Get(ctx, key).Bytes(); err == nil {
			var data domain.PathogenicityData
			if err := json.Unmarshal(raw, &data); err == nil {
				p.lru.Add(key, raw)
				return &data, nil
			}
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := p.breaker.Execute(func() (any, error) {
		return p.pathogenicity.GetPathogenicityData(ctx, coord, effect)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataProviderUnavailable, err)
	}

	data := result.(*domain.PathogenicityData)
	p.store(ctx, key, data)
	return data, nil
}

func (p *ResilientProvider) store(ctx context.Context, key string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	p.lru.Add(key, raw)
	if p.redis != nil {
		p.redis.Set(ctx, key, raw, p.ttl)
	}
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
