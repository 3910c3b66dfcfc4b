package cache

import (
	"fmt"

	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/shopmetrics/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates cache instances based on configuration
type Factory struct {
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption configures the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithMemoryFallback allows falling back to the in-memory cache when
// Redis is configured but unreachable
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowFallback = allow
	}
}

// NewFactory creates a cache factory
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache builds the cache backend named by the configuration.
// With fallback enabled, a Redis connection failure degrades to the
// in-memory cache instead of failing startup.
func (f *Factory) CreateCache(cacheCfg config.CacheConfig, redisCfg config.RedisConfig) (shared.Cache, error) {
	switch cacheCfg.Backend {
	case "redis":
		store, err := NewRedisCache(redisCfg)
		if err != nil {
			if !f.allowFallback {
				return nil, fmt.Errorf("failed to create Redis cache: %w", err)
			}
			f.logger.Warn("Redis unavailable, falling back to in-memory cache",
				zap.String("addr", redisCfg.Addr()),
				zap.Error(err))
			return NewMemoryCache(), nil
		}
		f.logger.Info("using Redis cache", zap.String("addr", redisCfg.Addr()))
		return store, nil
	case "memory", "":
		f.logger.Info("using in-memory cache")
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cacheCfg.Backend)
	}
}
