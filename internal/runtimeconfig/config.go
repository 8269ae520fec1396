package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDefaultLocaleRequired = errors.New("localize config: default locale is required")
var ErrStorageProviderUnknown = errors.New("localize config: storage provider is invalid")
var ErrPaginationPageSizeInvalid = errors.New("localize config: history page size must be between 1 and 100")
var ErrPublicReadRequiresPublishing = errors.New("localize config: public read requires publishing to be enabled")
var ErrHistoryRequiresPublishing = errors.New("localize config: history requires publishing to be enabled")
var ErrLoggingProviderRequired = errors.New("localize config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("localize config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("localize config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("localize config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Storage       StorageConfig
	Cache         CacheConfig
	Pagination    PaginationConfig
	Features      Features
	Logging       LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// PaginationConfig bounds history reads.
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Features toggles module functionality.
type Features struct {
	Publishing bool
	History    bool
	PublicRead bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Pagination: PaginationConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Features: Features{
			Publishing: true,
			History:    true,
			PublicRead: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if provider := normalizeProvider(cfg.Storage.Provider); provider != "" && !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Pagination.DefaultPageSize < 1 || cfg.Pagination.DefaultPageSize > 100 {
		return fmt.Errorf("%w: default %d", ErrPaginationPageSizeInvalid, cfg.Pagination.DefaultPageSize)
	}
	if cfg.Pagination.MaxPageSize < cfg.Pagination.DefaultPageSize || cfg.Pagination.MaxPageSize > 100 {
		return fmt.Errorf("%w: max %d", ErrPaginationPageSizeInvalid, cfg.Pagination.MaxPageSize)
	}
	if cfg.Features.PublicRead && !cfg.Features.Publishing {
		return ErrPublicReadRequiresPublishing
	}
	if cfg.Features.History && !cfg.Features.Publishing {
		return ErrHistoryRequiresPublishing
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "memory", "bun", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
