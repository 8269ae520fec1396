package localize

import "github.com/goliatone/go-localize/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired        = runtimeconfig.ErrDefaultLocaleRequired
	ErrStorageProviderUnknown       = runtimeconfig.ErrStorageProviderUnknown
	ErrPaginationPageSizeInvalid    = runtimeconfig.ErrPaginationPageSizeInvalid
	ErrPublicReadRequiresPublishing = runtimeconfig.ErrPublicReadRequiresPublishing
	ErrHistoryRequiresPublishing    = runtimeconfig.ErrHistoryRequiresPublishing
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	PaginationConfig = runtimeconfig.PaginationConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the baseline configuration used when a caller does
// not tune the module.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
