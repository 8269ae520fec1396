package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsMissingDefaultLocale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLocale = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrDefaultLocaleRequired) {
		t.Fatalf("expected default locale error, got %v", err)
	}
}

func TestValidateRejectsUnknownStorageProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Provider = "dynamo"
	if err := cfg.Validate(); !errors.Is(err, ErrStorageProviderUnknown) {
		t.Fatalf("expected storage provider error, got %v", err)
	}
}

func TestValidateRejectsPaginationBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pagination.DefaultPageSize = 0
	if err := cfg.Validate(); !errors.Is(err, ErrPaginationPageSizeInvalid) {
		t.Fatalf("expected pagination error, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Pagination.MaxPageSize = 500
	if err := cfg.Validate(); !errors.Is(err, ErrPaginationPageSizeInvalid) {
		t.Fatalf("expected pagination error, got %v", err)
	}
}

func TestValidateFeatureDependencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Publishing = false
	if err := cfg.Validate(); !errors.Is(err, ErrPublicReadRequiresPublishing) {
		t.Fatalf("expected public read dependency error, got %v", err)
	}

	cfg.Features.PublicRead = false
	if err := cfg.Validate(); !errors.Is(err, ErrHistoryRequiresPublishing) {
		t.Fatalf("expected history dependency error, got %v", err)
	}
}

func TestValidateLoggingOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected logging provider error, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected logging level error, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected logging format error, got %v", err)
	}

	cfg.Logging.Format = "pretty"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid logging config, got %v", err)
	}

	// the console provider routes through the same adapter, so its format is
	// vetted too
	cfg.Logging.Provider = "console"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected console format error, got %v", err)
	}
}
