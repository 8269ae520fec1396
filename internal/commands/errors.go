package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
	commandResourceMissing  = "COMMAND_RESOURCE_NOT_FOUND"

	// ConcurrentModificationCode tags stale draft writes so clients can
	// re-fetch and re-apply.
	ConcurrentModificationCode = "CONCURRENT_MODIFICATION"
	// NoChangesDetectedCode tags no-op publishes so clients can retry with force.
	NoChangesDetectedCode = "NO_CHANGES_DETECTED"
)

// WrapValidationError tags a command validation failure.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

// WrapContextError tags context cancellation and deadline failures.
func WrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// WrapExecuteError tags execution failures, mapping the two load-bearing
// conflict cases to their stable text codes.
func WrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	var (
		projectMissing     *projects.NotFoundError
		translationMissing *translations.NotFoundError
		snapshotMissing    *snapshots.NotFoundError
	)
	switch {
	case errors.Is(err, translations.ErrConcurrentModification):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "draft was modified by another editor").
			WithTextCode(ConcurrentModificationCode)
	case errors.Is(err, publishing.ErrNoChangesDetected):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "no changes detected since the last publish").
			WithTextCode(NoChangesDetectedCode)
	case errors.Is(err, translations.ErrLocaleNotEnabled),
		errors.Is(err, publishing.ErrLocaleNotEnabled),
		errors.Is(err, publishing.ErrNothingToPublish),
		errors.Is(err, projects.ErrLocaleInUse):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
			WithTextCode(commandValidationCode)
	case errors.As(err, &projectMissing),
		errors.As(err, &translationMissing),
		errors.As(err, &snapshotMissing):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "resource not found").
			WithTextCode(commandResourceMissing)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
			WithTextCode(commandExecuteFailed)
	}
}
