package publishing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProjectIDRequired indicates the request is missing the project.
	ErrProjectIDRequired = errors.New("publishing: project id is required")
	// ErrStringKeyRequired indicates a history request is missing the string key.
	ErrStringKeyRequired = errors.New("publishing: string key is required")
	// ErrLocaleNotEnabled indicates a requested locale is outside the project's locale list.
	ErrLocaleNotEnabled = errors.New("publishing: locale is not enabled for the project")
	// ErrNothingToPublish indicates every target locale had an empty draft set.
	ErrNothingToPublish = errors.New("publishing: no draft translations to publish")
	// ErrNoChangesDetected indicates every target locale matched its latest snapshot.
	ErrNoChangesDetected = errors.New("publishing: no changes detected since the last publish")
)

// LocaleNotEnabledError names the locales that failed the enabled check.
type LocaleNotEnabledError struct {
	Locales []string
}

func (e *LocaleNotEnabledError) Error() string {
	return fmt.Sprintf("publishing: locales not enabled for project: %s", strings.Join(e.Locales, ", "))
}

func (e *LocaleNotEnabledError) Unwrap() error {
	return ErrLocaleNotEnabled
}
