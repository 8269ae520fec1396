package translations

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/domain"
)

var (
	ErrProjectIDRequired      = errors.New("translations: project id required")
	ErrStringIDRequired       = errors.New("translations: string id required")
	ErrKeyRequired            = errors.New("translations: string key is required")
	ErrNoValues               = errors.New("translations: at least one locale value is required")
	ErrValueEmpty             = errors.New("translations: translation value cannot be empty")
	ErrLocaleNotEnabled       = errors.New("translations: locale is not enabled for project")
	ErrConcurrentModification = errors.New("translations: draft was modified by another editor")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// LocaleNotEnabledError names every requested locale outside the project's
// enabled set.
type LocaleNotEnabledError struct {
	Locales []string
}

func (e *LocaleNotEnabledError) Error() string {
	if e == nil || len(e.Locales) == 0 {
		return ErrLocaleNotEnabled.Error()
	}
	return fmt.Sprintf("%s: %s", ErrLocaleNotEnabled.Error(), strings.Join(e.Locales, ", "))
}

func (e *LocaleNotEnabledError) Unwrap() error {
	return ErrLocaleNotEnabled
}

// EmptyValueError reports the locale whose supplied value was empty after trim.
type EmptyValueError struct {
	Locale string
}

func (e *EmptyValueError) Error() string {
	if e == nil || e.Locale == "" {
		return ErrValueEmpty.Error()
	}
	return fmt.Sprintf("%s: locale=%s", ErrValueEmpty.Error(), e.Locale)
}

func (e *EmptyValueError) Unwrap() error {
	return ErrValueEmpty
}

// ConcurrentModificationError carries the conflict details clients need to
// render "X changed this since you loaded it".
type ConcurrentModificationError struct {
	Locale         string
	LastModifiedAt time.Time
	LastModifiedBy domain.UserRef
}

func (e *ConcurrentModificationError) Error() string {
	if e == nil {
		return ErrConcurrentModification.Error()
	}
	return fmt.Sprintf("%s: locale=%s last_modified_at=%s last_modified_by=%s",
		ErrConcurrentModification.Error(), e.Locale, e.LastModifiedAt.Format(time.RFC3339Nano), e.LastModifiedBy.Name)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
