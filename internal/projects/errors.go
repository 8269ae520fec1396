package projects

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOwnerIDRequired indicates that a create request is missing the owner.
	ErrOwnerIDRequired = errors.New("projects: owner id is required")
	// ErrNameRequired indicates that a project name was empty.
	ErrNameRequired = errors.New("projects: name is required")
	// ErrDefaultLocaleRequired indicates that a create request is missing a default locale.
	ErrDefaultLocaleRequired = errors.New("projects: default locale is required")
	// ErrDefaultLocaleNotEnabled indicates the default locale is absent from the locale list.
	ErrDefaultLocaleNotEnabled = errors.New("projects: default locale must be in the locale list")
	// ErrDuplicateName indicates the owner already has a project with that name.
	ErrDuplicateName = errors.New("projects: owner already has a project with that name")
	// ErrLocaleInUse indicates a locale removal was rejected because drafts still reference it.
	ErrLocaleInUse = errors.New("projects: locale has draft translations and cannot be removed")
)

// NotFoundError indicates that a project lookup failed.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("projects: project %q not found", e.Key)
}

// LocaleInUseError reports which locales were rejected for removal.
type LocaleInUseError struct {
	Locales []string
}

func (e *LocaleInUseError) Error() string {
	return fmt.Sprintf("projects: locales still have draft translations: %s", strings.Join(e.Locales, ", "))
}

func (e *LocaleInUseError) Unwrap() error {
	return ErrLocaleInUse
}
