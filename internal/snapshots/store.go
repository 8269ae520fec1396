package snapshots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrProjectIDRequired    = errors.New("snapshots: project id required")
	ErrLocaleRequired       = errors.New("snapshots: locale required")
	ErrDataRequired         = errors.New("snapshots: snapshot data required")
	ErrVersionInvalid       = errors.New("snapshots: version must be greater than zero")
	ErrPageInvalid          = errors.New("snapshots: page must be greater than zero")
	ErrPageSizeInvalid      = errors.New("snapshots: page size out of bounds")
	ErrVersionRaceExhausted = errors.New("snapshots: version assignment retries exhausted")
)

// maxCreateAttempts bounds the read-max-then-insert retry loop before the
// race is escalated to the caller as ErrVersionRaceExhausted.
const maxCreateAttempts = 3

// MaxPageSize bounds ListVersions requests.
const MaxPageSize = 100

// NotFoundError represents missing snapshot lookups.
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

// CreateSnapshotRequest carries the payload for a new snapshot row. Version
// is assigned by the store, never by the caller.
type CreateSnapshotRequest struct {
	ProjectID     uuid.UUID
	Locale        string
	Data          map[string]string
	CreatedByID   uuid.UUID
	CreatedByName string
}

// VersionPage is one slice of a locale's version history, newest first.
type VersionPage struct {
	Snapshots []*TranslationSnapshot
	Total     int
	HasMore   bool
}

// Store owns the append-only snapshot table. Create assigns the next version
// in the per-(project, locale) sequence atomically; reads never observe a gap.
// CreateBatch commits every requested snapshot or none of them, so a publish
// covering several locales can never leave a partial result behind.
type Store interface {
	Create(ctx context.Context, req CreateSnapshotRequest) (*TranslationSnapshot, error)
	CreateBatch(ctx context.Context, reqs []CreateSnapshotRequest) ([]*TranslationSnapshot, error)
	Get(ctx context.Context, projectID uuid.UUID, locale string, version int) (*TranslationSnapshot, error)
	GetLatest(ctx context.Context, projectID uuid.UUID, locale string) (*TranslationSnapshot, error)
	ListVersions(ctx context.Context, projectID uuid.UUID, locale string, page, pageSize int) (*VersionPage, error)
	ListLocalesWithSnapshots(ctx context.Context, projectID uuid.UUID) ([]string, error)
}

func validateCreate(req CreateSnapshotRequest) error {
	if req.ProjectID == uuid.Nil {
		return ErrProjectIDRequired
	}
	if req.Locale == "" {
		return ErrLocaleRequired
	}
	if len(req.Data) == 0 {
		return ErrDataRequired
	}
	return nil
}

func validatePagination(page, pageSize int) error {
	if page < 1 {
		return ErrPageInvalid
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return ErrPageSizeInvalid
	}
	return nil
}
