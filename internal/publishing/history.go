package publishing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/google/uuid"
)

const (
	// DefaultHistoryPageSize is used when a history request leaves PageSize unset.
	DefaultHistoryPageSize = 20
)

// HistoryDraftReader exposes the draft store reads the history reader needs.
// The translations service satisfies it.
type HistoryDraftReader interface {
	GetString(ctx context.Context, projectID uuid.UUID, key string) (*translations.TranslationString, error)
	ListDraftsForLocales(ctx context.Context, stringID uuid.UUID, locales []string) (map[string]*translations.DraftTranslation, error)
	ListDraftLocalesHavingValue(ctx context.Context, stringID uuid.UUID) ([]string, error)
}

// HistoryRequest asks for the version history of one string. Locale narrows
// the result to a single locale; when empty, every locale with a draft or a
// snapshot is returned. Zero Page and PageSize take defaults.
type HistoryRequest struct {
	ProjectID uuid.UUID
	Key       string
	Locale    string
	Page      int
	PageSize  int
}

// VersionEntry is one published version as seen by a single string. Value is
// nil when the snapshot predates the string or the string had no translated
// value at publish time.
type VersionEntry struct {
	SnapshotID  uuid.UUID
	Version     int
	Value       *string
	StringCount int
	CreatedAt   time.Time
	CreatedBy   domain.UserRef
}

// LocaleHistory merges the current draft with one page of published
// versions. The draft rides along on every page.
type LocaleHistory struct {
	Locale   string
	Draft    *translations.DraftTranslation
	Versions []VersionEntry
	Total    int
	HasMore  bool
}

// HistoryReader reconstructs per-locale version history for display.
type HistoryReader interface {
	GetHistory(ctx context.Context, req HistoryRequest) ([]LocaleHistory, error)
}

type historyReader struct {
	drafts HistoryDraftReader
	store  snapshots.Store
}

// NewHistoryReader wires the reader with its collaborators.
func NewHistoryReader(drafts HistoryDraftReader, store snapshots.Store) HistoryReader {
	return &historyReader{
		drafts: drafts,
		store:  store,
	}
}

func (r *historyReader) GetHistory(ctx context.Context, req HistoryRequest) ([]LocaleHistory, error) {
	if req.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return nil, ErrStringKeyRequired
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = DefaultHistoryPageSize
	}
	if page < 1 {
		return nil, snapshots.ErrPageInvalid
	}
	if pageSize < 1 || pageSize > snapshots.MaxPageSize {
		return nil, snapshots.ErrPageSizeInvalid
	}

	record, err := r.drafts.GetString(ctx, req.ProjectID, key)
	if err != nil {
		return nil, err
	}

	locales, err := r.resolveLocales(ctx, req.ProjectID, record.ID, req.Locale)
	if err != nil {
		return nil, err
	}

	draftsByLocale, err := r.drafts.ListDraftsForLocales(ctx, record.ID, locales)
	if err != nil {
		return nil, err
	}

	histories := make([]LocaleHistory, 0, len(locales))
	for _, locale := range locales {
		versionPage, err := r.store.ListVersions(ctx, req.ProjectID, locale, page, pageSize)
		if err != nil {
			return nil, err
		}

		entries := make([]VersionEntry, 0, len(versionPage.Snapshots))
		for _, snap := range versionPage.Snapshots {
			entry := VersionEntry{
				SnapshotID:  snap.ID,
				Version:     snap.Version,
				StringCount: snap.StringCount(),
				CreatedAt:   snap.CreatedAt,
				CreatedBy:   snap.CreatedBy(),
			}
			if value, ok := snap.Data[record.Key]; ok {
				entry.Value = &value
			}
			entries = append(entries, entry)
		}

		histories = append(histories, LocaleHistory{
			Locale:   locale,
			Draft:    draftsByLocale[locale],
			Versions: entries,
			Total:    versionPage.Total,
			HasMore:  versionPage.HasMore,
		})
	}
	return histories, nil
}

// resolveLocales narrows to the requested locale, or unions the locales that
// carry a draft with the locales that have published snapshots.
func (r *historyReader) resolveLocales(ctx context.Context, projectID, stringID uuid.UUID, requested string) ([]string, error) {
	if requested = strings.ToLower(strings.TrimSpace(requested)); requested != "" {
		return []string{requested}, nil
	}

	withDrafts, err := r.drafts.ListDraftLocalesHavingValue(ctx, stringID)
	if err != nil {
		return nil, err
	}
	withSnapshots, err := r.store.ListLocalesWithSnapshots(ctx, projectID)
	if err != nil {
		if isNotFound(err) {
			withSnapshots = nil
		} else {
			return nil, err
		}
	}

	seen := map[string]bool{}
	var union []string
	for _, locale := range append(withDrafts, withSnapshots...) {
		normalized := strings.ToLower(locale)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		union = append(union, normalized)
	}
	sort.Strings(union)
	return union, nil
}

func isNotFound(err error) bool {
	var notFound *snapshots.NotFoundError
	return errors.As(err, &notFound)
}
