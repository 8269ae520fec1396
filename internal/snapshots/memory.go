package snapshots

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type localeKey struct {
	projectID uuid.UUID
	locale    string
}

func newLocaleKey(projectID uuid.UUID, locale string) localeKey {
	return localeKey{projectID: projectID, locale: strings.ToLower(locale)}
}

// MemoryStore is an in-memory Store for scaffolding and tests. Version
// assignment happens under the write lock, so sequences stay gapless even
// with concurrent callers.
type MemoryStore struct {
	mu       sync.RWMutex
	byLocale map[localeKey][]*TranslationSnapshot
	now      func() time.Time
	id       func() uuid.UUID
}

// MemoryStoreOption configures the store at construction time.
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the clock used to stamp snapshots.
func WithClock(clock func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithIDGenerator overrides snapshot id generation.
func WithIDGenerator(generator func() uuid.UUID) MemoryStoreOption {
	return func(m *MemoryStore) {
		if generator != nil {
			m.id = generator
		}
	}
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		byLocale: make(map[localeKey][]*TranslationSnapshot),
		now:      time.Now,
		id:       uuid.New,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create appends a snapshot with the next version in the sequence.
func (m *MemoryStore) Create(_ context.Context, req CreateSnapshotRequest) (*TranslationSnapshot, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := newLocaleKey(req.ProjectID, req.Locale)
	existing := m.byLocale[key]

	record := &TranslationSnapshot{
		ID:            m.id(),
		ProjectID:     req.ProjectID,
		Locale:        req.Locale,
		Version:       len(existing) + 1,
		Data:          cloneData(req.Data),
		CreatedAt:     m.now().UTC(),
		CreatedByID:   req.CreatedByID,
		CreatedByName: req.CreatedByName,
	}

	m.byLocale[key] = append(existing, record)
	return cloneSnapshot(record), nil
}

// CreateBatch appends every requested snapshot under one critical section.
// Requests are validated before any record is staged, and staged records are
// committed together, so a rejected batch leaves the store untouched.
func (m *MemoryStore) CreateBatch(_ context.Context, reqs []CreateSnapshotRequest) ([]*TranslationSnapshot, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	for _, req := range reqs {
		if err := validateCreate(req); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[localeKey][]*TranslationSnapshot, len(reqs))
	out := make([]*TranslationSnapshot, 0, len(reqs))
	for _, req := range reqs {
		key := newLocaleKey(req.ProjectID, req.Locale)
		record := &TranslationSnapshot{
			ID:            m.id(),
			ProjectID:     req.ProjectID,
			Locale:        req.Locale,
			Version:       len(m.byLocale[key]) + len(staged[key]) + 1,
			Data:          cloneData(req.Data),
			CreatedAt:     m.now().UTC(),
			CreatedByID:   req.CreatedByID,
			CreatedByName: req.CreatedByName,
		}
		staged[key] = append(staged[key], record)
		out = append(out, cloneSnapshot(record))
	}
	for key, records := range staged {
		m.byLocale[key] = append(m.byLocale[key], records...)
	}
	return out, nil
}

// Get retrieves one pinned version.
func (m *MemoryStore) Get(_ context.Context, projectID uuid.UUID, locale string, version int) (*TranslationSnapshot, error) {
	if version < 1 {
		return nil, ErrVersionInvalid
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.byLocale[newLocaleKey(projectID, locale)] {
		if rec.Version == version {
			return cloneSnapshot(rec), nil
		}
	}
	return nil, &NotFoundError{Resource: "translation_snapshot", Key: snapshotLookupKey(projectID, locale, version)}
}

// GetLatest retrieves the highest version, or a NotFoundError when the pair
// has never been published.
func (m *MemoryStore) GetLatest(_ context.Context, projectID uuid.UUID, locale string) (*TranslationSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.byLocale[newLocaleKey(projectID, locale)]
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation_snapshot", Key: projectID.String() + ":" + locale}
	}
	return cloneSnapshot(records[len(records)-1]), nil
}

// ListVersions returns one page of the locale's history, newest first.
func (m *MemoryStore) ListVersions(_ context.Context, projectID uuid.UUID, locale string, page, pageSize int) (*VersionPage, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.byLocale[newLocaleKey(projectID, locale)]
	total := len(records)

	descending := make([]*TranslationSnapshot, 0, total)
	for i := total - 1; i >= 0; i-- {
		descending = append(descending, records[i])
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]*TranslationSnapshot, 0, end-start)
	for _, rec := range descending[start:end] {
		out = append(out, cloneSnapshot(rec))
	}

	return &VersionPage{
		Snapshots: out,
		Total:     total,
		HasMore:   page*pageSize < total,
	}, nil
}

// ListLocalesWithSnapshots returns every locale the project has published.
func (m *MemoryStore) ListLocalesWithSnapshots(_ context.Context, projectID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for key, records := range m.byLocale {
		if key.projectID != projectID || len(records) == 0 {
			continue
		}
		locale := records[0].Locale
		if _, ok := seen[locale]; ok {
			continue
		}
		seen[locale] = struct{}{}
		out = append(out, locale)
	}
	sort.Strings(out)
	return out, nil
}

func snapshotLookupKey(projectID uuid.UUID, locale string, version int) string {
	return fmt.Sprintf("%s:%s:v%d", projectID, locale, version)
}
