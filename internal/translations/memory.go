package translations

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type draftKey struct {
	stringID uuid.UUID
	locale   string
}

func newDraftKey(stringID uuid.UUID, locale string) draftKey {
	return draftKey{stringID: stringID, locale: strings.ToLower(locale)}
}

// MemoryStringRepository is an in-memory implementation for scaffolding and tests.
type MemoryStringRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*TranslationString
}

// NewMemoryStringRepository creates an empty in-memory string repository.
func NewMemoryStringRepository() *MemoryStringRepository {
	return &MemoryStringRepository{
		records: make(map[uuid.UUID]*TranslationString),
	}
}

// Create inserts the supplied string record.
func (m *MemoryStringRepository) Create(_ context.Context, record *TranslationString) (*TranslationString, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneString(record)
	m.records[copied.ID] = copied
	return cloneString(copied), nil
}

// Update replaces an existing string record.
func (m *MemoryStringRepository) Update(_ context.Context, record *TranslationString) (*TranslationString, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "translation_string", Key: record.ID.String()}
	}
	copied := cloneString(record)
	m.records[copied.ID] = copied
	return cloneString(copied), nil
}

// GetByID retrieves a string by identifier.
func (m *MemoryStringRepository) GetByID(_ context.Context, id uuid.UUID) (*TranslationString, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "translation_string", Key: id.String()}
	}
	return cloneString(rec), nil
}

// GetByKey retrieves a string by project-scoped key.
func (m *MemoryStringRepository) GetByKey(_ context.Context, projectID uuid.UUID, key string) (*TranslationString, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.ProjectID == projectID && rec.Key == key {
			return cloneString(rec), nil
		}
	}
	return nil, &NotFoundError{Resource: "translation_string", Key: key}
}

// ListByProject returns every string belonging to the project.
func (m *MemoryStringRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*TranslationString, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*TranslationString, 0)
	for _, rec := range m.records {
		if rec.ProjectID == projectID {
			out = append(out, cloneString(rec))
		}
	}
	return out, nil
}

// MemoryDraftRepository stores draft rows keyed by (string, locale).
type MemoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[draftKey]*DraftTranslation
}

// NewMemoryDraftRepository creates an empty in-memory draft repository.
func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{
		drafts: make(map[draftKey]*DraftTranslation),
	}
}

// Get retrieves the current draft for a (string, locale) pair.
func (m *MemoryDraftRepository) Get(_ context.Context, stringID uuid.UUID, locale string) (*DraftTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.drafts[newDraftKey(stringID, locale)]
	if !ok {
		return nil, &NotFoundError{Resource: "draft_translation", Key: stringID.String() + ":" + locale}
	}
	return cloneDraft(rec), nil
}

// ListByString returns every draft row for the string.
func (m *MemoryDraftRepository) ListByString(_ context.Context, stringID uuid.UUID) ([]*DraftTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*DraftTranslation, 0)
	for _, rec := range m.drafts {
		if rec.StringID == stringID {
			out = append(out, cloneDraft(rec))
		}
	}
	return out, nil
}

// ListByProjectLocale returns every draft row for the (project, locale) pair.
func (m *MemoryDraftRepository) ListByProjectLocale(_ context.Context, projectID uuid.UUID, locale string) ([]*DraftTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lowered := strings.ToLower(locale)
	out := make([]*DraftTranslation, 0)
	for _, rec := range m.drafts {
		if rec.ProjectID == projectID && strings.ToLower(rec.Locale) == lowered {
			out = append(out, cloneDraft(rec))
		}
	}
	return out, nil
}

// ListLocalesByProject returns the distinct locales with draft rows, sorted.
func (m *MemoryDraftRepository) ListLocalesByProject(_ context.Context, projectID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	out := make([]string, 0)
	for _, rec := range m.drafts {
		if rec.ProjectID != projectID {
			continue
		}
		lowered := strings.ToLower(rec.Locale)
		if !seen[lowered] {
			seen[lowered] = true
			out = append(out, lowered)
		}
	}
	sort.Strings(out)
	return out, nil
}

// UpsertBatch applies every row or none.
func (m *MemoryDraftRepository) UpsertBatch(_ context.Context, drafts []*DraftTranslation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, draft := range drafts {
		if draft == nil {
			continue
		}
		m.drafts[newDraftKey(draft.StringID, draft.Locale)] = cloneDraft(draft)
	}
	return nil
}

// MemoryProjectLocales is a ProjectRepository test double keyed by project id.
type MemoryProjectLocales struct {
	mu      sync.RWMutex
	locales map[uuid.UUID][]string
}

// NewMemoryProjectLocales constructs the repository.
func NewMemoryProjectLocales() *MemoryProjectLocales {
	return &MemoryProjectLocales{
		locales: make(map[uuid.UUID][]string),
	}
}

// Put registers the enabled locales for a project.
func (m *MemoryProjectLocales) Put(projectID uuid.UUID, locales []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]string, len(locales))
	copy(copied, locales)
	m.locales[projectID] = copied
}

// EnabledLocales returns the project's enabled locale codes.
func (m *MemoryProjectLocales) EnabledLocales(_ context.Context, projectID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locales, ok := m.locales[projectID]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: projectID.String()}
	}
	copied := make([]string, len(locales))
	copy(copied, locales)
	return copied, nil
}

func cloneString(src *TranslationString) *TranslationString {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Context != nil {
		ctx := *src.Context
		copied.Context = &ctx
	}
	copied.Drafts = nil
	return &copied
}

func cloneDraft(src *DraftTranslation) *DraftTranslation {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
