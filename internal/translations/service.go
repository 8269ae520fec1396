package translations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/validation"
	"github.com/google/uuid"
)

// Service exposes the draft store use-cases.
type Service interface {
	UpsertDraft(ctx context.Context, req UpsertDraftRequest) ([]*DraftTranslation, error)
	GetString(ctx context.Context, projectID uuid.UUID, key string) (*TranslationString, error)
	ListDraftsForLocales(ctx context.Context, stringID uuid.UUID, locales []string) (map[string]*DraftTranslation, error)
	ListDraftLocalesHavingValue(ctx context.Context, stringID uuid.UUID) ([]string, error)
	ListStrings(ctx context.Context, projectID uuid.UUID) ([]*StringWithDrafts, error)
	DraftValuesForLocale(ctx context.Context, projectID uuid.UUID, locale string) (map[string]string, error)
	DraftLocales(ctx context.Context, projectID uuid.UUID) ([]string, error)
	ImportDraftDocument(ctx context.Context, req ImportDocumentRequest) (int, error)
}

// ImportDocumentRequest carries a raw locale file for bulk draft import.
// Document must decode to a flat JSON object of key→value strings.
type ImportDocumentRequest struct {
	ProjectID uuid.UUID
	Locale    string
	Document  []byte
	UpdatedBy domain.UserRef
}

// UpsertDraftRequest captures one draft edit targeting a single string.
// Values maps locale code to the new text. A nil IfUnmodifiedSince skips the
// stale-write guard; it does not mean "always conflict".
type UpsertDraftRequest struct {
	ProjectID         uuid.UUID
	Key               string
	Context           *string
	Values            map[string]string
	IfUnmodifiedSince *time.Time
	UpdatedBy         domain.UserRef
}

// StringRepository abstracts storage operations for translation strings.
type StringRepository interface {
	Create(ctx context.Context, record *TranslationString) (*TranslationString, error)
	Update(ctx context.Context, record *TranslationString) (*TranslationString, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TranslationString, error)
	GetByKey(ctx context.Context, projectID uuid.UUID, key string) (*TranslationString, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*TranslationString, error)
}

// DraftRepository abstracts storage operations for draft rows. UpsertBatch
// must apply every row or none.
type DraftRepository interface {
	Get(ctx context.Context, stringID uuid.UUID, locale string) (*DraftTranslation, error)
	ListByString(ctx context.Context, stringID uuid.UUID) ([]*DraftTranslation, error)
	ListByProjectLocale(ctx context.Context, projectID uuid.UUID, locale string) ([]*DraftTranslation, error)
	ListLocalesByProject(ctx context.Context, projectID uuid.UUID) ([]string, error)
	UpsertBatch(ctx context.Context, drafts []*DraftTranslation) error
}

// ProjectRepository resolves the enabled-locale set the draft store enforces.
type ProjectRepository interface {
	EnabledLocales(ctx context.Context, projectID uuid.UUID) ([]string, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	strings  StringRepository
	drafts   DraftRepository
	projects ProjectRepository
	now      func() time.Time
	id       IDGenerator
}

// NewService constructs a draft store service with the required dependencies.
func NewService(strings StringRepository, drafts DraftRepository, projects ProjectRepository, opts ...ServiceOption) Service {
	s := &service{
		strings:  strings,
		drafts:   drafts,
		projects: projects,
		now:      time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// UpsertDraft validates and applies a multi-locale edit for one string.
// Validation and the stale-write guard run before any write; all locale rows
// share one timestamp so readers observe a consistent multi-locale write.
func (s *service) UpsertDraft(ctx context.Context, req UpsertDraftRequest) ([]*DraftTranslation, error) {
	if req.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		return nil, ErrKeyRequired
	}
	if len(req.Values) == 0 {
		return nil, ErrNoValues
	}

	enabled, err := s.projects.EnabledLocales(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	enabledSet := make(map[string]struct{}, len(enabled))
	for _, code := range enabled {
		enabledSet[strings.ToLower(code)] = struct{}{}
	}

	locales := make([]string, 0, len(req.Values))
	for locale := range req.Values {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	var disabled []string
	for _, locale := range locales {
		if _, ok := enabledSet[strings.ToLower(locale)]; !ok {
			disabled = append(disabled, locale)
		}
	}
	if len(disabled) > 0 {
		return nil, &LocaleNotEnabledError{Locales: disabled}
	}

	for _, locale := range locales {
		if strings.TrimSpace(req.Values[locale]) == "" {
			return nil, &EmptyValueError{Locale: locale}
		}
	}

	record, err := s.getOrCreateString(ctx, req.ProjectID, key, req.Context)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]*DraftTranslation, len(locales))
	for _, locale := range locales {
		current, getErr := s.drafts.Get(ctx, record.ID, locale)
		if getErr != nil {
			var notFound *NotFoundError
			if errors.As(getErr, &notFound) {
				continue
			}
			return nil, getErr
		}
		if IsStaleWrite(current.UpdatedAt, req.IfUnmodifiedSince) {
			return nil, &ConcurrentModificationError{
				Locale:         locale,
				LastModifiedAt: current.UpdatedAt,
				LastModifiedBy: current.UpdatedBy(),
			}
		}
		existing[locale] = current
	}

	now := s.now().UTC()
	batch := make([]*DraftTranslation, 0, len(locales))
	for _, locale := range locales {
		draft := &DraftTranslation{
			ID:            s.id(),
			StringID:      record.ID,
			ProjectID:     req.ProjectID,
			Locale:        locale,
			Value:         req.Values[locale],
			CreatedAt:     now,
			UpdatedAt:     now,
			UpdatedByID:   req.UpdatedBy.ID,
			UpdatedByName: req.UpdatedBy.Name,
		}
		if current, ok := existing[locale]; ok {
			draft.ID = current.ID
			draft.CreatedAt = current.CreatedAt
		}
		batch = append(batch, draft)
	}

	if err := s.drafts.UpsertBatch(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// ListDraftsForLocales returns the current draft per requested locale.
// Locales without a draft are simply absent from the result.
func (s *service) ListDraftsForLocales(ctx context.Context, stringID uuid.UUID, locales []string) (map[string]*DraftTranslation, error) {
	if stringID == uuid.Nil {
		return nil, ErrStringIDRequired
	}

	out := make(map[string]*DraftTranslation, len(locales))
	for _, locale := range locales {
		draft, err := s.drafts.Get(ctx, stringID, locale)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		out[locale] = draft
	}
	return out, nil
}

// ListDraftLocalesHavingValue returns the locales that currently carry a
// non-empty draft value for the string, sorted for stable output.
func (s *service) ListDraftLocalesHavingValue(ctx context.Context, stringID uuid.UUID) ([]string, error) {
	if stringID == uuid.Nil {
		return nil, ErrStringIDRequired
	}

	drafts, err := s.drafts.ListByString(ctx, stringID)
	if err != nil {
		return nil, err
	}

	locales := make([]string, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Value) == "" {
			continue
		}
		locales = append(locales, draft.Locale)
	}
	sort.Strings(locales)
	return locales, nil
}

// ListStrings returns every string in the project with its current draft
// values keyed by locale, sorted by key.
func (s *service) ListStrings(ctx context.Context, projectID uuid.UUID) ([]*StringWithDrafts, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	records, err := s.strings.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]*StringWithDrafts, 0, len(records))
	for _, record := range records {
		drafts, listErr := s.drafts.ListByString(ctx, record.ID)
		if listErr != nil {
			return nil, listErr
		}
		byLocale := make(map[string]*DraftTranslation, len(drafts))
		for _, draft := range drafts {
			byLocale[draft.Locale] = draft
		}
		out = append(out, &StringWithDrafts{String: record, Drafts: byLocale})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].String.Key < out[j].String.Key
	})
	return out, nil
}

// DraftValuesForLocale collects the publishable key→value map for a locale.
// Keys without a non-empty draft value are omitted.
func (s *service) DraftValuesForLocale(ctx context.Context, projectID uuid.UUID, locale string) (map[string]string, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	records, err := s.strings.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	keysByString := make(map[uuid.UUID]string, len(records))
	for _, record := range records {
		keysByString[record.ID] = record.Key
	}

	drafts, err := s.drafts.ListByProjectLocale(ctx, projectID, locale)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(drafts))
	for _, draft := range drafts {
		key, ok := keysByString[draft.StringID]
		if !ok {
			continue
		}
		if strings.TrimSpace(draft.Value) == "" {
			continue
		}
		values[key] = draft.Value
	}
	return values, nil
}

// GetString resolves a translation string by its project-unique key.
func (s *service) GetString(ctx context.Context, projectID uuid.UUID, key string) (*TranslationString, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrKeyRequired
	}
	return s.strings.GetByKey(ctx, projectID, key)
}

// DraftLocales returns the locales that currently hold draft rows for the
// project, sorted ascending.
func (s *service) DraftLocales(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	return s.drafts.ListLocalesByProject(ctx, projectID)
}

// ImportDraftDocument bulk-applies a decoded locale file as draft edits.
// Keys with blank values are skipped. Returns the number of imported keys.
func (s *service) ImportDraftDocument(ctx context.Context, req ImportDocumentRequest) (int, error) {
	if req.ProjectID == uuid.Nil {
		return 0, ErrProjectIDRequired
	}
	locale := strings.ToLower(strings.TrimSpace(req.Locale))
	if locale == "" {
		return 0, &LocaleNotEnabledError{Locales: []string{req.Locale}}
	}

	values, err := validation.ParseTranslationDocument(req.Document)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if strings.TrimSpace(values[key]) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	imported := 0
	for _, key := range keys {
		if _, err := s.UpsertDraft(ctx, UpsertDraftRequest{
			ProjectID: req.ProjectID,
			Key:       key,
			Values:    map[string]string{locale: values[key]},
			UpdatedBy: req.UpdatedBy,
		}); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (s *service) getOrCreateString(ctx context.Context, projectID uuid.UUID, key string, keyContext *string) (*TranslationString, error) {
	record, err := s.strings.GetByKey(ctx, projectID, key)
	if err == nil {
		if keyContext != nil && (record.Context == nil || *record.Context != *keyContext) {
			record.Context = keyContext
			record.UpdatedAt = s.now().UTC()
			return s.strings.Update(ctx, record)
		}
		return record, nil
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.strings.Create(ctx, &TranslationString{
		ID:        s.id(),
		ProjectID: projectID,
		Key:       key,
		Context:   keyContext,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		return created, nil
	}
	if !isUniqueKeyViolation(err) {
		return nil, err
	}
	// a concurrent upsert inserted the key first; adopt its row
	return s.strings.GetByKey(ctx, projectID, key)
}

func isUniqueKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
