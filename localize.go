package localize

import (
	"github.com/goliatone/go-localize/internal/di"
	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/publicread"
	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// UserRef identifies the account behind a write for audit trails.
type UserRef = domain.UserRef

// ProjectService exports the project lifecycle contract.
type ProjectService = projects.Service

// Project exports the project record.
type Project = projects.Project

// CreateProjectRequest exports the project creation payload.
type CreateProjectRequest = projects.CreateProjectRequest

// TranslationService exports the draft store contract.
type TranslationService = translations.Service

// UpsertDraftRequest exports the draft edit payload.
type UpsertDraftRequest = translations.UpsertDraftRequest

// ImportDocumentRequest exports the bulk locale document import payload.
type ImportDocumentRequest = translations.ImportDocumentRequest

// DraftTranslation exports the per-locale draft record.
type DraftTranslation = translations.DraftTranslation

// TranslationString exports the canonical string record.
type TranslationString = translations.TranslationString

// StringWithDrafts exports a string joined with its draft rows.
type StringWithDrafts = translations.StringWithDrafts

// SnapshotStore exports the snapshot store contract.
type SnapshotStore = snapshots.Store

// TranslationSnapshot exports the immutable published snapshot record.
type TranslationSnapshot = snapshots.TranslationSnapshot

// Publisher exports the publish orchestrator contract.
type Publisher = publishing.Publisher

// PublishRequest exports the publish payload.
type PublishRequest = publishing.PublishRequest

// PublishedSnapshot exports the per-locale publish result.
type PublishedSnapshot = publishing.PublishedSnapshot

// HistoryReader exports the version history contract.
type HistoryReader = publishing.HistoryReader

// HistoryRequest exports the version history query payload.
type HistoryRequest = publishing.HistoryRequest

// LocaleHistory exports one locale's slice of the version history.
type LocaleHistory = publishing.LocaleHistory

// VersionEntry exports one snapshot row in the version history.
type VersionEntry = publishing.VersionEntry

// PublicReadService exports the key-authorized published read contract.
type PublicReadService = publicread.Service

// ReadRequest exports the public read payload.
type ReadRequest = publicread.ReadRequest

// Translations exports the published translation set returned to readers.
type Translations = publicread.Translations

// Logger exports the structured logger contract used across the module.
type Logger = interfaces.Logger

// LoggerProvider exports the named logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

// Option re-exports DI container options so callers can override bindings.
type Option = di.Option

var (
	// WithBunDB swaps the in-memory persistence layer for bun-backed storage.
	WithBunDB = di.WithBunDB
	// WithCache overrides the repository cache bindings.
	WithCache = di.WithCache
	// WithLoggerProvider overrides the logger provider binding.
	WithLoggerProvider = di.WithLoggerProvider
	// WithClock overrides the clock used to stamp records.
	WithClock = di.WithClock
	// WithSnapshotStore overrides the snapshot store binding.
	WithSnapshotStore = di.WithSnapshotStore
	// WithProjectService overrides the project service binding.
	WithProjectService = di.WithProjectService
	// WithTranslationService overrides the draft store binding.
	WithTranslationService = di.WithTranslationService
	// WithPublisher overrides the publish orchestrator binding.
	WithPublisher = di.WithPublisher
	// OpenBunDB wraps a database handle with the dialect matching the
	// configured storage provider.
	OpenBunDB = di.OpenBunDB
)

// Module represents the top level localization runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a localization module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Module{container: di.NewContainer(cfg, opts...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Projects returns the configured project service.
func (m *Module) Projects() ProjectService {
	return m.container.ProjectService()
}

// Translations returns the configured draft store service.
func (m *Module) Translations() TranslationService {
	return m.container.TranslationService()
}

// Snapshots returns the configured snapshot store.
func (m *Module) Snapshots() SnapshotStore {
	return m.container.SnapshotStore()
}

// Publishing returns the configured publish orchestrator. The result is nil
// when the publishing feature is disabled.
func (m *Module) Publishing() Publisher {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Publisher()
}

// History returns the configured version history reader. The result is nil
// when the history feature is disabled.
func (m *Module) History() HistoryReader {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.HistoryReader()
}

// PublicRead returns the configured key-authorized read service. The result
// is nil when the public read feature is disabled.
func (m *Module) PublicRead() PublicReadService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PublicReadService()
}

// Logger returns the root module logger.
func (m *Module) Logger() Logger {
	return m.container.Logger()
}
