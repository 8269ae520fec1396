package di

import (
	"context"
	"time"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/logging/gologger"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/publicread"
	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/internal/runtimeconfig"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Defaults resolve to in-memory
// implementations; supplying a bun.DB swaps the persistence layer in place.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	projectRepo    projects.Repository
	stringRepo     translations.StringRepository
	draftRepo      translations.DraftRepository
	projectLocales translations.ProjectRepository
	snapshotStore  snapshots.Store

	projectSvc     projects.Service
	translationSvc translations.Service
	publisher      publishing.Publisher
	historyReader  publishing.HistoryReader
	publicReadSvc  publicread.Service

	clock func() time.Time
	id    func() uuid.UUID
}

// Option mutates the container before it is finalised.
type Option func(*Container)

func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the default logger provider binding.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithClock overrides the clock used to stamp records across modules.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator across modules.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		if generator != nil {
			c.id = generator
		}
	}
}

// WithProjectRepository overrides the default project repository binding.
func WithProjectRepository(repo projects.Repository) Option {
	return func(c *Container) {
		c.projectRepo = repo
	}
}

// WithSnapshotStore overrides the default snapshot store binding.
func WithSnapshotStore(store snapshots.Store) Option {
	return func(c *Container) {
		c.snapshotStore = store
	}
}

// WithProjectService overrides the default project service binding.
func WithProjectService(svc projects.Service) Option {
	return func(c *Container) {
		c.projectSvc = svc
	}
}

// WithTranslationService overrides the default draft store binding.
func WithTranslationService(svc translations.Service) Option {
	return func(c *Container) {
		c.translationSvc = svc
	}
}

// WithPublisher overrides the default publish orchestrator binding.
func WithPublisher(pub publishing.Publisher) Option {
	return func(c *Container) {
		c.publisher = pub
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()

	return c
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return
	}

	format := c.Config.Logging.Format
	switch c.Config.Logging.Provider {
	case "gologger":
	case "console":
		if format == "" {
			format = "console"
		}
	default:
		return
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		// config validation vets level and format, so this is a wiring defect
		panic(err)
	}
	c.loggerProvider = provider
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	useBun := c.bunDB != nil && c.Config.Storage.Provider != "memory"

	if c.projectRepo == nil {
		if useBun {
			c.projectRepo = projects.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.projectRepo = projects.NewMemoryRepository()
		}
	}

	if c.stringRepo == nil {
		if useBun {
			c.stringRepo = translations.NewBunStringRepository(c.bunDB)
		} else {
			c.stringRepo = translations.NewMemoryStringRepository()
		}
	}

	if c.draftRepo == nil {
		if useBun {
			c.draftRepo = translations.NewBunDraftRepository(c.bunDB)
		} else {
			c.draftRepo = translations.NewMemoryDraftRepository()
		}
	}

	if c.snapshotStore == nil {
		if useBun {
			c.snapshotStore = snapshots.NewBunStoreWithCache(
				c.bunDB,
				c.cacheService,
				c.keySerializer,
				snapshots.WithBunClock(c.clock),
			)
		} else {
			c.snapshotStore = snapshots.NewMemoryStore(
				snapshots.WithClock(c.clock),
				snapshots.WithIDGenerator(c.id),
			)
		}
	}
}

func (c *Container) configureServices() {
	// The project service and the draft store reference each other: locale
	// edits consult open drafts, draft writes consult enabled locales. The
	// checker binds late so both can be built from the same container pass.
	checker := &draftLocaleChecker{}

	if c.projectSvc == nil {
		c.projectSvc = projects.NewService(
			c.projectRepo,
			projects.WithClock(c.clock),
			projects.WithIDGenerator(c.id),
			projects.WithDraftLocaleChecker(checker),
		)
	}

	if c.projectLocales == nil {
		c.projectLocales = &projectLocaleSource{projects: c.projectSvc}
	}

	if c.translationSvc == nil {
		c.translationSvc = translations.NewService(
			c.stringRepo,
			c.draftRepo,
			c.projectLocales,
			translations.WithClock(c.clock),
			translations.WithIDGenerator(translations.IDGenerator(c.id)),
		)
	}
	checker.drafts = c.translationSvc

	if c.publisher == nil && c.Config.Features.Publishing {
		c.publisher = publishing.NewPublisher(c.projectSvc, c.translationSvc, c.snapshotStore)
	}

	if c.historyReader == nil && c.Config.Features.History {
		c.historyReader = publishing.NewHistoryReader(c.translationSvc, c.snapshotStore)
	}

	if c.publicReadSvc == nil && c.Config.Features.PublicRead {
		c.publicReadSvc = publicread.NewService(c.projectSvc, c.snapshotStore)
	}
}

// LoggerProvider exposes the configured logger provider. A nil result means
// module loggers fall back to the no-op implementation.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, "")
}

// ProjectRepository exposes the configured project repository.
func (c *Container) ProjectRepository() projects.Repository {
	return c.projectRepo
}

// SnapshotStore exposes the configured snapshot store.
func (c *Container) SnapshotStore() snapshots.Store {
	return c.snapshotStore
}

// ProjectService returns the configured project service.
func (c *Container) ProjectService() projects.Service {
	return c.projectSvc
}

// TranslationService returns the configured draft store service.
func (c *Container) TranslationService() translations.Service {
	return c.translationSvc
}

// Publisher returns the configured publish orchestrator. The result is nil
// when the publishing feature is disabled.
func (c *Container) Publisher() publishing.Publisher {
	return c.publisher
}

// HistoryReader returns the configured version history reader. The result is
// nil when the history feature is disabled.
func (c *Container) HistoryReader() publishing.HistoryReader {
	return c.historyReader
}

// PublicReadService returns the configured public read service. The result is
// nil when the public read feature is disabled.
func (c *Container) PublicReadService() publicread.Service {
	return c.publicReadSvc
}

// projectLocaleSource adapts the project service to the locale lookup the
// draft store validates against.
type projectLocaleSource struct {
	projects projects.Service
}

func (p *projectLocaleSource) EnabledLocales(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	project, err := p.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return project.Locales, nil
}

// draftLocaleChecker defers to the draft store once it has been constructed.
type draftLocaleChecker struct {
	drafts translations.Service
}

func (d *draftLocaleChecker) DraftLocales(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	if d.drafts == nil {
		return nil, nil
	}
	return d.drafts.DraftLocales(ctx, projectID)
}
