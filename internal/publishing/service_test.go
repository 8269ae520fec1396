package publishing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/google/uuid"
)

type publishFixture struct {
	projects     projects.Service
	translations translations.Service
	store        *snapshots.MemoryStore
	publisher    publishing.Publisher
	project      *projects.Project
	editor       domain.UserRef
}

func newPublishFixture(t *testing.T, locales ...string) *publishFixture {
	t.Helper()
	ctx := context.Background()

	if len(locales) == 0 {
		locales = []string{"en", "es"}
	}

	projectSvc := projects.NewService(projects.NewMemoryRepository())
	project, err := projectSvc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       uuid.New(),
		Name:          "Marketing Site",
		DefaultLocale: locales[0],
		Locales:       locales,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	projectLocales := translations.NewMemoryProjectLocales()
	projectLocales.Put(project.ID, project.Locales)

	translationSvc := translations.NewService(
		translations.NewMemoryStringRepository(),
		translations.NewMemoryDraftRepository(),
		projectLocales,
	)

	store := snapshots.NewMemoryStore()

	return &publishFixture{
		projects:     projectSvc,
		translations: translationSvc,
		store:        store,
		publisher:    publishing.NewPublisher(projectSvc, translationSvc, store),
		project:      project,
		editor:       domain.UserRef{ID: uuid.New(), Name: "Alice"},
	}
}

func (f *publishFixture) upsert(t *testing.T, key string, values map[string]string) {
	t.Helper()
	if _, err := f.translations.UpsertDraft(context.Background(), translations.UpsertDraftRequest{
		ProjectID: f.project.ID,
		Key:       key,
		Values:    values,
		UpdatedBy: f.editor,
	}); err != nil {
		t.Fatalf("upsert draft %s: %v", key, err)
	}
}

func TestPublisher_FirstPublishCoversAllEnabledLocales(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome", "es": "Bienvenido"})

	result, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected both locales published, got %d", len(result))
	}
	for _, locale := range []string{"en", "es"} {
		snap, ok := result[locale]
		if !ok {
			t.Fatalf("expected %s in result", locale)
		}
		if snap.Version != 1 {
			t.Fatalf("expected version 1 for %s, got %d", locale, snap.Version)
		}
		if snap.StringCount != 1 {
			t.Fatalf("expected string count 1 for %s, got %d", locale, snap.StringCount)
		}
		if snap.PublishedBy.Name != "Alice" {
			t.Fatalf("expected publisher identity, got %q", snap.PublishedBy.Name)
		}
	}
}

func TestPublisher_SecondPublishSkipsUnchangedLocales(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome", "es": "Bienvenido"})
	if _, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome back"})

	result, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("expected only the changed locale, got %d entries", len(result))
	}
	enSnap, ok := result["en"]
	if !ok {
		t.Fatal("expected en in result")
	}
	if enSnap.Version != 2 {
		t.Fatalf("expected en version 2, got %d", enSnap.Version)
	}
	if _, ok := result["es"]; ok {
		t.Fatal("expected unchanged es to be absent from result")
	}
}

func TestPublisher_NoChangesDetected(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome"})

	if _, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	_, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if !errors.Is(err, publishing.ErrNoChangesDetected) {
		t.Fatalf("expected no changes error, got %v", err)
	}

	forced, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		Force:       true,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("forced publish: %v", err)
	}
	if forced["en"].Version != 2 {
		t.Fatalf("expected forced publish to create version 2, got %d", forced["en"].Version)
	}
}

func TestPublisher_RejectsDisabledLocales(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome"})

	_, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		Locales:     []string{"en", "fr", "de"},
		PublishedBy: f.editor,
	})
	if !errors.Is(err, publishing.ErrLocaleNotEnabled) {
		t.Fatalf("expected locale not enabled error, got %v", err)
	}

	var localeErr *publishing.LocaleNotEnabledError
	if !errors.As(err, &localeErr) {
		t.Fatalf("expected LocaleNotEnabledError, got %T", err)
	}
	if len(localeErr.Locales) != 2 {
		t.Fatalf("expected both offending locales named, got %v", localeErr.Locales)
	}

	// validation happened before any write
	if _, err := f.store.GetLatest(ctx, f.project.ID, "en"); err == nil {
		t.Fatal("expected no snapshot after failed validation")
	}
}

func TestPublisher_NothingToPublish(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")

	_, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if !errors.Is(err, publishing.ErrNothingToPublish) {
		t.Fatalf("expected nothing to publish error, got %v", err)
	}
}

func TestPublisher_SnapshotImmutableAcrossLaterEdits(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome"})
	first, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("first publish: %v", err)
	}

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Hello again"})
	if _, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	}); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	pinned, err := f.store.Get(ctx, f.project.ID, "en", first["en"].Version)
	if err != nil {
		t.Fatalf("read pinned version: %v", err)
	}
	if pinned.Data["HOME.TITLE"] != "Welcome" {
		t.Fatalf("expected version 1 data unchanged, got %q", pinned.Data["HOME.TITLE"])
	}
}

// countingStore wraps the memory store to observe which write path the
// publisher takes and to simulate a storage failure during apply.
type countingStore struct {
	*snapshots.MemoryStore
	createCalls int
	batchCalls  int
	failBatch   bool
}

func (s *countingStore) Create(ctx context.Context, req snapshots.CreateSnapshotRequest) (*snapshots.TranslationSnapshot, error) {
	s.createCalls++
	return s.MemoryStore.Create(ctx, req)
}

func (s *countingStore) CreateBatch(ctx context.Context, reqs []snapshots.CreateSnapshotRequest) ([]*snapshots.TranslationSnapshot, error) {
	s.batchCalls++
	if s.failBatch {
		return nil, errors.New("storage unavailable")
	}
	return s.MemoryStore.CreateBatch(ctx, reqs)
}

func TestPublisher_MultiLocaleApplyIsOneWrite(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")
	store := &countingStore{MemoryStore: f.store}
	publisher := publishing.NewPublisher(f.projects, f.translations, store)

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome", "es": "Bienvenido"})

	result, err := publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		Force:       true,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected both locales published, got %d", len(result))
	}
	if store.batchCalls != 1 {
		t.Fatalf("expected one batch write, got %d", store.batchCalls)
	}
	if store.createCalls != 0 {
		t.Fatalf("expected no per-locale writes, got %d", store.createCalls)
	}
}

func TestPublisher_FailedApplyCommitsNothing(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")
	store := &countingStore{MemoryStore: f.store, failBatch: true}
	publisher := publishing.NewPublisher(f.projects, f.translations, store)

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome", "es": "Bienvenido"})

	if _, err := publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		Force:       true,
		PublishedBy: f.editor,
	}); err == nil {
		t.Fatal("expected publish to fail")
	}

	for _, locale := range []string{"en", "es"} {
		if _, err := f.store.GetLatest(ctx, f.project.ID, locale); err == nil {
			t.Fatalf("expected no committed snapshot for %s after failed publish", locale)
		}
	}
}

func TestPublisher_UntranslatedKeysOmittedFromSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es")

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome", "es": "Bienvenido"})
	f.upsert(t, "HOME.SUBTITLE", map[string]string{"en": "Get started"})

	result, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		PublishedBy: f.editor,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if result["en"].StringCount != 2 {
		t.Fatalf("expected 2 en strings, got %d", result["en"].StringCount)
	}
	if result["es"].StringCount != 1 {
		t.Fatalf("expected 1 es string, got %d", result["es"].StringCount)
	}
	if _, ok := result["es"].Data["HOME.SUBTITLE"]; ok {
		t.Fatal("expected untranslated key omitted from es snapshot")
	}
}
