package translations_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTranslationsDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewNamedSQLiteMemoryDB(name)
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	ctx := context.Background()
	models := []any{
		(*translations.TranslationString)(nil),
		(*translations.DraftTranslation)(nil),
	}
	for _, model := range models {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	if _, err := bunDB.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_translation_strings_project_key_unique ON translation_strings(project_id, key)"); err != nil {
		t.Fatalf("create string key index: %v", err)
	}
	if _, err := bunDB.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_draft_translations_string_locale_unique ON draft_translations(string_id, locale)"); err != nil {
		t.Fatalf("create draft locale index: %v", err)
	}
	return bunDB
}

func TestService_UpsertDraftWithBunStorage(t *testing.T) {
	ctx := context.Background()
	bunDB := newTranslationsDB(t, "translations_upsert")

	projectID := uuid.New()
	projectLocales := translations.NewMemoryProjectLocales()
	projectLocales.Put(projectID, []string{"en", "es"})

	svc := translations.NewService(
		translations.NewBunStringRepository(bunDB),
		translations.NewBunDraftRepository(bunDB),
		projectLocales,
	)

	editor := domain.UserRef{ID: uuid.New(), Name: "Alice"}
	first, err := svc.UpsertDraft(ctx, translations.UpsertDraftRequest{
		ProjectID: projectID,
		Key:       "HOME.TITLE",
		Values:    map[string]string{"en": "Welcome", "es": "Bienvenido"},
		UpdatedBy: editor,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first))
	}

	// second upsert exercises the ON CONFLICT path
	second, err := svc.UpsertDraft(ctx, translations.UpsertDraftRequest{
		ProjectID: projectID,
		Key:       "HOME.TITLE",
		Values:    map[string]string{"en": "Welcome back"},
		UpdatedBy: editor,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second[0].ID != findLocale(first, "en").ID {
		t.Fatal("expected en row identity preserved across upserts")
	}

	values, err := svc.DraftValuesForLocale(ctx, projectID, "en")
	if err != nil {
		t.Fatalf("draft values: %v", err)
	}
	if values["HOME.TITLE"] != "Welcome back" {
		t.Fatalf("expected updated value, got %q", values["HOME.TITLE"])
	}

	locales, err := svc.DraftLocales(ctx, projectID)
	if err != nil {
		t.Fatalf("draft locales: %v", err)
	}
	if len(locales) != 2 || locales[0] != "en" || locales[1] != "es" {
		t.Fatalf("expected [en es], got %v", locales)
	}
}

func TestService_StaleWriteRejectedWithBunStorage(t *testing.T) {
	ctx := context.Background()
	bunDB := newTranslationsDB(t, "translations_stale")

	projectID := uuid.New()
	projectLocales := translations.NewMemoryProjectLocales()
	projectLocales.Put(projectID, []string{"en"})

	svc := translations.NewService(
		translations.NewBunStringRepository(bunDB),
		translations.NewBunDraftRepository(bunDB),
		projectLocales,
	)

	editor := domain.UserRef{ID: uuid.New(), Name: "Alice"}
	created, err := svc.UpsertDraft(ctx, translations.UpsertDraftRequest{
		ProjectID: projectID,
		Key:       "HOME.TITLE",
		Values:    map[string]string{"en": "Welcome"},
		UpdatedBy: editor,
	})
	if err != nil {
		t.Fatalf("initial upsert: %v", err)
	}

	stale := created[0].UpdatedAt.Add(-time.Minute)
	_, err = svc.UpsertDraft(ctx, translations.UpsertDraftRequest{
		ProjectID:         projectID,
		Key:               "HOME.TITLE",
		Values:            map[string]string{"en": "Stale"},
		IfUnmodifiedSince: &stale,
		UpdatedBy:         editor,
	})
	if !errors.Is(err, translations.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}

	values, err := svc.DraftValuesForLocale(ctx, projectID, "en")
	if err != nil {
		t.Fatalf("draft values: %v", err)
	}
	if values["HOME.TITLE"] != "Welcome" {
		t.Fatalf("expected original value untouched, got %q", values["HOME.TITLE"])
	}
}

func findLocale(drafts []*translations.DraftTranslation, locale string) *translations.DraftTranslation {
	for _, draft := range drafts {
		if draft.Locale == locale {
			return draft
		}
	}
	return nil
}
