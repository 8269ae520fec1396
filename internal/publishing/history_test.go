package publishing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/internal/snapshots"
)

func TestHistoryReader_PaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en")
	reader := publishing.NewHistoryReader(f.translations, f.store)

	for i := 1; i <= 5; i++ {
		f.upsert(t, "HOME.TITLE", map[string]string{"en": fmt.Sprintf("Welcome %d", i)})
		if _, err := f.publisher.Publish(ctx, publishing.PublishRequest{
			ProjectID:   f.project.ID,
			PublishedBy: f.editor,
		}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	page1, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "HOME.TITLE",
		Locale:    "en",
		Page:      1,
		PageSize:  2,
	})
	if err != nil {
		t.Fatalf("history page 1: %v", err)
	}
	if len(page1) != 1 {
		t.Fatalf("expected a single locale history, got %d", len(page1))
	}

	en := page1[0]
	if en.Locale != "en" {
		t.Fatalf("expected en history, got %q", en.Locale)
	}
	if en.Total != 5 || !en.HasMore {
		t.Fatalf("unexpected totals: total=%d hasMore=%v", en.Total, en.HasMore)
	}
	if len(en.Versions) != 2 || en.Versions[0].Version != 5 || en.Versions[1].Version != 4 {
		t.Fatalf("expected versions [5 4], got %+v", en.Versions)
	}
	if en.Draft == nil || en.Draft.Value != "Welcome 5" {
		t.Fatalf("expected current draft on page 1, got %+v", en.Draft)
	}
	if en.Versions[0].Value == nil || *en.Versions[0].Value != "Welcome 5" {
		t.Fatalf("expected snapshot value on version entry, got %v", en.Versions[0].Value)
	}

	page3, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "HOME.TITLE",
		Locale:    "en",
		Page:      3,
		PageSize:  2,
	})
	if err != nil {
		t.Fatalf("history page 3: %v", err)
	}
	last := page3[0]
	if len(last.Versions) != 1 || last.Versions[0].Version != 1 {
		t.Fatalf("expected versions [1], got %+v", last.Versions)
	}
	if last.HasMore {
		t.Fatal("expected final page to report no more results")
	}
	if last.Draft == nil {
		t.Fatal("expected the draft to ride along on every page")
	}
}

func TestHistoryReader_UnionsDraftAndSnapshotLocales(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en", "es", "fr")
	reader := publishing.NewHistoryReader(f.translations, f.store)

	// en gets a draft and a snapshot, fr only a draft
	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome"})
	if _, err := f.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID:   f.project.ID,
		Locales:     []string{"en"},
		PublishedBy: f.editor,
	}); err != nil {
		t.Fatalf("publish en: %v", err)
	}
	f.upsert(t, "HOME.TITLE", map[string]string{"fr": "Bienvenue"})

	histories, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "HOME.TITLE",
	})
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if len(histories) != 2 {
		t.Fatalf("expected en and fr histories, got %d", len(histories))
	}
	if histories[0].Locale != "en" || histories[1].Locale != "fr" {
		t.Fatalf("expected sorted locales [en fr], got [%s %s]", histories[0].Locale, histories[1].Locale)
	}

	fr := histories[1]
	if len(fr.Versions) != 0 {
		t.Fatalf("expected fr with zero snapshot versions, got %d", len(fr.Versions))
	}
	if fr.Draft == nil || fr.Draft.Value != "Bienvenue" {
		t.Fatalf("expected fr draft present, got %+v", fr.Draft)
	}
	if fr.Total != 0 || fr.HasMore {
		t.Fatalf("unexpected fr totals: total=%d hasMore=%v", fr.Total, fr.HasMore)
	}
}

func TestHistoryReader_Validation(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, "en")
	reader := publishing.NewHistoryReader(f.translations, f.store)

	f.upsert(t, "HOME.TITLE", map[string]string{"en": "Welcome"})

	if _, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "HOME.TITLE",
		Page:      -1,
	}); !errors.Is(err, snapshots.ErrPageInvalid) {
		t.Fatalf("expected page invalid error, got %v", err)
	}

	if _, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "HOME.TITLE",
		PageSize:  snapshots.MaxPageSize + 1,
	}); !errors.Is(err, snapshots.ErrPageSizeInvalid) {
		t.Fatalf("expected page size invalid error, got %v", err)
	}

	if _, err := reader.GetHistory(ctx, publishing.HistoryRequest{
		ProjectID: f.project.ID,
		Key:       "  ",
	}); !errors.Is(err, publishing.ErrStringKeyRequired) {
		t.Fatalf("expected string key required, got %v", err)
	}
}
