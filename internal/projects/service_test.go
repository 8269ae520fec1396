package projects_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-localize/internal/projects"
	"github.com/google/uuid"
)

type stubDraftChecker struct {
	locales []string
}

func (s *stubDraftChecker) DraftLocales(context.Context, uuid.UUID) ([]string, error) {
	return s.locales, nil
}

func newTestService(t *testing.T, opts ...projects.ServiceOption) projects.Service {
	t.Helper()
	base := []projects.ServiceOption{
		projects.WithClock(func() time.Time {
			return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		}),
	}
	return projects.NewService(projects.NewMemoryRepository(), append(base, opts...)...)
}

func TestService_CreateNormalizesLocales(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	created, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Marketing Site",
		DefaultLocale: "EN",
		Locales:       []string{"fr", "EN", " de ", "fr"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if created.DefaultLocale != "en" {
		t.Fatalf("expected lowercased default locale, got %q", created.DefaultLocale)
	}
	want := []string{"en", "fr", "de"}
	if len(created.Locales) != len(want) {
		t.Fatalf("expected locales %v, got %v", want, created.Locales)
	}
	for i := range want {
		if created.Locales[i] != want[i] {
			t.Fatalf("expected locales %v, got %v", want, created.Locales)
		}
	}
	if created.Slug != "marketing-site" {
		t.Fatalf("expected slug marketing-site, got %q", created.Slug)
	}
	if !strings.HasPrefix(created.PublicKey, "pk_") {
		t.Fatalf("expected public key with pk_ prefix, got %q", created.PublicKey)
	}
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "x", DefaultLocale: "en"}); !errors.Is(err, projects.ErrOwnerIDRequired) {
		t.Fatalf("expected owner required, got %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{OwnerID: ownerID, DefaultLocale: "en"}); !errors.Is(err, projects.ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{OwnerID: ownerID, Name: "x"}); !errors.Is(err, projects.ErrDefaultLocaleRequired) {
		t.Fatalf("expected default locale required, got %v", err)
	}
}

func TestService_CreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	req := projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Docs",
		DefaultLocale: "en",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, projects.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	otherOwner := mustUUID("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	req.OwnerID = otherOwner
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("same name under another owner should succeed: %v", err)
	}
}

func TestService_UpdateLocalesRejectsRemovalWithDrafts(t *testing.T) {
	ctx := context.Background()
	checker := &stubDraftChecker{locales: []string{"fr"}}
	svc := newTestService(t, projects.WithDraftLocaleChecker(checker))
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	created, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Docs",
		DefaultLocale: "en",
		Locales:       []string{"fr", "de"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := svc.UpdateLocales(ctx, created.ID, "en", []string{"de"}); !errors.Is(err, projects.ErrLocaleInUse) {
		t.Fatalf("expected locale in use error, got %v", err)
	}

	var inUse *projects.LocaleInUseError
	_, err = svc.UpdateLocales(ctx, created.ID, "en", []string{"de"})
	if !errors.As(err, &inUse) {
		t.Fatalf("expected LocaleInUseError, got %v", err)
	}
	if len(inUse.Locales) != 1 || inUse.Locales[0] != "fr" {
		t.Fatalf("expected blocked locale fr, got %v", inUse.Locales)
	}

	// removing a locale without drafts is allowed
	updated, err := svc.UpdateLocales(ctx, created.ID, "en", []string{"fr"})
	if err != nil {
		t.Fatalf("remove unused locale: %v", err)
	}
	if updated.HasLocale("de") {
		t.Fatal("expected de removed from locale list")
	}
}

func TestService_UpdateLocalesKeepsDefaultFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	created, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Docs",
		DefaultLocale: "en",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	updated, err := svc.UpdateLocales(ctx, created.ID, "fr", []string{"en", "de"})
	if err != nil {
		t.Fatalf("update locales: %v", err)
	}
	if updated.DefaultLocale != "fr" {
		t.Fatalf("expected default locale fr, got %q", updated.DefaultLocale)
	}
	if updated.Locales[0] != "fr" {
		t.Fatalf("expected default locale first, got %v", updated.Locales)
	}
}

func TestService_RotatePublicKeyInvalidatesOldKey(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	created, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Docs",
		DefaultLocale: "en",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	oldKey := created.PublicKey

	rotated, err := svc.RotatePublicKey(ctx, created.ID)
	if err != nil {
		t.Fatalf("rotate public key: %v", err)
	}
	if rotated.PublicKey == oldKey {
		t.Fatal("expected a new public key after rotation")
	}
	if !strings.HasPrefix(rotated.PublicKey, "pk_") {
		t.Fatalf("expected pk_ prefix, got %q", rotated.PublicKey)
	}

	if _, err := svc.GetByPublicKey(ctx, oldKey); err == nil {
		t.Fatal("expected old key lookup to fail after rotation")
	}
	found, err := svc.GetByPublicKey(ctx, rotated.PublicKey)
	if err != nil {
		t.Fatalf("lookup by new key: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected project %s, got %s", created.ID, found.ID)
	}
}

func TestService_UpdateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ownerID := mustUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	first, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Docs",
		DefaultLocale: "en",
	})
	if err != nil {
		t.Fatalf("create first project: %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{
		OwnerID:       ownerID,
		Name:          "Blog",
		DefaultLocale: "en",
	}); err != nil {
		t.Fatalf("create second project: %v", err)
	}

	if _, err := svc.UpdateName(ctx, first.ID, "Blog"); !errors.Is(err, projects.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	renamed, err := svc.UpdateName(ctx, first.ID, "Handbook")
	if err != nil {
		t.Fatalf("rename project: %v", err)
	}
	if renamed.Name != "Handbook" || renamed.Slug != "handbook" {
		t.Fatalf("unexpected rename result: name=%q slug=%q", renamed.Name, renamed.Slug)
	}
}

func mustUUID(v string) uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		panic(err)
	}
	return id
}
