package identity_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-localize/internal/identity"
	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	first := identity.UUID("go-localize:test:alpha")
	second := identity.UUID("go-localize:test:alpha")
	if first != second {
		t.Fatalf("expected stable derivation, got %s and %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatal("expected non-nil derivation")
	}

	other := identity.UUID("go-localize:test:beta")
	if other == first {
		t.Fatal("distinct keys should not collide")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if got := identity.UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}

func TestStringUUIDScopedByProject(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()

	if identity.StringUUID(projectA, "nav.home") == identity.StringUUID(projectB, "nav.home") {
		t.Fatal("same key in different projects should derive different ids")
	}
	if identity.StringUUID(projectA, "nav.home") != identity.StringUUID(projectA, "nav.home") {
		t.Fatal("expected stable derivation per project and key")
	}
}

func TestDraftUUIDNormalizesLocale(t *testing.T) {
	stringID := uuid.New()
	if identity.DraftUUID(stringID, "EN") != identity.DraftUUID(stringID, "en") {
		t.Fatal("locale case should not change the derived id")
	}
}

func TestPublicReadKeyFormat(t *testing.T) {
	projectID := uuid.New()

	key := identity.PublicReadKey(projectID, "nonce-1")
	if !strings.HasPrefix(key, "pk_") {
		t.Fatalf("expected pk_ prefix, got %q", key)
	}
	if strings.Contains(key, "-") {
		t.Fatalf("expected opaque key without separators, got %q", key)
	}

	if identity.PublicReadKey(projectID, "nonce-2") == key {
		t.Fatal("rotating the nonce should produce a fresh key")
	}
}
