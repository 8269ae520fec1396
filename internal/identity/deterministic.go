package identity

import (
	"fmt"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ProjectUUID derives a stable identifier for owner-scoped project names,
// used by deterministic seeds and fixtures.
func ProjectUUID(ownerID uuid.UUID, name string) uuid.UUID {
	return UUID("go-localize:project:" + ownerID.String() + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// StringUUID derives a stable identifier for a translation string key inside
// a project.
func StringUUID(projectID uuid.UUID, key string) uuid.UUID {
	return UUID("go-localize:string:" + projectID.String() + ":" + strings.TrimSpace(key))
}

// DraftUUID derives a stable identifier for a (string, locale) draft row.
func DraftUUID(stringID uuid.UUID, locale string) uuid.UUID {
	return UUID("go-localize:draft:" + stringID.String() + ":" + strings.ToLower(strings.TrimSpace(locale)))
}

// PublicReadKey derives an opaque public API credential for a project. The
// nonce changes on every rotation so old keys stop matching.
func PublicReadKey(projectID uuid.UUID, nonce string) string {
	derived := UUID(fmt.Sprintf("go-localize:public_key:%s:%s", projectID, nonce))
	return "pk_" + strings.ReplaceAll(derived.String(), "-", "")
}
