package snapshots

import (
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TranslationSnapshot is an immutable, versioned copy of every published
// draft value for one (project, locale) pair. Rows are write-once: no update
// or delete operation exists anywhere in the domain, and the (project_id,
// locale, version) unique index is what serializes version assignment.
type TranslationSnapshot struct {
	bun.BaseModel `bun:"table:translation_snapshots,alias:snap"`

	ID            uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	ProjectID     uuid.UUID         `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Locale        string            `bun:"locale,notnull" json:"locale"`
	Version       int               `bun:"version,notnull" json:"version"`
	Data          map[string]string `bun:"data,type:jsonb,notnull" json:"data"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	CreatedByID   uuid.UUID         `bun:"created_by_id,type:uuid" json:"created_by_id"`
	CreatedByName string            `bun:"created_by_name" json:"created_by_name"`
}

// CreatedBy exposes the publishing user as an identity reference.
func (s *TranslationSnapshot) CreatedBy() domain.UserRef {
	if s == nil {
		return domain.UserRef{}
	}
	return domain.UserRef{ID: s.CreatedByID, Name: s.CreatedByName}
}

// StringCount returns the number of keys captured in the snapshot.
func (s *TranslationSnapshot) StringCount() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

func cloneSnapshot(src *TranslationSnapshot) *TranslationSnapshot {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Data = cloneData(src.Data)
	return &copied
}

func cloneData(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
