package translations

import (
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TranslationString is the canonical record for a translatable identifier.
// Only its draft values are versioned; the string itself is not.
type TranslationString struct {
	bun.BaseModel `bun:"table:translation_strings,alias:ts"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Key       string    `bun:"key,notnull" json:"key"`
	Context   *string   `bun:"context" json:"context,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Drafts []*DraftTranslation `bun:"rel:has-many,join:id=string_id" json:"drafts,omitempty"`
}

// DraftTranslation stores the current mutable value of one (string, locale)
// pair. `updated_at` is the optimistic-concurrency anchor for stale-write
// detection.
type DraftTranslation struct {
	bun.BaseModel `bun:"table:draft_translations,alias:dt"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	StringID      uuid.UUID `bun:"string_id,notnull,type:uuid" json:"string_id"`
	ProjectID     uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Locale        string    `bun:"locale,notnull" json:"locale"`
	Value         string    `bun:"value,notnull" json:"value"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	UpdatedByID   uuid.UUID `bun:"updated_by_id,type:uuid" json:"updated_by_id"`
	UpdatedByName string    `bun:"updated_by_name" json:"updated_by_name"`
}

// UpdatedBy exposes the last editor as an identity reference.
func (d *DraftTranslation) UpdatedBy() domain.UserRef {
	if d == nil {
		return domain.UserRef{}
	}
	return domain.UserRef{ID: d.UpdatedByID, Name: d.UpdatedByName}
}

// StringWithDrafts pairs a string record with its current values per locale.
type StringWithDrafts struct {
	String *TranslationString           `json:"string"`
	Drafts map[string]*DraftTranslation `json:"drafts"`
}
