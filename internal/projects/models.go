package projects

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Project is a localization project owned by a single account. Its locale
// list gates which locales accept draft translations and publishes.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:prj"`

	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OwnerID       uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Slug          string    `bun:"slug,notnull" json:"slug"`
	DefaultLocale string    `bun:"default_locale,notnull" json:"default_locale"`
	Locales       []string  `bun:"locales,type:jsonb" json:"locales"`
	PublicKey     string    `bun:"public_key,notnull" json:"public_key"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// HasLocale reports whether the project accepts translations for the locale.
func (p *Project) HasLocale(locale string) bool {
	for _, candidate := range p.Locales {
		if strings.EqualFold(candidate, locale) {
			return true
		}
	}
	return false
}

func cloneProject(project *Project) *Project {
	if project == nil {
		return nil
	}
	clone := *project
	clone.Locales = append([]string(nil), project.Locales...)
	return &clone
}
