package translations

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewStringRecordRepository(db *bun.DB) repository.Repository[*TranslationString] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TranslationString]{
		NewRecord: func() *TranslationString { return &TranslationString{} },
		GetID: func(ts *TranslationString) uuid.UUID {
			return ts.ID
		},
		SetID: func(ts *TranslationString, id uuid.UUID) {
			ts.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(ts *TranslationString) string {
			if ts == nil {
				return ""
			}
			return ts.ID.String()
		},
	})
}

func NewDraftRecordRepository(db *bun.DB) repository.Repository[*DraftTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DraftTranslation]{
		NewRecord: func() *DraftTranslation { return &DraftTranslation{} },
		GetID: func(dt *DraftTranslation) uuid.UUID {
			return dt.ID
		},
		SetID: func(dt *DraftTranslation, id uuid.UUID) {
			dt.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(dt *DraftTranslation) string {
			if dt == nil {
				return ""
			}
			return dt.ID.String()
		},
	})
}
