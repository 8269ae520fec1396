package translations

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStringRepository implements StringRepository on bun storage.
type BunStringRepository struct {
	repo repository.Repository[*TranslationString]
}

// NewBunStringRepository constructs the repository.
func NewBunStringRepository(db *bun.DB) *BunStringRepository {
	return &BunStringRepository{repo: NewStringRecordRepository(db)}
}

func (r *BunStringRepository) Create(ctx context.Context, record *TranslationString) (*TranslationString, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunStringRepository) Update(ctx context.Context, record *TranslationString) (*TranslationString, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "translation_string", record.ID.String())
	}
	return updated, nil
}

func (r *BunStringRepository) GetByID(ctx context.Context, id uuid.UUID) (*TranslationString, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "translation_string", id.String())
	}
	return record, nil
}

func (r *BunStringRepository) GetByKey(ctx context.Context, projectID uuid.UUID, key string) (*TranslationString, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("?TableAlias.key = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation_string", Key: fmt.Sprintf("%s:%s", projectID, key)}
	}
	return records[0], nil
}

func (r *BunStringRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*TranslationString, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				OrderExpr("?TableAlias.key ASC")
		}),
	)
	return records, err
}

// BunDraftRepository implements DraftRepository on bun storage.
type BunDraftRepository struct {
	db   *bun.DB
	repo repository.Repository[*DraftTranslation]
}

// NewBunDraftRepository constructs the repository.
func NewBunDraftRepository(db *bun.DB) *BunDraftRepository {
	return &BunDraftRepository{db: db, repo: NewDraftRecordRepository(db)}
}

func (r *BunDraftRepository) Get(ctx context.Context, stringID uuid.UUID, locale string) (*DraftTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.string_id = ?", stringID).
				Where("lower(?TableAlias.locale) = lower(?)", locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "draft_translation", Key: fmt.Sprintf("%s:%s", stringID, locale)}
	}
	return records[0], nil
}

func (r *BunDraftRepository) ListByString(ctx context.Context, stringID uuid.UUID) ([]*DraftTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.string_id = ?", stringID).
				OrderExpr("?TableAlias.locale ASC")
		}),
	)
	return records, err
}

func (r *BunDraftRepository) ListByProjectLocale(ctx context.Context, projectID uuid.UUID, locale string) ([]*DraftTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("lower(?TableAlias.locale) = lower(?)", locale)
		}),
	)
	return records, err
}

// ListLocalesByProject returns the distinct locales with draft rows.
func (r *BunDraftRepository) ListLocalesByProject(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var locales []string
	if err := r.db.NewSelect().
		Model((*DraftTranslation)(nil)).
		ColumnExpr("DISTINCT lower(?TableAlias.locale)").
		Where("?TableAlias.project_id = ?", projectID).
		OrderExpr("lower(?TableAlias.locale) ASC").
		Scan(ctx, &locales); err != nil {
		return nil, fmt.Errorf("list draft locales: %w", err)
	}
	return locales, nil
}

// UpsertBatch writes every row inside one transaction so a failed locale
// leaves the whole edit unapplied.
func (r *BunDraftRepository) UpsertBatch(ctx context.Context, drafts []*DraftTranslation) error {
	if r.db == nil {
		return fmt.Errorf("draft repository: database not configured")
	}
	if len(drafts) == 0 {
		return nil
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, draft := range drafts {
			if draft == nil {
				continue
			}
			if _, err := tx.NewInsert().
				Model(draft).
				On("CONFLICT (string_id, locale) DO UPDATE").
				Set("value = EXCLUDED.value").
				Set("updated_at = EXCLUDED.updated_at").
				Set("updated_by_id = EXCLUDED.updated_by_id").
				Set("updated_by_name = EXCLUDED.updated_by_name").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert draft %s/%s: %w", draft.StringID, draft.Locale, err)
			}
		}
		return nil
	})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
