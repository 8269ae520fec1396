package projects

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on bun storage.
type BunRepository struct {
	repo repository.Repository[*Project]
}

// NewBunRepository constructs the repository without read caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a repository whose reads go through
// the repository cache.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewProjectRecordRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

// NewProjectRecordRepository creates the generic record repository backing BunRepository.
func NewProjectRecordRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(project *Project) uuid.UUID {
			return project.ID
		},
		SetID: func(project *Project, id uuid.UUID) {
			project.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(project *Project) string {
			if project == nil {
				return ""
			}
			return project.ID.String()
		},
	})
}

func (r *BunRepository) Create(ctx context.Context, project *Project) (*Project, error) {
	return r.repo.Create(ctx, project)
}

func (r *BunRepository) Update(ctx context.Context, project *Project) (*Project, error) {
	updated, err := r.repo.Update(ctx, project)
	if err != nil {
		return nil, mapRepositoryError(err, project.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.owner_id = ?", ownerID).
				Where("lower(?TableAlias.name) = lower(?)", name)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: fmt.Sprintf("%s:%s", ownerID, name)}
	}
	return records[0], nil
}

func (r *BunRepository) GetByPublicKey(ctx context.Context, publicKey string) (*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.public_key = ?", publicKey)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: publicKey}
	}
	return records[0], nil
}

func (r *BunRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.owner_id = ?", ownerID).
				OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("project repository error: %w", err)
}
