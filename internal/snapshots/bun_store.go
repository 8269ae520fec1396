package snapshots

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore implements Store on bun storage. Version assignment uses
// read-max-then-insert inside a transaction; the unique index on
// (project_id, locale, version) catches the remaining race window and the
// insert is retried before the error escalates.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*TranslationSnapshot]
	now  func() time.Time
	id   func() uuid.UUID
}

// BunStoreOption configures the store at construction time.
type BunStoreOption func(*BunStore)

// WithBunClock overrides the clock used to stamp snapshots.
func WithBunClock(clock func() time.Time) BunStoreOption {
	return func(s *BunStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewBunStore creates a snapshot store without read caching.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	return NewBunStoreWithCache(db, nil, nil, opts...)
}

// NewBunStoreWithCache creates a snapshot store whose reads go through the
// repository cache. Snapshots are immutable, which makes them ideal cache
// entries: a (project, locale, version) read can be cached forever.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...BunStoreOption) *BunStore {
	base := NewSnapshotRecordRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	s := &BunStore{
		db:   db,
		repo: base,
		now:  time.Now,
		id:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSnapshotRecordRepository creates the generic record repository backing BunStore.
func NewSnapshotRecordRepository(db *bun.DB) repository.Repository[*TranslationSnapshot] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TranslationSnapshot]{
		NewRecord: func() *TranslationSnapshot { return &TranslationSnapshot{} },
		GetID: func(snap *TranslationSnapshot) uuid.UUID {
			return snap.ID
		},
		SetID: func(snap *TranslationSnapshot, id uuid.UUID) {
			snap.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(snap *TranslationSnapshot) string {
			if snap == nil {
				return ""
			}
			return snap.ID.String()
		},
	})
}

// Create inserts the next version for the (project, locale) pair.
func (s *BunStore) Create(ctx context.Context, req CreateSnapshotRequest) (*TranslationSnapshot, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, fmt.Errorf("snapshot store: database not configured")
	}

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		record := s.newRecord(req)

		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return insertNextVersion(ctx, tx, record)
		})
		if err == nil {
			return record, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrVersionRaceExhausted, lastErr)
}

// CreateBatch inserts the next version for every requested pair inside one
// transaction. A failure on any locale rolls back the whole batch; a version
// race retries the entire transaction so the all-or-nothing guarantee holds
// across retries too.
func (s *BunStore) CreateBatch(ctx context.Context, reqs []CreateSnapshotRequest) ([]*TranslationSnapshot, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	for _, req := range reqs {
		if err := validateCreate(req); err != nil {
			return nil, err
		}
	}
	if s.db == nil {
		return nil, fmt.Errorf("snapshot store: database not configured")
	}

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		records := make([]*TranslationSnapshot, 0, len(reqs))
		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, req := range reqs {
				record := s.newRecord(req)
				if err := insertNextVersion(ctx, tx, record); err != nil {
					return err
				}
				records = append(records, record)
			}
			return nil
		})
		if err == nil {
			return records, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrVersionRaceExhausted, lastErr)
}

func (s *BunStore) newRecord(req CreateSnapshotRequest) *TranslationSnapshot {
	return &TranslationSnapshot{
		ID:            s.id(),
		ProjectID:     req.ProjectID,
		Locale:        req.Locale,
		Data:          cloneData(req.Data),
		CreatedAt:     s.now().UTC(),
		CreatedByID:   req.CreatedByID,
		CreatedByName: req.CreatedByName,
	}
}

// insertNextVersion reads the current max version for the record's pair and
// inserts the record as max+1 within the caller's transaction.
func insertNextVersion(ctx context.Context, tx bun.Tx, record *TranslationSnapshot) error {
	var maxVersion int
	if err := tx.NewSelect().
		Model((*TranslationSnapshot)(nil)).
		ColumnExpr("COALESCE(MAX(version), 0)").
		Where("?TableAlias.project_id = ?", record.ProjectID).
		Where("lower(?TableAlias.locale) = lower(?)", record.Locale).
		Scan(ctx, &maxVersion); err != nil {
		return fmt.Errorf("read max version: %w", err)
	}

	record.Version = maxVersion + 1
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return err
	}
	return nil
}

// Get retrieves one pinned version.
func (s *BunStore) Get(ctx context.Context, projectID uuid.UUID, locale string, version int) (*TranslationSnapshot, error) {
	if version < 1 {
		return nil, ErrVersionInvalid
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("lower(?TableAlias.locale) = lower(?)", locale).
				Where("?TableAlias.version = ?", version)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation_snapshot", Key: snapshotLookupKey(projectID, locale, version)}
	}
	return records[0], nil
}

// GetLatest retrieves the highest version for the pair.
func (s *BunStore) GetLatest(ctx context.Context, projectID uuid.UUID, locale string) (*TranslationSnapshot, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("lower(?TableAlias.locale) = lower(?)", locale).
				OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation_snapshot", Key: projectID.String() + ":" + locale}
	}
	return records[0], nil
}

// ListVersions returns one page of history, newest first, plus the total.
func (s *BunStore) ListVersions(ctx context.Context, projectID uuid.UUID, locale string, page, pageSize int) (*VersionPage, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	total, err := s.db.NewSelect().
		Model((*TranslationSnapshot)(nil)).
		Where("?TableAlias.project_id = ?", projectID).
		Where("lower(?TableAlias.locale) = lower(?)", locale).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count versions: %w", err)
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("lower(?TableAlias.locale) = lower(?)", locale).
				OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(pageSize, (page-1)*pageSize),
	)
	if err != nil {
		return nil, err
	}

	return &VersionPage{
		Snapshots: records,
		Total:     total,
		HasMore:   page*pageSize < total,
	}, nil
}

// ListLocalesWithSnapshots returns every locale the project has published.
func (s *BunStore) ListLocalesWithSnapshots(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var locales []string
	if err := s.db.NewSelect().
		Model((*TranslationSnapshot)(nil)).
		ColumnExpr("DISTINCT ?TableAlias.locale").
		Where("?TableAlias.project_id = ?", projectID).
		OrderExpr("?TableAlias.locale ASC").
		Scan(ctx, &locales); err != nil {
		return nil, fmt.Errorf("list snapshot locales: %w", err)
	}
	return locales, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
