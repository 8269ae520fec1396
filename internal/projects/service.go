package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/identity"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Repository persists projects.
type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Project, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
}

// DraftLocaleChecker reports which locales still hold draft translations for
// a project. The service uses it to refuse removing locales that are in use.
type DraftLocaleChecker interface {
	DraftLocales(ctx context.Context, projectID uuid.UUID) ([]string, error)
}

// CreateProjectRequest carries the inputs for a new project.
type CreateProjectRequest struct {
	OwnerID       uuid.UUID
	Name          string
	DefaultLocale string
	Locales       []string
}

// Service manages project lifecycle and locale configuration.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Project, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*Project, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*Project, error)
	UpdateLocales(ctx context.Context, id uuid.UUID, defaultLocale string, locales []string) (*Project, error)
	RotatePublicKey(ctx context.Context, id uuid.UUID) (*Project, error)
}

type service struct {
	repo   Repository
	drafts DraftLocaleChecker
	now    func() time.Time
	id     func() uuid.UUID
}

// ServiceOption configures optional service behavior.
type ServiceOption func(*service)

// WithClock overrides the clock used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDraftLocaleChecker wires the draft usage check for locale removal.
func WithDraftLocaleChecker(checker DraftLocaleChecker) ServiceOption {
	return func(s *service) {
		s.drafts = checker
	}
}

// NewService creates a project service backed by the given repository.
func NewService(repo Repository, opts ...ServiceOption) Service {
	svc := &service{
		repo: repo,
		now:  time.Now,
		id:   uuid.New,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if req.OwnerID == uuid.Nil {
		return nil, ErrOwnerIDRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	defaultLocale := normalizeLocale(req.DefaultLocale)
	if defaultLocale == "" {
		return nil, ErrDefaultLocaleRequired
	}

	locales := normalizeLocales(defaultLocale, req.Locales)

	existing, err := s.repo.GetByOwnerAndName(ctx, req.OwnerID, name)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	projectSlug, err := slug.Normalize(name)
	if err != nil || projectSlug == "" {
		projectSlug = strings.ToLower(name)
	}

	now := s.now().UTC()
	project := &Project{
		ID:            s.id(),
		OwnerID:       req.OwnerID,
		Name:          name,
		Slug:          projectSlug,
		DefaultLocale: defaultLocale,
		Locales:       locales,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	project.PublicKey = identity.PublicReadKey(project.ID, s.id().String())

	return s.repo.Create(ctx, project)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Project, error) {
	return s.repo.GetByOwnerAndName(ctx, ownerID, strings.TrimSpace(name))
}

func (s *service) GetByPublicKey(ctx context.Context, publicKey string) (*Project, error) {
	return s.repo.GetByPublicKey(ctx, strings.TrimSpace(publicKey))
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) UpdateName(ctx context.Context, id uuid.UUID, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(project.Name, name) {
		duplicate, err := s.repo.GetByOwnerAndName(ctx, project.OwnerID, name)
		if err != nil {
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
		if duplicate != nil && duplicate.ID != project.ID {
			return nil, ErrDuplicateName
		}
	}

	project.Name = name
	if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
		project.Slug = normalized
	}
	project.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, project)
}

// UpdateLocales replaces the locale configuration. Removing a locale is
// rejected while draft translations still reference it.
func (s *service) UpdateLocales(ctx context.Context, id uuid.UUID, defaultLocale string, locales []string) (*Project, error) {
	defaultLocale = normalizeLocale(defaultLocale)
	if defaultLocale == "" {
		return nil, ErrDefaultLocaleRequired
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := normalizeLocales(defaultLocale, locales)
	if !containsLocale(next, defaultLocale) {
		return nil, ErrDefaultLocaleNotEnabled
	}

	if s.drafts != nil {
		removed := removedLocales(project.Locales, next)
		if len(removed) > 0 {
			inUse, err := s.drafts.DraftLocales(ctx, project.ID)
			if err != nil {
				return nil, err
			}
			var blocked []string
			for _, locale := range removed {
				if containsLocale(inUse, locale) {
					blocked = append(blocked, locale)
				}
			}
			if len(blocked) > 0 {
				return nil, &LocaleInUseError{Locales: blocked}
			}
		}
	}

	project.DefaultLocale = defaultLocale
	project.Locales = next
	project.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, project)
}

// RotatePublicKey issues a fresh public read key, invalidating the old one.
func (s *service) RotatePublicKey(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.PublicKey = identity.PublicReadKey(project.ID, s.id().String())
	project.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, project)
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// normalizeLocales lowercases, trims, and dedupes the list, keeping the
// default locale first.
func normalizeLocales(defaultLocale string, locales []string) []string {
	seen := map[string]bool{defaultLocale: true}
	result := []string{defaultLocale}
	for _, locale := range locales {
		normalized := normalizeLocale(locale)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

func containsLocale(locales []string, locale string) bool {
	for _, candidate := range locales {
		if strings.EqualFold(candidate, locale) {
			return true
		}
	}
	return false
}

func removedLocales(current, next []string) []string {
	var removed []string
	for _, locale := range current {
		if !containsLocale(next, locale) {
			removed = append(removed, locale)
		}
	}
	return removed
}
