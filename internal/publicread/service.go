package publicread

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/google/uuid"
)

var (
	// ErrPublicKeyRequired indicates the request carried no public key.
	ErrPublicKeyRequired = errors.New("publicread: public key is required")
	// ErrLocaleRequired indicates the request carried no locale.
	ErrLocaleRequired = errors.New("publicread: locale is required")
	// ErrUnauthorized indicates the supplied public key does not match the project.
	ErrUnauthorized = errors.New("publicread: public key does not match project")
)

// NotFoundError indicates the requested snapshot does not exist.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("publicread: translations %q not found", e.Key)
}

// ProjectReader resolves project configuration for key checks.
type ProjectReader interface {
	Get(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}

// ReadRequest addresses one published translation set. A nil Version pins
// the latest snapshot for the locale.
type ReadRequest struct {
	ProjectID uuid.UUID
	PublicKey string
	Locale    string
	Version   *int
}

// Translations is the public view of one snapshot.
type Translations struct {
	ProjectID   uuid.UUID
	Locale      string
	Version     int
	Data        map[string]string
	PublishedAt time.Time
}

// Service serves published snapshots to unauthenticated consumers holding a
// project's public read key.
type Service interface {
	GetTranslations(ctx context.Context, req ReadRequest) (*Translations, error)
	ListLocales(ctx context.Context, projectID uuid.UUID, publicKey string) ([]string, error)
}

type service struct {
	projects ProjectReader
	store    snapshots.Store
}

// NewService wires the public read surface.
func NewService(projectReader ProjectReader, store snapshots.Store) Service {
	return &service{
		projects: projectReader,
		store:    store,
	}
}

// GetTranslations checks the public key and returns the pinned or latest
// snapshot for the locale. Project lookup failures surface as NotFound so
// probing cannot distinguish a wrong key from a missing project.
func (s *service) GetTranslations(ctx context.Context, req ReadRequest) (*Translations, error) {
	locale := strings.ToLower(strings.TrimSpace(req.Locale))
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	project, err := s.authorize(ctx, req.ProjectID, req.PublicKey)
	if err != nil {
		return nil, err
	}

	var snap *snapshots.TranslationSnapshot
	if req.Version != nil {
		snap, err = s.store.Get(ctx, project.ID, locale, *req.Version)
	} else {
		snap, err = s.store.GetLatest(ctx, project.ID, locale)
	}
	if err != nil {
		var notFound *snapshots.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{Key: project.ID.String() + ":" + locale}
		}
		return nil, err
	}

	return &Translations{
		ProjectID:   project.ID,
		Locale:      snap.Locale,
		Version:     snap.Version,
		Data:        snap.Data,
		PublishedAt: snap.CreatedAt,
	}, nil
}

// ListLocales returns the locales a consumer can request translations for.
func (s *service) ListLocales(ctx context.Context, projectID uuid.UUID, publicKey string) ([]string, error) {
	project, err := s.authorize(ctx, projectID, publicKey)
	if err != nil {
		return nil, err
	}
	return s.store.ListLocalesWithSnapshots(ctx, project.ID)
}

func (s *service) authorize(ctx context.Context, projectID uuid.UUID, publicKey string) (*projects.Project, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return nil, ErrPublicKeyRequired
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		var notFound *projects.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{Key: projectID.String()}
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(project.PublicKey), []byte(publicKey)) != 1 {
		return nil, ErrUnauthorized
	}
	return project, nil
}
