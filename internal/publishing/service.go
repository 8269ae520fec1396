package publishing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/internal/snapshots"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/google/uuid"
)

// ProjectReader resolves project configuration.
type ProjectReader interface {
	Get(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}

// DraftReader exposes the draft store reads the orchestrator needs.
type DraftReader interface {
	DraftValuesForLocale(ctx context.Context, projectID uuid.UUID, locale string) (map[string]string, error)
}

// PublishRequest describes one publish call. An empty Locales list targets
// every enabled locale. Force skips the no-change check.
type PublishRequest struct {
	ProjectID   uuid.UUID
	Locales     []string
	Force       bool
	PublishedBy domain.UserRef
}

// PublishedSnapshot is the per-locale result of a successful publish.
type PublishedSnapshot struct {
	SnapshotID  uuid.UUID
	Version     int
	Data        map[string]string
	StringCount int
	CreatedAt   time.Time
	PublishedBy domain.UserRef
}

// Publisher turns current drafts into immutable snapshots.
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (map[string]PublishedSnapshot, error)
}

type publisher struct {
	projects ProjectReader
	drafts   DraftReader
	store    snapshots.Store
}

// NewPublisher wires the orchestrator with its collaborators.
func NewPublisher(projectReader ProjectReader, draftReader DraftReader, store snapshots.Store) Publisher {
	return &publisher{
		projects: projectReader,
		drafts:   draftReader,
		store:    store,
	}
}

// localePlan is the pure classification result for one locale before any
// snapshot write happens.
type localePlan struct {
	locale string
	data   map[string]string
}

// Publish validates the request, classifies every target locale, and then
// creates snapshots only for locales whose drafts differ from their latest
// snapshot. Unchanged locales are skipped, not erred, unless every locale is
// unchanged.
func (p *publisher) Publish(ctx context.Context, req PublishRequest) (map[string]PublishedSnapshot, error) {
	if req.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	project, err := p.projects.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	targets, err := resolveTargetLocales(project, req.Locales)
	if err != nil {
		return nil, err
	}

	// Gather phase: fetch drafts, discard locales with nothing to publish.
	var gathered []localePlan
	for _, locale := range targets {
		data, err := p.drafts.DraftValuesForLocale(ctx, req.ProjectID, locale)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		gathered = append(gathered, localePlan{locale: locale, data: data})
	}
	if len(gathered) == 0 {
		return nil, ErrNothingToPublish
	}

	// Classify phase: drop locales whose drafts match the latest snapshot.
	toPublish := gathered
	if !req.Force {
		toPublish, err = p.classifyChanged(ctx, req.ProjectID, gathered)
		if err != nil {
			return nil, err
		}
		if len(toPublish) == 0 {
			return nil, ErrNoChangesDetected
		}
	}

	// Apply phase: one atomic store write covering every selected locale, so
	// a failure can never leave a subset of the call's snapshots committed.
	batch := make([]snapshots.CreateSnapshotRequest, 0, len(toPublish))
	for _, plan := range toPublish {
		batch = append(batch, snapshots.CreateSnapshotRequest{
			ProjectID:     req.ProjectID,
			Locale:        plan.locale,
			Data:          plan.data,
			CreatedByID:   req.PublishedBy.ID,
			CreatedByName: req.PublishedBy.Name,
		})
	}
	created, err := p.store.CreateBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	result := make(map[string]PublishedSnapshot, len(created))
	for _, snap := range created {
		result[snap.Locale] = PublishedSnapshot{
			SnapshotID:  snap.ID,
			Version:     snap.Version,
			Data:        snap.Data,
			StringCount: snap.StringCount(),
			CreatedAt:   snap.CreatedAt,
			PublishedBy: snap.CreatedBy(),
		}
	}
	return result, nil
}

func (p *publisher) classifyChanged(ctx context.Context, projectID uuid.UUID, gathered []localePlan) ([]localePlan, error) {
	var changed []localePlan
	for _, plan := range gathered {
		latest, err := p.store.GetLatest(ctx, projectID, plan.locale)
		if err != nil {
			var notFound *snapshots.NotFoundError
			if errors.As(err, &notFound) {
				// first publish for the locale is never a no-op
				changed = append(changed, plan)
				continue
			}
			return nil, err
		}
		if !translations.DataEqual(plan.data, latest.Data) {
			changed = append(changed, plan)
		}
	}
	return changed, nil
}

// resolveTargetLocales expands an empty request to every enabled locale, and
// rejects the whole call when any requested locale is not enabled.
func resolveTargetLocales(project *projects.Project, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), project.Locales...), nil
	}

	seen := map[string]bool{}
	var targets []string
	var invalid []string
	for _, locale := range requested {
		normalized := strings.ToLower(strings.TrimSpace(locale))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		if !project.HasLocale(normalized) {
			invalid = append(invalid, normalized)
			continue
		}
		targets = append(targets, normalized)
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &LocaleNotEnabledError{Locales: invalid}
	}
	return targets, nil
}
