package projects

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used for tests and wiring
// without persistence.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*Project
}

// NewMemoryRepository creates an empty in-memory project repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[uuid.UUID]*Project),
	}
}

func (r *MemoryRepository) Create(_ context.Context, project *Project) (*Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneProject(project)
	r.projects[stored.ID] = stored
	return cloneProject(stored), nil
}

func (r *MemoryRepository) Update(_ context.Context, project *Project) (*Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project.ID]; !ok {
		return nil, &NotFoundError{Key: project.ID.String()}
	}
	stored := cloneProject(project)
	r.projects[stored.ID] = stored
	return cloneProject(stored), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneProject(project), nil
}

func (r *MemoryRepository) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, project := range r.projects {
		if project.OwnerID == ownerID && strings.EqualFold(project.Name, name) {
			return cloneProject(project), nil
		}
	}
	return nil, &NotFoundError{Key: ownerID.String() + ":" + name}
}

func (r *MemoryRepository) GetByPublicKey(_ context.Context, publicKey string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, project := range r.projects {
		if project.PublicKey == publicKey {
			return cloneProject(project), nil
		}
	}
	return nil, &NotFoundError{Key: publicKey}
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Project
	for _, project := range r.projects {
		if project.OwnerID == ownerID {
			result = append(result, cloneProject(project))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
