package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/stoewer/go-strcase"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
)

// Registry manages the closed set of selectable services. Adding a service
// is a registration, never a change to session control flow.
type Registry interface {
	// Register registers a service
	Register(svc Service) error

	// Get retrieves a service by identifier
	Get(id string) (Service, error)

	// List returns all registered services ordered by identifier
	List() []Service

	// IDs returns all registered service identifiers in order
	IDs() []string
}

// registry implements Registry
type registry struct {
	mu       sync.RWMutex
	services map[string]Service
}

// NewRegistry creates a new service registry
func NewRegistry() Registry {
	return &registry{
		services: make(map[string]Service),
	}
}

// NormalizeID canonicalizes a service identifier so that spellings like
// "HR_Policy" and "hr-policy" resolve to the same entry.
func NormalizeID(id string) string {
	return strcase.KebabCase(strings.TrimSpace(id))
}

// Register registers a service
func (r *registry) Register(svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := NormalizeID(svc.ID())
	if _, exists := r.services[id]; exists {
		return apperrors.Newf(apperrors.ErrCodeServiceRegistered, "service %s already registered", id)
	}

	r.services[id] = svc
	return nil
}

// Get retrieves a service by identifier
func (r *registry) Get(id string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, exists := r.services[NormalizeID(id)]
	if !exists {
		return nil, apperrors.Newf(apperrors.ErrCodeServiceNotFound, "service %s not found", id)
	}

	return svc, nil
}

// List returns all registered services ordered by identifier
func (r *registry) List() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	services := make([]Service, 0, len(ids))
	for _, id := range ids {
		services = append(services, r.services[id])
	}
	return services
}

// IDs returns all registered service identifiers in order
func (r *registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
