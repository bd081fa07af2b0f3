package registry

import (
	"context"
	"sync"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const subsystem = "Registry"

// Provisioner is the provisionable-service capability (§4.4): something that
// knows how to start and stop an Instance given its effective definition. C5
// (the container driver) is the one implementation in this repo; the
// registry exists so additional service types can be added without the
// reconciler knowing about them.
type Provisioner interface {
	Start(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error
	Stop(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error
}

// Registry is the static, thread-safe map from service-type tag to
// Provisioner (C4).
type Registry struct {
	mu           sync.RWMutex
	provisioners map[string]Provisioner
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{provisioners: make(map[string]Provisioner)}
}

// Register claims serviceType for p. A duplicate tag is rejected: the first
// registrant wins.
func (r *Registry) Register(serviceType string, p Provisioner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.provisioners[serviceType]; exists {
		return &DuplicateRegistrationError{ServiceType: serviceType}
	}
	r.provisioners[serviceType] = p
	return nil
}

// MustRegister registers p under serviceType, logging and discarding the
// registration on a duplicate tag instead of failing process startup.
func (r *Registry) MustRegister(serviceType string, p Provisioner) {
	if err := r.Register(serviceType, p); err != nil {
		logging.Warn(subsystem, "skipping duplicate registration: %v", err)
	}
}

// Get resolves serviceType to its Provisioner, or NoImplementationError if
// no provisioner claims that tag.
func (r *Registry) Get(serviceType string) (Provisioner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.provisioners[serviceType]
	if !ok {
		return nil, &NoImplementationError{ServiceType: serviceType}
	}
	return p, nil
}
