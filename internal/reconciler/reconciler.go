package reconciler

import (
	"context"
	"time"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/internal/registry"
	"github.com/FredworkLemmas/ozwald-sub000/internal/store"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const subsystem = "Reconciler"

// Default timing per §4.2/§4.6. StartTimeout/StopTimeout are the
// idempotency-window open question from §9: exposed as configuration,
// defaulting to the source's 3600s.
const (
	DefaultPeriod       = 2 * time.Second
	DefaultShortCycle   = 200 * time.Millisecond
	DefaultStartTimeout = 3600 * time.Second
	DefaultStopTimeout  = 3600 * time.Second
)

// Store is the subset of *store.Client the reconciler needs. Depending on
// this narrow interface rather than the concrete type keeps the loop body
// unit-testable without a live cache connection.
type Store interface {
	GetInstances(ctx context.Context) ([]model.Instance, error)
	SetInstances(ctx context.Context, instances []model.Instance) error
	GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error)
}

// FootprintRunner is the subset of the footprinter's surface the reconciler
// calls into at step 2 of each iteration. Defining it here (rather than
// importing the footprinter package's concrete type) keeps the dependency
// one-directional: footprinter depends on store/catalog/registry, and
// reconciler depends on this narrow interface instead of on footprinter.
type FootprintRunner interface {
	// RunOne drains exactly one pending footprint request, if any, and
	// reports whether it found work to do.
	RunOne(ctx context.Context) (ran bool, err error)
}

// Config holds the reconciler's tunables.
type Config struct {
	Period       time.Duration
	ShortCycle   time.Duration
	StartTimeout time.Duration
	StopTimeout  time.Duration
}

// DefaultConfig returns the §4.6/§9 default timing.
func DefaultConfig() Config {
	return Config{
		Period:       DefaultPeriod,
		ShortCycle:   DefaultShortCycle,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
	}
}

// Registry is the subset of *registry.Registry the reconciler needs.
type Registry interface {
	Get(serviceType string) (registry.Provisioner, error)
}

// Reconciler is C6.
type Reconciler struct {
	store       Store
	catalog     *catalog.Catalog
	registry    Registry
	footprinter FootprintRunner
	cfg         Config

	// now is overridable in tests to make the idempotency window deterministic.
	now func() time.Time
}

// New constructs a Reconciler.
func New(st Store, cat *catalog.Catalog, reg Registry, fp FootprintRunner, cfg Config) *Reconciler {
	return &Reconciler{
		store:       st,
		catalog:     cat,
		registry:    reg,
		footprinter: fp,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Run loops until ctx is cancelled (by SIGINT/SIGTERM at the application
// layer). In-flight driver polls finish to their own deadline; no new
// iteration begins once ctx is done (§4.6 "Signals"). The iteration that is
// running when ctx is cancelled, including a delegated footprint job, runs to
// completion.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			logging.Info(subsystem, "reconciler loop stopping")
			return nil
		default:
		}

		shortCycle, err := r.iterate(context.WithoutCancel(ctx))
		if err != nil {
			logging.Error(subsystem, err, "reconciler iteration failed")
		}

		sleep := r.cfg.Period
		if shortCycle {
			sleep = r.cfg.ShortCycle
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(sleep):
		}
	}
}

// iterate runs one loop body (§4.6 steps 1-5). It returns shortCycle=true
// when the desired-state list was empty and a footprint request was
// delegated, in which case the caller should sleep the 200ms short cycle
// instead of the full period.
func (r *Reconciler) iterate(ctx context.Context) (shortCycle bool, err error) {
	instances, err := r.store.GetInstances(ctx)
	if err != nil {
		return false, err
	}

	if len(instances) == 0 {
		pending, err := r.store.GetAllFootprintRequests(ctx)
		if err != nil {
			return false, err
		}
		if len(pending) > 0 {
			ran, err := r.footprinter.RunOne(ctx)
			if err != nil {
				logging.Error(subsystem, err, "footprint delegation failed")
			}
			if ran {
				return true, nil
			}
		}
		return false, nil
	}

	changed := false
	now := r.now()

	for i := range instances {
		inst := &instances[i]
		if inst.Status != model.StatusStarting && inst.Status != model.StatusStopping {
			continue
		}

		def, ok := r.catalog.GetService(inst.Service)
		if !ok {
			logging.Error(subsystem, nil, "instance %s refers to unknown service %s, skipping", inst.Name, inst.Service)
			continue
		}

		impl, err := r.registry.Get(def.Type)
		if err != nil {
			logging.Error(subsystem, err, "instance %s has no implementation for type %s, skipping", inst.Name, def.Type)
			continue
		}

		if r.skipIdempotent(inst, now) {
			continue
		}

		eff, err := r.catalog.EffectiveDefinition(inst.Service, inst.Profile, inst.Variety)
		if err != nil {
			logging.Error(subsystem, err, "instance %s: failed to compute effective definition, skipping", inst.Name)
			continue
		}

		switch inst.Status {
		case model.StatusStarting:
			inst.SetTimestampKey(model.InfoStartInitiated, now)
			changed = true
			if err := impl.Start(ctx, inst, eff); err != nil {
				logging.Error(subsystem, err, "instance %s: start failed", inst.Name)
				continue
			}
			if inst.Status == model.StatusAvailable {
				inst.SetTimestampKey(model.InfoStartCompleted, now)
			}
		case model.StatusStopping:
			inst.SetTimestampKey(model.InfoStopInitiated, now)
			changed = true
			if err := impl.Stop(ctx, inst, eff); err != nil {
				logging.Error(subsystem, err, "instance %s: stop failed", inst.Name)
				continue
			}
		}
	}

	kept := instances[:0]
	for _, inst := range instances {
		if inst.Status == model.StatusStopping && inst.Info[model.InfoStopCompleted] != "" {
			changed = true
			continue
		}
		kept = append(kept, inst)
	}

	if changed {
		if err := store.WithRetry(ctx, func(ctx context.Context) error {
			return r.store.SetInstances(ctx, kept)
		}); err != nil {
			logging.Error(subsystem, err, "failed to persist desired-state list")
		}
	}

	return false, nil
}

// skipIdempotent implements §4.6 step 3c: if another actor already stamped
// the matching *_initiated timestamp within the configured window, this
// iteration performs zero writes and does not invoke the driver.
func (r *Reconciler) skipIdempotent(inst *model.Instance, now time.Time) bool {
	switch inst.Status {
	case model.StatusStarting:
		if t, ok := inst.TimestampKey(model.InfoStartInitiated); ok && now.Sub(t) < r.cfg.StartTimeout {
			return true
		}
	case model.StatusStopping:
		if t, ok := inst.TimestampKey(model.InfoStopInitiated); ok && now.Sub(t) < r.cfg.StopTimeout {
			return true
		}
	}
	return false
}
