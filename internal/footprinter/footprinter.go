package footprinter

import (
	"context"
	"time"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/hostresources"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/internal/registry"
	"github.com/FredworkLemmas/ozwald-sub000/internal/rundriver"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const subsystem = "Footprinter"

// Per-target wait budgets (§4.7 steps b, f). The driver itself bounds its
// own poll loop at 30s; these are an outer safety margin.
const (
	startWait = 60 * time.Second
	stopWait  = 60 * time.Second
)

// Store is the subset of *store.Client the footprinter needs.
type Store interface {
	GetInstances(ctx context.Context) ([]model.Instance, error)
	GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error)
	UpdateFootprintRequestByID(ctx context.Context, requestID string, updated model.FootprintRequest) error
	RemoveFootprintRequestByID(ctx context.Context, requestID string) error
}

// Registry is the subset of *registry.Registry the footprinter needs.
type Registry interface {
	Get(serviceType string) (registry.Provisioner, error)
}

// Footprinter is C7.
type Footprinter struct {
	store    Store
	catalog  *catalog.Catalog
	registry Registry
	usage    *UsageFile

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New constructs a Footprinter. usageFile is the §6.2 usage-record path
// (OZWALD_FOOTPRINT_DATA).
func New(st Store, cat *catalog.Catalog, reg Registry, usageFile string) *Footprinter {
	return &Footprinter{
		store:    st,
		catalog:  cat,
		registry: reg,
		usage:    NewUsageFile(usageFile),
		now:      time.Now,
		sleep:    ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// RunOne drains exactly one pending footprint request, if any is queued,
// and reports whether it found work to do. It satisfies
// reconciler.FootprintRunner.
func (f *Footprinter) RunOne(ctx context.Context) (bool, error) {
	requests, err := f.store.GetAllFootprintRequests(ctx)
	if err != nil {
		return false, err
	}
	if len(requests) == 0 {
		return false, nil
	}

	req := requests[0]
	if err := f.run(ctx, req); err != nil {
		logging.Error(subsystem, err, "footprint job %s failed", req.RequestID)
	}
	return true, nil
}

// target is one (service, profile, variety) to footprint.
type target struct {
	Service string
	Profile string
	Variety string
}

func (f *Footprinter) run(ctx context.Context, req model.FootprintRequest) error {
	now := f.now()
	req.FootprintInProgress = true
	req.FootprintStartedAt = &now
	if err := f.store.UpdateFootprintRequestByID(ctx, req.RequestID, req); err != nil {
		logging.Warn(subsystem, "failed to mark footprint request %s in progress: %v", req.RequestID, err)
	}

	targets := f.enumerateTargets(req)
	logging.Info(subsystem, "footprint job %s: %d targets", req.RequestID, len(targets))

	for _, tgt := range targets {
		instances, err := f.store.GetInstances(ctx)
		if err != nil {
			logging.Error(subsystem, err, "footprint job %s: failed to check desired-state list, aborting remainder", req.RequestID)
			break
		}
		if len(instances) != 0 {
			logging.Warn(subsystem, "footprint job %s: desired-state list became non-empty, aborting remainder", req.RequestID)
			break
		}

		if err := f.runTarget(ctx, tgt); err != nil {
			logging.Error(subsystem, err, "footprint job %s: target %s/%s/%s failed", req.RequestID, tgt.Service, tgt.Profile, tgt.Variety)
		}
	}

	return f.store.RemoveFootprintRequestByID(ctx, req.RequestID)
}

func (f *Footprinter) runTarget(ctx context.Context, tgt target) error {
	def, ok := f.catalog.GetService(tgt.Service)
	if !ok {
		return catalog.NewUnknownServiceError(tgt.Service)
	}

	eff, err := f.catalog.EffectiveDefinition(tgt.Service, tgt.Profile, tgt.Variety)
	if err != nil {
		return err
	}

	impl, err := f.registry.Get(def.Type)
	if err != nil {
		return err
	}

	inst := &model.Instance{
		Name:    rundriver.FootprinterInstanceName(tgt.Service, tgt.Profile, tgt.Variety),
		Service: tgt.Service,
		Profile: tgt.Profile,
		Variety: tgt.Variety,
		Status:  model.StatusStarting,
		Info:    map[string]string{},
	}

	pre, err := hostresources.Inspect(ctx)
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startWait)
	inst.SetTimestampKey(model.InfoStartInitiated, f.now())
	startErr := impl.Start(startCtx, inst, eff)
	cancel()
	if startErr != nil {
		return startErr
	}
	if inst.Status == model.StatusAvailable {
		inst.SetTimestampKey(model.InfoStartCompleted, f.now())
	} else {
		logging.Warn(subsystem, "target %s/%s/%s did not reach AVAILABLE within the start wait", tgt.Service, tgt.Profile, tgt.Variety)
	}

	f.sleep(ctx, time.Duration(eff.Footprint.RunTime*float64(time.Second)))

	post, err := hostresources.Inspect(ctx)
	if err != nil {
		return err
	}

	cpuCores, memoryGB, vramGB := hostresources.Delta(pre, post)

	inst.Status = model.StatusStopping
	stopCtx, stopCancel := context.WithTimeout(ctx, stopWait)
	inst.SetTimestampKey(model.InfoStopInitiated, f.now())
	stopErr := impl.Stop(stopCtx, inst, eff)
	stopCancel()
	if stopErr != nil {
		return stopErr
	}

	return f.usage.Upsert(model.UsageRecord{
		ServiceName: tgt.Service,
		Profile:     tgt.Profile,
		Variety:     tgt.Variety,
		Usage: model.ResourceUsage{
			CPUCores: cpuCores,
			MemoryGB: memoryGB,
			VRAMGB:   vramGB,
		},
	})
}

// enumerateTargets implements §4.7 step 2: the explicit list when supplied,
// else the Cartesian product of every service's profiles x varieties,
// collapsing dimensions a service does not declare.
func (f *Footprinter) enumerateTargets(req model.FootprintRequest) []target {
	if !req.FootprintAllServices {
		targets := make([]target, 0, len(req.Services))
		for _, s := range req.Services {
			targets = append(targets, target{Service: s.ServiceName, Profile: s.Profile, Variety: s.Variety})
		}
		return targets
	}

	var targets []target
	for _, def := range f.catalog.Services() {
		profiles := axisNames(def.Profiles)
		varieties := axisNames(def.Varieties)
		for _, p := range profiles {
			for _, v := range varieties {
				targets = append(targets, target{Service: def.Name, Profile: p, Variety: v})
			}
		}
	}
	return targets
}

// axisNames returns the declared names for one dimension (profiles or
// varieties), or a single empty-string entry if the service declares none
// along that axis at all.
func axisNames(layers map[string]catalog.Layer) []string {
	if len(layers) == 0 {
		return []string{""}
	}
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	return names
}
