package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/internal/registry"
)

const sampleCatalogYAML = `
services:
  - name: svc1
    type: container
    image: base-image
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalogYAML), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

type fakeStore struct {
	instances       []model.Instance
	footprints      []model.FootprintRequest
	setInstancesErr error
	setCalls        int
}

func (f *fakeStore) GetInstances(ctx context.Context) ([]model.Instance, error) {
	return f.instances, nil
}

func (f *fakeStore) SetInstances(ctx context.Context, instances []model.Instance) error {
	f.setCalls++
	if f.setInstancesErr != nil {
		return f.setInstancesErr
	}
	f.instances = instances
	return nil
}

func (f *fakeStore) GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error) {
	return f.footprints, nil
}

type fakeProvisioner struct {
	startCalls int
	stopCalls  int
	startFn    func(inst *model.Instance)
	stopFn     func(inst *model.Instance)
}

func (f *fakeProvisioner) Start(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	f.startCalls++
	if f.startFn != nil {
		f.startFn(inst)
	}
	return nil
}

func (f *fakeProvisioner) Stop(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	f.stopCalls++
	if f.stopFn != nil {
		f.stopFn(inst)
	}
	return nil
}

type fakeRegistry struct {
	provisioner registry.Provisioner
}

func (f *fakeRegistry) Get(serviceType string) (registry.Provisioner, error) {
	if f.provisioner == nil {
		return nil, &registry.NoImplementationError{ServiceType: serviceType}
	}
	return f.provisioner, nil
}

type fakeFootprintRunner struct {
	ran    bool
	err    error
	calls  int
}

func (f *fakeFootprintRunner) RunOne(ctx context.Context) (bool, error) {
	f.calls++
	return f.ran, f.err
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestReconciler_IdempotentStart mirrors the §8 scenario: a STARTING
// instance whose start_initiated is 1s old (well inside the default 3600s
// window) must produce zero writes and must not invoke the driver.
func TestReconciler_IdempotentStart(t *testing.T) {
	now := time.Now()
	inst := model.Instance{Name: "a", Service: "svc1", Status: model.StatusStarting, Info: map[string]string{}}
	inst.SetTimestampKey(model.InfoStartInitiated, now.Add(-1*time.Second))

	st := &fakeStore{instances: []model.Instance{inst}}
	prov := &fakeProvisioner{}
	reg := &fakeRegistry{provisioner: prov}
	fp := &fakeFootprintRunner{}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())
	r.now = fixedNow(now)

	shortCycle, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.False(t, shortCycle)
	assert.Equal(t, 0, prov.startCalls)
	assert.Equal(t, 0, st.setCalls)
}

// TestReconciler_StartPastWindow_Reinvokes confirms the window check is
// directional: once start_initiated is older than StartTimeout, the loop
// treats the instance as eligible again.
func TestReconciler_StartPastWindow_Reinvokes(t *testing.T) {
	now := time.Now()
	inst := model.Instance{Name: "a", Service: "svc1", Status: model.StatusStarting, Info: map[string]string{}}
	inst.SetTimestampKey(model.InfoStartInitiated, now.Add(-2*time.Hour))

	st := &fakeStore{instances: []model.Instance{inst}}
	prov := &fakeProvisioner{startFn: func(i *model.Instance) {
		i.Status = model.StatusAvailable
	}}
	reg := &fakeRegistry{provisioner: prov}
	fp := &fakeFootprintRunner{}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())
	r.now = fixedNow(now)

	_, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, prov.startCalls)
	assert.Equal(t, 1, st.setCalls)
	assert.Equal(t, model.StatusAvailable, st.instances[0].Status)
	assert.NotEmpty(t, st.instances[0].Info[model.InfoStartCompleted])
}

// TestReconciler_ElidesStoppedInstance confirms a STOPPING instance whose
// stop_completed has been set by the driver is removed from the persisted
// list rather than kept around forever.
func TestReconciler_ElidesStoppedInstance(t *testing.T) {
	now := time.Now()
	inst := model.Instance{Name: "a", Service: "svc1", Status: model.StatusStopping, Info: map[string]string{}}

	st := &fakeStore{instances: []model.Instance{inst}}
	prov := &fakeProvisioner{stopFn: func(i *model.Instance) {
		i.SetTimestampKey(model.InfoStopCompleted, now)
	}}
	reg := &fakeRegistry{provisioner: prov}
	fp := &fakeFootprintRunner{}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())
	r.now = fixedNow(now)

	_, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, prov.stopCalls)
	assert.Empty(t, st.instances)
}

// TestReconciler_EmptyListDelegatesFootprint confirms step 2: when the
// desired-state list is empty and a footprint request is pending, the loop
// delegates to the footprinter and reports a short cycle.
func TestReconciler_EmptyListDelegatesFootprint(t *testing.T) {
	st := &fakeStore{
		instances:  nil,
		footprints: []model.FootprintRequest{{RequestID: "r1"}},
	}
	reg := &fakeRegistry{}
	fp := &fakeFootprintRunner{ran: true}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())

	shortCycle, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.True(t, shortCycle)
	assert.Equal(t, 1, fp.calls)
}

// TestReconciler_EmptyListNoFootprintRequests confirms the loop does not
// delegate, and does not report a short cycle, when there is nothing to do.
func TestReconciler_EmptyListNoFootprintRequests(t *testing.T) {
	st := &fakeStore{instances: nil, footprints: nil}
	reg := &fakeRegistry{}
	fp := &fakeFootprintRunner{}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())

	shortCycle, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.False(t, shortCycle)
	assert.Equal(t, 0, fp.calls)
}

// TestReconciler_UnknownServiceSkipped confirms an instance referencing a
// service absent from the catalog is skipped rather than crashing the loop.
func TestReconciler_UnknownServiceSkipped(t *testing.T) {
	inst := model.Instance{Name: "a", Service: "does-not-exist", Status: model.StatusStarting}
	st := &fakeStore{instances: []model.Instance{inst}}
	prov := &fakeProvisioner{}
	reg := &fakeRegistry{provisioner: prov}
	fp := &fakeFootprintRunner{}

	r := New(st, testCatalog(t), reg, fp, DefaultConfig())

	_, err := r.iterate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, prov.startCalls)
}
