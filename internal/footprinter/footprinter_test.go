package footprinter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/internal/registry"
)

const multiAxisCatalogYAML = `
services:
  - name: svc1
    type: container
    image: base-image
    footprint:
      run_time: 1
    profiles:
      p1:
        image: p1-image
      p2:
        image: p2-image
    varieties:
      v1:
        image: v1-image
  - name: svc2
    type: container
    image: only-image
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(multiAxisCatalogYAML), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

type fakeStore struct {
	instances  []model.Instance
	requests   []model.FootprintRequest
	removed    []string
	updated    []model.FootprintRequest
}

func (f *fakeStore) GetInstances(ctx context.Context) ([]model.Instance, error) {
	return f.instances, nil
}

func (f *fakeStore) GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error) {
	return f.requests, nil
}

func (f *fakeStore) UpdateFootprintRequestByID(ctx context.Context, requestID string, updated model.FootprintRequest) error {
	f.updated = append(f.updated, updated)
	return nil
}

func (f *fakeStore) RemoveFootprintRequestByID(ctx context.Context, requestID string) error {
	f.removed = append(f.removed, requestID)
	kept := f.requests[:0]
	for _, r := range f.requests {
		if r.RequestID != requestID {
			kept = append(kept, r)
		}
	}
	f.requests = kept
	return nil
}

type fakeProvisioner struct {
	startCalls int
	stopCalls  int
}

func (f *fakeProvisioner) Start(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	f.startCalls++
	inst.Status = model.StatusAvailable
	inst.Info[model.InfoContainerID] = "c1"
	return nil
}

func (f *fakeProvisioner) Stop(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	f.stopCalls++
	inst.SetTimestampKey(model.InfoStopCompleted, time.Now())
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

func noopSleep(ctx context.Context, d time.Duration) {}

func TestEnumerateTargets_AllServices(t *testing.T) {
	fp := New(&fakeStore{}, testCatalog(t), &fakeRegistry{}, "")
	targets := fp.enumerateTargets(model.FootprintRequest{FootprintAllServices: true})

	var keys []string
	for _, tgt := range targets {
		keys = append(keys, tgt.Service+"/"+tgt.Profile+"/"+tgt.Variety)
	}
	sort.Strings(keys)

	assert.Equal(t, []string{
		"svc1/p1/v1",
		"svc1/p2/v1",
		"svc2//",
	}, keys)
}

func TestEnumerateTargets_ExplicitList(t *testing.T) {
	fp := New(&fakeStore{}, testCatalog(t), &fakeRegistry{}, "")
	req := model.FootprintRequest{
		Services: []model.FootprintServiceSelector{
			{ServiceName: "svc1", Profile: "p1", Variety: "v1"},
		},
	}
	targets := fp.enumerateTargets(req)
	require.Len(t, targets, 1)
	assert.Equal(t, target{Service: "svc1", Profile: "p1", Variety: "v1"}, targets[0])
}

func TestRunOne_NoRequests(t *testing.T) {
	fp := New(&fakeStore{}, testCatalog(t), &fakeRegistry{}, "")
	ran, err := fp.RunOne(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRunOne_AbortsWhenDesiredStateListNonEmpty(t *testing.T) {
	st := &fakeStore{
		instances: []model.Instance{{Name: "other", Status: model.StatusAvailable}},
		requests: []model.FootprintRequest{{
			RequestID: "r1",
			Services:  []model.FootprintServiceSelector{{ServiceName: "svc2"}},
		}},
	}
	prov := &fakeProvisioner{}
	fp := New(st, testCatalog(t), &fakeRegistry{provisioner: prov}, filepath.Join(t.TempDir(), "usage.yml"))
	fp.sleep = noopSleep

	ran, err := fp.RunOne(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 0, prov.startCalls)
	assert.Equal(t, []string{"r1"}, st.removed)
}

func TestRunOne_HappyPath(t *testing.T) {
	usagePath := filepath.Join(t.TempDir(), "usage.yml")
	st := &fakeStore{
		requests: []model.FootprintRequest{{
			RequestID: "r1",
			Services:  []model.FootprintServiceSelector{{ServiceName: "svc2"}},
		}},
	}
	prov := &fakeProvisioner{}
	fp := New(st, testCatalog(t), &fakeRegistry{provisioner: prov}, usagePath)
	fp.sleep = noopSleep

	ran, err := fp.RunOne(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, prov.startCalls)
	assert.Equal(t, 1, prov.stopCalls)
	assert.Equal(t, []string{"r1"}, st.removed)
	require.Len(t, st.updated, 1)
	assert.True(t, st.updated[0].FootprintInProgress)

	records, err := fp.usage.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "svc2", records[0].ServiceName)
}
