package controlplane

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
services:
  - name: svc1
    type: container
    image: base-image
`), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func TestApplyUpdate_UnknownService(t *testing.T) {
	cat := testCatalog(t)
	_, err := applyUpdate(cat, nil, []model.Instance{{Name: "a", Service: "nope"}})
	var unknownSvc *catalog.UnknownServiceError
	assert.ErrorAs(t, err, &unknownSvc)
}

func TestApplyUpdate_NewInstanceStarts(t *testing.T) {
	cat := testCatalog(t)
	result, err := applyUpdate(cat, nil, []model.Instance{{Name: "a", Service: "svc1"}})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, model.StatusStarting, result[0].Status)
}

func TestApplyUpdate_AvailableInstanceUnchanged(t *testing.T) {
	cat := testCatalog(t)
	current := []model.Instance{{Name: "a", Service: "svc1", Status: model.StatusAvailable}}
	result, err := applyUpdate(cat, current, []model.Instance{{Name: "a", Service: "svc1"}})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, model.StatusAvailable, result[0].Status)
}

func TestApplyUpdate_StoppingInstanceRepromoted(t *testing.T) {
	cat := testCatalog(t)
	current := []model.Instance{{Name: "a", Service: "svc1", Status: model.StatusStopping}}
	result, err := applyUpdate(cat, current, []model.Instance{{Name: "a", Service: "svc1"}})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, model.StatusStarting, result[0].Status)
}

func TestApplyUpdate_AbsentFromIncomingMarkedStopping(t *testing.T) {
	cat := testCatalog(t)
	current := []model.Instance{{Name: "a", Service: "svc1", Status: model.StatusAvailable}}
	result, err := applyUpdate(cat, current, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, model.StatusStopping, result[0].Status)
}
