package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

type fakeStore struct {
	instances  []model.Instance
	footprints []model.FootprintRequest
	setErr     error
	appendErr  error
	logLines   []string
}

func (f *fakeStore) GetInstances(ctx context.Context) ([]model.Instance, error) {
	return f.instances, nil
}

func (f *fakeStore) SetInstances(ctx context.Context, instances []model.Instance) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.instances = instances
	return nil
}

func (f *fakeStore) GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error) {
	return f.footprints, nil
}

func (f *fakeStore) AppendFootprintRequest(ctx context.Context, request model.FootprintRequest) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.footprints = append(f.footprints, request)
	return nil
}

func (f *fakeStore) RunnerLogLines(ctx context.Context, containerName string, top, last int) ([]string, error) {
	return f.logLines, nil
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv := NewServer(testCatalog(t), &fakeStore{}, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedEndpoint_MissingAuth(t *testing.T) {
	srv := NewServer(testCatalog(t), &fakeStore{}, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/srv/services/active/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestProtectedEndpoint_WrongToken(t *testing.T) {
	srv := NewServer(testCatalog(t), &fakeStore{}, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/srv/services/active/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServicesActive_ValidToken(t *testing.T) {
	st := &fakeStore{instances: []model.Instance{{Name: "a", Service: "svc1", Status: model.StatusAvailable}}}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/srv/services/active/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got []model.Instance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestUpdateDynamicServices_UnknownService(t *testing.T) {
	st := &fakeStore{}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	body, _ := json.Marshal([]model.Instance{{Name: "a", Service: "nope"}})
	req := httptest.NewRequest(http.MethodPost, "/srv/services/dynamic/update/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDynamicServices_Accepted(t *testing.T) {
	st := &fakeStore{}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	body, _ := json.Marshal([]model.Instance{{Name: "a", Service: "svc1"}})
	req := httptest.NewRequest(http.MethodPost, "/srv/services/dynamic/update/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, st.instances, 1)
	assert.Equal(t, model.StatusStarting, st.instances[0].Status)
}

func TestUpdateDynamicServices_PersistFailure(t *testing.T) {
	st := &fakeStore{setErr: assertErr{}}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	body, _ := json.Marshal([]model.Instance{{Name: "a", Service: "svc1"}})
	req := httptest.NewRequest(http.MethodPost, "/srv/services/dynamic/update/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFootprintCreate_ConflictWhenActive(t *testing.T) {
	st := &fakeStore{instances: []model.Instance{{Name: "a", Status: model.StatusAvailable}}}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	body, _ := json.Marshal(model.FootprintRequest{FootprintAllServices: true})
	req := httptest.NewRequest(http.MethodPost, "/srv/services/footprint", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFootprintCreate_Accepted(t *testing.T) {
	st := &fakeStore{}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	body, _ := json.Marshal(model.FootprintRequest{FootprintAllServices: true})
	req := httptest.NewRequest(http.MethodPost, "/srv/services/footprint", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, st.footprints, 1)
}

func TestServiceLogs_NotFound(t *testing.T) {
	st := &fakeStore{}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/srv/services/logs/svc1/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServiceLogs_Found(t *testing.T) {
	st := &fakeStore{
		instances: []model.Instance{{Name: "inst-a", Service: "svc1", Status: model.StatusAvailable}},
		logLines:  []string{"line1", "line2"},
	}
	srv := NewServer(testCatalog(t), st, "secret", "ozwald", "default")
	req := httptest.NewRequest(http.MethodGet, "/srv/services/logs/svc1/?top=10", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var lines []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))
	assert.Equal(t, []string{"line1", "line2"}, lines)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
