package controlplane

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/FredworkLemmas/ozwald-sub000/internal/hostresources"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/internal/rundriver"
	"github.com/FredworkLemmas/ozwald-sub000/internal/store"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const subsystem = "ControlPlane"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error(subsystem, err, "failed to encode response body")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleServicesConfigured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Services())
}

func (s *Server) handleServicesActive(w http.ResponseWriter, r *http.Request) {
	instances, err := s.store.GetInstances(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to read active services")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (s *Server) handleUpdateDynamicServices(w http.ResponseWriter, r *http.Request) {
	var incoming []model.Instance
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	current, err := s.store.GetInstances(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to read desired-state list")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	updated, err := applyUpdate(s.catalog, current, incoming)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	persistErr := store.WithRetry(r.Context(), func(ctx context.Context) error {
		return s.store.SetInstances(ctx, updated)
	})
	if persistErr != nil {
		logging.Error(subsystem, persistErr, "failed to persist desired-state update")
		http.Error(w, "failed to persist update", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, nil)
}

func (s *Server) handleResourcesAvailable(w http.ResponseWriter, r *http.Request) {
	snap, err := hostresources.Inspect(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to inspect host resources")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFootprintList(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.GetAllFootprintRequests(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to read footprint queue")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleFootprintCreate(w http.ResponseWriter, r *http.Request) {
	var req model.FootprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	instances, err := s.store.GetInstances(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to read desired-state list")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(instances) != 0 {
		http.Error(w, "desired-state list is non-empty", http.StatusConflict)
		return
	}

	if req.RequestID == "" {
		req.RequestID = newRequestID()
	}
	req.RequestedAt = time.Now()

	if err := s.store.AppendFootprintRequest(r.Context(), req); err != nil {
		logging.Error(subsystem, err, "failed to enqueue footprint request")
		http.Error(w, "failed to persist footprint request", http.StatusServiceUnavailable)
		return
	}

	logging.Audit(logging.AuditEvent{
		Action:    "footprint_admit",
		Outcome:   "success",
		SessionID: logging.TruncateSessionID(req.RequestID),
	})

	writeJSON(w, http.StatusAccepted, req)
}

func (s *Server) handleServiceLogs(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")
	profile := r.URL.Query().Get("profile")
	variety := r.URL.Query().Get("variety")
	realm := r.URL.Query().Get("realm")
	if realm == "" {
		realm = s.realm
	}

	instances, err := s.store.GetInstances(r.Context())
	if err != nil {
		logging.Error(subsystem, err, "failed to read desired-state list")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var matched *model.Instance
	for i := range instances {
		if instances[i].Service == service && instances[i].Profile == profile && instances[i].Variety == variety {
			matched = &instances[i]
			break
		}
	}
	if matched == nil {
		http.Error(w, "no active instance for that service/profile/variety", http.StatusNotFound)
		return
	}

	top := parseIntOr(r.URL.Query().Get("top"), 0)
	last := parseIntOr(r.URL.Query().Get("last"), 0)

	containerName := rundriver.ContainerName(s.prefix, realm, matched.Name)
	lines, err := s.store.RunnerLogLines(r.Context(), containerName, top, last)
	if err != nil {
		logging.Error(subsystem, err, "failed to read logs for %s", containerName)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, lines)
}

func parseIntOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func newRequestID() string {
	return "fp-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
