package controlplane

import (
	"context"
	"net/http"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

// Store is the subset of *store.Client the control plane needs.
type Store interface {
	GetInstances(ctx context.Context) ([]model.Instance, error)
	SetInstances(ctx context.Context, instances []model.Instance) error
	GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error)
	AppendFootprintRequest(ctx context.Context, request model.FootprintRequest) error
	RunnerLogLines(ctx context.Context, containerName string, top, last int) ([]string, error)
}

// Server is C8.
type Server struct {
	catalog   *catalog.Catalog
	store     Store
	systemKey string
	prefix    string
	realm     string
}

// NewServer constructs a Server. systemKey must be non-empty; the caller
// (application bootstrap) is responsible for treating an empty OZWALD_SYSTEM_KEY
// as a fatal startup error per §4.8.
func NewServer(cat *catalog.Catalog, st Store, systemKey, prefix, realm string) *Server {
	return &Server{catalog: cat, store: st, systemKey: systemKey, prefix: prefix, realm: realm}
}

// Handler builds the routed, auth-gated http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /srv/services/configured/", s.handleServicesConfigured)
	protected.HandleFunc("GET /srv/services/active/", s.handleServicesActive)
	protected.HandleFunc("POST /srv/services/dynamic/update/", s.handleUpdateDynamicServices)
	protected.HandleFunc("GET /srv/resources/available/", s.handleResourcesAvailable)
	protected.HandleFunc("GET /srv/services/footprint", s.handleFootprintList)
	protected.HandleFunc("POST /srv/services/footprint", s.handleFootprintCreate)
	protected.HandleFunc("GET /srv/services/logs/{service}/", s.handleServiceLogs)

	mux.Handle("/srv/", bearerAuth(s.systemKey, protected))

	return mux
}
