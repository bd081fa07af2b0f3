package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/controlplane"
	"github.com/FredworkLemmas/ozwald-sub000/internal/footprinter"
	"github.com/FredworkLemmas/ozwald-sub000/internal/reconciler"
	"github.com/FredworkLemmas/ozwald-sub000/internal/registry"
	"github.com/FredworkLemmas/ozwald-sub000/internal/rundriver"
	"github.com/FredworkLemmas/ozwald-sub000/internal/store"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const containerPrefix = "ozwald"

// Application is the fully wired daemon: the reconciler loop and the
// control-plane HTTP server, run as sibling goroutines over a shared catalog
// and store connection.
//
// Bootstrap is two-phase: NewApplication loads configuration and constructs
// every component; Run starts them and blocks until ctx is cancelled or a
// component fails.
type Application struct {
	config       *Config
	catalog      *catalog.Catalog
	store        *store.Client
	reconciler   *reconciler.Reconciler
	controlPlane *controlplane.Server
}

// NewApplication performs the complete bootstrap sequence: logging, catalog
// load, cache connection, footprint-file writability check, registry
// construction, and wiring of the reconciler, footprinter, and control
// plane.
func NewApplication(cfg *Config) (*Application, error) {
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}
	logging.InitForCLI(logLevel, os.Stderr)

	if cfg.SystemKey == "" {
		return nil, fmt.Errorf("OZWALD_SYSTEM_KEY is required and was not set")
	}
	if cfg.ConfigPath == "" {
		return nil, fmt.Errorf("catalog path is required (set --config or OZWALD_CONFIG)")
	}

	cat, err := catalog.Load(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to load catalog from %s", cfg.ConfigPath)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logging.Info("Bootstrap", "loaded catalog from %s with %d services", cfg.ConfigPath, len(cat.Services()))

	provisionerCfg, err := cat.SelectProvisioner(cfg.ProvisionerName)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to select provisioner")
		return nil, fmt.Errorf("failed to select provisioner: %w", err)
	}

	cacheClient, err := store.NewClient(provisionerCfg.Cache.Parameters)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to connect to cache backend")
		return nil, fmt.Errorf("failed to connect to cache backend: %w", err)
	}

	if cfg.FootprintDataPath != "" {
		if err := ensureWritableParent(cfg.FootprintDataPath); err != nil {
			logging.Error("Bootstrap", err, "footprint-data path is not usable")
			return nil, fmt.Errorf("footprint-data path is not usable: %w", err)
		}
	}

	reg := registry.New()
	runtime, err := rundriver.NewContainerRuntime(string(rundriver.RuntimeTypeDocker))
	if err != nil {
		logging.Error("Bootstrap", err, "failed to construct container runtime")
		return nil, fmt.Errorf("failed to construct container runtime: %w", err)
	}
	containerProvisioner := rundriver.NewContainerProvisioner(runtime, containerPrefix, cfg.Realm)
	reg.MustRegister("container", containerProvisioner)

	fp := footprinter.New(cacheClient, cat, reg, cfg.FootprintDataPath)
	rec := reconciler.New(cacheClient, cat, reg, fp, reconciler.DefaultConfig())
	cp := controlplane.NewServer(cat, cacheClient, cfg.SystemKey, containerPrefix, cfg.Realm)

	return &Application{
		config:       cfg,
		catalog:      cat,
		store:        cacheClient,
		reconciler:   rec,
		controlPlane: cp,
	}, nil
}

// Run starts the reconciler loop and the control-plane HTTP server as
// sibling goroutines under an errgroup, and blocks until ctx is cancelled or
// either one fails. On cancellation the HTTP server is shut down gracefully;
// in-flight reconciler work finishes its current iteration (§5 "Cancellation").
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()

	httpServer := &http.Server{
		Addr:    a.config.ListenAddr,
		Handler: a.controlPlane.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.reconciler.Run(gctx)
	})

	g.Go(func() error {
		logging.Info("Bootstrap", "control plane listening on %s", a.config.ListenAddr)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Shutdown(context.Background())
	})

	return g.Wait()
}

// ensureWritableParent confirms the usage-record file's parent directory
// exists and is writable (§6.2's daemon-refuses-to-run invariant).
func ensureWritableParent(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("parent directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	probe := filepath.Join(dir, ".ozwald-write-check")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("parent directory %s is not writable: %w", dir, err)
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return nil
}
