package internal

import (
	"agd/internal/controllers"
	"agd/internal/providers"
	"agd/internal/services"
	"agd/internal/snapshot/interfaces"
	"agd/internal/structures"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
	service   services.GameDataServiceInterface
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, service services.GameDataServiceInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
		logger.Debugf(providers.TypeApp, "Route %s %s", route.Method, route.Url)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, router.GetRoutes(), apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:        conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
			// POST /sync runs a full synchronization
			WriteTimeout: conf.Sync.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
		service:   service,
	}
}

// Run serves HTTP and keeps the data in sync until SIGINT or SIGTERM.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if a.service.HasData() {
		a.logger.Infof(providers.TypeApp, "Serving cached revision %s", a.service.Revision())
	}

	if a.conf.Sync.SyncOnStart || !a.service.HasData() {
		go func() {
			ctx, cancel := syncContext(context.Background(), a.conf)
			defer cancel()
			if err := a.scheduler.SyncNow(ctx); err != nil {
				a.logger.Errorf(providers.TypeApp, "Initial sync failed: %s", err)
			}
		}()
	}
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}

// SyncRunner performs one synchronization without serving HTTP.
type SyncRunner struct {
	scheduler interfaces.SchedulerInterface
	service   services.GameDataServiceInterface
	logger    providers.Logger
	conf      *structures.Config
}

func NewSyncRunner(scheduler interfaces.SchedulerInterface, service services.GameDataServiceInterface, logger providers.Logger, conf *structures.Config) *SyncRunner {
	return &SyncRunner{scheduler: scheduler, service: service, logger: logger, conf: conf}
}

// Run syncs once and returns the installed revision with its per-map counts.
func (s *SyncRunner) Run(ctx context.Context) (string, map[string]int, error) {
	ctx, cancel := syncContext(ctx, s.conf)
	defer cancel()
	if err := s.scheduler.SyncNow(ctx); err != nil {
		return "", nil, err
	}
	return s.service.Revision(), s.service.Stats(), nil
}

func (s *SyncRunner) Close() {
	s.logger.Close()
}

func syncContext(parent context.Context, conf *structures.Config) (context.Context, context.CancelFunc) {
	if conf.Sync.Timeout > 0 {
		return context.WithTimeout(parent, conf.Sync.Timeout)
	}
	return context.WithCancel(parent)
}
