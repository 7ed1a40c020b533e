// Package server wires configuration, providers, the playoff core and the HTTP
// surface into one runnable process.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-playoffs-service/internal/config"
	httpserver "github.com/preston-bernstein/nba-playoffs-service/internal/http"
	"github.com/preston-bernstein/nba-playoffs-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/session"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
)

var metricsSetup = metrics.Setup

// Loader fills the store before the first request is served.
type Loader interface {
	Load(ctx context.Context) error
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	orchestrator  *simulation.Orchestrator
	session       *session.Session
	loader        Loader
	httpServer    httpServer
	metricsServer httpServer
	notifier      Worker
	metricsStop   func(context.Context) error
}

// New constructs a server using the provider named in cfg.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

// newServerWithMetrics builds the full graph. Nil components select the configured
// provider; a nil recorder runs metrics setup.
func newServerWithMetrics(cfg config.Config, logger *slog.Logger, components *providerComponents, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	if components == nil {
		built, err := factory.build(cfg)
		if err != nil {
			return nil, err
		}
		components = &built
	}

	memoryStore := store.NewMemoryStore()
	feed := notify.NewFeed(cfg.Notify.FeedSize)
	queue := notify.NewQueue(feed, cfg.Notify.StaggerDelay, logger)
	snaps := buildSnapshots(cfg)

	simCfg := simulation.Config{
		CampaignID: cfg.CampaignID,
		Source:     components.source,
		Engine:     components.engine,
		Champions:  components.champions,
		Store:      memoryStore,
		Notifier:   queue,
		Logger:     logger,
		Metrics:    recorder,
	}
	if snaps.writer != nil {
		simCfg.Archiver = snaps.writer
	}
	orch := simulation.New(simCfg)
	sess := session.New(memoryStore, orch, logger)
	orch.AddListener(sess)

	routes := httpserver.Routes{
		API: handlers.NewHandler(handlers.Config{
			CampaignID: cfg.CampaignID,
			Store:      memoryStore,
			Simulator:  orch,
			Feed:       feed,
			Snapshots:  snaps.store,
			Logger:     logger,
		}),
		Session: handlers.NewSessionHandler(sess, logger),
		Logger:  logger,
		Metrics: recorder,
	}
	// The admin archive endpoint is mounted only when a token and an archive exist.
	if cfg.AdminToken != "" && snaps.writer != nil {
		routes.Admin = handlers.NewAdminHandler(memoryStore, snaps.writer, cfg.AdminToken, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.NewRouter(routes),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		orchestrator:  orch,
		session:       sess,
		loader:        orch,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		notifier:      newLoopWorker(queue.Run),
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, loader Loader, httpSrv httpServer, notifier Worker) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		loader:     loader,
		httpServer: httpSrv,
		notifier:   notifier,
	}
}

// Run starts the HTTP server and notification delivery, loads campaign state, then
// waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.notifier.Start(ctx)
	s.load(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

// load fills the store once. A failure leaves /ready reporting not ready.
func (s *Server) load(ctx context.Context) {
	if s.loader == nil {
		return
	}
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	if err := s.loader.Load(loadCtx); err != nil {
		if s.logger != nil {
			s.logger.Error("initial campaign load failed", "error", err, slog.String(logging.FieldCampaignID, s.cfg.CampaignID))
		}
		return
	}
	if s.logger != nil {
		s.logger.Info("campaign state loaded", slog.String(logging.FieldCampaignID, s.cfg.CampaignID))
	}
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if err := s.notifier.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop notification queue", "error", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
