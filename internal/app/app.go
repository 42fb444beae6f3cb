package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/connectivity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/generator"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/tracer"
	httpserver "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/router"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/service"
	"github.com/nats-io/nats.go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg           *config.Config
	log           logger.Logger
	server        *httpserver.Server
	metricsServer *http.Server
	storage       repository.KeyValueStore
	store         *service.AdsStore
	observer      *connectivity.Observer
	prober        *connectivity.Prober
	natsConn      *nats.Conn
	tp            *sdktrace.TracerProvider
	cancel        context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Storage: %s, Connectivity: %s",
		cfg.Env, cfg.HTTPServer.Port, cfg.Storage.Driver, cfg.Connectivity.Mode)

	tp := tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	metricsManager := metrics.NewManager()

	appLogger.Infof("Initializing %s backing store...", cfg.Storage.Driver)
	storage, err := newStorage(ctx, cfg.Storage, appLogger)
	if err != nil {
		appLogger.Errorf("Failed to initialize backing store: %v", err)
		return nil, fmt.Errorf("failed to initialize backing store: %w", err)
	}

	application := &App{
		cfg:           cfg,
		log:           appLogger,
		storage:       storage,
		tp:            tp,
		metricsServer: metrics.NewServer(cfg.Metrics.Port, metricsManager.Registry),
	}

	var natsSignal *natsadapter.Signal
	if cfg.Connectivity.Mode == config.ConnectivityNATS {
		natsSignal = natsadapter.NewSignal()
	}

	var publisher natsadapter.MessagePublisher
	if cfg.NATS.URL != "" {
		appLogger.Info("Connecting to NATS...")
		nc, err := natsadapter.NewConnection(cfg.NATS, natsSignal, appLogger)
		if err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		application.natsConn = nc
		publisher, err = natsadapter.NewNATSPublisher(nc)
		if err != nil {
			nc.Close()
			_ = storage.Close()
			return nil, err
		}
	} else if natsSignal != nil {
		_ = storage.Close()
		return nil, errors.New("connectivity mode nats requires NATS_URL")
	}

	var sig connectivity.Signal
	switch cfg.Connectivity.Mode {
	case config.ConnectivityNATS:
		sig = natsSignal
	case config.ConnectivityStatic:
		sig = connectivity.NewManual(!cfg.Connectivity.StaticOffline)
	default:
		application.prober = connectivity.NewProber(
			cfg.Connectivity.ProbeAddress,
			cfg.Connectivity.Interval,
			cfg.Connectivity.Timeout,
			appLogger,
		)
		sig = application.prober
	}

	application.store = service.NewAdsStore(
		ctx,
		storage,
		generator.NewFaker(0),
		sig,
		publisher,
		metricsManager,
		appLogger,
		cfg.Seed.BatchSize,
	).WithTracerProvider(tp)
	application.observer = connectivity.NewObserver(sig, application.store, appLogger)

	adsHandler := handler.NewAdsHandler(application.store, application.observer, appLogger)
	application.server = httpserver.NewServer(appLogger, cfg.HTTPServer, router.New(adsHandler, cfg.Auth.JWTSecret, appLogger))

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.prober != nil {
		a.prober.Start(ctx)
	}
	a.observer.Activate(ctx)
	a.log.Infof("Connectivity observer active, offline=%t, ads=%d", a.observer.IsOffline(), a.store.Len())

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.log.Infof("Prometheus metrics server starting on %s", a.metricsServer.Addr)
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	a.Shutdown()
}

// Shutdown stops components in reverse start order.
func (a *App) Shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error stopping metrics server: %v", err)
		}
	}

	a.observer.Deactivate()
	if a.cancel != nil {
		a.cancel()
	}

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	if err := a.storage.Close(); err != nil {
		a.log.Errorf("Error closing backing store: %v", err)
	} else {
		a.log.Info("Backing store closed successfully")
	}

	if a.tp != nil {
		if err := a.tp.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}
