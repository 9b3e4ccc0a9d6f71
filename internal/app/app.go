package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxresolver/internal/adapters"
	"fxresolver/internal/adapters/cache"
	"fxresolver/internal/adapters/kafka"
	"fxresolver/internal/adapters/memory"
	"fxresolver/internal/adapters/postgres"
	"fxresolver/internal/adapters/providers"
	"fxresolver/internal/api"
	"fxresolver/internal/config"
	"fxresolver/internal/metrics"
	"fxresolver/internal/platform/db"
	httpserver "fxresolver/internal/platform/http"
	"fxresolver/internal/rate"
	"fxresolver/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const defaultHTTPClientTimeout = 10 * time.Second

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	setupLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Persistent store
	store, closeStore, err := buildStore(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error preparing rate store")
		return err
	}
	defer closeStore()

	// Rate cache
	rateCache, closeCache, err := buildCache(appCfg.Cache)
	if err != nil {
		logrus.WithError(err).Error("Error creating rate cache")
		return err
	}
	defer closeCache()

	// External providers
	chain, unconfigured := providers.FromConfig(appCfg.Providers, newHTTPClient(appCfg.HTTPClient), appCfg.ExchangeRate.DemoFallback)
	if len(unconfigured) > 0 {
		logrus.WithField("providers", unconfigured).Warn("Rate providers without API key are disabled")
	}
	if len(chain) == 0 {
		logrus.Warn("No rate providers configured, only cached and stored rates will be served")
	}

	// Observers
	rateMetrics := metrics.NewRateMetrics(prometheus.DefaultRegisterer)
	observers := []rate.Observer{rate.NewLogObserver(logrus.StandardLogger()), rateMetrics}
	if len(appCfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewRatePublisher(appCfg.Kafka.Brokers, appCfg.Kafka.Topic)
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				logrus.WithError(closeErr).Error("Kafka publisher close error")
			}
		}()
		observers = append(observers, publisher)
		logrus.WithField("topic", appCfg.Kafka.Topic).Info("✅ Kafka rate events enabled")
	}

	// Services
	resolver, err := rate.NewResolver(store, rateCache, chain, appCfg.ExchangeRate.CacheDuration,
		rate.WithObserver(rate.Observers(observers...)),
		rate.WithRefreshBatch(appCfg.ExchangeRate.RefreshBatchSize, appCfg.ExchangeRate.RefreshPause),
		rate.WithUnconfiguredProviders(unconfigured...),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate resolver")
		return err
	}
	rateValidator := rate.NewValidator(appCfg.ExchangeRate.Currencies)

	if appCfg.Scheduler.Enabled {
		scheduler := rate.NewScheduler(resolver, rateValidator.SupportedCodes(), appCfg.Scheduler.RefreshInterval, appCfg.Scheduler.EvictInterval)
		// Ensure scheduler stops before the store closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateValidator, resolver)
	router := api.NewRouter(rateHandler, rateMetrics, prometheus.DefaultGatherer)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func setupLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
}

// buildStore connects to postgres and applies migrations, or falls back to an
// in-process store when the database is disabled.
func buildStore(ctx context.Context, cfg config.DbServer) (adapters.RateStore, func(), error) {
	if !cfg.Enabled {
		logrus.Warn("Database disabled, rates are kept in memory only")
		return memory.NewRateStore(), func() {}, nil
	}

	pool, err := db.CreatePoolAndPing(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logrus.Info("✅ Migrations applied")

	return postgres.NewRateRepository(pool), pool.Close, nil
}

func buildCache(cfg config.Cache) (adapters.RateCache, func(), error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemoryRateCache(), func() {}, nil
	case "ristretto":
		c, err := cache.NewRistrettoRateCache(cfg.MaxItems)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return nil, nil, errors.New("unknown cache backend: " + cfg.Backend)
	}
}

func newHTTPClient(cfg config.HTTPClient) *http.Client {
	httpTimeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = defaultHTTPClientTimeout
	}
	return &http.Client{Timeout: httpTimeout}
}
