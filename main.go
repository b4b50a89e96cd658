package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"github.com/Ramsey-B/tulsi/config"
	"github.com/Ramsey-B/tulsi/internal/handlers"
	"github.com/Ramsey-B/tulsi/pkg/database"
	"github.com/Ramsey-B/tulsi/pkg/events"
	"github.com/Ramsey-B/tulsi/pkg/health"
	"github.com/Ramsey-B/tulsi/pkg/importer"
	"github.com/Ramsey-B/tulsi/pkg/intake"
	"github.com/Ramsey-B/tulsi/pkg/middleware"
	"github.com/Ramsey-B/tulsi/pkg/repositories"
	"github.com/Ramsey-B/tulsi/pkg/startup"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
	"github.com/Ramsey-B/tulsi/pkg/tracing/exporters"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := initTracing(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		defer shutdown()
	}

	var db database.DB
	var checker *health.Checker
	var emitter events.Emitter = events.NoopEmitter{}
	e := echo.New()

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	boot.AddDependency(startup.Func{
		Name: "database",
		StartFn: func(ctx context.Context) error {
			dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
				cfg.DatabaseName, cfg.DatabaseSSLMode)

			connected, err := database.Connect(cfg.DatabaseDriver, dsn, database.PoolConfig{
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			}, logger)
			if err != nil {
				return err
			}
			db = connected
			return nil
		},
		StopFn: func(ctx context.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
	})

	boot.AddDependency(startup.Func{
		Name:  "migrations",
		Needs: []string{"database"},
		StartFn: func(ctx context.Context) error {
			driver, err := postgres.WithInstance(db.Unsafe().DB, &postgres.Config{})
			if err != nil {
				return err
			}

			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				AutoRollback:        cfg.DatabaseMigrationAutoRollback,
			})
			return migrations.Migrate(cfg.DatabaseName, driver)
		},
	})

	if cfg.KafkaEnabled {
		boot.AddDependency(startup.Func{
			Name: "kafka",
			StartFn: func(ctx context.Context) error {
				emitter = events.NewProducer(events.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaOutputTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			StopFn: func(ctx context.Context) error {
				return emitter.Close()
			},
		})
	}

	boot.AddDependency(startup.Func{
		Name:  "http-server",
		Needs: []string{"database", "migrations"},
		StartFn: func(ctx context.Context) error {
			checker = health.NewChecker(db, cfg.Version)
			registerRoutes(e, cfg, logger, db, emitter, checker)

			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Error("http server stopped")
					stop()
				}
			}()
			checker.SetReady(true)
			return nil
		},
		StopFn: func(ctx context.Context) error {
			if checker != nil {
				checker.SetReady(false)
			}
			return e.Shutdown(ctx)
		},
	})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("startup failed")
		os.Exit(1)
	}

	logger.WithField("port", cfg.Port).Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
}

func newLogger(cfg *config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func initTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	otlpConfig := exporters.DefaultOTLPConfig()
	otlpConfig.Endpoint = cfg.TracingEndpoint

	exporter, err := exporters.NewOTLPExporter(ctx, otlpConfig)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.TracingSampleRatio)),
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(cfg.Version),
		)),
	)
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}, nil
}

func registerRoutes(e *echo.Echo, cfg *config.Config, logger ectologger.Logger, db database.DB, emitter events.Emitter, checker *health.Checker) {
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}

	devoteeRepo := repositories.NewDevoteeRepository(db, logger)
	duplicateRepo := repositories.NewDuplicateEntryRepository(db, logger)
	invalidRepo := repositories.NewInvalidEntryRepository(db, logger)

	canonicalizer := intake.NewCanonicalizer(cfg.CountryCodeRequired)
	pipeline := intake.NewPipeline(canonicalizer, devoteeRepo, duplicateRepo, invalidRepo, logger)
	bulkImporter := importer.NewImporter(pipeline, logger)

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// The vocabulary is public; the frontend loads it before sign-in.
	open := e.Group("/api/v1")
	handlers.NewNakshatraHandler().RegisterRoutes(open)

	api := e.Group("/api/v1")
	if cfg.AuthEnabled {
		api.Use(middleware.Authentication(logger, cfg.AuthIssuerURL, cfg.AuthClientID))
	}

	handlers.NewDevoteeHandler(pipeline, devoteeRepo, emitter).RegisterRoutes(api)
	handlers.NewImportHandler(bulkImporter, emitter).RegisterRoutes(api)
	handlers.NewAuditHandler(duplicateRepo, invalidRepo).RegisterRoutes(api)
}
