package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/bahaa0627-dev/wanderlog-sub000/config"
	"github.com/bahaa0627-dev/wanderlog-sub000/internal/repositories/place"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/allocator"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/classify"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/database"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/events"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/importer"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/kafka"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/matching"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/merging"
	appmiddleware "github.com/bahaa0627-dev/wanderlog-sub000/pkg/middleware"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/providers/openai"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/providers/places"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/recommend"
	healthroutes "github.com/bahaa0627-dev/wanderlog-sub000/pkg/routes/health"
	placeroutes "github.com/bahaa0627-dev/wanderlog-sub000/pkg/routes/places"
	recommendationroutes "github.com/bahaa0627-dev/wanderlog-sub000/pkg/routes/recommendation"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/startup"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Errorf("failed to read config: %w", err))
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}

	ctx := context.Background()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	db, err := database.Connect(ctx, database.Config{
		Host:         cfg.DatabaseHost,
		Port:         cfg.DatabasePort,
		User:         cfg.DatabaseUserName,
		Password:     cfg.DatabasePassword,
		Name:         cfg.DatabaseName,
		SSLMode:      cfg.DatabaseSSLMode,
		MaxOpenConns: cfg.DatabaseMaxOpenConns,
		MaxIdleConns: cfg.DatabaseMaxIdleConns,
		MaxLifetime:  cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		fatal(logger, err, "Failed to connect to database")
	}
	defer db.Close()

	migrations := database.NewMigrationService(logger, database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		DatabaseName:        cfg.DatabaseName,
	})
	if err := migrations.Migrate(db); err != nil {
		fatal(logger, err, "Failed to run database migrations")
	}

	placeRepo := place.NewRepository(db, logger)
	classifier := classify.NewClassifier(classify.DefaultRules(), classify.DefaultExclusions(), cfg.CategoryLocale)
	merger := merging.NewRecordMerger(models.DefaultFieldPolicies())

	matcher := matching.NewMatcher(matching.Config{
		MinNameSimilarity:          cfg.MatchMinNameSimilarity,
		HighConfidenceSimilarity:   cfg.MatchHighConfidence,
		MediumConfidenceSimilarity: cfg.MatchMediumConfidence,
		HighConfidenceMaxMeters:    cfg.MatchHighMaxMeters,
		MediumConfidenceMaxMeters:  cfg.MatchMediumMaxMeters,
		BaseMaxMeters:              cfg.MatchBaseMaxMeters,
		NameWeight:                 cfg.MatchNameWeight,
		ProximityWeight:            cfg.MatchProximityWeight,
	})

	allocatorCfg := allocator.DefaultConfig()
	allocatorCfg.MinPerCategory = cfg.AllocatorMinPerCategory
	allocatorCfg.MaxPerCategory = cfg.AllocatorMaxPerCategory
	allocatorCfg.FlatModeBelow = cfg.AllocatorFlatModeBelow
	alloc := allocator.NewAllocator(allocatorCfg)

	proposer, err := openai.NewProposer(openai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: float32(cfg.OpenAITemperature),
		Timeout:     time.Duration(cfg.OpenAITimeout) * time.Second,
	}, logger)
	if err != nil {
		fatal(logger, err, "Failed to create place proposer")
	}

	searcher := places.NewClient(places.Config{
		BaseURL:           cfg.PlacesBaseURL,
		APIKey:            cfg.PlacesAPIKey,
		Timeout:           time.Duration(cfg.PlacesTimeout) * time.Second,
		RequestsPerSecond: cfg.PlacesRPS,
		Burst:             cfg.PlacesBurst,
		CacheTTL:          time.Duration(cfg.PlacesCacheTTLMin) * time.Minute,
	}, logger)

	recommendService := recommend.NewService(proposer, searcher, placeRepo, matcher, alloc, logger)

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaEventsTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	emitter := events.NewEmitter(producer, logger)

	importerCfg := importer.DefaultConfig()
	importerCfg.IdentityRadiusMeters = cfg.IdentityRadiusMeters
	importerCfg.IdentityThreshold = cfg.IdentityScoreThreshold
	processor := importer.NewProcessor(classifier, merger, placeRepo, emitter, importerCfg, logger)

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaImportTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, processor.HandleMessage)
	}

	if err := registerDependencies(placeRepo, recommendService); err != nil {
		fatal(logger, err, "Failed to register dependencies")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(appmiddleware.Context())
	e.Use(appmiddleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.HTTPErrorHandler = appmiddleware.Error(logger)

	var kafkaCheck healthroutes.KafkaChecker
	if consumer != nil {
		kafkaCheck = consumer
	}
	healthChecker := healthroutes.NewChecker(db, kafkaCheck, version)
	healthChecker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	recommendationroutes.Register(api.Group("/recommendations"))
	placeroutes.Register(api.Group("/places"))

	services := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	if consumer != nil {
		services.AddDependency(&consumerDependency{consumer: consumer})
	}
	if err := services.Start(ctx); err != nil {
		fatal(logger, err, "Failed to start service dependencies")
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
		e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
		e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			fatal(logger, err, "HTTP server stopped")
		}
	}()
	healthChecker.SetReady(true)

	logger.WithFields(map[string]any{
		"app":  cfg.AppName,
		"port": cfg.Port,
	}).Info("Service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	healthChecker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down HTTP server")
	}
	if err := services.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop service dependencies")
	}
}

func buildLogger(cfg config.Config) (ectologger.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = level
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		fields := make([]zap.Field, 0, len(msg.Fields)+1)
		for k, v := range msg.Fields {
			fields = append(fields, zap.Any(k, v))
		}
		if msg.Err != nil {
			fields = append(fields, zap.Error(msg.Err))
		}
		switch string(msg.Level) {
		case "debug":
			zapLogger.Debug(msg.Message, fields...)
		case "warn", "warning":
			zapLogger.Warn(msg.Message, fields...)
		case "error", "fatal":
			zapLogger.Error(msg.Message, fields...)
		default:
			zapLogger.Info(msg.Message, fields...)
		}
	}), nil
}

func fatal(logger ectologger.Logger, err error, msg string) {
	logger.WithError(err).Error(msg)
	os.Exit(1)
}

func registerDependencies(placeRepo *place.Repository, recommendService *recommend.Service) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*place.Repository](container, placeRepo); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*recommend.Service](container, recommendService)
}

// consumerDependency adapts the Kafka consumer to the startup lifecycle.
type consumerDependency struct {
	consumer *kafka.Consumer
}

func (d *consumerDependency) GetName() string {
	return "kafka-consumer"
}

func (d *consumerDependency) DependsOn() []string {
	return nil
}

func (d *consumerDependency) Start(ctx context.Context) error {
	return d.consumer.Start(ctx)
}

func (d *consumerDependency) Stop(ctx context.Context) error {
	return d.consumer.Stop()
}
