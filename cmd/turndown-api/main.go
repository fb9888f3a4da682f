package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/configs"
	"github.com/turndownhq/turndown/internal/infrastructure/env"
	"github.com/turndownhq/turndown/internal/infrastructure/events"
	"github.com/turndownhq/turndown/internal/infrastructure/logging"
	"github.com/turndownhq/turndown/internal/infrastructure/messaging"
	"github.com/turndownhq/turndown/internal/infrastructure/ratelimiter"
	memoryRepository "github.com/turndownhq/turndown/internal/infrastructure/repository"
	"github.com/turndownhq/turndown/internal/infrastructure/tracing"
	"github.com/turndownhq/turndown/internal/infrastructure/ws"
	"github.com/turndownhq/turndown/internal/persistence/db"
	mongoRepository "github.com/turndownhq/turndown/internal/persistence/repository"
	"github.com/turndownhq/turndown/internal/presentation/api"
	"github.com/turndownhq/turndown/internal/presentation/handler/health"
	"github.com/turndownhq/turndown/internal/presentation/handler/properties"
	"github.com/turndownhq/turndown/internal/presentation/handler/rooms"
)

const (
	serviceName = "turndown-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	var (
		propertyRepository domain.PropertyRepository
		roomRepository     domain.RoomRepository
		auditRepository    domain.BoardAuditRepository
	)

	switch cfg.Store.Backend {
	case "memory":
		propertyRepository = memoryRepository.NewPropertyRepository()
		roomRepository = memoryRepository.NewRoomRepository()
		auditRepository = memoryRepository.NewAuditRepository()

		logger.Info(logging.General, logging.Startup, "using in-memory store", nil)
	default:
		mongoCfg := db.NewMongoDefaultConfig()
		client, err := db.NewMongoClient(ctx, mongoCfg)
		if err != nil {
			logger.Fatal(logging.Mongo, logging.Startup, "failed to connect to mongodb", map[logging.ExtraKey]any{
				"error": err.Error(),
			})
		}
		defer db.DisconnectMongo(ctx, client)

		database := db.GetDatabase(client, mongoCfg)

		propertyRepository = mongoRepository.NewPropertyRepository(database)
		roomRepository = mongoRepository.NewRoomRepository(database)
		auditRepository = mongoRepository.NewBoardAuditRepository(database)

		ensureIndexes(ctx, logger, database, auditRepository)
	}

	wsCore := ws.NewCore(propertyRepository, roomRepository)
	go wsCore.Run()

	var boardPublisher *events.BoardPublisher

	rabbitMqURI := env.GetString("RABBITMQ_URI", "")
	if rabbitMqURI != "" {
		rabbitmq, err := messaging.NewRabbitMQ(rabbitMqURI)
		if err != nil {
			logger.Fatal(logging.RabbitMQ, logging.Startup, "failed to connect to rabbitmq", map[logging.ExtraKey]any{
				"error": err.Error(),
			})
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "rabbitmq connection established", nil)

		boardPublisher = events.NewBoardPublisher(rabbitmq)

		// Start Audit Consumer
		auditConsumer := events.NewAuditConsumer(rabbitmq, auditRepository)
		if err := auditConsumer.Listen(); err != nil {
			logger.Fatal(logging.RabbitMQ, logging.Startup, "failed to start audit consumer", map[logging.ExtraKey]any{
				"error": err.Error(),
			})
		}
	} else {
		logger.Info(logging.RabbitMQ, logging.Startup, "RABBITMQ_URI not set, audit events disabled", nil)
	}

	go runAuditRetention(ctx, logger, auditRepository, cfg.Audit.RetentionDays)

	propertiesHandler := properties.NewHandler(propertyRepository, wsCore.Manager(), wsCore, boardPublisher)
	roomsHandler := rooms.NewHandler(propertyRepository, roomRepository, wsCore.Manager(), wsCore, boardPublisher)
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(*cfg, *propertiesHandler, *roomsHandler, *healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Startup, "server exited with error", map[logging.ExtraKey]any{
			"error": err.Error(),
		})
	}
}

func ensureIndexes(ctx context.Context, logger logging.Logger, database *mongo.Database, auditRepository domain.BoardAuditRepository) {
	if err := mongoRepository.EnsureRoomIndexes(ctx, database); err != nil {
		logger.Fatal(logging.Mongo, logging.Startup, "failed to create room indexes", map[logging.ExtraKey]any{
			"error": err.Error(),
		})
	}
	if err := auditRepository.EnsureIndexes(ctx); err != nil {
		logger.Fatal(logging.Mongo, logging.Startup, "failed to create audit indexes", map[logging.ExtraKey]any{
			"error": err.Error(),
		})
	}
}

// runAuditRetention sweeps expired audit entries daily. Mongo also has a
// TTL index; the sweep covers the in-memory store and shorter custom
// retention windows.
func runAuditRetention(ctx context.Context, logger logging.Logger, auditRepository domain.BoardAuditRepository, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
			if err := auditRepository.DeleteOlderThan(ctx, cutoff); err != nil {
				logger.Error(logging.General, logging.Startup, "audit retention sweep failed", map[logging.ExtraKey]any{
					"error": err.Error(),
				})
			}
		}
	}
}
