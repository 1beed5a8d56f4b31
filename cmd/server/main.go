package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-ticket-scanner/config"
	"go-gin-ticket-scanner/internal/cache"
	"go-gin-ticket-scanner/internal/database"
	"go-gin-ticket-scanner/internal/dataset"
	"go-gin-ticket-scanner/internal/handler"
	"go-gin-ticket-scanner/internal/qrcode"
	"go-gin-ticket-scanner/internal/queue"
	"go-gin-ticket-scanner/internal/repository"
	"go-gin-ticket-scanner/internal/service"
	"go-gin-ticket-scanner/internal/telemetry"
	"go-gin-ticket-scanner/internal/worker"
	"go-gin-ticket-scanner/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.Server.LogLevel)
	gin.SetMode(cfg.Server.GinMode)
	defer logger.Sync()
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, cfg.Telemetry)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(sctx)
	}()

	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		var err error
		pool, err = database.InitDatabase(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal("Failed to ensure schema", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		var err error
		rdb, err = database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	ds, err := loadDataset(ctx, cfg.Dataset, pool)
	if err != nil {
		log.Fatal("Failed to load ticket dataset", zap.Error(err))
	}

	var gate cache.ScanGate = cache.NewMemoryScanGate(cfg.Scanner.DebounceWindow, nil)
	if rdb != nil {
		gate = cache.NewRedisScanGate(rdb, cfg.Scanner.DebounceWindow)
	}

	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())
	handler.RegisterHealth(router)

	// 有資料庫時才記錄掃描事件並提供查詢
	var publisher service.ScanEventPublisher
	if pool != nil {
		scanQueue, closeQueue, err := newScanEventQueue(ctx, cfg, rdb)
		if err != nil {
			log.Fatal("Failed to initialize scan event queue", zap.Error(err))
		}
		defer closeQueue()

		checkInService := service.NewCheckInService(repository.NewCheckInRepository(pool))
		checkInWorker := worker.NewCheckInWorker(checkInService, scanQueue)
		if err := checkInWorker.Start(ctx); err != nil {
			log.Fatal("Failed to start check-in worker", zap.Error(err))
		}
		defer checkInWorker.Wait()

		handler.NewCheckInHandler(checkInService).RegisterRoutes(router)
		publisher = scanQueue
	}

	scanService := service.NewScanService(
		ds,
		gate,
		qrcode.NewRenderer(cfg.Scanner.QRCodeSize),
		publisher,
		service.ScanServiceOptions{EventLabel: cfg.Scanner.EventLabel},
	)
	handler.NewScanHandler(scanService).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("ticket scanner listening", zap.String("addr", server.Addr), zap.Int("tickets", ds.Len()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func loadDataset(ctx context.Context, cfg config.DatasetConfig, pool *pgxpool.Pool) (*dataset.Dataset, error) {
	switch cfg.Source {
	case config.DatasetSourceEmbedded:
		return dataset.Default()
	case config.DatasetSourceFile:
		return dataset.LoadFile(cfg.Path)
	case config.DatasetSourcePostgres:
		if pool == nil {
			return nil, errors.New("dataset source postgres requires DB_ENABLED=true")
		}
		return dataset.LoadFromRepository(ctx, repository.NewTicketRepository(pool))
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

func newScanEventQueue(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.ScanEventQueue, func(), error) {
	switch cfg.Scanner.EventQueue {
	case config.EventQueueMemory:
		return queue.NewMemoryScanEventQueue(cfg.Scanner.QueueBuffer), func() {}, nil
	case config.EventQueueRedisStream:
		if rdb == nil {
			return nil, nil, errors.New("redis event queue requires REDIS_ENABLED=true")
		}
		hostname, _ := os.Hostname()
		q, err := queue.NewRedisStreamScanEventQueue(ctx, rdb, hostname, nil)
		return q, func() {}, err
	case config.EventQueueKafka:
		q, err := queue.NewKafkaScanEventQueue(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown scan event queue %q", cfg.Scanner.EventQueue)
	}
}
