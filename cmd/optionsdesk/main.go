package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	chainapp "github.com/wyfcoding/optionsdesk/internal/chain/application"
	chainhttp "github.com/wyfcoding/optionsdesk/internal/chain/interfaces/http"
	marketapp "github.com/wyfcoding/optionsdesk/internal/market/application"
	marketmysql "github.com/wyfcoding/optionsdesk/internal/market/infrastructure/persistence/mysql"
	"github.com/wyfcoding/optionsdesk/internal/notify"
	orderbookredis "github.com/wyfcoding/optionsdesk/internal/orderbook/infrastructure/persistence/redis"
	orderapp "github.com/wyfcoding/optionsdesk/internal/orderflow/application"
	"github.com/wyfcoding/optionsdesk/internal/orderflow/infrastructure/accounts"
	"github.com/wyfcoding/optionsdesk/internal/orderflow/infrastructure/messaging"
	orderhttp "github.com/wyfcoding/optionsdesk/internal/orderflow/interfaces/http"
	pricinghttp "github.com/wyfcoding/optionsdesk/internal/pricing/interfaces/http"
	"github.com/wyfcoding/optionsdesk/pkg/cache"
	"github.com/wyfcoding/optionsdesk/pkg/config"
	"github.com/wyfcoding/optionsdesk/pkg/db"
	"github.com/wyfcoding/optionsdesk/pkg/logger"
	"github.com/wyfcoding/optionsdesk/pkg/metrics"
	"github.com/wyfcoding/optionsdesk/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Logger
	appLogger := logger.New(cfg.Logger)

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)

	// 4. Database
	gdb, err := db.Init(db.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := gdb.AutoMigrate(&marketmysql.MarketModel{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// 5. Redis
	redisClient, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	// 6. Kafka
	producer := mq.NewProducer(mq.Config{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	defer producer.Close()

	// 7. Layers
	var notifier notify.Notifier = notify.NewLogNotifier(appLogger)
	if cfg.Kafka.NotificationTopic != "" {
		notifier = notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic, appLogger)
	}
	marketRepo := marketmysql.NewMarketRepo(gdb)
	marketService := marketapp.NewMarketService(marketRepo, appLogger)
	chainService := chainapp.NewChainService(marketService, notifier, appLogger, m)
	books := orderbookredis.NewSnapshotRedisRepository(redisClient, time.Duration(cfg.Desk.OrderBookTTL)*time.Second)
	accountSource := accounts.NewMemorySource()
	submitter := messaging.NewKafkaOrderSubmitter(producer, cfg.Kafka.OrderTopic)
	orderService := orderapp.NewOrderService(accountSource, books, submitter, notifier, appLogger, m)

	// 8. HTTP
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	chainhttp.NewChainHandler(chainService, cfg.Desk.UnderlyingSymbol, cfg.Desk.QuoteSymbol).RegisterRoutes(api)
	pricinghttp.NewPricingHandler(books, m, cfg.Desk.DisplayPrecision).RegisterRoutes(api)
	orderhttp.NewOrderHandler(marketService, orderService).RegisterRoutes(api)

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("server started", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", "error", err)
	}
}
