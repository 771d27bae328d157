package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/config"
	"github.com/fekuna/omnipos-bar-service/internal/sequence"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/cache"
	"github.com/fekuna/omnipos-bar-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-bar-service/pkg/grpcjson"
	"github.com/fekuna/omnipos-bar-service/pkg/i18n"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/fekuna/omnipos-bar-service/pkg/middleware"
	"github.com/fekuna/omnipos-bar-service/pkg/search"

	balH "github.com/fekuna/omnipos-bar-service/internal/balance/handler"
	balRepoPkg "github.com/fekuna/omnipos-bar-service/internal/balance/repository"
	balUCPkg "github.com/fekuna/omnipos-bar-service/internal/balance/usecase"

	delH "github.com/fekuna/omnipos-bar-service/internal/delivery/handler"
	delRepoPkg "github.com/fekuna/omnipos-bar-service/internal/delivery/repository"
	delUCPkg "github.com/fekuna/omnipos-bar-service/internal/delivery/usecase"

	invH "github.com/fekuna/omnipos-bar-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-bar-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-bar-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-bar-service/internal/inventory/usecase"

	ordH "github.com/fekuna/omnipos-bar-service/internal/order/handler"
	ordRepoPkg "github.com/fekuna/omnipos-bar-service/internal/order/repository"
	ordUCPkg "github.com/fekuna/omnipos-bar-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-bar-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-bar-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-bar-service/internal/product/usecase"

	recipeUCPkg "github.com/fekuna/omnipos-bar-service/internal/recipe/usecase"
	venueRepoPkg "github.com/fekuna/omnipos-bar-service/internal/venue/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	translator, err := i18n.New(cfg.I18n.DefaultLang)
	if err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	txManager := postgres.NewTxManager(db)
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	prodRepo := prodRepoPkg.NewPGRepository(db)
	venueRepo := venueRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	ordRepo := ordRepoPkg.NewPGRepository(db)
	delRepo := delRepoPkg.NewPGRepository(db)
	balRepo := balRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis. Caches and sequences fall back to Postgres without it.
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, running without cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Kafka
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer producer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, catalog search disabled", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	loc := sequence.LoadLocation(cfg.Orders.Timezone)
	seq := sequence.NewGenerator(redisClient, loc, appLogger)

	recipeUC := recipeUCPkg.NewRecipeUseCase(prodRepo, redisClient, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, recipeUC, txManager, redisClient, esClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, prodRepo, venueRepo, txManager, invUCPkg.Options{
		Enforce:                  cfg.Inventory.Enforce,
		DefaultLowStockThreshold: cfg.Inventory.DefaultLowStockThreshold,
	}, appLogger)
	balUC := balUCPkg.NewBalanceUseCase(balRepo, venueRepo, seq, txManager, balUCPkg.Options{
		CodePrefix:    cfg.Orders.BalanceCodePrefix,
		PublicBaseURL: cfg.Orders.PublicBaseURL,
	}, appLogger)

	orderDeps := ordUCPkg.Deps{
		Repo:       ordRepo,
		Products:   prodRepo,
		Recipes:    recipeUC,
		Ledger:     invUC,
		Balances:   balUC,
		Venues:     venueRepo,
		Deliveries: delRepo,
		Sequence:   seq,
		Tx:         txManager,
		Publisher:  producer,
		Logger:     appLogger,
	}
	ordUC := ordUCPkg.NewOrderUseCase(orderDeps, ordUCPkg.Options{
		CodePrefix:    cfg.Orders.CodePrefix,
		PublicBaseURL: cfg.Orders.PublicBaseURL,
	})
	payUC := ordUCPkg.NewPaymentUseCase(orderDeps)
	delUC := delUCPkg.NewDeliveryUseCase(delUCPkg.Deps{
		Repo:      delRepo,
		Orders:    ordRepo,
		Ledger:    invUC,
		Venues:    venueRepo,
		Tx:        txManager,
		Publisher: producer,
		Logger:    appLogger,
	})

	// 6.5 Initialize Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Kafka.EnableInbound {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.InboundTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		go invListenerPkg.NewInventoryListener(consumer, invUC, appLogger).Start(ctx)
	}

	// 7. Initialize Handlers
	catalogHandler := prodH.NewCatalogHandler(prodUC, recipeUC, translator, appLogger)
	orderHandler := ordH.NewOrderHandler(ordUC, payUC, translator, loc, appLogger)
	deliveryHandler := delH.NewDeliveryHandler(delUC, translator, loc, appLogger)
	balanceHandler := balH.NewBalanceHandler(balUC, translator, appLogger)
	inventoryHandler := invH.NewInventoryHandler(invUC, translator, appLogger)

	// 8. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.ForceServerCodec(grpcjson.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(appLogger),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	// Register Services
	barposv1.RegisterCatalogServiceServer(grpcServer, catalogHandler)
	barposv1.RegisterOrderServiceServer(grpcServer, orderHandler)
	barposv1.RegisterDeliveryServiceServer(grpcServer, deliveryHandler)
	barposv1.RegisterBalanceServiceServer(grpcServer, balanceHandler)
	barposv1.RegisterInventoryServiceServer(grpcServer, inventoryHandler)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
