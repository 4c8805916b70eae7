package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra"
	"storefront-service/internal/infra/coupons"
	"storefront-service/internal/infra/kafka"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/redisstore"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"
	"storefront-service/pkg/config"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	db, err := mmysql.NewMySQL(cfg.MySQL, mysqlrepo.Models()...)
	if err != nil {
		zl.Fatal("db: connect", zap.Error(err))
	}

	orderRepo := mysqlrepo.NewOrderRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)
	categoryRepo := mysqlrepo.NewCategoryRepository(db)

	ctx := context.Background()
	redisClient, err := redisstore.NewClient(ctx, cfg.Redis)
	if err != nil {
		zl.Fatal("redis: connect", zap.Error(err))
	}
	defer redisClient.Close()

	couponPolicy, err := coupons.Load(cfg.CouponsFile)
	if err != nil {
		zl.Fatal("failed to load coupons", zap.Error(err))
	}

	publisher, closePublisher, err := newPublisher(cfg, zl)
	if err != nil {
		zl.Fatal("failed to init publisher", zap.Error(err))
	}
	defer closePublisher()

	locker := redisstore.NewLocker(redisClient, cfg.CartLockTTL, cfg.CartLockWait)

	catalogSvc := services.NewCatalogService(productRepo, categoryRepo, zl)
	catalogSvc.SetCache(redisstore.NewCache(redisClient, "catalog"), cfg.ProductCacheTTL)

	cartSvc := services.NewCartService(cartRepo, productRepo, couponPolicy, locker, zl)
	orderSvc := services.NewOrderService(services.OrderServiceDeps{
		Orders:   orderRepo,
		Sequence: orderRepo,
		Carts:    cartRepo,
		Products: productRepo,
		Coupons:  couponPolicy,
		Payments: infra.NewPaymentClient(cfg.PaymentGatewayURL, cfg.PaymentSecretKey, cfg.PaymentTimeout),
		Notifier: infra.NewBrokerNotifier(publisher),
		Locker:   locker,
		Logger:   zl,
		Currency: cfg.Currency,
	})
	orderSvc.SetStockObserver(catalogSvc)
	statsSvc := services.NewStatsService(orderRepo)

	go func() {
		time.Sleep(5 * time.Second)
		if err := catalogSvc.WarmupProductCache(ctx, cfg.WarmupProductIDs); err != nil {
			zl.Warn("failed to warm up cache", zap.Error(err))
		}
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(zl))

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "healthy", "service": "storefront-service", "broker": cfg.EventBroker}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	})
	httpapi.NewHandler(catalogSvc, cartSvc, orderSvc, statsSvc, zl).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zl.Info("starting storefront service", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server run", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
	zl.Info("server stopped")
}

func newPublisher(cfg *config.Config, zl *zap.Logger) (infra.EventPublisher, func(), error) {
	switch cfg.EventBroker {
	case config.BrokerKafka:
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zl)
		return p, func() {
			if err := p.Close(); err != nil {
				zl.Warn("kafka writer close", zap.Error(err))
			}
		}, nil
	default:
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, zl)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
}
