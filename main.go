package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvestlink/market/api/audit"
	"github.com/harvestlink/market/api/auth"
	"github.com/harvestlink/market/api/cache"
	"github.com/harvestlink/market/api/config"
	"github.com/harvestlink/market/api/controller"
	"github.com/harvestlink/market/api/dao"
	"github.com/harvestlink/market/api/db"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/router"
	"github.com/harvestlink/market/api/routing"
	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize logger
	logger.InitLogger(cfg.Log.Dir)
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Redis only backs rate limiting and the route cache, so the API can
	// run without it.
	var routeCache service.RouteCache
	if err := db.InitRedis(); err != nil {
		logger.Warn("Redis unavailable, rate limiting and route caching disabled", zap.Error(err))
		db.CloseRedis()
		db.RedisClient = nil
	} else {
		routeCache = db.NewRouteCache(db.RedisClient, cfg.Redis.RouteTTL)
		defer db.CloseRedis()
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	var auditService audit.Service = audit.NopService{}
	if auditRepository, err := audit.NewElasticsearchRepository(cfg.Elasticsearch.URL, cfg.Elasticsearch.Index); err != nil {
		logger.Warn("Audit trail disabled", zap.Error(err))
	} else {
		auditService = audit.NewService(auditRepository)
	}
	service.SubscribeAudit(eventBus, auditService,
		model.ResourceIngredients, model.ResourceMeals, model.ResourceMenus)

	// Initialize DAOs
	roleDAO := dao.NewRoleDAO(db.Neo4jDriver)
	dataService := dao.NewSupabaseDAO(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Timeout, cfg.Supabase.RetryMax)

	var gateOpts []auth.GateOption
	if cfg.Auth.SessionCache.Enabled {
		gateOpts = append(gateOpts, auth.WithRoleCache(cfg.Auth.SessionCache.TTL))
	}
	sessions, err := auth.NewJWTSessionProvider(cfg.Supabase.JWTSecret, cfg.Auth.CookieName)
	if err != nil {
		logger.Fatal("Failed to initialize session provider; set supabase.jwtSecret", zap.Error(err))
	}
	gate := auth.NewGate(sessions, roleDAO, gateOpts...)

	// Initialize services
	services := service.InitializeServices(
		dataService,
		roleDAO,
		gate,
		routing.NewOSRMProvider(cfg.Routing.BaseURL, cfg.Routing.Timeout),
		routeCache,
		util.NewValidationUtil(),
		eventBus,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithFetchTimeout(cfg.Cache.FetchTimeout),
	)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, auditService)

	gin.SetMode(gin.ReleaseMode)
	var rateLimitClient redis.Cmdable
	if db.RedisClient != nil {
		rateLimitClient = db.RedisClient
	}
	handler := router.SetupRouter(controllers, gate, eventBus, rateLimitClient, cfg.RateLimit.Requests, cfg.RateLimit.Per)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	eventBus.Wait()

	logger.Info("Server exiting")
}
