// api/router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/harvestlink/market/api/auth"
	"github.com/harvestlink/market/api/controller"
	"github.com/harvestlink/market/api/middleware"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/util"
)

// SetupRouter mounts every controller behind its access rule. A nil
// rateLimitClient disables rate limiting.
func SetupRouter(
	controllers *controller.Controllers,
	gate *auth.Gate,
	eventBus *util.EventBus,
	rateLimitClient redis.Cmdable,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if rateLimitClient != nil {
		api.Use(middleware.RateLimiter(rateLimitClient, rateLimitRequests, rateLimitDuration))
	}

	controllers.Public.RegisterRoutes(api)

	authenticated := api.Group("", middleware.Authorize(gate, eventBus, ""))
	controllers.Ingredients.RegisterRoutes(authenticated)
	controllers.Meals.RegisterRoutes(authenticated)
	controllers.Menus.RegisterRoutes(authenticated)
	controllers.User.RegisterRoutes(authenticated)
	controllers.Route.RegisterRoutes(authenticated)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/farmer", middleware.Authorize(gate, eventBus, model.RoleFarmer), controllers.Dashboard.Farmer)
	dashboard.GET("/producer", middleware.Authorize(gate, eventBus, model.RoleProducer), controllers.Dashboard.Producer)

	admin := api.Group("/admin", middleware.Authorize(gate, eventBus, model.RoleAdmin))
	controllers.Ingredients.RegisterAdminRoutes(admin)
	controllers.Meals.RegisterAdminRoutes(admin)
	controllers.Menus.RegisterAdminRoutes(admin)
	controllers.User.RegisterAdminRoutes(admin)
	controllers.Audit.RegisterAdminRoutes(admin)

	return router
}
