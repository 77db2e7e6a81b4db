package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"oficios-server/config"
	"oficios-server/middleware"
	"oficios-server/services"
	ws "oficios-server/websocket"
)

// Setup builds the router with the full middleware stack and all routes.
// The hub may be nil, in which case no WebSocket endpoint is exposed and
// lifecycle events are not pushed.
func Setup(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *gin.Engine {
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	var notifier services.Notifier
	if hub != nil {
		notifier = hub
	}

	accountSvc := services.NewAccountService(db)
	requestSvc := services.NewRequestService(db, notifier)
	reviewSvc := services.NewReviewService(db)

	authRequired := middleware.AuthMiddleware(cfg, db)

	api := router.Group("/api/v1")
	{
		RegisterAuthRoutes(api.Group("/auth"), cfg, accountSvc, authRequired)
		RegisterCategoryRoutes(api.Group("/categories"), db)
		RegisterServiceCatalogRoutes(api.Group("/services"), db, authRequired)

		serviceRequests := api.Group("/service-requests")
		serviceRequests.Use(authRequired)
		RegisterServiceRequestRoutes(serviceRequests, requestSvc)

		RegisterReviewRoutes(api.Group("/reviews"), authRequired, reviewSvc)

		if hub != nil {
			api.GET("/ws", middleware.WebSocketAuthMiddleware(cfg, db), hub.HandleConnection)
		}
	}

	return router
}
