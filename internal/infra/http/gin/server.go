package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"innkeep/internal/infra/config"
	"innkeep/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Search(c *gin.Context)
	Quote(c *gin.Context)
	CheckRestrictions(c *gin.Context)
}

type InventoryHTTP interface {
	Reserve(c *gin.Context)
	Release(c *gin.Context)
	Calendar(c *gin.Context)
}

type AdminHTTP interface {
	BulkUpdate(c *gin.Context)
	Seed(c *gin.Context)
}

type Handlers struct {
	Availability AvailabilityHTTP
	Inventory    InventoryHTTP
	Admin        AdminHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		api.GET("/availability/search", h.Availability.Search)
		api.GET("/availability/quote", h.Availability.Quote)
		api.GET("/availability/restrictions", h.Availability.CheckRestrictions)
	}
	if h.Inventory != nil {
		api.POST("/inventory/reservations", h.Inventory.Reserve)
		api.POST("/inventory/releases", h.Inventory.Release)
		api.GET("/room-types/:id/calendar", h.Inventory.Calendar)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.PATCH("/inventory", h.Admin.BulkUpdate)
		adminGroup.POST("/inventory/seed", h.Admin.Seed)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
