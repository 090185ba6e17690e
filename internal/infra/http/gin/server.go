package ginserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"vacanza/internal/infra/config"
	"vacanza/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	Toggle(c *gin.Context)
}

type PropertyHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Search(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
}

type Handlers struct {
	Availability   AvailabilityHTTP
	Property       PropertyHTTP
	AuthMiddleware gin.HandlerFunc
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
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Property != nil {
		api.GET("/properties", h.Property.List)
		api.GET("/properties/search", h.Property.Search)
		api.GET("/properties/:id", h.Property.Get)
		api.POST("/properties", h.Property.Create)
		api.PUT("/properties/:id", h.Property.Update)
	}
	if h.Availability != nil {
		api.GET("/properties/:id/calendar", h.Availability.Calendar)
		api.POST("/properties/:id/calendar/toggle", h.Availability.Toggle)
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func configureGinMode(env string) string {
	switch env {
	case "dev", "local", "test":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ AvailabilityHTTP = AvailabilityHandler{}
	_ PropertyHTTP     = PropertyHandler{}
)
