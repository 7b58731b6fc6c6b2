package handlers

import (
	"net/http"

	"itemtrack/internal/config"
	"itemtrack/internal/logger"
	"itemtrack/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, session settings and logging.
type Handler struct {
	services *service.Service
	auth     config.AuthConfig
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, auth config.AuthConfig, log *logger.Logger) *Handler {
	return &Handler{services: services, auth: auth, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerItemRoutes(api)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.authGuard, h.me)
	}
}

func (h *Handler) registerItemRoutes(api *gin.RouterGroup) {
	items := api.Group("/items", h.authGuard)
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		// Live change notifications (HTTP upgrade) — same port
		items.GET("/feed", h.itemFeed)
		items.GET("/:id", h.getItem)
		items.PUT("/:id", h.updateItem)
		items.DELETE("/:id", h.deleteItem)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
