package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/config"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/handler"
	httpmiddleware "github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	uploadHandler *handler.UploadHandler,
	retailHandler *handler.RetailHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *httpmiddleware.Auth,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", healthHandler.Health)
	r.Static("/uploads", cfg.UploadDir)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware.ValidateJWT, authHandler.Me)

		authGroup.GET("/users", userHandler.List)
		authGroup.GET("/users/:id", userHandler.Get)
		authGroup.DELETE("/users/:id", userHandler.Delete)
		authGroup.GET("/dropdowns", userHandler.Dropdowns)

		authGroup.POST("/upload", uploadHandler.Upload)
	}

	api := r.Group("/api")
	{
		api.GET("/products", retailHandler.ListProducts)
		api.POST("/products", retailHandler.CreateProduct)
		api.GET("/orders", retailHandler.ListOrders)
		api.GET("/customers", retailHandler.ListCustomers)
		api.GET("/suppliers", retailHandler.ListSuppliers)
		api.GET("/suppliers/:id", retailHandler.GetSupplier)
		api.PUT("/suppliers/:id", retailHandler.UpdateSupplier)
		api.GET("/settings", retailHandler.ListSettings)
		api.PUT("/settings/:userId", retailHandler.UpdateSetting)
	}

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	return corsCfg
}
