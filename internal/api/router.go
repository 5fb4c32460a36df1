package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/liqued/storefront-api/docs"
	"github.com/liqued/storefront-api/internal/api/handler"
	"github.com/liqued/storefront-api/internal/api/metrics"
	"github.com/liqued/storefront-api/internal/api/middleware"
	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
	"github.com/liqued/storefront-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log zerolog.Logger

	Tokens     ports.TokenManager
	Auth       ports.AuthService
	Products   ports.ProductService
	Categories ports.CategoryService
	Contact    ports.ContactService
	Database   ports.DatabaseService

	Postgres handlers.Pinger
	Redis    handlers.Pinger // nil when dedup is disabled

	// UploadDir is served at /uploads when images are stored locally.
	UploadDir string
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Registerer: d.Registerer,
	}))

	authn := middleware.Auth(d.Tokens)
	admin := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authn)
	auth.PUT("/profile", authHandler.UpdateProfile, authn)
	auth.PUT("/change-password", authHandler.ChangePassword, authn)
	auth.GET("/users", authHandler.ListUsers, authn, admin)
	auth.DELETE("/users/:id", authHandler.DeleteUser, authn, admin)

	// --- Catalog ---
	productHandler := handler.NewProductHandler(d.Products)
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authn, admin)
	products.PUT("/:id", productHandler.Update, authn, admin)
	products.PATCH("/:id/stock", productHandler.AdjustStock, authn, admin)
	products.DELETE("/:id", productHandler.Delete, authn, admin)

	categoryHandler := handler.NewCategoryHandler(d.Categories)
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create, authn, admin)
	categories.PUT("/:id", categoryHandler.Update, authn, admin)
	categories.DELETE("/:id", categoryHandler.Delete, authn, admin)

	// --- Contact ---
	contactHandler := handler.NewContactHandler(d.Contact)
	contact := api.Group("/contact")
	contact.POST("/submit", contactHandler.Submit)
	contact.GET("", contactHandler.List, authn, admin)
	contact.GET("/:id", contactHandler.Get, authn, admin)
	contact.PUT("/:id/read", contactHandler.MarkRead, authn, admin)
	contact.DELETE("/:id", contactHandler.Delete, authn, admin)

	// --- Database admin ---
	dbHandler := handler.NewDatabaseHandler(d.Database)
	database := api.Group("/database")
	database.GET("/status", dbHandler.Status)
	database.POST("/init", dbHandler.Init, authn, admin)
	database.GET("/tables", dbHandler.Tables, authn, admin)
	database.GET("/tables/:tableName", dbHandler.Structure, authn, admin)
	database.GET("/tables/:tableName/data", dbHandler.Data, authn, admin)
	database.POST("/seed", dbHandler.Seed, authn, admin)
	database.DELETE("/reset", dbHandler.Reset, authn, admin)

	// --- Health, metrics, docs, static ---
	api.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Postgres, d.Redis).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
