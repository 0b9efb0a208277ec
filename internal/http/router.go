package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rmoreas/library-admin/internal/auth"
	"github.com/rmoreas/library-admin/internal/catalog"
	"github.com/rmoreas/library-admin/internal/config"
	"github.com/rmoreas/library-admin/internal/http/handlers"
	"github.com/rmoreas/library-admin/internal/http/middlewares"
	"github.com/rmoreas/library-admin/internal/observability"
	"github.com/rmoreas/library-admin/internal/repo/userfile"
)

type Deps struct {
	Cfg     config.Config
	Users   *userfile.UsersRepo
	Catalog *catalog.Client
	Cache   *catalog.CachedLister
	JWT     *auth.Manager
	Prom    *observability.Prom
	PromReg *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("library-admin"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if d.PromReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.PromReg, promhttp.HandlerOpts{})))
	}

	// health: ready only when the catalog backend answers
	h := handlers.NewHealthHandler(func(ctx context.Context) error {
		_, err := d.Catalog.List(ctx)
		return err
	})
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/meta/enums", handlers.Enums)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(d.Users, d.JWT)
	booksHandler := handlers.NewBooksHandler(d.Catalog, d.Cache)
	dashboardHandler := handlers.NewDashboardHandler(d.Cache)
	exportHandler := handlers.NewExportHandler(d.Cache)
	authMw := middlewares.NewAuthMiddleware(d.JWT)
	loginLimiter := middlewares.NewRateLimiter(d.Cfg.LoginRateLimit, d.Cfg.LoginRateWindow)

	// auth (anonymous)
	authGroup := r.Group("/auth", middlewares.RequireJSON())
	authGroup.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/logout", authHandler.Logout)

	r.GET("/auth/me", authMw.RequireAuth(), authHandler.Me)

	// catalog reads need a session; mutations need the admin role
	authed := r.Group("/", authMw.RequireAuth())
	authed.GET("/books", booksHandler.ListBooks)
	authed.GET("/dashboard", dashboardHandler.Dashboard)
	authed.GET("/export/csv", exportHandler.CSV)
	authed.GET("/export/xlsx", exportHandler.XLSX)

	admin := authed.Group("/", authMw.RequireRole("admin"), middlewares.RequireJSON())
	admin.POST("/books", booksHandler.CreateBook)
	admin.PUT("/books/:id", booksHandler.UpdateBook)
	admin.DELETE("/books/:id", booksHandler.DeleteBook)

	return r
}
