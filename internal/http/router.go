package http

import (
	"log/slog"

	"github.com/geocoder89/usershub/internal/auth"
	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/http/handlers"
	"github.com/geocoder89/usershub/internal/http/middlewares"
	"github.com/geocoder89/usershub/internal/http/views"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/geocoder89/usershub/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "usershub"

// Deps are the collaborators the router wires into handlers.
// Prom, Gatherer and Checks are optional.
type Deps struct {
	Users    user.Repository
	Auth     *auth.Service
	Limiter  ratelimit.Store
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Checks   []handlers.Check
	Tracing  bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if deps.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.Checks...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// wire up handlers
	authMW := middlewares.NewAuthMiddleware(deps.Auth)
	usersHandler := handlers.NewUsersHandler(deps.Users, deps.Auth)
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Prom)
	indexHandler := handlers.NewIndexHandler(deps.Users, deps.Auth)

	r.GET("/", indexHandler.Index)
	r.POST("/", indexHandler.Create)

	createChain := []gin.HandlerFunc{authMW.RequireAuth(), authMW.RequireAdmin()}
	if deps.Limiter != nil && cfg.UserWriteRateLimit > 0 {
		// counted per admin, after auth has put the user id on the context
		wl := middlewares.NewRateLimiter(deps.Limiter, cfg.UserWriteRateLimit, cfg.AuthRateWindow())
		createChain = append(createChain, wl.RateLimiterMiddleware("users:create", middlewares.KeyByUserOrIP))
	}
	createChain = append(createChain, middlewares.RequireJSON(), usersHandler.CreateUser)

	users := r.Group("/users")
	{
		users.GET("/ping", usersHandler.Ping)
		users.GET("", usersHandler.ListUsers)
		users.GET("/:id", usersHandler.GetUser)
		users.POST("", createChain...)
	}

	authGroup := r.Group("/auth")
	if deps.Limiter != nil {
		rl := middlewares.NewRateLimiter(deps.Limiter, cfg.AuthRateLimit, cfg.AuthRateWindow())
		authGroup.Use(rl.RateLimiterMiddleware("auth", middlewares.KeyByIP))
	}
	{
		authGroup.POST("/register", middlewares.RequireJSON(), authHandler.Register)
		authGroup.POST("/login", middlewares.RequireJSON(), authHandler.Login)
		authGroup.GET("/logout", authMW.RequireAuth(), authHandler.Logout)
		authGroup.GET("/status", authMW.RequireAuth(), authHandler.Status)
	}

	return r
}
