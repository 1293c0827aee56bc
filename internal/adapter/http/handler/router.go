package handler

import (
	"fairsplit/internal/adapter/http/middleware"
	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Splitter       ports.Splitter
	ReportSvc      ports.ReportService
	HarnessSvc     ports.HarnessService
	TokenSvc       ports.TokenService   // nil = run endpoints unauthenticated
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	RunDefaults    domain.HarnessConfig
	MaxTrials      int
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	splitHandler := NewSplitHandler(deps.Splitter)
	v1.POST("/splits", rl("splits"), splitHandler.Split)

	// --- Operator routes (JWT when a token service is configured) ---
	operator := v1.Group("")
	if deps.TokenSvc != nil {
		operator.Use(middleware.JWTAuth(deps.TokenSvc, deps.Logger))
	}
	runHandler := NewRunHandler(deps.ReportSvc, deps.HarnessSvc, deps.RunDefaults, deps.MaxTrials)
	{
		operator.POST("/runs", rl("runs"), runHandler.CreateRun)
		operator.GET("/runs/:id", rl("reports"), runHandler.GetRun)
		operator.POST("/replays", rl("replays"), runHandler.Replay)
	}

	return r
}
