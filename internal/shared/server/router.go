package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/llm"
	"legaldocs-backend/internal/search"
	"legaldocs-backend/internal/shared/config"
	"legaldocs-backend/internal/shared/metrics"
	"legaldocs-backend/internal/shared/server/middleware"
	"legaldocs-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and shared state the router wires up.
type RouterDeps struct {
	Config        config.Config
	SearchHandler *search.Handler
	Costs         *llm.CostRecorder
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"SEARCH": {Rate: 5, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				if c.FullPath() == "/api/v1/search" {
					return "SEARCH"
				}
				return ""
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.SearchHandler != nil {
		deps.SearchHandler.RegisterRoutes(api)
	}

	if deps.Config.Env == "dev" {
		dev := api.Group("/dev")
		dev.GET("/llm-costs", func(c *gin.Context) {
			respond.JSON(c, http.StatusOK, gin.H{
				"entries":   deps.Costs.Snapshot(),
				"total_usd": deps.Costs.TotalUSD(),
			})
		})
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
