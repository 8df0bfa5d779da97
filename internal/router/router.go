package router

import (
	"fmt"
	"strings"

	"github.com/stockflow/internal/cache"
	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/constants"
	apihandlers "github.com/stockflow/internal/http/handlers/api"
	"github.com/stockflow/internal/http/response"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.DefaultRedisPrefix
	}
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
		WritesOnly:    true,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware(c.Metrics))
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	r.GET("/healthz", h.Health)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(RateLimitMiddleware(cache.Client(), writeRule, KeyByIP))
	{
		brands := apiV1.Group("/brands")
		{
			brands.GET("", h.ListBrands)
			brands.POST("", h.CreateBrand)
			brands.GET("/:id", h.GetBrand)
			brands.DELETE("/:id", h.DeleteBrand)

			brands.GET("/:id/items", h.ListItems)
			brands.POST("/:id/items", h.CreateItem)

			brands.GET("/:id/purchases", h.ListPurchases)
			brands.POST("/:id/purchases", h.CreatePurchase)

			brands.GET("/:id/activities", h.ListActivities)
			brands.POST("/:id/activities", h.CreateActivity)
			brands.PUT("/:id/activities/total-target", h.SetTotalTarget)

			brands.GET("/:id/reports/completion", h.GetCompletionReport)
			brands.GET("/:id/reports/expense", h.GetExpenseReport)
		}

		purchases := apiV1.Group("/purchases")
		{
			purchases.GET("/earliest-year", h.GetEarliestYear)
			purchases.PUT("/:id", h.UpdatePurchase)
			purchases.PATCH("/:id/remarks", h.UpdatePurchaseRemarks)
			purchases.DELETE("/:id", h.DeletePurchase)
		}

		apiV1.DELETE("/activities/:id", h.DeleteActivity)
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return r
}
