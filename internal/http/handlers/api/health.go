package api

import (
	"github.com/stockflow/internal/cache"
	"github.com/stockflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查：数据库必须可用，Redis 仅在启用时检查
func (h *Handler) Health(c *gin.Context) {
	status := gin.H{"database": "ok", "redis": "disabled"}
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status["database"] = "down"
		response.ErrorWithData(c, response.CodeInternal, "unhealthy", status)
		return
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(c.Request.Context()); err != nil {
			status["redis"] = "down"
		}
	}
	response.Success(c, status)
}
