package api

import "github.com/stockflow/internal/provider"

// Handler 进货与活动管理接口处理器
type Handler struct {
	*provider.Container
}

// New 创建接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
