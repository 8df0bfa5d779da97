package api

import (
	"strings"

	"github.com/stockflow/internal/http/handlers/shared"
	"github.com/stockflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateBrandRequest 新增品牌请求
type CreateBrandRequest struct {
	BrandName string `json:"brand_name"`
}

// ListBrands 品牌列表
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.BrandService.List()
	if err != nil {
		shared.RespondServiceError(c, err, "brand list failed")
		return
	}
	response.Success(c, brands)
}

// GetBrand 品牌详情
func (h *Handler) GetBrand(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.BrandService.Get(id)
	if err != nil {
		shared.RespondServiceError(c, err, "brand fetch failed")
		return
	}
	response.Success(c, brand)
}

// CreateBrand 新增品牌
func (h *Handler) CreateBrand(c *gin.Context) {
	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	brand, err := h.BrandService.Create(c.Request.Context(), strings.TrimSpace(req.BrandName))
	if err != nil {
		shared.RespondServiceError(c, err, "brand create failed")
		return
	}
	response.Success(c, brand)
}

// DeleteBrand 删除品牌及其全部商品、进货记录与活动
func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.BrandService.Delete(c.Request.Context(), id); err != nil {
		shared.RespondServiceError(c, err, "brand delete failed")
		return
	}
	response.Success(c, gin.H{"brand_id": id})
}
