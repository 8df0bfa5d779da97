package api

import (
	"strings"

	"github.com/stockflow/internal/http/handlers/shared"
	"github.com/stockflow/internal/http/response"
	"github.com/stockflow/internal/repository"
	"github.com/stockflow/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateItemRequest 新增商品请求，规格兼容数字字符串
type CreateItemRequest struct {
	ItemName string         `json:"item_name"`
	Spec     shared.FlexInt `json:"spec"`
	Unit     string         `json:"unit"`
}

func (r CreateItemRequest) toInput(brandID uint) service.CreateItemInput {
	return service.CreateItemInput{
		Name:    r.ItemName,
		Spec:    int(r.Spec),
		Unit:    r.Unit,
		BrandID: brandID,
	}
}

// ListItems 品牌商品列表，支持 keyword 模糊搜索
func (h *Handler) ListItems(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.BrandService.Get(brandID); err != nil {
		shared.RespondServiceError(c, err, "item list failed")
		return
	}
	items, err := h.ItemService.List(repository.ItemListFilter{
		BrandID: brandID,
		Keyword: strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		shared.RespondServiceError(c, err, "item list failed")
		return
	}
	response.Success(c, items)
}

// CreateItem 新增商品；相同 名称+规格+单位 的商品已存在时直接返回
func (h *Handler) CreateItem(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.ItemService.Create(c.Request.Context(), req.toInput(brandID))
	if err != nil {
		shared.RespondServiceError(c, err, "item create failed")
		return
	}
	response.Success(c, item)
}
