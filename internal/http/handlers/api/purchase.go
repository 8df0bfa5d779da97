package api

import (
	"github.com/stockflow/internal/http/handlers/shared"
	"github.com/stockflow/internal/http/response"
	"github.com/stockflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PurchaseRequest 新增/编辑进货记录请求
type PurchaseRequest struct {
	ItemID      uint             `json:"item_id"`
	Quantity    shared.FlexInt   `json:"quantity"`
	Unit        string           `json:"unit"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Date        string           `json:"date"`
	Remarks     *string          `json:"remarks"`
}

func (r PurchaseRequest) toInput(brandID uint) service.PurchaseInput {
	return service.PurchaseInput{
		ItemID:      r.ItemID,
		BrandID:     brandID,
		Quantity:    int(r.Quantity),
		Unit:        r.Unit,
		UnitPrice:   r.UnitPrice,
		TotalAmount: r.TotalAmount,
		Date:        r.Date,
		Remarks:     r.Remarks,
	}
}

// UpdatePurchaseRequest 编辑进货记录请求，需显式携带品牌
type UpdatePurchaseRequest struct {
	PurchaseRequest
	BrandID uint `json:"brand_id"`
}

// UpdateRemarksRequest 修改备注请求，空字符串或 null 表示清空
type UpdateRemarksRequest struct {
	Remarks *string `json:"remarks"`
}

// ListPurchases 品牌进货记录分页列表，可按 year/month 过滤
func (h *Handler) ListPurchases(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	page, ok := shared.ParseIntQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := shared.ParseIntQuery(c, "page_size", 0)
	if !ok {
		return
	}
	year, ok := shared.ParseIntQuery(c, "year", 0)
	if !ok {
		return
	}
	month, ok := shared.ParseIntQuery(c, "month", 0)
	if !ok {
		return
	}
	page, pageSize = shared.NormalizePagination(page, pageSize)

	rows, total, err := h.PurchaseService.List(service.ListPurchasesInput{
		BrandID:  brandID,
		Page:     page,
		PageSize: pageSize,
		Year:     year,
		Month:    month,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "purchase list failed")
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// GetEarliestYear 最早进货记录所在年份，无记录时返回当前年份
func (h *Handler) GetEarliestYear(c *gin.Context) {
	year, err := h.PurchaseService.EarliestYear()
	if err != nil {
		shared.RespondServiceError(c, err, "earliest year fetch failed")
		return
	}
	response.Success(c, gin.H{"year": year})
}

// CreatePurchase 新增进货记录
func (h *Handler) CreatePurchase(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	purchase, err := h.PurchaseService.Create(c.Request.Context(), req.toInput(brandID))
	if err != nil {
		shared.RespondServiceError(c, err, "purchase create failed")
		return
	}
	response.Success(c, purchase)
}

// UpdatePurchase 编辑进货记录
func (h *Handler) UpdatePurchase(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	purchase, err := h.PurchaseService.Update(c.Request.Context(), id, req.toInput(req.BrandID))
	if err != nil {
		shared.RespondServiceError(c, err, "purchase update failed")
		return
	}
	response.Success(c, purchase)
}

// UpdatePurchaseRemarks 仅修改备注
func (h *Handler) UpdatePurchaseRemarks(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	purchase, err := h.PurchaseService.UpdateRemarks(c.Request.Context(), id, req.Remarks)
	if err != nil {
		shared.RespondServiceError(c, err, "purchase remarks update failed")
		return
	}
	response.Success(c, purchase)
}

// DeletePurchase 删除进货记录
func (h *Handler) DeletePurchase(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.PurchaseService.Delete(c.Request.Context(), id); err != nil {
		shared.RespondServiceError(c, err, "purchase delete failed")
		return
	}
	response.Success(c, gin.H{"purchase_id": id})
}
