package api

import (
	"github.com/stockflow/internal/http/handlers/shared"
	"github.com/stockflow/internal/http/response"
	"github.com/stockflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ActivityRequest 新增活动请求
// Item 不为空时先按 名称+规格+单位 取得或创建商品，再写入活动。
type ActivityRequest struct {
	Year            shared.FlexInt     `json:"year"`
	Month           shared.FlexInt     `json:"month"`
	IsTotalTarget   bool               `json:"is_total_target"`
	ItemID          uint               `json:"item_id"`
	Item            *CreateItemRequest `json:"item"`
	ActivityType    string             `json:"activity_type"`
	NeedTotalTarget bool               `json:"need_total_target"`
	NeedItemTarget  bool               `json:"need_item_target"`
	TargetValue     decimal.Decimal    `json:"target_value"`
	OriginalPrice   *decimal.Decimal   `json:"original_price"`
	DiscountPrice   *decimal.Decimal   `json:"discount_price"`
}

func (r ActivityRequest) toInput(brandID uint) service.ActivityInput {
	return service.ActivityInput{
		BrandID:         brandID,
		Year:            int(r.Year),
		Month:           int(r.Month),
		IsTotalTarget:   r.IsTotalTarget,
		ItemID:          r.ItemID,
		ActivityType:    r.ActivityType,
		NeedTotalTarget: r.NeedTotalTarget,
		NeedItemTarget:  r.NeedItemTarget,
		TargetValue:     r.TargetValue,
		OriginalPrice:   r.OriginalPrice,
		DiscountPrice:   r.DiscountPrice,
	}
}

// TotalTargetRequest 设置月度总指标请求
type TotalTargetRequest struct {
	Year          shared.FlexInt   `json:"year"`
	Month         shared.FlexInt   `json:"month"`
	TargetValue   decimal.Decimal  `json:"target_value"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
}

// ListActivities 品牌当月活动列表
func (h *Handler) ListActivities(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	rows, err := h.ActivityService.ListMonthly(brandID, year, month)
	if err != nil {
		shared.RespondServiceError(c, err, "activity list failed")
		return
	}
	response.Success(c, rows)
}

// SetTotalTarget 设置品牌月度总指标（已存在则更新）
func (h *Handler) SetTotalTarget(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req TotalTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	activity, err := h.ActivityService.SetTotalTarget(c.Request.Context(), service.ActivityInput{
		BrandID:       brandID,
		Year:          int(req.Year),
		Month:         int(req.Month),
		IsTotalTarget: true,
		TargetValue:   req.TargetValue,
		OriginalPrice: req.OriginalPrice,
		DiscountPrice: req.DiscountPrice,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "total target save failed")
		return
	}
	response.Success(c, activity)
}

// CreateActivity 新增活动
func (h *Handler) CreateActivity(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	input := req.toInput(brandID)
	if req.Item != nil && !req.IsTotalTarget {
		activity, item, err := h.ActivityService.AddItemActivity(c.Request.Context(), req.Item.toInput(brandID), input)
		if err != nil {
			shared.RespondServiceError(c, err, "activity create failed")
			return
		}
		response.Success(c, gin.H{"activity": activity, "item": item})
		return
	}
	activity, err := h.ActivityService.Add(c.Request.Context(), input)
	if err != nil {
		shared.RespondServiceError(c, err, "activity create failed")
		return
	}
	response.Success(c, gin.H{"activity": activity})
}

// DeleteActivity 删除活动
func (h *Handler) DeleteActivity(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ActivityService.Delete(c.Request.Context(), id); err != nil {
		shared.RespondServiceError(c, err, "activity delete failed")
		return
	}
	response.Success(c, gin.H{"activity_id": id})
}

func parseYearMonth(c *gin.Context) (int, int, bool) {
	year, ok := shared.ParseIntQuery(c, "year", 0)
	if !ok {
		return 0, 0, false
	}
	month, ok := shared.ParseIntQuery(c, "month", 0)
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}
