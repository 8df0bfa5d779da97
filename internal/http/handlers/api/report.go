package api

import (
	"github.com/stockflow/internal/http/handlers/shared"
	"github.com/stockflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCompletionReport 品牌月度活动完成情况
func (h *Handler) GetCompletionReport(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	report, err := h.ReportService.ComputeCompletion(c.Request.Context(), brandID, year, month)
	if err != nil {
		shared.RespondServiceError(c, err, "completion report failed")
		return
	}
	response.Success(c, report)
}

// GetExpenseReport 品牌月度费用报表
func (h *Handler) GetExpenseReport(c *gin.Context) {
	brandID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	report, err := h.ReportService.ComputeExpense(c.Request.Context(), brandID, year, month)
	if err != nil {
		shared.RespondServiceError(c, err, "expense report failed")
		return
	}
	response.Success(c, report)
}
