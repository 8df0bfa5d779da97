package service

import (
	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"github.com/shopspring/decimal"
)

// CompletionRow 单品活动完成情况与费用
type CompletionRow struct {
	ActivityID      uint          `json:"activity_id"`
	ItemID          uint          `json:"item_id"`
	ItemName        string        `json:"item_name"`
	Spec            int           `json:"spec"`
	Unit            string        `json:"unit"`
	ActivityType    string        `json:"activity_type"`
	NeedTotalTarget bool          `json:"need_total_target"`
	NeedItemTarget  bool          `json:"need_item_target"`
	TotalTarget     models.Money  `json:"total_target"`
	ItemTarget      models.Money  `json:"item_target"`
	ActualItemSales int64         `json:"actual_item_sales"`
	IsCompleted     bool          `json:"is_completed"`
	OriginalPrice   *models.Money `json:"original_price"`
	DiscountPrice   *models.Money `json:"discount_price"`
	OriginalExpense models.Money  `json:"original_expense"`
	RebateAmount    models.Money  `json:"rebate_amount"`
	ActualExpense   models.Money  `json:"actual_expense"`
	// ProportionalRebate 按总指标完成比例分摊的返点，仅供对照，不参与汇总
	ProportionalRebate models.Money `json:"proportional_rebate"`
}

// CompletionReport 品牌月度活动完成报表
type CompletionReport struct {
	BrandID          uint            `json:"brand_id"`
	Month            string          `json:"month"`
	HasTotalTarget   bool            `json:"has_total_target"`
	TotalTarget      models.Money    `json:"total_target"`
	ActualTotalSales models.Money    `json:"actual_total_sales"`
	Rows             []CompletionRow `json:"rows"`
	Empty            bool            `json:"empty"`
}

// ExpenseReport 品牌月度费用报表
type ExpenseReport struct {
	CompletionReport
	OriginalExpense models.Money `json:"original_expense"`
	DiscountTotal   models.Money `json:"discount_total"`
	ActualExpense   models.Money `json:"actual_expense"`
	// ProportionalDiscount 按比例分摊口径的返点合计，仅供对照
	ProportionalDiscount models.Money `json:"proportional_discount"`
}

// EngineInput 计算一个品牌月份所需的全部数据
type EngineInput struct {
	BrandID     uint
	Month       string
	TotalTarget *models.Activity
	Activities  []repository.ActivityRow
	ItemTotals  []repository.ItemMonthlyTotalRow
}

// Evaluate 计算活动完成情况与费用
//
// 返点 = (原价 − 优惠价) × 规格 × 单品实际进货数量，仅在活动完成且两个价格都存在时计算；
// 规格缺失或非正数按 1 处理。完成判定使用 >=。
func Evaluate(input EngineInput) ExpenseReport {
	totalTarget := decimal.Zero
	if input.TotalTarget != nil {
		totalTarget = input.TotalTarget.TargetValue.Decimal
	}

	quantities := make(map[uint]int64, len(input.ItemTotals))
	amounts := make(map[uint]decimal.Decimal, len(input.ItemTotals))
	actualTotal := decimal.Zero
	for _, row := range input.ItemTotals {
		quantities[row.ItemID] += row.Quantity
		amounts[row.ItemID] = amounts[row.ItemID].Add(row.Amount.Decimal)
		actualTotal = actualTotal.Add(row.Amount.Decimal)
	}

	report := ExpenseReport{
		CompletionReport: CompletionReport{
			BrandID:          input.BrandID,
			Month:            input.Month,
			HasTotalTarget:   input.TotalTarget != nil,
			TotalTarget:      models.NewMoneyFromDecimal(totalTarget),
			ActualTotalSales: models.NewMoneyFromDecimal(actualTotal),
			Rows:             make([]CompletionRow, 0, len(input.Activities)),
		},
	}

	discountTotal := decimal.Zero
	proportionalTotal := decimal.Zero
	for _, activity := range input.Activities {
		if activity.IsTotalTarget {
			continue
		}
		row := evaluateActivity(activity, totalTarget, actualTotal, quantities, amounts)
		discountTotal = discountTotal.Add(row.RebateAmount.Decimal)
		proportionalTotal = proportionalTotal.Add(row.ProportionalRebate.Decimal)
		report.Rows = append(report.Rows, row)
	}

	report.Empty = len(report.Rows) == 0 && input.TotalTarget == nil
	report.OriginalExpense = models.NewMoneyFromDecimal(actualTotal)
	report.DiscountTotal = models.NewMoneyFromDecimal(discountTotal)
	report.ActualExpense = models.NewMoneyFromDecimal(actualTotal.Sub(discountTotal))
	report.ProportionalDiscount = models.NewMoneyFromDecimal(proportionalTotal)
	return report
}

func evaluateActivity(
	activity repository.ActivityRow,
	totalTarget, actualTotal decimal.Decimal,
	quantities map[uint]int64,
	amounts map[uint]decimal.Decimal,
) CompletionRow {
	row := CompletionRow{
		ActivityID:      activity.ActivityID,
		ItemName:        constants.UnknownItemName,
		Spec:            activity.EffectiveSpec(),
		ActivityType:    activity.ActivityType,
		NeedTotalTarget: activity.NeedTotalTarget,
		NeedItemTarget:  activity.NeedItemTarget,
		TotalTarget:     models.NewMoneyFromDecimal(totalTarget),
		ItemTarget:      activity.TargetValue,
		OriginalPrice:   activity.OriginalPrice,
		DiscountPrice:   activity.DiscountPrice,
	}
	if activity.ItemName != nil {
		row.ItemName = *activity.ItemName
	}
	if activity.Unit != nil {
		row.Unit = *activity.Unit
	}

	originalExpense := decimal.Zero
	if activity.ItemID != nil {
		row.ItemID = *activity.ItemID
		row.ActualItemSales = quantities[row.ItemID]
		originalExpense = amounts[row.ItemID]
	}
	itemSales := decimal.NewFromInt(row.ActualItemSales)

	row.IsCompleted = true
	if activity.NeedTotalTarget && actualTotal.LessThan(totalTarget) {
		row.IsCompleted = false
	}
	if activity.NeedItemTarget && itemSales.LessThan(activity.TargetValue.Decimal) {
		row.IsCompleted = false
	}

	rebate := decimal.Zero
	proportional := decimal.Zero
	if row.IsCompleted && activity.HasPrices() {
		delta := activity.OriginalPrice.Sub(activity.DiscountPrice.Decimal)
		rebate = delta.Mul(decimal.NewFromInt(int64(row.Spec))).Mul(itemSales)
		proportional = proportionalRebate(activity, delta, totalTarget, actualTotal, itemSales)
	}

	row.OriginalExpense = models.NewMoneyFromDecimal(originalExpense)
	row.RebateAmount = models.NewMoneyFromDecimal(rebate)
	row.ActualExpense = models.NewMoneyFromDecimal(originalExpense.Sub(rebate))
	row.ProportionalRebate = models.NewMoneyFromDecimal(proportional)
	return row
}

// proportionalRebate 挂钩总指标时按 实际销售额/总指标 分摊，总指标为 0 时记 0；
// 仅考核单品时按单品数量计算。
func proportionalRebate(activity repository.ActivityRow, delta, totalTarget, actualTotal, itemSales decimal.Decimal) decimal.Decimal {
	switch {
	case activity.NeedTotalTarget:
		if !totalTarget.IsPositive() {
			return decimal.Zero
		}
		return delta.Mul(actualTotal).Div(totalTarget)
	case activity.NeedItemTarget && activity.ItemID != nil:
		return delta.Mul(itemSales)
	default:
		return decimal.Zero
	}
}
