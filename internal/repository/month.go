package repository

import (
	"fmt"
	"time"

	"github.com/stockflow/internal/constants"
)

// MonthKey 生成 YYYY-MM 月份键
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// monthDateRange 将 YYYY-MM 转换为 [当月1日, 次月1日) 的日期字符串区间。
// 日期以 yyyy-mm-dd 文本存储，字典序与时间序一致。
func monthDateRange(monthKey string) (string, string, error) {
	start, err := time.Parse(constants.MonthLayout, monthKey)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", monthKey, err)
	}
	end := start.AddDate(0, 1, 0)
	return start.Format(constants.DateLayout), end.Format(constants.DateLayout), nil
}
