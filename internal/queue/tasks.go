package queue

import (
	"encoding/json"
	"fmt"

	"github.com/stockflow/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReportWarm 报表预热任务
	TaskReportWarm = constants.TaskReportWarm
)

// ReportWarmPayload 报表预热任务载荷
type ReportWarmPayload struct {
	BrandID uint   `json:"brand_id"`
	Month   string `json:"month"` // YYYY-MM
}

// NewReportWarmTask 创建报表预热任务
func NewReportWarmTask(payload ReportWarmPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarm, body), nil
}

// reportWarmTaskID 同一品牌月份在排队期间只保留一个任务
func reportWarmTaskID(payload ReportWarmPayload) string {
	return fmt.Sprintf("%s:%d:%s", TaskReportWarm, payload.BrandID, payload.Month)
}
