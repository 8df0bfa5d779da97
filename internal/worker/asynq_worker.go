package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/provider"
	"github.com/stockflow/internal/queue"
	"github.com/stockflow/internal/service"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		workerLog().Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReportWarm, c.handleReportWarm)
}

// handleReportWarm 不读缓存，重新计算品牌月份报表并写入报表缓存
func (c *Consumer) handleReportWarm(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.ReportService == nil {
		workerLog().Debugw("worker_report_warm_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReportWarmPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		workerLog().Warnw("worker_report_warm_unmarshal_failed", "error", err)
		return fmt.Errorf("unmarshal report warm payload: %v: %w", err, asynq.SkipRetry)
	}
	month, err := time.Parse(constants.MonthLayout, payload.Month)
	if err != nil || payload.BrandID == 0 {
		workerLog().Warnw("worker_report_warm_invalid_payload", "brand_id", payload.BrandID, "month", payload.Month)
		return fmt.Errorf("invalid report warm payload: %w", asynq.SkipRetry)
	}

	year, mon := month.Year(), int(month.Month())
	if _, err := c.ReportService.Warm(ctx, payload.BrandID, year, mon); err != nil {
		return c.warmError(payload, err)
	}
	workerLog().Debugw("worker_report_warmed", "brand_id", payload.BrandID, "month", payload.Month)
	return nil
}

// warmError 品牌已删除时视为完成，其余错误交由队列重试
func (c *Consumer) warmError(payload queue.ReportWarmPayload, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		workerLog().Debugw("worker_report_warm_skip_brand_missing", "brand_id", payload.BrandID)
		return nil
	}
	workerLog().Warnw("worker_report_warm_failed",
		"brand_id", payload.BrandID,
		"month", payload.Month,
		"error", err,
	)
	return err
}

func workerLog() *zap.SugaredLogger {
	return logger.Named("worker")
}
