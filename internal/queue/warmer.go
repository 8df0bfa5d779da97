package queue

import (
	"context"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
)

// WarmEnqueuer 投递报表预热任务
type WarmEnqueuer interface {
	EnqueueReportWarm(payload ReportWarmPayload) error
}

// AttachReportWarmer 进货与活动变更后为对应品牌月份投递预热任务
func AttachReportWarmer(bus *events.Bus, enqueuer WarmEnqueuer) func() {
	if bus == nil || enqueuer == nil {
		return func() {}
	}
	handler := func(_ context.Context, event events.Event) {
		if event.BrandID == 0 || event.Month == "" {
			return
		}
		payload := ReportWarmPayload{BrandID: event.BrandID, Month: event.Month}
		if err := enqueuer.EnqueueReportWarm(payload); err != nil {
			logger.Warnw("queue_report_warm_enqueue_failed",
				"brand_id", payload.BrandID,
				"month", payload.Month,
				"error", err,
			)
		}
	}
	unsubscribers := []func(){
		bus.Subscribe(constants.EventPurchaseChanged, handler),
		bus.Subscribe(constants.EventActivityChanged, handler),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
