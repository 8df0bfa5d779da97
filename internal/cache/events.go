package cache

import (
	"context"
	"strings"

	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
)

// AttachEventForwarder 将进程内变更事件转发到 Redis 频道，供其他进程刷新展示
func AttachEventForwarder(bus *events.Bus, channel string) func() {
	channel = strings.TrimSpace(channel)
	if bus == nil || channel == "" {
		return func() {}
	}
	return bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := PublishJSON(ctx, channel, event); err != nil {
			logger.Warnw("event_forward_failed",
				"channel", channel,
				"event", event.Name,
				"error", err,
			)
		}
	})
}
