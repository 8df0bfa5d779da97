package provider

import (
	"context"

	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
)

func logChange(_ context.Context, event events.Event) {
	logger.Debugw("data_changed",
		"event", event.Name,
		"action", event.Action,
		"brand_id", event.BrandID,
		"entity_id", event.EntityID,
		"month", event.Month,
	)
}
