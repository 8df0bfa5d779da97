package service

import (
	"context"
	"errors"

	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.Event) {}

func publisherOrNoop(publisher events.Publisher) events.Publisher {
	if publisher == nil {
		return noopPublisher{}
	}
	return publisher
}

// isDomainError 业务错误直接返回调用方，不记为存储异常
func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBrandExists) ||
		errors.Is(err, ErrItemBrandConflict)
}

// logStoreError 记录存储层异常后原样返回
func logStoreError(event string, err error, kv ...interface{}) error {
	if err == nil || isDomainError(err) {
		return err
	}
	logger.Errorw(event, append(kv, "error", err)...)
	return err
}
