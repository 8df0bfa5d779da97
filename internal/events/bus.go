package events

import (
	"context"
	"sync"
	"time"

	"github.com/stockflow/internal/logger"
)

// Action 变更动作
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event 数据变更通知，事务提交后发布
type Event struct {
	Name     string    `json:"name"`
	Action   Action    `json:"action"`
	BrandID  uint      `json:"brand_id"`
	EntityID uint      `json:"entity_id"`
	Month    string    `json:"month,omitempty"`
	At       time.Time `json:"at"`
}

// Handler 事件处理函数
type Handler func(ctx context.Context, event Event)

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Bus 进程内事件总线，处理函数同步执行
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
}

// wildcard 订阅全部事件
const wildcard = "*"

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]map[int]Handler)}
}

// Subscribe 订阅指定事件，name 为 "*" 时订阅全部；返回取消订阅函数
func (b *Bus) Subscribe(name string, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.handlers[name] == nil {
		b.handlers[name] = make(map[int]Handler)
	}
	b.handlers[name][id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[name], id)
	}
}

// SubscribeAll 订阅全部事件
func (b *Bus) SubscribeAll(handler Handler) func() {
	return b.Subscribe(wildcard, handler)
}

// Publish 发布事件；单个处理函数 panic 不影响其他订阅者
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	for _, handler := range b.snapshot(event.Name) {
		b.dispatch(ctx, handler, event)
	}
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	handlers := make([]Handler, 0, len(b.handlers[name])+len(b.handlers[wildcard]))
	for _, handler := range b.handlers[name] {
		handlers = append(handlers, handler)
	}
	if name != wildcard {
		for _, handler := range b.handlers[wildcard] {
			handlers = append(handlers, handler)
		}
	}
	return handlers
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("event_handler_panic",
				"event", event.Name,
				"action", event.Action,
				"panic", r,
			)
		}
	}()
	handler(ctx, event)
}
