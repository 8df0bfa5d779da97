package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
)

type recordingEnqueuer struct {
	payloads []ReportWarmPayload
	err      error
}

func (r *recordingEnqueuer) EnqueueReportWarm(payload ReportWarmPayload) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

func TestNewReportWarmTask(t *testing.T) {
	task, err := NewReportWarmTask(ReportWarmPayload{BrandID: 7, Month: "2024-03"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskReportWarm {
		t.Fatalf("task type want %s got %s", TaskReportWarm, task.Type())
	}
	var payload ReportWarmPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.BrandID != 7 || payload.Month != "2024-03" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
	if id := reportWarmTaskID(payload); id != "report:warm:7:2024-03" {
		t.Fatalf("task id want report:warm:7:2024-03 got %s", id)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := NewClient(&config.QueueConfig{Enabled: false})
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueReportWarm(ReportWarmPayload{BrandID: 1, Month: "2024-01"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("disabled close should be noop, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("concurrency want 4 got %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("default queue should be registered, got %v", cfg.Queues)
	}
}

func TestReportWarmerEnqueuesMonthScopedChanges(t *testing.T) {
	bus := events.NewBus()
	enqueuer := &recordingEnqueuer{}
	detach := AttachReportWarmer(bus, enqueuer)

	ctx := context.Background()
	bus.Publish(ctx, events.Event{Name: constants.EventPurchaseChanged, Action: events.ActionCreated, BrandID: 1, Month: "2024-03"})
	bus.Publish(ctx, events.Event{Name: constants.EventActivityChanged, Action: events.ActionDeleted, BrandID: 2, Month: "2024-04"})
	bus.Publish(ctx, events.Event{Name: constants.EventItemChanged, Action: events.ActionCreated, BrandID: 1})
	bus.Publish(ctx, events.Event{Name: constants.EventBrandChanged, Action: events.ActionDeleted, BrandID: 3})

	if len(enqueuer.payloads) != 2 {
		t.Fatalf("enqueued tasks want 2 got %d", len(enqueuer.payloads))
	}
	if enqueuer.payloads[1] != (ReportWarmPayload{BrandID: 2, Month: "2024-04"}) {
		t.Fatalf("second payload mismatch: %+v", enqueuer.payloads[1])
	}

	detach()
	bus.Publish(ctx, events.Event{Name: constants.EventPurchaseChanged, BrandID: 1, Month: "2024-03"})
	if len(enqueuer.payloads) != 2 {
		t.Fatalf("detached warmer should not enqueue")
	}
}

func TestReportWarmerSurvivesEnqueueFailure(t *testing.T) {
	bus := events.NewBus()
	enqueuer := &recordingEnqueuer{err: errors.New("redis down")}
	defer AttachReportWarmer(bus, enqueuer)()

	bus.Publish(context.Background(), events.Event{Name: constants.EventPurchaseChanged, BrandID: 1, Month: "2024-03"})
	if len(enqueuer.payloads) != 1 {
		t.Fatalf("enqueue should be attempted once, got %d", len(enqueuer.payloads))
	}
}
