package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
)

type handlerFunc func(ctx context.Context, event entity.TableFailureEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.TableFailureEvent) error {
	return h(ctx, event)
}

func TestAuditConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	handler := handlerFunc(func(ctx context.Context, event entity.TableFailureEvent) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})

	consumer := NewAuditConsumer(bus, handler, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.TableFailureEvent{EventID: "evt-1", RunID: "run-1"}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := consumer.Stop(ctx); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	// Three attempts for the first event (two failures, one success); the
	// duplicate is suppressed before reaching the handler.
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestBusRejectsPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()

	err := bus.Publish(context.Background(), entity.TableFailureEvent{EventID: "evt-1"})
	if !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishHonorsContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.TableFailureEvent{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, entity.TableFailureEvent{EventID: "evt-2"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
