package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishCallsSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	var calls atomic.Int32
	bus.Subscribe("ping", func(ctx context.Context, event Event) error {
		calls.Add(1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, event Event) error {
		calls.Add(1)
		return errors.New("слушатель упал")
	})
	bus.Subscribe("other", func(ctx context.Context, event Event) error {
		t.Error("чужое событие")
		return nil
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestBus_ListenerOutlivesCanceledRequest(t *testing.T) {
	bus := New(zap.NewNop())
	var ctxErr atomic.Value
	bus.Subscribe("ping", func(ctx context.Context, event Event) error {
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{})
	bus.Wait()

	assert.Equal(t, true, ctxErr.Load())
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(context.Background(), pingEvent{}) })
}
