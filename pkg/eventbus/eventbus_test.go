package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	got := make([]string, 0, 2)
	done := make(chan struct{}, 2)

	handler := func(ctx context.Context, event Event) error {
		mu.Lock()
		got = append(got, event.Name())
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	bus.Subscribe("equipment.status.changed", handler)
	bus.Subscribe("equipment.status.changed", handler)

	bus.Publish(context.Background(), testEvent{name: "equipment.status.changed"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("слушатель не получил событие")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := New(zap.NewNop())

	called := make(chan struct{}, 1)
	bus.Subscribe("transfer.pending", func(ctx context.Context, event Event) error {
		called <- struct{}{}
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "transfer.decided"})

	select {
	case <-called:
		t.Fatal("слушатель не должен был вызваться")
	case <-time.After(50 * time.Millisecond):
	}
}
