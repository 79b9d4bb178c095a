package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustcore/internal/platform/logger"
)

// collector is a handler that records every event it receives.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(_ context.Context, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func runPipeline(t *testing.T, p *Pipeline) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("pipeline did not stop")
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestPipeline_DeliversToAllSubscribers(t *testing.T) {
	p := NewPipeline(16, logger.New(), nil)
	first := &collector{}
	second := &collector{}
	p.OnEvent(first.handle)
	p.OnEvent(second.handle)
	stop := runPipeline(t, p)
	defer stop()

	p.Publish(NewLoginEvent("u1", "alice", "tenantA", OutcomeSuccess, "10.0.0.1", "req-1"))

	waitFor(t, func() bool { return first.len() == 1 && second.len() == 1 })

	event := first.all()[0]
	assert.Equal(t, KindLogin, event.Kind)
	assert.NotEmpty(t, event.ID, "events get a sortable id on publish")
	assert.False(t, event.Timestamp.IsZero())
}

func TestPipeline_SubscriberErrorDoesNotStopDelivery(t *testing.T) {
	p := NewPipeline(16, logger.New(), nil)
	failing := func(context.Context, Event) error { return errors.New("disk full") }
	healthy := &collector{}
	p.OnEvent(failing)
	p.OnEvent(healthy.handle)
	stop := runPipeline(t, p)
	defer stop()

	p.Publish(NewTokenRotationEvent("u1", "tenantA", OutcomeRotated, ""))
	p.Publish(NewTokenRotationEvent("u1", "tenantA", OutcomeRotated, ""))

	waitFor(t, func() bool { return healthy.len() == 2 })
}

func TestPipeline_SubscriberPanicContained(t *testing.T) {
	p := NewPipeline(16, logger.New(), nil)
	panicking := func(context.Context, Event) error { panic("boom") }
	healthy := &collector{}
	p.OnEvent(panicking)
	p.OnEvent(healthy.handle)
	stop := runPipeline(t, p)
	defer stop()

	p.Publish(NewOperationEvent("u1", "tenantA", OutcomeDenied, "POST", "pages", "write", 0, ""))

	waitFor(t, func() bool { return healthy.len() == 1 })
}

func TestPipeline_DropsNewWhenQueueFull(t *testing.T) {
	// No Run: the queue only fills. Capacity 2, publish 5, expect 3 drops.
	p := NewPipeline(2, logger.New(), nil)
	for i := 0; i < 5; i++ {
		p.Publish(NewLoginEvent("u1", "alice", "tenantA", OutcomeSuccess, "", ""))
	}

	assert.Len(t, p.queue, 2, "enqueue stops at capacity without blocking")
}

func TestPipeline_PublishNeverBlocks(t *testing.T) {
	p := NewPipeline(1, logger.New(), nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			p.Publish(NewLoginEvent("u1", "alice", "tenantA", OutcomeSuccess, "", ""))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}

func TestPipeline_DrainsQueueOnShutdown(t *testing.T) {
	p := NewPipeline(64, logger.New(), nil)
	sink := &collector{}
	p.OnEvent(sink.handle)

	// Enqueue before the worker starts so timing cannot race the assertions.
	for i := 0; i < 10; i++ {
		p.Publish(NewLoginEvent("u1", "alice", "tenantA", OutcomeSuccess, "", ""))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 10, sink.len(), "enqueued events survive shutdown")
}

func TestPipeline_ConcurrentPublish(t *testing.T) {
	p := NewPipeline(4096, logger.New(), nil)
	var delivered atomic.Int32
	p.OnEvent(func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	})
	stop := runPipeline(t, p)
	defer stop()

	const publishers = 8
	const perPublisher = 100
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				p.Publish(NewOperationEvent("u1", "tenantA", OutcomeSuccess, "GET", "pages", "read", 0, ""))
			}
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return delivered.Load() == publishers*perPublisher })
}
