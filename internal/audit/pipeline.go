package audit

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"trustcore/internal/audit/metrics"
)

// Handler is a durable-write subscriber. Returned errors are contained by the
// pipeline; they never reach the emitting call site.
type Handler func(ctx context.Context, event Event) error

// Pipeline decouples request-time emission from durable recording. Publish is
// a nominal enqueue; one worker goroutine fans events out to the registered
// handlers. Under backpressure new events are dropped (availability over
// durability for this non-critical path) and the drop is counted.
type Pipeline struct {
	queue   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	handlers []Handler

	// failLog throttles audit_persist_failure log lines so a sustained sink
	// outage cannot flood the log stream.
	failLog *rate.Limiter
}

// NewPipeline builds a pipeline with the given queue capacity.
func NewPipeline(queueSize int, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if queueSize <= 0 {
		queueSize = 4096
	}
	return &Pipeline{
		queue:   make(chan Event, queueSize),
		logger:  logger,
		metrics: m,
		failLog: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// OnEvent registers a durable-write subscriber. Registration normally happens
// during bootstrap, before Run, but is safe at any time.
func (p *Pipeline) OnEvent(handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Publish enqueues the event and returns immediately. The queue is bounded;
// when it is full the event is dropped rather than blocking the caller.
func (p *Pipeline) Publish(event Event) {
	event.stamp()
	select {
	case p.queue <- event:
		p.metrics.IncPublished()
	default:
		p.metrics.IncDropped()
		if p.failLog.Allow() {
			p.logger.Warn("audit queue full, dropping event",
				"kind", event.Kind,
				"domain", event.Domain,
			)
		}
	}
}

// Run consumes the queue until ctx is cancelled, then drains whatever is
// already enqueued before returning.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return ctx.Err()
		case event := <-p.queue:
			p.dispatch(ctx, event)
		}
	}
}

// drain flushes enqueued events with a background context; the run context is
// already cancelled at this point.
func (p *Pipeline) drain() {
	for {
		select {
		case event := <-p.queue:
			p.dispatch(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Pipeline) dispatch(ctx context.Context, event Event) {
	p.mu.RLock()
	handlers := p.handlers
	p.mu.RUnlock()

	for _, handler := range handlers {
		p.invoke(ctx, handler, event)
	}
}

// invoke runs one handler, containing both errors and panics.
func (p *Pipeline) invoke(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.IncSinkFailures()
			if p.failLog.Allow() {
				p.logger.Error("audit_persist_failure: handler panicked",
					"kind", event.Kind,
					"panic", r,
				)
			}
		}
	}()

	if err := handler(ctx, event); err != nil {
		p.metrics.IncSinkFailures()
		if p.failLog.Allow() {
			p.logger.Error("audit_persist_failure",
				"kind", event.Kind,
				"event_id", event.ID,
				"error", err,
			)
		}
	}
}
