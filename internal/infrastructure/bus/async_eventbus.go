package bus

import (
	"context"
	"sync"

	"bazaarhub/internal/domain/event"

	"go.uber.org/zap"
)

// AsyncEventBus implements EventBus with asynchronous dispatch. Used for
// subscribers with network side effects (the webhook notifier) so that a
// slow receiver never delays the request that produced the event.
type AsyncEventBus struct {
	handlers map[string][]EventHandler
	logger   *zap.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewAsyncEventBus creates a new async event bus
func NewAsyncEventBus(logger *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a specific event type
func (b *AsyncEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish dispatches the event to all subscribed handlers, each on its
// own goroutine. Handler errors are logged, never returned.
func (b *AsyncEventBus) Publish(ctx context.Context, evt event.DomainEvent) error {
	b.mu.RLock()
	handlers := b.handlers[evt.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	// Deliveries outlive the request that produced the event. net/http
	// cancels the request context as soon as the handler returns, which
	// would abort an in-flight webhook POST.
	ctx = context.WithoutCancel(ctx)

	b.wg.Add(len(handlers))
	for _, handler := range handlers {
		go func(h EventHandler) {
			defer b.wg.Done()
			if err := h.Handle(ctx, evt); err != nil {
				b.logger.Warn("async event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("aggregate_id", evt.AggregateID()),
					zap.Error(err),
				)
			}
		}(handler)
	}
	return nil
}

// Start initializes the event bus
func (b *AsyncEventBus) Start(ctx context.Context) error {
	return nil
}

// Stop waits for in-flight handlers to finish
func (b *AsyncEventBus) Stop() error {
	b.wg.Wait()
	return nil
}
