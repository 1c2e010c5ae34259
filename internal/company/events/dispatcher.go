// Package events routes published domain events to registered handlers.
// The Dispatcher is the single in-process bus; forwarding to an external
// broker is just another handler (see Forwarder), selected by configuration.
package events

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gartstein/companyd/internal/company/domain"
	"go.uber.org/zap"
)

// ErrDuplicateHandler is returned when the same handler name is subscribed
// twice to one event. Callers treat it as non-fatal.
var ErrDuplicateHandler = fmt.Errorf("handler already subscribed")

// Handler reacts to a published domain event. Handle is the single
// entrypoint regardless of whether the work runs inline or is offloaded;
// the execution mode is chosen at subscription time, never by inspecting
// the handler.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event domain.Event) error
}

type handlerFunc struct {
	name string
	fn   func(ctx context.Context, event domain.Event) error
}

func (h handlerFunc) Name() string { return h.name }
func (h handlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return h.fn(ctx, event)
}

// HandlerFunc adapts a plain function to the Handler interface.
func HandlerFunc(name string, fn func(ctx context.Context, event domain.Event) error) Handler {
	return handlerFunc{name: name, fn: fn}
}

type subscription struct {
	handler  Handler
	priority int
	async    bool
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscription)

// WithPriority orders handlers for one event; higher runs first.
// Ties break by registration order.
func WithPriority(p int) SubscribeOption {
	return func(s *subscription) { s.priority = p }
}

// WithAsync offloads the handler to its own goroutine so a slow consumer
// cannot block the publishing request.
func WithAsync() SubscribeOption {
	return func(s *subscription) { s.async = true }
}

// Dispatcher maps event names to ordered handler lists. The registry is
// mutated at startup and read during request handling, so a RWMutex is
// enough. Construct one per application and inject it; there is no
// package-level instance.
type Dispatcher struct {
	mu      sync.RWMutex
	subs    map[string][]subscription
	enabled bool
	logger  *zap.Logger
}

// NewDispatcher constructs a dispatcher. When enabled is false every
// Publish call is a no-op.
func NewDispatcher(enabled bool, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		subs:    make(map[string][]subscription),
		enabled: enabled,
		logger:  logger.Named("dispatcher"),
	}
}

// Subscribe registers a handler for an event name. Registering the same
// handler name twice for one event logs a warning and returns
// ErrDuplicateHandler without touching the registry.
func (d *Dispatcher) Subscribe(eventName string, h Handler, opts ...SubscribeOption) error {
	if eventName == "" {
		return fmt.Errorf("event name is required")
	}
	if h == nil {
		return fmt.Errorf("handler is required")
	}

	sub := subscription{handler: h}
	for _, opt := range opts {
		opt(&sub)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.subs[eventName] {
		if existing.handler.Name() == h.Name() {
			d.logger.Warn("Duplicate handler subscription",
				zap.String("event", eventName),
				zap.String("handler", h.Name()),
			)
			return ErrDuplicateHandler
		}
	}

	d.subs[eventName] = append(d.subs[eventName], sub)
	// Stable sort keeps registration order for equal priorities.
	sort.SliceStable(d.subs[eventName], func(i, j int) bool {
		return d.subs[eventName][i].priority > d.subs[eventName][j].priority
	})

	d.logger.Info("Handler subscribed",
		zap.String("event", eventName),
		zap.String("handler", h.Name()),
		zap.Int("priority", sub.priority),
	)
	return nil
}

// Unsubscribe removes one handler from an event. Returns true if it was
// registered.
func (d *Dispatcher) Unsubscribe(eventName, handlerName string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.subs[eventName]
	for i, s := range subs {
		if s.handler.Name() == handlerName {
			d.subs[eventName] = append(subs[:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all subscriptions for the given event names, or every
// subscription when no names are given.
func (d *Dispatcher) Clear(eventNames ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(eventNames) == 0 {
		d.subs = make(map[string][]subscription)
		return
	}
	for _, name := range eventNames {
		delete(d.subs, name)
	}
}

// Publish dispatches each event to its handlers in priority order. A handler
// error is logged and the remaining handlers still run; Publish only returns
// an error when an event itself cannot be published (nil or unnamed).
func (d *Dispatcher) Publish(ctx context.Context, events ...domain.Event) error {
	if !d.enabled {
		d.logger.Debug("Event bus disabled, skipping publish", zap.Int("events", len(events)))
		return nil
	}

	for _, ev := range events {
		if ev == nil || ev.Name() == "" {
			return fmt.Errorf("cannot publish unnamed event")
		}

		d.mu.RLock()
		subs := make([]subscription, len(d.subs[ev.Name()]))
		copy(subs, d.subs[ev.Name()])
		d.mu.RUnlock()

		d.logger.Debug("Publishing event",
			zap.String("event", ev.Name()),
			zap.String("event_id", ev.ID().String()),
			zap.Int("handlers", len(subs)),
		)

		for _, s := range subs {
			if s.async {
				// The request context may be cancelled as soon as the
				// response is written; async handlers keep its values only.
				go d.invoke(context.WithoutCancel(ctx), s.handler, ev)
				continue
			}
			d.invoke(ctx, s.handler, ev)
		}
	}
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, ev domain.Event) {
	if err := h.Handle(ctx, ev); err != nil {
		d.logger.Error("Event handler failed",
			zap.Error(err),
			zap.String("event", ev.Name()),
			zap.String("event_id", ev.ID().String()),
			zap.String("handler", h.Name()),
		)
	}
}
