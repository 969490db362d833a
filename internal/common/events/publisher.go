package events

import (
	"context"
	"fmt"
	"sync"
)

type Type string

type Event interface {
	EventType() Type
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher dispatches events synchronously to the handlers subscribed to
// their type, in subscription order. The first failing handler stops the
// dispatch and its error is returned unchanged.
type Publisher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewPublisher() *Publisher {
	return &Publisher{handlers: make(map[Type][]Handler)}
}

func (p *Publisher) Subscribe(eventType Type, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventType] = append(p.handlers[eventType], h)
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	handlers := p.handlers[event.EventType()]
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publish %s: %w", event.EventType(), err)
		}
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
