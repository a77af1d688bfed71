package events

import (
	"context"
	"sync"
	"time"
)

// Sink receives events after they are persisted to the local log. The Kafka
// producer implements this; nil means local-only operation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher appends events to the log and hands them to the sink. By default
// it is synchronous; WithAsyncBuffer switches sink delivery to a background
// goroutine so domain operations never wait on the broker.
type Publisher struct {
	store Store
	sink  Sink

	inbox   chan Event
	done    chan struct{}
	closeMu sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSink attaches an external delivery sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithAsyncBuffer enables asynchronous sink delivery with the given channel
// capacity. When the buffer is full the event is still in the local log; sink
// delivery is dropped rather than blocking the caller.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit timestamps the event, appends it to the log, and forwards it to the
// sink. The append is authoritative; sink failures do not fail the emit.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink == nil {
		return nil
	}
	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
		}
		return nil
	}
	_ = p.sink.Publish(ctx, event)
	return nil
}

// List returns the most recent events from the local log, newest first.
func (p *Publisher) List(ctx context.Context, limit int) ([]Event, error) {
	if p == nil {
		return nil, nil
	}
	return p.store.ListRecent(ctx, limit)
}

// Close drains any buffered events to the sink and stops the background
// goroutine.
func (p *Publisher) Close() {
	if p == nil || p.inbox == nil {
		return
	}
	p.closeMu.Do(func() {
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		_ = p.sink.Publish(context.Background(), event)
	}
}
