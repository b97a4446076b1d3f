package llm

import (
	"context"
	"io"
)

// eventStream adapts a goroutine that pushes Events onto a channel into the
// Stream interface. Grounded on the teacher's newEventStream helper used
// throughout internal/llm/*.go (anthropic.go, gemini.go, openai_compat.go).
type eventStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	errCh  chan error
	err    error
	done   bool
}

// newEventStream launches fn in its own goroutine, closing the returned
// Stream's channel once fn returns. fn must send events in stream order and
// must send a final EventDone (or return an error) before returning.
func newEventStream(ctx context.Context, fn func(ctx context.Context, events chan<- Event) error) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &eventStream{
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
		errCh:  make(chan error, 1),
	}
	go func() {
		defer close(s.events)
		s.errCh <- fn(ctx, s.events)
	}()
	return s
}

func (s *eventStream) Recv() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}
	ev, ok := <-s.events
	if !ok {
		if err := <-s.errCh; err != nil {
			s.done = true
			return Event{}, err
		}
		s.done = true
		return Event{}, io.EOF
	}
	if ev.Type == EventDone {
		s.done = true
	}
	return ev, nil
}

func (s *eventStream) Close() error {
	s.cancel()
	return nil
}
