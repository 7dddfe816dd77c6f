package mailbox

import (
	"reflect"
	"sync"

	"golang.org/x/exp/slices"
)

// DeadLetterForwardFailure is published to the event stream when
// cleanup-time forwarding of a stray system message to the dead-letter
// mailbox fails (spec §4.4.1, §7: "swallowed and logged to the event
// stream").
type DeadLetterForwardFailure struct {
	Receiver Receiver
	Command  SystemCommand
	Err      error
}

func handlerComparable[T any](this, other func(T)) bool {
	return reflect.ValueOf(this).Pointer() == reflect.ValueOf(other).Pointer()
}

// EventStream is a generic, de-duplicated pub/sub sink. Adapted from
// pkg/lib/event.Listener[V]; unlike the source's process-wide logger,
// this is instantiated per actor-system so tests don't share global
// state.
type EventStream[T any] struct {
	mu       sync.RWMutex
	handlers []func(T)
}

func NewEventStream[T any]() *EventStream[T] {
	return &EventStream[T]{}
}

func (s *EventStream[T]) Subscribe(handler func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.handlers, func(other func(T)) bool {
		return handlerComparable(handler, other)
	}) {
		return
	}
	s.handlers = append(s.handlers, handler)
}

func (s *EventStream[T]) Unsubscribe(handler func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.handlers, func(other func(T)) bool {
		return handlerComparable(handler, other)
	})
	if idx < 0 {
		return
	}
	s.handlers = slices.Delete(s.handlers, idx, idx+1)
}

func (s *EventStream[T]) Publish(event T) {
	s.mu.RLock()
	handlers := s.handlers
	s.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}
