// Package event provides subscription streams for the window-level input the
// overlay controllers observe: key presses, pointer presses, and document
// state changes. Controllers subscribe only while active and release the
// subscription on every exit path, so listeners never leak across open/close
// cycles.
package event

import "sync"

// Stream fans values out to the current subscribers.
type Stream[T any] struct {
	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

// NewStream creates an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns its subscription handle.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

// Emit delivers v to every subscriber, synchronously on the caller.
func (s *Stream[T]) Emit(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (s *Stream[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscription is a handle to an active stream subscription.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close releases the subscription. Closing twice is safe.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
