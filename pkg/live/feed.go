// Package live implements latest-value broadcast: every subscriber gets the current value
// right away and then each newer one. A slow subscriber only ever sees the newest value.
package live

import "sync"

type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	last   T
	has    bool
	closed bool
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Publish remembers v and hands it to every subscriber, replacing whatever they haven't read yet.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.last = v
	f.has = true
	for s := range f.subs {
		s.offer(v)
	}
}

// Last returns the most recently published value.
func (f *Feed[T]) Last() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.has
}

func (f *Feed[T]) Subscribe() *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := &Subscription[T]{
		ch:   make(chan T, 1),
		done: make(chan struct{}),
		feed: f,
	}
	if f.closed {
		s.closeLocked()
		return s
	}
	if f.has {
		s.ch <- f.last
	}
	f.subs[s] = struct{}{}
	return s
}

// Close ends every subscription. Later Publish calls are dropped.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for s := range f.subs {
		delete(f.subs, s)
		s.closeLocked()
	}
}

func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type Subscription[T any] struct {
	ch     chan T
	done   chan struct{}
	feed   *Feed[T]
	closed bool
}

// C is closed once the subscription is cancelled or the feed is closed.
func (s *Subscription[T]) C() <-chan T { return s.ch }

func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

func (s *Subscription[T]) Cancel() {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()

	delete(s.feed.subs, s)
	s.closeLocked()
}

// offer and closeLocked run under feed.mu, so no send can race the close.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

func (s *Subscription[T]) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	close(s.ch)
}
