// Package live distributes the current search term to the fetch managers.
// Each subscriber sees only the newest value: an unread value is replaced,
// never queued behind.
package live

import "sync"

// Slot is a one-element mailbox where the latest write wins.
type Slot[T any] struct {
	mu sync.Mutex
	ch chan T
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Publish stores v, discarding a value nobody has read yet.
func (s *Slot[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}

// C is the receive side. A receive takes the value out of the slot.
func (s *Slot[T]) C() <-chan T {
	return s.ch
}

// Broadcaster publishes every value to all subscribed slots.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	slots  []*Slot[T]
	latest T
	has    bool
}

// Subscribe adds a slot. It starts out holding the latest value, if any.
func (b *Broadcaster[T]) Subscribe() *Slot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := NewSlot[T]()
	if b.has {
		s.Publish(b.latest)
	}
	b.slots = append(b.slots, s)
	return s
}

// Publish replaces the value in every slot.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest, b.has = v, true
	for _, s := range b.slots {
		s.Publish(v)
	}
}

// Latest returns the last published value.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}
