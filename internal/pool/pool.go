// Package pool recycles panel visuals so reopening a template does not
// rebuild its view from scratch.
package pool

import (
	"errors"
	"sync"
)

// ErrExhausted is returned when every slot is checked out.
var ErrExhausted = errors.New("pool exhausted")

// Stats reports pool usage.
type Stats struct {
	InUse   int
	Idle    int
	Created int
	Reused  int
}

// Pool is a bounded free list of T. Safe for concurrent use.
type Pool[T any] struct {
	mu      sync.Mutex
	newFn   func() T
	reset   func(T)
	free    []T
	limit   int
	inUse   int
	created int
	reused  int
}

// New builds a pool holding at most limit live values. limit <= 0 means
// unbounded. reset may be nil.
func New[T any](limit int, newFn func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{newFn: newFn, reset: reset, limit: limit}
}

// Acquire returns an idle value or a fresh one.
func (p *Pool[T]) Acquire() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.inUse++
		p.reused++
		return v, nil
	}
	if p.limit > 0 && p.inUse >= p.limit {
		var zero T
		return zero, ErrExhausted
	}
	p.inUse++
	p.created++
	return p.newFn(), nil
}

// Release resets v and returns it to the free list.
func (p *Pool[T]) Release(v T) {
	if p.reset != nil {
		p.reset(v)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inUse > 0 {
		p.inUse--
	}
	p.free = append(p.free, v)
}

func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{InUse: p.inUse, Idle: len(p.free), Created: p.created, Reused: p.reused}
}
