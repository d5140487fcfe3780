// Package cache provides a keyed memoization cache for computed values.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// InMemory memoizes values by the sha256 of their source key. Concurrent
// callers for the same key share one in-flight computation. Failed
// computations are not cached, so a later caller retries.
type InMemory[V any] struct {
	mu       sync.RWMutex
	max      int
	items    map[string]V
	inflight map[string]*call[V]
}

type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func NewInMemory[V any](max int) *InMemory[V] {
	if max < 0 {
		max = 0
	}
	return &InMemory[V]{
		max:      max,
		items:    make(map[string]V, max),
		inflight: make(map[string]*call[V]),
	}
}

func (c *InMemory[V]) GetOrCompute(source string, fn func() (V, error)) (V, error) {
	key := hash(source)

	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	if v, ok := c.items[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.val, cl.err
	}
	cl := &call[V]{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				cl.err = fmt.Errorf("compute panic: %v", r)
			}
		}()
		cl.val, cl.err = fn()
	}()

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil && len(c.items) < c.max {
		c.items[key] = cl.val
	}
	c.mu.Unlock()

	close(cl.done)
	return cl.val, cl.err
}

// Len reports how many values are stored.
func (c *InMemory[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
