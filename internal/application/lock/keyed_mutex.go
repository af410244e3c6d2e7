// Package lock provides in-process serialization keyed by entity ID.
// Lifecycle invariants (one active tenancy per property, payment-date
// ordering per tenancy) need concurrent calls on the same key serialized
// before the optimistic lock in the persistence layer takes over.
package lock

import "sync"

// KeyedMutex serializes callers per key. Unlocked keys hold no memory
// beyond the map entry; the map is never pruned because the key space
// (active entity IDs) is bounded.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given key, creating it on first use
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for the given key
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	k.mu.Unlock()
	if ok {
		m.Unlock()
	}
}
