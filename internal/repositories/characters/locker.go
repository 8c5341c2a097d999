package characters

import "sync"

// Locker hands out one mutex per character ID. Every service that mutates
// characters must hold that character's lock for the whole read-modify-write,
// so transactions from different services never interleave on the same
// record.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocker creates an empty locker
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// For returns the mutex for a character ID, creating it on first use
func (l *Locker) For(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if mu, ok := l.locks[id]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	l.locks[id] = mu
	return mu
}
