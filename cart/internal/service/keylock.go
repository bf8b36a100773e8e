package service

import (
	"sync"
)

// ownerLocks queues writers per owning identity so concurrent mutations of
// one cart cannot lose updates between load and save.
type ownerLocks struct {
	locks sync.Map
}

func (l *ownerLocks) Lock(key string) func() {
	value, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
