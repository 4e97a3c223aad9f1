package service

import "sync"

// BoardLocks serializes read-modify-write cycles on a board config. The
// board and card services share one instance so a list reorder and a card
// move on the same board can't interleave.
type BoardLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBoardLocks() *BoardLocks {
	return &BoardLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the board's lock and returns its release func.
func (l *BoardLocks) Lock(boardName string) func() {
	if l == nil {
		return func() {}
	}
	l.mu.Lock()
	m, ok := l.locks[boardName]
	if !ok {
		m = &sync.Mutex{}
		l.locks[boardName] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
