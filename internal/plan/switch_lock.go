package plan

import "sync"

// SwitchLock gates plan switching. Invariant: locked exactly while an
// associated chat session is active. The chat controller owns the lock;
// everything else only reads it.
type SwitchLock struct {
	mu     sync.Mutex
	locked bool
}

func NewSwitchLock() *SwitchLock {
	return &SwitchLock{}
}

func (l *SwitchLock) Lock() {
	l.mu.Lock()
	l.locked = true
	l.mu.Unlock()
}

func (l *SwitchLock) Unlock() {
	l.mu.Lock()
	l.locked = false
	l.mu.Unlock()
}

func (l *SwitchLock) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}
