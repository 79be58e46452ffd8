// Package tplmutex provides mutual exclusion between normal code and event
// notification callbacks. A held mutex raises the task priority level so that
// callbacks at or below its level cannot preempt the critical section, and an
// atomic flag catches the one failure mode the TPL alone cannot: taking the
// lock again from a callback running above the mutex level.
//
// Locks do not block. Firmware is single threaded per processor, so a
// contended Lock can only mean re-entry from a notification, which would
// deadlock a blocking design; Lock panics instead, and TryLock reports the
// conflict for callers that can back off.
package tplmutex

import (
	"sync/atomic"

	"github.com/uefikit/uefikit/efi"
)

// Mutex serializes access to state shared with event notifications.
// The zero value is not usable; call New.
type Mutex struct {
	bs     efi.BootServices
	level  efi.TPL
	locked atomic.Bool
}

// New returns a mutex whose critical sections run at the given priority
// level. The level must be at or above that of every notification touching
// the protected state, and at or above the level of every locking caller.
func New(bs efi.BootServices, level efi.TPL) *Mutex {
	return &Mutex{bs: bs, level: level}
}

// Guard represents a held mutex. Release it exactly once.
type Guard struct {
	m        *Mutex
	previous efi.TPL
	released bool
}

// Lock acquires the mutex and raises the priority level. It panics if the
// mutex is already held, since that can only be re-entry.
func (m *Mutex) Lock() *Guard {
	g, ok := m.TryLock()
	if !ok {
		panic("tplmutex: lock already held")
	}

	return g
}

// TryLock acquires the mutex if it is free, reporting whether it did.
func (m *Mutex) TryLock() (*Guard, bool) {
	if !m.locked.CompareAndSwap(false, true) {
		return nil, false
	}

	return &Guard{m: m, previous: m.bs.RaiseTPL(m.level)}, true
}

// With runs fn under the mutex.
func (m *Mutex) With(fn func()) {
	g := m.Lock()
	defer g.Release()
	fn()
}

// Release restores the priority level and frees the mutex, in that order:
// the flag must not clear while the section could still be observed at the
// raised level. Further calls do nothing.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.m.bs.RestoreTPL(g.previous)
	g.m.locked.Store(false)
}
