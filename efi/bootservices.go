package efi

import (
	"fmt"
	"time"
)

// BootServices is the subset of the firmware boot services the helpers in
// this module call through. Platform glue provides the real implementation;
// tests provide fakes.
type BootServices interface {
	// RaiseTPL raises the task priority level and returns the previous one.
	// Raising to a level below the current one is firmware-undefined.
	RaiseTPL(level TPL) TPL
	// RestoreTPL lowers the task priority level back to a value previously
	// returned by RaiseTPL. Raise and restore calls must nest.
	RestoreTPL(level TPL)

	CreateEvent(eventType EventType, notifyTPL TPL, notify func(Event)) (Event, Status)
	CloseEvent(e Event) Status
	SignalEvent(e Event) Status

	// Stall busy-waits for at least the given duration.
	Stall(d time.Duration) Status
}

// BootServicesTable is a call-through BootServices backed by function fields,
// mirroring the firmware table of function pointers. Platform glue fills the
// fields from the real table; nil fields answer Unsupported.
type BootServicesTable struct {
	Hdr TableHeader

	RaiseTPLFn    func(level TPL) TPL
	RestoreTPLFn  func(level TPL)
	CreateEventFn func(eventType EventType, notifyTPL TPL, notify func(Event)) (Event, Status)
	CloseEventFn  func(e Event) Status
	SignalEventFn func(e Event) Status
	StallFn       func(d time.Duration) Status
}

var _ BootServices = (*BootServicesTable)(nil)

// Validate checks the table header signature.
func (t *BootServicesTable) Validate() error {
	if t.Hdr.Signature != BootServicesSignature {
		return fmt.Errorf("boot services signature %#x, want %#x",
			t.Hdr.Signature, BootServicesSignature)
	}

	return nil
}

func (t *BootServicesTable) RaiseTPL(level TPL) TPL {
	if t.RaiseTPLFn == nil {
		return TPLApplication
	}

	return t.RaiseTPLFn(level)
}

func (t *BootServicesTable) RestoreTPL(level TPL) {
	if t.RestoreTPLFn != nil {
		t.RestoreTPLFn(level)
	}
}

func (t *BootServicesTable) CreateEvent(eventType EventType, notifyTPL TPL, notify func(Event)) (Event, Status) {
	if t.CreateEventFn == nil {
		return 0, Unsupported
	}

	return t.CreateEventFn(eventType, notifyTPL, notify)
}

func (t *BootServicesTable) CloseEvent(e Event) Status {
	if t.CloseEventFn == nil {
		return Unsupported
	}

	return t.CloseEventFn(e)
}

func (t *BootServicesTable) SignalEvent(e Event) Status {
	if t.SignalEventFn == nil {
		return Unsupported
	}

	return t.SignalEventFn(e)
}

func (t *BootServicesTable) Stall(d time.Duration) Status {
	if t.StallFn == nil {
		return Unsupported
	}

	return t.StallFn(d)
}

// TPLGuard restores a saved task priority level exactly once.
type TPLGuard struct {
	bs       BootServices
	previous TPL
	done     bool
}

// RaiseTPLGuarded raises the priority level and returns a guard whose Restore
// puts it back. The usual shape is
//
//	defer efi.RaiseTPLGuarded(bs, efi.TPLNotify).Restore()
func RaiseTPLGuarded(bs BootServices, level TPL) *TPLGuard {
	return &TPLGuard{bs: bs, previous: bs.RaiseTPL(level)}
}

// Restore lowers the priority level to what it was before the guard was
// taken. Further calls do nothing.
func (g *TPLGuard) Restore() {
	if g.done {
		return
	}
	g.done = true
	g.bs.RestoreTPL(g.previous)
}
