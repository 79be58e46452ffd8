// Package efi holds the base UEFI types and thin typed wrappers over the
// firmware-provided boot and runtime service tables. The wrappers do not talk
// to hardware themselves: platform glue populates the function fields of a
// table struct, and everything above calls through the interface so tests can
// substitute fakes.
package efi

import "time"

// Handle is an EFI_HANDLE, an opaque reference to a firmware object.
type Handle uintptr

// Event is an EFI_EVENT, an opaque reference to a firmware event.
type Event uintptr

// TPL is a task priority level. Code runs at a level; raising it masks event
// notifications at or below it until restored.
type TPL uintptr

// Standard priority levels. Levels between the named ones are valid for
// notifications; code must only raise to Callback, Notify or HighLevel.
const (
	TPLApplication TPL = 4
	TPLCallback    TPL = 8
	TPLNotify      TPL = 16
	TPLHighLevel   TPL = 31
)

// EventType selects the behavior of a created event.
type EventType uint32

// Event type bits from the UEFI specification.
const (
	EventTimer        EventType = 0x80000000
	EventNotifyWait   EventType = 0x00000100
	EventNotifySignal EventType = 0x00000200
)

// TableHeader precedes every EFI service table.
type TableHeader struct {
	Signature  uint64
	Revision   uint32
	HeaderSize uint32
	CRC32      uint32
	Reserved   uint32
}

// Service table signatures ("BOOTSERV", "RUNTSERV" as little-endian u64).
const (
	BootServicesSignature    uint64 = 0x56524553544f4f42
	RuntimeServicesSignature uint64 = 0x56524553544e5552
)

// Time is an EFI_TIME without the daylight/timezone raw fields surfaced.
type Time struct {
	Year       uint16
	Month      uint8
	Day        uint8
	Hour       uint8
	Minute     uint8
	Second     uint8
	Nanosecond uint32
}

// GoTime converts to a time.Time in UTC.
func (t Time) GoTime() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), int(t.Nanosecond), time.UTC)
}
