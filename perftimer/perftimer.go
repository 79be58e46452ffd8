// Package perftimer measures elapsed time from a monotonic tick counter.
// On firmware the counter is a hardware timer read through a Source the
// platform installs at startup; on a host the default source counts
// nanoseconds, so the package works unchanged in tests and tools.
package perftimer

import (
	"sync/atomic"
	"time"
)

// DefaultACPIFrequency is the ACPI PM timer rate in Hz, the usual tick
// source on x86 firmware.
const DefaultACPIFrequency = 3579545

// Source supplies monotonic ticks. Count must never decrease and Frequency
// must stay constant for the lifetime of the source.
type Source interface {
	// Count returns the current tick count.
	Count() uint64
	// Frequency returns the tick rate in Hz.
	Frequency() uint64
}

// TickSource adapts a raw counter read and a fixed rate into a Source, the
// shape platform glue usually has: a register read plus a known frequency.
type TickSource struct {
	Read func() uint64
	// Freq is the tick rate in Hz; zero means DefaultACPIFrequency.
	Freq uint64
}

func (s TickSource) Count() uint64 { return s.Read() }

func (s TickSource) Frequency() uint64 {
	if s.Freq == 0 {
		return DefaultACPIFrequency
	}

	return s.Freq
}

// hostSource counts nanoseconds of host monotonic time.
type hostSource struct {
	start time.Time
}

func (s hostSource) Count() uint64     { return uint64(time.Since(s.start)) }
func (s hostSource) Frequency() uint64 { return uint64(time.Second) }

var active atomic.Pointer[Source]

func init() {
	SetSource(hostSource{start: time.Now()})
}

// SetSource installs the tick source used by Now and FromCount. Platform
// glue calls it once during startup; instants taken from different sources
// must not be compared.
func SetSource(s Source) {
	active.Store(&s)
}

// Instant is a point on the tick counter's timeline.
type Instant struct {
	count     uint64
	frequency uint64
}

// Now captures the current instant.
func Now() Instant {
	s := *active.Load()

	return Instant{count: s.Count(), frequency: s.Frequency()}
}

// FromCount builds an instant from a raw tick count read elsewhere,
// interpreted at the installed source's frequency.
func FromCount(count uint64) Instant {
	s := *active.Load()

	return Instant{count: count, frequency: s.Frequency()}
}

// Count returns the raw tick count the instant was taken at.
func (i Instant) Count() uint64 { return i.count }

// DurationSince returns the time elapsed from earlier to i. It panics if
// earlier is the later instant, since a negative tick delta means the caller
// mixed up the operands or the sources.
func (i Instant) DurationSince(earlier Instant) time.Duration {
	if earlier.count > i.count {
		panic("perftimer: earlier instant is after this one")
	}
	ticks := i.count - earlier.count

	return time.Duration(float64(ticks) / float64(i.frequency) * float64(time.Second))
}

// Elapsed returns the time since the instant was captured.
func (i Instant) Elapsed() time.Duration {
	return Now().DurationSince(i)
}
