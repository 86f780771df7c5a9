package demod

import "time"

// syncWindowNanos is the duration the 72-sample energy/sync window spans at
// 0.48 microseconds per sample (2,083,334 samples/s), used to back-date a
// match's reported arrival time to the start of its sync word rather than
// the instant the comparator actually fired (spec.md §4.1 "Timing").
const syncWindowNanos = 72 * 480

// Clock supplies the wall-clock (or replay-synthetic) time stamped on each
// emitted frame header.
type Clock interface {
	// Now returns seconds since the Unix epoch and the nanosecond
	// remainder within that second.
	Now() (seconds uint64, nanos uint32)
}

// WallClock is the normal, live-capture clock.
type WallClock struct{}

// Now implements Clock using the real system clock.
func (WallClock) Now() (uint64, uint32) {
	t := time.Now()
	return uint64(t.Unix()), uint32(t.Nanosecond())
}

// ReplayClock is the file-replay clock: a synthetic monotonic millisecond
// counter that wraps at 1000ms, so replayed capture filenames keep sorting
// correctly even though there is no real wall-clock backing them
// (spec.md §4.1).
type ReplayClock struct {
	secs uint64
	ms   uint32
}

// Now implements Clock, advancing the synthetic counter by one millisecond
// on every call and reporting seconds as the number of whole wraps seen.
func (c *ReplayClock) Now() (uint64, uint32) {
	seconds, ms := c.secs, c.ms
	c.ms++
	if c.ms >= 1000 {
		c.ms = 0
		c.secs++
	}
	return seconds, ms * 1_000_000
}

// backdateToSyncStart subtracts the energy-window duration from a (seconds,
// nanos) timestamp, rolling seconds over on underflow.
func backdateToSyncStart(seconds uint64, nanos uint32) (uint64, uint32) {
	n := int64(nanos) - syncWindowNanos
	for n < 0 {
		n += 1_000_000_000
		if seconds > 0 {
			seconds--
		}
	}
	return seconds, uint32(n)
}
