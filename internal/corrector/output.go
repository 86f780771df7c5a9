package corrector

import (
	"fmt"
	"math"
	"strings"
)

// uncorrectableSentinel marks a block RS could not repair after every
// heuristic in this package was exhausted.
const uncorrectableSentinel = 98

// notAttemptedSentinel marks a block that was never run through RS at all
// — the block-0 empty-uplink shortcut's way of saying "no data to find
// here", which must stay visibly distinct from an actual decode failure
// (spec.md §9 Open Question 2).
const notAttemptedSentinel = 99

// dump978RSSIOffsetDB is dump978-fa's RSSI calibration constant, copied
// verbatim rather than re-derived so that downstream tools comparing
// signal strength across both decoders see the same numbers (spec.md §9
// Open Question 3: treat as a compatibility constant, not a physical one).
const dump978RSSIOffsetDB = -44.0

// Output is one fully processed packet: a payload (hex-encoded in the
// wire line) plus the bookkeeping the line format carries alongside it.
type Output struct {
	FISB         bool
	Payload      []byte // nil when the frame was dropped entirely
	SyncErrors   int
	BlockErrors  []int // one entry (FIS-B: six) per RS block, in RS-decode order
	Level        uint32
	RSSI         float64
	EpochSeconds uint64
	EpochMillis  uint32
}

// rssiFromLevel converts a running signal level (the same units as the
// wire header's Level field) into the dBish RSSI figure the output line
// reports, applying dump978-fa's calibration offset.
func rssiFromLevel(level uint32) float64 {
	if level == 0 {
		return math.Inf(-1)
	}
	power := float64(level) / 1_000_000
	return 10*math.Log10(power) + dump978RSSIOffsetDB
}

// FormatLine renders one corrected packet as the wire output line:
// <P><hex payload>;rs=<syncErr>/<blockErrors>;ss=<level>/<rssi>;t=<epoch>.<ms>
// The corrector's callers only call this when o.Payload != nil; an
// uncorrectable packet has no payload line, only (optionally) a
// FormatFailureLine. With a nil Payload the hex field is simply empty.
func (o Output) FormatLine() string {
	prefix := "-"
	if o.FISB {
		prefix = "+"
	}

	blockField := formatBlockErrors(o.BlockErrors)

	return fmt.Sprintf("%s%x;rs=%d/%s;ss=%.2f/%.1f;t=%d.%03d",
		prefix, o.Payload, o.SyncErrors, blockField, levelMillionths(o.Level), o.RSSI, o.EpochSeconds, o.EpochMillis)
}

// FormatFailureLine renders the §6 archival line for a packet that could
// not be corrected: "#FAILED-FIS-B " or "#FAILED-ADS-B ", followed by the
// same sync/block-error and signal fields FormatLine uses, plus the
// original 36-byte wire header for later replay.
func (o Output) FormatFailureLine(header string) string {
	tag := "#FAILED-ADS-B"
	if o.FISB {
		tag = "#FAILED-FIS-B"
	}

	blockField := formatBlockErrors(o.BlockErrors)

	return fmt.Sprintf("%s rs=%d/%s;ss=%.2f/%.1f;t=%d.%03d;header=%s",
		tag, o.SyncErrors, blockField, levelMillionths(o.Level), o.RSSI, o.EpochSeconds, o.EpochMillis, header)
}

// levelMillionths converts the header's raw running-level integer into the
// floating value in millionths that spec §6's <level> field reports (e.g.
// a header Level of 3,760,000 prints as 3.76).
func levelMillionths(level uint32) float64 {
	return float64(level) / 1_000_000
}

func formatBlockErrors(errs []int) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("%02d", e)
	}
	return strings.Join(parts, ":")
}
