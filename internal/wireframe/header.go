// Package wireframe implements the self-delimiting byte-stream framing that
// the demodulator writes to its stdout and the error corrector reads from
// its stdin: a fixed 36-byte ASCII header followed by a run of little-endian
// signed 32-bit sample values.
package wireframe

import (
	"fmt"
	"strconv"
	"strings"
)

// HeaderLen is the exact on-wire size of a Header, in bytes.
const HeaderLen = 36

// PacketType identifies which sync word a frame matched.
type PacketType byte

const (
	// FISB marks a frame that matched the FIS-B ground-uplink sync word.
	FISB PacketType = 'F'
	// ADSB marks a frame that matched the ADS-B sync word.
	ADSB PacketType = 'A'
)

// SampleCount returns the number of little-endian int32 samples that follow
// a header of this type on the wire.
func (t PacketType) SampleCount() int {
	switch t {
	case FISB:
		return 2*4416 + 3
	case ADSB:
		return 2*384 + 3
	default:
		return 0
	}
}

func (t PacketType) String() string {
	switch t {
	case FISB:
		return "FIS-B"
	case ADSB:
		return "ADS-B"
	default:
		return fmt.Sprintf("unknown(%c)", byte(t))
	}
}

// Header is the metadata that precedes every packet sample frame. Seconds
// and Micros together give the arrival time of the start of the sync word,
// not the end of the packet (the timing invariant of spec.md §3).
type Header struct {
	Seconds    uint64
	Micros     uint32
	Type       PacketType
	Level      uint32 // running level at sync, clamped to [0, 99999999]
	SyncErrors int    // Hamming distance at match time, 0..4
}

// Encode renders the header as the exact 36-byte ASCII wire form:
//
//	SSSSSSSSSS.UUUUUU.T.LLLLLLLL.E
//
// right-padded with spaces to exactly 36 bytes (the natural rendering is
// 30 bytes, so normally six spaces are added).
func (h Header) Encode() []byte {
	level := h.Level
	if level > 99999999 {
		level = 99999999
	}
	s := fmt.Sprintf("%010d.%06d.%c.%08d.%d",
		h.Seconds%10000000000, h.Micros%1000000, byte(h.Type), level, h.SyncErrors&0xF)
	if len(s) < HeaderLen {
		s += strings.Repeat(" ", HeaderLen-len(s))
	}
	return []byte(s[:HeaderLen])
}

// ErrMalformedHeader is returned by Parse when a header cannot be decoded;
// per spec.md §7 this is always a fatal framing error for the reader.
type ErrMalformedHeader struct {
	Reason string
}

func (e *ErrMalformedHeader) Error() string {
	return fmt.Sprintf("malformed frame header: %s", e.Reason)
}

// Parse decodes a 36-byte wire header. buf must be exactly HeaderLen bytes.
func Parse(buf []byte) (Header, error) {
	var h Header
	if len(buf) != HeaderLen {
		return h, &ErrMalformedHeader{Reason: fmt.Sprintf("length %d != %d", len(buf), HeaderLen)}
	}
	fields := strings.SplitN(strings.TrimRight(string(buf), " "), ".", 5)
	if len(fields) != 5 {
		return h, &ErrMalformedHeader{Reason: "expected 5 dot-separated fields"}
	}

	seconds, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return h, &ErrMalformedHeader{Reason: "bad seconds field: " + err.Error()}
	}
	micros, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return h, &ErrMalformedHeader{Reason: "bad microseconds field: " + err.Error()}
	}
	if len(fields[2]) != 1 {
		return h, &ErrMalformedHeader{Reason: "type field must be one byte"}
	}
	ptype := PacketType(fields[2][0])
	if ptype != FISB && ptype != ADSB {
		return h, &ErrMalformedHeader{Reason: fmt.Sprintf("unknown type byte %q", fields[2])}
	}
	level, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return h, &ErrMalformedHeader{Reason: "bad level field: " + err.Error()}
	}
	errs, err := strconv.Atoi(fields[4])
	if err != nil || errs < 0 || errs > 4 {
		return h, &ErrMalformedHeader{Reason: "bad sync-error field"}
	}

	h.Seconds = seconds
	h.Micros = uint32(micros)
	h.Type = ptype
	h.Level = uint32(level)
	h.SyncErrors = errs
	return h, nil
}
