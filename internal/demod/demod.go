// Package demod implements the continuous FM-style differential
// demodulation, signal-presence gating, and dual-phase sync detection
// described in spec.md §4.1. A Demodulator owns all of its working state
// (sample registers, energy window, shift registers) as struct fields —
// there is no package-level mutable state, so a single process can run
// more than one Demodulator if it ever needs to.
package demod

import (
	"fmt"
	"io"

	"uat978/internal/wireframe"
)

// energyWindowLen is the number of trailing |slice sample| values averaged
// into the "running level" signal-presence gate (spec.md §4.1).
const energyWindowLen = 72

// DefaultLevelThreshold is the default signal-presence gate floor, in the
// same millionths units as the CLI's --level flag and the wire header's
// Level field.
const DefaultLevelThreshold = 900_000

// State is the per-sample state machine position (spec.md §4.1).
type State int

const (
	// GatedClosed means the running level is at or below threshold; sync
	// search is skipped entirely.
	GatedClosed State = iota
	// GatedOpen means sync search is active.
	GatedOpen
	// Emitting means a sync match fired and packet samples are being
	// collected into the current frame.
	Emitting
)

func (s State) String() string {
	switch s {
	case GatedClosed:
		return "GATED_CLOSED"
	case GatedOpen:
		return "GATED_OPEN"
	case Emitting:
		return "EMITTING"
	default:
		return "UNKNOWN"
	}
}

// Config configures which packet types are searched for and the gate
// threshold.
type Config struct {
	EnableFISB     bool
	EnableADSB     bool
	LevelThreshold uint32
	Clock          Clock
}

// DefaultConfig returns a Config with both packet types enabled and the
// default gate threshold.
func DefaultConfig() Config {
	return Config{
		EnableFISB:     true,
		EnableADSB:     true,
		LevelThreshold: DefaultLevelThreshold,
		Clock:          WallClock{},
	}
}

// Frame is one emitted packet sample frame plus its metadata header.
type Frame struct {
	Header  wireframe.Header
	Samples []int32
}

// Demodulator holds all state owned by one demodulation hot path: the
// trailing I/Q samples needed for the two-sample differential, the
// 72-sample energy ring, the two 64-bit phase shift registers, and the
// current state-machine position.
type Demodulator struct {
	cfg Config

	state State

	// iHist/qHist hold the two most recent I/Q samples (index 0 = most
	// recent), so s[n] = iHist[1]*q[n] - i[n]*qHist[1] can be computed
	// for the incoming sample.
	iHist [2]int16
	qHist [2]int16
	n     uint64 // total samples seen, for A/B phase alternation

	energyRing [energyWindowLen]int64
	energyPos  int
	energySum  int64

	regA, regB uint64

	matchType   wireframe.PacketType
	matchLevel  uint32
	matchErrors int

	frame      []int32
	frameWant  int
	frameStamp wireframe.Header
}

// New creates a Demodulator ready to process an IQ stream from sample
// index zero.
func New(cfg Config) *Demodulator {
	if cfg.Clock == nil {
		cfg.Clock = WallClock{}
	}
	return &Demodulator{cfg: cfg, state: GatedOpen}
}

// State returns the demodulator's current state-machine position.
func (d *Demodulator) State() State { return d.state }

// RunningLevel returns the current 72-sample running level (the sum of |s|
// over the trailing window divided by 72), matching the header's Level
// field units.
func (d *Demodulator) RunningLevel() uint32 {
	avg := d.energySum / energyWindowLen
	if avg < 0 {
		return 0
	}
	if avg > 99_999_999 {
		return 99_999_999
	}
	return uint32(avg)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Step processes one new I/Q pair and returns a completed Frame if this
// sample finished one (either because it was the last sample of a
// post-sync frame, or — there is no other case, a frame only ever
// completes by filling).
func (d *Demodulator) Step(i, q int16) *Frame {
	// Two-sample differential: s[n] = I[n-2]*Q[n] - I[n]*Q[n-2].
	s := int64(d.iHist[1])*int64(q) - int64(i)*int64(d.qHist[1])

	d.iHist[1] = d.iHist[0]
	d.qHist[1] = d.qHist[0]
	d.iHist[0] = i
	d.qHist[0] = q

	// Signal-presence gate: sliding sum of |s| over the trailing window.
	d.energySum -= d.energyRing[d.energyPos]
	mag := abs64(s)
	d.energyRing[d.energyPos] = mag
	d.energySum += mag
	d.energyPos = (d.energyPos + 1) % energyWindowLen

	n := d.n
	d.n++

	if d.state == Emitting {
		d.frame = append(d.frame, int32(s))
		if len(d.frame) >= d.frameWant {
			frame := &Frame{Header: d.frameStamp, Samples: d.frame}
			d.frame = nil
			d.frameWant = 0
			d.state = GatedOpen
			return frame
		}
		return nil
	}

	// Phase A absorbs even-indexed samples, phase B odd-indexed ones.
	bit := uint64(0)
	if s >= 0 {
		bit = 1
	}
	if n%2 == 0 {
		d.regA = (d.regA << 1) | bit
	} else {
		d.regB = (d.regB << 1) | bit
	}

	level := d.RunningLevel()
	if level <= d.cfg.LevelThreshold {
		d.state = GatedClosed
		return nil
	}
	d.state = GatedOpen

	if d.tryMatch(wireframe.FISB, level) {
		d.beginFrame(wireframe.FISB, level)
		return nil
	}
	if d.tryMatch(wireframe.ADSB, level) {
		d.beginFrame(wireframe.ADSB, level)
		return nil
	}
	return nil
}

func (d *Demodulator) tryMatch(typ wireframe.PacketType, level uint32) bool {
	switch typ {
	case wireframe.FISB:
		if !d.cfg.EnableFISB {
			return false
		}
	case wireframe.ADSB:
		if !d.cfg.EnableADSB {
			return false
		}
	}

	// Phase invariant: examine both interleaved registers before
	// consuming more input.
	if ok, dist := matchSync(d.regA, typ); ok {
		d.matchErrors = dist
		return true
	}
	if ok, dist := matchSync(d.regB, typ); ok {
		d.matchErrors = dist
		return true
	}
	return false
}

func (d *Demodulator) beginFrame(typ wireframe.PacketType, level uint32) {
	// Both registers are cleared on match; the next search resumes only
	// after the packet frame completes.
	d.regA = 0
	d.regB = 0

	secs, nanos := d.cfg.Clock.Now()
	secs, nanos = backdateToSyncStart(secs, nanos)

	d.state = Emitting
	d.frame = make([]int32, 0, typ.SampleCount())
	d.frameWant = typ.SampleCount()
	d.frameStamp = wireframe.Header{
		Seconds:    secs,
		Micros:     nanos / 1000,
		Type:       typ,
		Level:      level,
		SyncErrors: d.matchErrors,
	}
}

// Run drives the demodulator over an IQ byte stream read from r, writing
// every completed frame to w. It returns nil on a clean EOF (aligned on an
// IQ pair boundary) and a non-nil error on any other I/O failure, per
// spec.md §7's fatal-I/O-error policy.
func (d *Demodulator) Run(r io.Reader, w io.Writer) error {
	for {
		i, q, err := wireframe.ReadIQPair(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("demod: reading IQ stream: %w", err)
		}

		if frame := d.Step(i, q); frame != nil {
			if err := wireframe.WriteFrame(w, frame.Header, frame.Samples); err != nil {
				return fmt.Errorf("demod: writing frame: %w", err)
			}
		}
	}
}
