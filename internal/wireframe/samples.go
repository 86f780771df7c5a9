package wireframe

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteFrame writes a header followed by exactly len(samples) little-endian
// int32 values. len(samples) must equal h.Type.SampleCount(); this is the
// demodulator's only write path to its stdout.
func WriteFrame(w io.Writer, h Header, samples []int32) error {
	want := h.Type.SampleCount()
	if len(samples) != want {
		return fmt.Errorf("wireframe: %d samples for type %s, want %d", len(samples), h.Type, want)
	}
	if _, err := w.Write(h.Encode()); err != nil {
		return err
	}
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(s))
	}
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one header and its associated samples from r. io.EOF is
// returned unmodified when r is exhausted exactly at a frame boundary (a
// clean shutdown per spec.md §7); any other short read is wrapped as a
// malformed-frame error, which callers must treat as fatal.
func ReadFrame(r io.Reader) (Header, []int32, error) {
	var hdrBuf [HeaderLen]byte
	if _, err := io.ReadFull(r, hdrBuf[:]); err != nil {
		if err == io.EOF {
			return Header{}, nil, io.EOF
		}
		return Header{}, nil, &ErrMalformedHeader{Reason: "short header read: " + err.Error()}
	}

	h, err := Parse(hdrBuf[:])
	if err != nil {
		return Header{}, nil, err
	}

	n := h.Type.SampleCount()
	raw := make([]byte, 4*n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, nil, &ErrMalformedHeader{Reason: "short sample read: " + err.Error()}
	}

	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return h, samples, nil
}

// ReadIQPair reads one little-endian signed 16-bit I/Q pair from r.
func ReadIQPair(r io.Reader) (i, q int16, err error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, err
	}
	i = int16(binary.LittleEndian.Uint16(buf[0:2]))
	q = int16(binary.LittleEndian.Uint16(buf[2:4]))
	return i, q, nil
}
