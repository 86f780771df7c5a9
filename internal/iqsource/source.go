// Package iqsource abstracts where the demodulator's raw I/Q stream comes
// from: a file or pipe already carrying signed 16-bit samples (the normal
// case, spec.md §5.1), or a live RTL-SDR device tuned to the UAT channel.
package iqsource

import (
	"context"
	"io"
)

// Source produces an io.Reader of little-endian signed 16-bit I/Q pairs,
// the wire format internal/demod.Demodulator.Run expects.
type Source interface {
	// Open returns a reader of CS16 I/Q samples. RTLSDRSource's reader
	// reaches EOF once ctx is canceled; FileSource returns its reader
	// unchanged, so a read blocked on it is not interrupted by ctx.
	Open(ctx context.Context) (io.Reader, error)
	// Close releases any underlying device or file handle.
	Close() error
}

// FileSource reads CS16 samples verbatim from an already-open reader, e.g.
// stdin or a replayed capture file. No conversion is needed because the
// file already holds the wire format.
type FileSource struct {
	r io.Reader
}

// NewFileSource wraps r as a Source.
func NewFileSource(r io.Reader) *FileSource {
	return &FileSource{r: r}
}

// Open implements Source.
func (f *FileSource) Open(ctx context.Context) (io.Reader, error) {
	return f.r, nil
}

// Close implements Source. FileSource does not own r, so there is nothing
// to release.
func (f *FileSource) Close() error { return nil }
