package wireframe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"fisb nominal", Header{Seconds: 1700000000, Micros: 123456, Type: FISB, Level: 900000, SyncErrors: 0}},
		{"adsb with sync errors", Header{Seconds: 42, Micros: 7, Type: ADSB, Level: 3760000, SyncErrors: 4}},
		{"level clamped", Header{Seconds: 1, Micros: 1, Type: FISB, Level: 999999999, SyncErrors: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := tt.h.Encode()
			require.Len(t, wire, HeaderLen)

			got, err := Parse(wire)
			require.NoError(t, err)

			assert.Equal(t, tt.h.Seconds, got.Seconds)
			assert.Equal(t, tt.h.Micros, got.Micros)
			assert.Equal(t, tt.h.Type, got.Type)
			assert.Equal(t, tt.h.SyncErrors, got.SyncErrors)
			if tt.h.Level > 99999999 {
				assert.Equal(t, uint32(99999999), got.Level)
			} else {
				assert.Equal(t, tt.h.Level, got.Level)
			}
		})
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := Parse([]byte("too short"))
	require.Error(t, err)
	var malformed *ErrMalformedHeader
	assert.ErrorAs(t, err, &malformed)
}

func TestParseRejectsUnknownType(t *testing.T) {
	h := Header{Seconds: 1, Micros: 1, Type: FISB, Level: 1, SyncErrors: 0}
	wire := h.Encode()
	wire[18] = 'Z' // clobber the type byte
	_, err := Parse(wire)
	require.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	h := Header{Seconds: 100, Micros: 500000, Type: ADSB, Level: 12345, SyncErrors: 1}
	samples := make([]int32, h.Type.SampleCount())
	for i := range samples {
		samples[i] = int32(i) - 100
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, h, samples))

	gotH, gotSamples, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, h.Seconds, gotH.Seconds)
	assert.Equal(t, h.Type, gotH.Type)
	assert.Equal(t, samples, gotSamples)
}

func TestWriteFrameRejectsWrongSampleCount(t *testing.T) {
	h := Header{Type: FISB}
	err := WriteFrame(&bytes.Buffer{}, h, make([]int32, 3))
	require.Error(t, err)
}
