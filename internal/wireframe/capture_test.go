package wireframe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureFileNameMatchesSpecFormat(t *testing.T) {
	h := Header{Seconds: 1700000000, Micros: 500123, Type: FISB}
	assert.Equal(t, "1700000000.500.f.i32", CaptureFileName(h))

	h.Type = ADSB
	assert.Equal(t, "1700000000.500.a.i32", CaptureFileName(h))
}

func TestWriteCaptureFileRoundTripsThroughReadCaptureFile(t *testing.T) {
	dir := t.TempDir()
	h := Header{Seconds: 42, Micros: 1000, Type: ADSB}
	samples := []int32{1, -2, 3, -4, 5}

	require.NoError(t, WriteCaptureFile(dir, h, samples))

	got, err := ReadCaptureFile(filepath.Join(dir, CaptureFileName(h)))
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestReadCaptureFileRejectsTruncatedLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.i32")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	_, err := ReadCaptureFile(path)
	assert.Error(t, err)
}
