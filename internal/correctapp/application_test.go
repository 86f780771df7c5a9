package correctapp

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uat978/internal/corrector"
	"uat978/internal/wireframe"
)

func newTestApp(t *testing.T, cfg Config) *Application {
	t.Helper()
	app, err := NewApplication(cfg)
	require.NoError(t, err)
	app.logger.SetOutput(io.Discard)
	return app
}

func writeGarbageFrame(t *testing.T, w io.Writer, typ wireframe.PacketType) wireframe.Header {
	t.Helper()
	h := wireframe.Header{Type: typ, Seconds: 100}
	samples := make([]int32, typ.SampleCount())
	require.NoError(t, wireframe.WriteFrame(w, h, samples))
	return h
}

func TestRunWritesNothingForUncorrectableFrameByDefault(t *testing.T) {
	app := newTestApp(t, Config{})

	var in, out bytes.Buffer
	writeGarbageFrame(t, &in, wireframe.ADSB)

	require.NoError(t, app.run(&in, &out))
	assert.Empty(t, out.String())
}

func TestRunWritesFailureLineWhenFailADSBSet(t *testing.T) {
	app := newTestApp(t, Config{FailADSB: true})

	var in, out bytes.Buffer
	writeGarbageFrame(t, &in, wireframe.ADSB)

	require.NoError(t, app.run(&in, &out))

	line := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(line, "#FAILED-ADS-B "))
}

func TestRunOmitsFailureLineForDisabledType(t *testing.T) {
	app := newTestApp(t, Config{FailFISB: true})

	var in, out bytes.Buffer
	writeGarbageFrame(t, &in, wireframe.ADSB)

	require.NoError(t, app.run(&in, &out))
	assert.Empty(t, out.String())
}

func TestRunSkipsDisabledPacketType(t *testing.T) {
	app := newTestApp(t, Config{FISBOnly: true})

	var in, out bytes.Buffer
	writeGarbageFrame(t, &in, wireframe.ADSB)

	require.NoError(t, app.run(&in, &out))
	assert.Empty(t, out.String())
}

func TestRunWritesFailCaptureFileForUncorrectableFrame(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, Config{FailCaptureDir: dir})

	var in, out bytes.Buffer
	h := writeGarbageFrame(t, &in, wireframe.ADSB)

	require.NoError(t, app.run(&in, &out))

	path := filepath.Join(dir, wireframe.CaptureFileName(h))
	assert.FileExists(t, path)
}

func TestRunWritesCaptureFileForEveryFrameRegardlessOfOutcome(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, Config{CaptureDir: dir})

	var in, out bytes.Buffer
	h := writeGarbageFrame(t, &in, wireframe.FISB)

	require.NoError(t, app.run(&in, &out))

	path := filepath.Join(dir, wireframe.CaptureFileName(h))
	assert.FileExists(t, path)
}

func TestEnabledTypeRespectsFISBAndADSBOnlyFlags(t *testing.T) {
	app := newTestApp(t, Config{})
	assert.True(t, app.enabledType(wireframe.Header{Type: wireframe.FISB}))
	assert.True(t, app.enabledType(wireframe.Header{Type: wireframe.ADSB}))

	app = newTestApp(t, Config{FISBOnly: true})
	assert.True(t, app.enabledType(wireframe.Header{Type: wireframe.FISB}))
	assert.False(t, app.enabledType(wireframe.Header{Type: wireframe.ADSB}))

	app = newTestApp(t, Config{ADSBOnly: true})
	assert.False(t, app.enabledType(wireframe.Header{Type: wireframe.FISB}))
	assert.True(t, app.enabledType(wireframe.Header{Type: wireframe.ADSB}))
}

func TestRecordResultTracksCorrectedVsUncorrectable(t *testing.T) {
	app := newTestApp(t, Config{})
	app.recordResult(corrector.Output{Payload: []byte{1}})
	app.recordResult(corrector.Output{Payload: nil})

	app.statsMu.Lock()
	defer app.statsMu.Unlock()
	assert.Equal(t, uint64(2), app.total)
	assert.Equal(t, uint64(1), app.ok)
	assert.Equal(t, uint64(1), app.uncorrected)
}
