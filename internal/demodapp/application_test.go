package demodapp

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uat978/internal/iqsource"
)

func TestNewApplicationSetsDebugLevelWhenVerbose(t *testing.T) {
	app := NewApplication(Config{Verbose: true})
	require.NotNil(t, app)
	assert.Equal(t, "debug", app.logger.GetLevel().String())
}

func TestInitializeSourceUsesStdinWhenDeviceDisabled(t *testing.T) {
	app := NewApplication(Config{Device: -1})
	app.logger.SetOutput(io.Discard)
	require.NoError(t, app.initializeSource())

	_, ok := app.source.(*iqsource.FileSource)
	assert.True(t, ok)
}
