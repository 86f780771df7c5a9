package demodapp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uat978/internal/demod"
)

func TestDemodConfigDefaultsEnableBothTypes(t *testing.T) {
	c := Config{Level: 500_000}
	dc := c.demodConfig()
	assert.True(t, dc.EnableFISB)
	assert.True(t, dc.EnableADSB)
	assert.Equal(t, uint32(500_000), dc.LevelThreshold)
}

func TestDemodConfigFISBOnlyDisablesADSB(t *testing.T) {
	c := Config{FISBOnly: true}
	dc := c.demodConfig()
	assert.True(t, dc.EnableFISB)
	assert.False(t, dc.EnableADSB)
}

func TestDemodConfigADSBOnlyDisablesFISB(t *testing.T) {
	c := Config{ADSBOnly: true}
	dc := c.demodConfig()
	assert.False(t, dc.EnableFISB)
	assert.True(t, dc.EnableADSB)
}

func TestDemodConfigReplayTimeUsesReplayClock(t *testing.T) {
	c := Config{ReplayTime: true}
	dc := c.demodConfig()
	_, ok := dc.Clock.(*demod.ReplayClock)
	assert.True(t, ok)
}
