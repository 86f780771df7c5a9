package demodapp

import "uat978/internal/demod"

// Default configuration constants, matching the teacher's own
// DefaultFrequency/DefaultSampleRate/DefaultGain idiom in internal/app.
const (
	DefaultFrequency  = 978_000_000
	DefaultSampleRate = 2_083_334
	DefaultGain       = 0 // auto gain
)

// Config holds uat-demod's command-line configuration.
type Config struct {
	FISBOnly    bool
	ADSBOnly    bool
	Level       uint32
	ReplayTime  bool
	CaptureDir  string
	Device      int // RTL-SDR device index, -1 disables live capture
	Frequency   uint32
	SampleRate  uint32
	Gain        int
	LogDir      string
	Verbose     bool
	ShowVersion bool
}

// demodConfig translates the CLI configuration into internal/demod.Config.
func (c Config) demodConfig() demod.Config {
	cfg := demod.DefaultConfig()
	cfg.LevelThreshold = c.Level

	switch {
	case c.FISBOnly:
		cfg.EnableFISB, cfg.EnableADSB = true, false
	case c.ADSBOnly:
		cfg.EnableFISB, cfg.EnableADSB = false, true
	}

	if c.ReplayTime {
		cfg.Clock = &demod.ReplayClock{}
	}
	return cfg
}
