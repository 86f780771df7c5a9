package correctapp

import (
	"encoding/hex"
	"fmt"
	"strings"

	"uat978/internal/corrector"
)

// Config holds uat-correct's command-line configuration.
type Config struct {
	FISBOnly bool
	ADSBOnly bool

	NoTrailingZeroRepair bool
	NoFixedBitRepair     bool
	FirstSixBytes        []string // hex-encoded 6-byte candidates
	OverlayPolicy        string   // "strict" (default) or "permissive"

	FailFISB       bool
	FailADSB       bool
	CaptureDir     string
	FailCaptureDir string
	LogDir         string

	Verbose     bool
	ShowVersion bool
}

// correctorConfig translates CLI flags into corrector.Config, decoding the
// hex first-six-bytes candidates and the overlay policy flag.
func (c Config) correctorConfig() (corrector.Config, error) {
	cfg := corrector.Config{
		DisableTrailingZeroRepair: c.NoTrailingZeroRepair,
		DisableFixedBitRepair:     c.NoFixedBitRepair,
	}

	switch strings.ToLower(c.OverlayPolicy) {
	case "", "strict":
		cfg.OverlayPolicy = corrector.OverlayPolicyStrict
	case "permissive":
		cfg.OverlayPolicy = corrector.OverlayPolicyPermissive
	default:
		return cfg, fmt.Errorf("unknown --legacy-overlay-policy %q (want strict or permissive)", c.OverlayPolicy)
	}

	for _, h := range c.FirstSixBytes {
		b, err := hex.DecodeString(h)
		if err != nil {
			return cfg, fmt.Errorf("invalid --first-six-bytes candidate %q: %w", h, err)
		}
		if len(b) != 6 {
			return cfg, fmt.Errorf("--first-six-bytes candidate %q must decode to 6 bytes, got %d", h, len(b))
		}
		cfg.FirstSixBytesCandidates = append(cfg.FirstSixBytesCandidates, b)
	}

	return cfg, nil
}
