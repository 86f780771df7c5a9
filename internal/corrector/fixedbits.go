package corrector

import "uat978/internal/rs"

// OverlayPolicy controls how aggressively the first-six-bytes ground
// station overlay (spec.md §9 Open Question 1) trusts a caller-supplied
// candidate once it makes the block decode cleanly.
type OverlayPolicy int

const (
	// OverlayPolicyStrict only accepts an overlay candidate if
	// re-encoding the decoded result reproduces that candidate exactly —
	// i.e. RS itself, not the overlay, is what's vouching for the bytes.
	OverlayPolicyStrict OverlayPolicy = iota
	// OverlayPolicyPermissive accepts any candidate that makes the block
	// decode without error, even if the decoded data diverges from the
	// candidate elsewhere in the block.
	OverlayPolicyPermissive
)

// fixedBit is one known-constant bit in block 0's uplink frame header
// (DO-282B §3.2.3.2), forced to its documented value as a last-resort
// repair before giving up on the block.
type fixedBit struct {
	byteIdx int
	mask    byte
	value   byte
}

// block0FixedBits lists the reserved header bits known to always be zero
// in an uplink frame's first RS block.
var block0FixedBits = []fixedBit{
	{byteIdx: 0, mask: 0x80, value: 0x00},
}

// applyFixedBitRepair forces block 0's known-constant header bits to their
// documented values, returning a copy for a final RS retry.
func applyFixedBitRepair(block0 []byte) []byte {
	out := make([]byte, len(block0))
	copy(out, block0)
	for _, fb := range block0FixedBits {
		if fb.byteIdx < len(out) {
			out[fb.byteIdx] = (out[fb.byteIdx] &^ fb.mask) | fb.value
		}
	}
	return out
}

// applyFirstSixBytesOverlay tries each candidate ground-station ID prefix
// in turn, overlaying it onto block 0's first six bytes and re-attempting
// RS decode. It is disabled unless the caller supplies candidates via
// --first-six-bytes.
func applyFirstSixBytesOverlay(codec *rs.Codec, block0 []byte, candidates [][]byte, policy OverlayPolicy) (data []byte, ok bool) {
	for _, cand := range candidates {
		if len(cand) != 6 || len(block0) < 6 {
			continue
		}
		trial := make([]byte, len(block0))
		copy(trial, block0)
		copy(trial, cand)

		decoded, _, decodeOK := codec.Decode(trial)
		if !decodeOK {
			continue
		}
		if policy == OverlayPolicyStrict {
			reEncoded, err := codec.Encode(decoded)
			if err != nil || len(reEncoded) < 6 {
				continue
			}
			match := true
			for i := 0; i < 6; i++ {
				if reEncoded[i] != cand[i] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
		}
		return decoded, true
	}
	return nil, false
}
