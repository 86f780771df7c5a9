package demod

import (
	"math/bits"

	"uat978/internal/wireframe"
)

// sync36Mask keeps only the low 36 bits of a shift register, matching the
// 36-bit comparator window of spec.md §4.1.
const sync36Mask = (uint64(1) << 36) - 1

// syncConstants maps each enabled packet type to its 36-bit sync word.
var syncConstants = map[wireframe.PacketType]uint64{
	wireframe.FISB: 0x153225B1D,
	wireframe.ADSB: 0xEACDDA4E2,
}

// maxSyncHammingDistance is the largest Hamming distance from a candidate
// window to a sync constant that still counts as a match (spec.md §3).
const maxSyncHammingDistance = 4

// matchSync reports whether reg's low 36 bits are within the allowed
// Hamming distance of typ's sync constant, and the distance itself.
func matchSync(reg uint64, typ wireframe.PacketType) (matched bool, distance int) {
	want, ok := syncConstants[typ]
	if !ok {
		return false, 0
	}
	d := bits.OnesCount64((reg & sync36Mask) ^ want)
	return d <= maxSyncHammingDistance, d
}
