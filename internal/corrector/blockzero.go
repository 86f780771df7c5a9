package corrector

// blockZeroIsEmptyUplink reports whether a decoded block 0 is the
// canonical empty/idle uplink frame, in which case the remaining five
// FIS-B blocks carry no APDU data and the shift-search schedule does not
// need to be run against them at all (mirrors production UAT correctors'
// short-frame fast path; spec.md §4.2's block-0 shortcut).
func blockZeroIsEmptyUplink(block0 []byte) bool {
	if len(block0) == 0 {
		return false
	}
	for _, b := range block0 {
		if b != 0 {
			return false
		}
	}
	return true
}

// trailingZeroCandidates is the set of trailing-byte run lengths the
// trailing-zero repair heuristic tries, forcing that many bytes at the
// end of a block to zero before retrying RS. Short uplink messages
// routinely pad their last few payload bytes with zeros, so a block whose
// only remaining errors are in that padding is recoverable this way even
// when RS alone reports too many errors to locate.
var trailingZeroCandidates = []int{1, 2, 3, 4}

func applyTrailingZeroRepair(block []byte, run int) []byte {
	trial := make([]byte, len(block))
	copy(trial, block)
	for i := len(trial) - run; i < len(trial) && i >= 0; i++ {
		trial[i] = 0
	}
	return trial
}
