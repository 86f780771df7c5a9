package corrector

// ShiftStep is one entry in the shift-search schedule: a window direction
// (before/current/after) and, when Percent is nonzero, a mix weight in
// tenths to blend in with the current-phase sample (spec.md §4.2).
type ShiftStep struct {
	Direction phase
	Percent   int // 0 = pure shift; 1-9 = mix weight tenths
}

// DefaultSchedule returns the shift-search order tried after a block's
// direct RS attempt fails: first the two pure one-sample shifts (cheapest,
// most common real-world correction), then progressively finer before/
// after mixes.
func DefaultSchedule() []ShiftStep {
	sched := []ShiftStep{
		{Direction: phaseBefore, Percent: 0},
		{Direction: phaseAfter, Percent: 0},
	}
	for _, dir := range []phase{phaseBefore, phaseAfter} {
		for p := 1; p <= 9; p++ {
			sched = append(sched, ShiftStep{Direction: dir, Percent: p})
		}
	}
	return sched
}

// sliceStep slices nbits bits from samples per one schedule entry.
func sliceStep(samples []int32, step ShiftStep, nbits int) []byte {
	if step.Percent == 0 {
		return sliceBits(samples, step.Direction, nbits)
	}
	return mixBits(samples, step.Direction, step.Percent, nbits)
}
