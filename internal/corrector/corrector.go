package corrector

import (
	"uat978/internal/rs"
	"uat978/internal/wireframe"
)

// Config controls which repair heuristics a Decode call is allowed to use.
type Config struct {
	DisableTrailingZeroRepair bool
	DisableFixedBitRepair     bool
	FirstSixBytesCandidates   [][]byte
	OverlayPolicy             OverlayPolicy
}

var (
	adsbLongCodec  = rs.NewCodec(48, 14)
	adsbShortCodec = rs.NewCodec(30, 12)
	fisbBlockCodec = rs.NewCodec(FISBBlockLen, 20)
)

// Decode dispatches a demodulated frame to the FIS-B or ADS-B decode path
// by its wire header type.
func Decode(h wireframe.Header, samples []int32, cfg Config) Output {
	if h.Type == wireframe.FISB {
		return DecodeFISB(h, samples, cfg)
	}
	return DecodeADSB(h, samples, cfg)
}

// DecodeADSB recovers the payload of an ADS-B long or short message frame.
// The two formats share a frame buffer, so the first byte's top five bits
// — all zero only for the short format — decide which RS code applies
// before any shift search begins (spec.md §4.2).
func DecodeADSB(h wireframe.Header, samples []int32, cfg Config) Output {
	probe := sliceBits(samples, phaseCurrent, 8)
	short := len(probe) > 0 && probe[0]>>3 == 0

	codec := adsbLongCodec
	if short {
		codec = adsbShortCodec
	}
	nbits := codec.N() * 8

	direct := sliceBits(samples, phaseCurrent, nbits)
	if data, errs, ok := codec.Decode(direct); ok {
		return buildOutput(h, data, []int{errs})
	}

	sched := DefaultSchedule()
	for _, step := range sched {
		trial := sliceStep(samples, step, nbits)
		if data, errs, ok := codec.Decode(trial); ok {
			return buildOutput(h, data, []int{errs})
		}
	}

	if !cfg.DisableTrailingZeroRepair {
		if data, errs, ok := repairTrailingZero(codec, direct); ok {
			return buildOutput(h, data, []int{errs})
		}
	}

	return failedOutput(h, []int{uncorrectableSentinel})
}

// DecodeFISB recovers the 432-byte uplink payload of a FIS-B frame from
// its six interleaved RS(92,72) blocks, applying the shift-search and
// repair heuristics per block independently and carrying forward whichever
// shift most recently worked as a hint for the next block (spec.md §4.2).
func DecodeFISB(h wireframe.Header, samples []int32, cfg Config) Output {
	nbits := FISBBlocks * FISBBlockLen * 8
	codec := fisbBlockCodec

	direct := DeinterleaveFISB(sliceBits(samples, phaseCurrent, nbits))

	dataBlocks := make([][]byte, FISBBlocks)
	blockErrs := make([]int, FISBBlocks)
	for i := range blockErrs {
		blockErrs[i] = uncorrectableSentinel
	}

	for b := 0; b < FISBBlocks; b++ {
		if data, errs, ok := codec.Decode(direct[b]); ok {
			dataBlocks[b] = data
			blockErrs[b] = errs
		}
	}

	if dataBlocks[0] != nil && blockZeroIsEmptyUplink(dataBlocks[0]) {
		for b := 1; b < FISBBlocks; b++ {
			if dataBlocks[b] == nil {
				blockErrs[b] = notAttemptedSentinel
			}
		}
		return buildOutput(h, assembleFISBPayload(dataBlocks), blockErrs)
	}

	sched := DefaultSchedule()
	hint := -1
	for b := 0; b < FISBBlocks; b++ {
		if dataBlocks[b] != nil {
			continue
		}

		if data, errs, stepIdx, ok := searchShiftSchedule(codec, samples, b, nbits, sched, hint); ok {
			dataBlocks[b] = data
			blockErrs[b] = errs
			hint = stepIdx
			continue
		}

		if !cfg.DisableTrailingZeroRepair {
			if data, errs, ok := repairTrailingZero(codec, direct[b]); ok {
				dataBlocks[b] = data
				blockErrs[b] = errs
				continue
			}
		}

		if b == 0 && !cfg.DisableFixedBitRepair {
			fixed := applyFixedBitRepair(direct[b])
			if data, errs, ok := codec.Decode(fixed); ok {
				dataBlocks[b] = data
				blockErrs[b] = errs
				continue
			}
			if len(cfg.FirstSixBytesCandidates) > 0 {
				if data, ok := applyFirstSixBytesOverlay(codec, direct[b], cfg.FirstSixBytesCandidates, cfg.OverlayPolicy); ok {
					dataBlocks[b] = data
					blockErrs[b] = 0
					continue
				}
			}
		}
	}

	return buildOutput(h, assembleFISBPayload(dataBlocks), blockErrs)
}

// searchShiftSchedule re-slices the whole frame under each schedule step
// in turn, trying the caller's hint first, and returns the first step that
// lets blockIdx decode cleanly.
func searchShiftSchedule(codec *rs.Codec, samples []int32, blockIdx, nbits int, sched []ShiftStep, hint int) (data []byte, errs, stepIdx int, ok bool) {
	try := func(idx int) bool {
		raw := sliceStep(samples, sched[idx], nbits)
		blocks := DeinterleaveFISB(raw)
		d, e, decOK := codec.Decode(blocks[blockIdx])
		if decOK {
			data, errs, stepIdx = d, e, idx
		}
		return decOK
	}

	if hint >= 0 && hint < len(sched) && try(hint) {
		return data, errs, stepIdx, true
	}
	for idx := range sched {
		if idx == hint {
			continue
		}
		if try(idx) {
			return data, errs, stepIdx, true
		}
	}
	return nil, 0, -1, false
}

func repairTrailingZero(codec *rs.Codec, block []byte) (data []byte, errs int, ok bool) {
	for _, run := range trailingZeroCandidates {
		trial := applyTrailingZeroRepair(block, run)
		if d, e, decOK := codec.Decode(trial); decOK {
			return d, e, true
		}
	}
	return nil, 0, false
}

// assembleFISBPayload reassembles the 432-byte uplink message from six
// 72-byte data blocks, applying the same byte-column interleave the RS
// encoder used (data byte m lives in block m%6 at offset m/6).
func assembleFISBPayload(blocks [][]byte) []byte {
	const dataLen = FISBBlockLen - 20
	full := make([]byte, FISBBlocks*dataLen)
	for b := 0; b < FISBBlocks; b++ {
		block := blocks[b]
		for i := 0; i < dataLen; i++ {
			var v byte
			if block != nil && i < len(block) {
				v = block[i]
			}
			full[i*FISBBlocks+b] = v
		}
	}
	return full
}

func buildOutput(h wireframe.Header, payload []byte, blockErrs []int) Output {
	return Output{
		FISB:         h.Type == wireframe.FISB,
		Payload:      payload,
		SyncErrors:   h.SyncErrors,
		BlockErrors:  blockErrs,
		Level:        h.Level,
		RSSI:         rssiFromLevel(h.Level),
		EpochSeconds: h.Seconds,
		EpochMillis:  h.Micros / 1000,
	}
}

func failedOutput(h wireframe.Header, blockErrs []int) Output {
	return buildOutput(h, nil, blockErrs)
}
