package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uat978/internal/wireframe"
)

// bitsToSamples synthesizes a raw slice-sample frame (one leading sample,
// then two per bit) in which bit i's "current" sample (index 2i+1) and its
// "before" sample (index 2i) both carry bit i, so a clean decode exercises
// exactly the bit values in data. The "after" sample (index 2i+2) carries
// the next bit.
func bitsToSamples(data []byte, nbits int) []int32 {
	total := 2*nbits + 3
	samples := make([]int32, total)
	for i := 0; i < nbits; i++ {
		bit := (data[i/8] >> uint(7-i%8)) & 1
		v := int32(-1_000_000)
		if bit == 1 {
			v = 1_000_000
		}
		for _, idx := range []int{2 * i, 2*i + 1, 2*i + 2} {
			if idx >= 0 && idx < total {
				samples[idx] = v
			}
		}
	}
	return samples
}

func sampleData(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(int(seed) + i*53)
	}
	return b
}

func TestDecodeADSBLongCleanRoundTrip(t *testing.T) {
	data := sampleData(adsbLongCodec.K(), 0x10)
	data[0] = 0xF8 // top 5 bits nonzero: long format

	codeword, err := adsbLongCodec.Encode(data)
	require.NoError(t, err)

	samples := bitsToSamples(codeword, adsbLongCodec.N()*8)
	h := wireframe.Header{Type: wireframe.ADSB, Seconds: 1, Level: 123}

	out := Decode(h, samples, Config{})
	require.NotNil(t, out.Payload)
	assert.Equal(t, data, out.Payload)
	assert.Equal(t, []int{0}, out.BlockErrors)
	assert.False(t, out.FISB)
}

func TestDecodeADSBShortCleanRoundTrip(t *testing.T) {
	data := sampleData(adsbShortCodec.K(), 0x20)
	data[0] = 0x03 // top 5 bits zero: short format

	codeword, err := adsbShortCodec.Encode(data)
	require.NoError(t, err)

	samples := bitsToSamples(codeword, adsbShortCodec.N()*8)
	h := wireframe.Header{Type: wireframe.ADSB, Seconds: 2, Level: 456}

	out := Decode(h, samples, Config{})
	require.NotNil(t, out.Payload)
	assert.Equal(t, data, out.Payload)
}

func fisbTestBlocks(seeds [FISBBlocks]byte) ([FISBBlocks][]byte, [][]byte) {
	var codewords [FISBBlocks][]byte
	dataBlocks := make([][]byte, FISBBlocks)
	for b := 0; b < FISBBlocks; b++ {
		data := sampleData(fisbBlockCodec.K(), seeds[b])
		cw, err := fisbBlockCodec.Encode(data)
		if err != nil {
			panic(err)
		}
		codewords[b] = cw
		dataBlocks[b] = data
	}
	return codewords, dataBlocks
}

func TestDecodeFISBCleanRoundTrip(t *testing.T) {
	codewords, dataBlocks := fisbTestBlocks([FISBBlocks]byte{1, 2, 3, 4, 5, 6})
	raw := InterleaveFISB(codewords)

	nbits := FISBBlocks * FISBBlockLen * 8
	samples := bitsToSamples(raw, nbits)
	h := wireframe.Header{Type: wireframe.FISB, Seconds: 10, Level: 999}

	out := Decode(h, samples, Config{})
	require.NotNil(t, out.Payload)
	assert.Equal(t, assembleFISBPayload(dataBlocks), out.Payload)
	for _, e := range out.BlockErrors {
		assert.Equal(t, 0, e)
	}
	assert.True(t, out.FISB)
}

func TestDecodeFISBEmptyUplinkSkipsRemainingBlocks(t *testing.T) {
	var codewords [FISBBlocks][]byte
	zeroData := make([]byte, fisbBlockCodec.K())
	cw0, err := fisbBlockCodec.Encode(zeroData)
	require.NoError(t, err)
	codewords[0] = cw0

	// Blocks 1-5 get garbage that is not a valid codeword under any pure
	// shift, so the direct attempt fails and they stay unresolved.
	for b := 1; b < FISBBlocks; b++ {
		garbage := make([]byte, FISBBlockLen)
		for i := range garbage {
			garbage[i] = byte(0xAA ^ i ^ b)
		}
		codewords[b] = garbage
	}

	raw := InterleaveFISB(codewords)
	nbits := FISBBlocks * FISBBlockLen * 8
	samples := bitsToSamples(raw, nbits)
	h := wireframe.Header{Type: wireframe.FISB}

	out := Decode(h, samples, Config{})
	assert.Equal(t, 0, out.BlockErrors[0])
	for b := 1; b < FISBBlocks; b++ {
		assert.Equal(t, notAttemptedSentinel, out.BlockErrors[b])
	}
}

func TestFormatLineFISB(t *testing.T) {
	out := Output{
		FISB:         true,
		Payload:      []byte{0xDE, 0xAD, 0xBE, 0xEF},
		SyncErrors:   1,
		BlockErrors:  []int{0, 0, 0, 0, 0, 0},
		Level:        900000,
		RSSI:         -12.3,
		EpochSeconds: 1700000000,
		EpochMillis:  500,
	}
	line := out.FormatLine()
	assert.Equal(t, "+deadbeef;rs=1/00:00:00:00:00:00;ss=0.90/-12.3;t=1700000000.500", line)
}

func TestFormatLineADSBUncorrectable(t *testing.T) {
	out := Output{
		FISB:         false,
		Payload:      nil,
		SyncErrors:   2,
		BlockErrors:  []int{uncorrectableSentinel},
		Level:        1000000,
		RSSI:         0,
		EpochSeconds: 5,
		EpochMillis:  0,
	}
	line := out.FormatLine()
	assert.Equal(t, "-;rs=2/98;ss=1.00/0.0;t=5.000", line)
}

func TestFormatFailureLineADSB(t *testing.T) {
	out := Output{
		FISB:         false,
		Payload:      nil,
		SyncErrors:   2,
		BlockErrors:  []int{uncorrectableSentinel},
		Level:        1000000,
		RSSI:         0,
		EpochSeconds: 5,
		EpochMillis:  0,
	}
	line := out.FormatFailureLine("0000000005.000000.A.01000000.2 ")
	assert.Equal(t, "#FAILED-ADS-B rs=2/98;ss=1.00/0.0;t=5.000;header=0000000005.000000.A.01000000.2 ", line)
}
