package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	var blocks [FISBBlocks][]byte
	for b := range blocks {
		block := make([]byte, FISBBlockLen)
		for i := range block {
			block[i] = byte(b*31 + i)
		}
		blocks[b] = block
	}

	raw := InterleaveFISB(blocks)
	assert.Len(t, raw, FISBBlocks*FISBBlockLen)

	got := DeinterleaveFISB(raw)
	for b := range blocks {
		assert.Equal(t, blocks[b], got[b])
	}
}

func TestDeinterleaveByteOwnership(t *testing.T) {
	raw := make([]byte, FISBBlocks*FISBBlockLen)
	// byte k belongs to block k%FISBBlocks at offset k/FISBBlocks
	raw[7] = 0x42 // block 1 (7%6), offset 1 (7/6)
	blocks := DeinterleaveFISB(raw)
	assert.Equal(t, byte(0x42), blocks[1][1])
}
