package iqsource

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceReturnsUnderlyingReader(t *testing.T) {
	body := "some bytes"
	src := NewFileSource(strings.NewReader(body))

	r, err := src.Open(context.Background())
	require.NoError(t, err)

	buf := make([]byte, len(body))
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, body, string(buf[:n]))
	require.NoError(t, src.Close())
}

func TestCU8ToCS16CentersOnZero(t *testing.T) {
	out := cu8ToCS16([]byte{127, 127})
	require.Len(t, out, 4)
	i := int16(binary.LittleEndian.Uint16(out[0:2]))
	q := int16(binary.LittleEndian.Uint16(out[2:4]))
	assert.Equal(t, int16(0), i)
	assert.Equal(t, int16(0), q)
}

func TestCU8ToCS16PreservesSignAndInterleave(t *testing.T) {
	out := cu8ToCS16([]byte{255, 0})
	hi := int16(binary.LittleEndian.Uint16(out[0:2]))
	lo := int16(binary.LittleEndian.Uint16(out[2:4]))
	assert.Greater(t, hi, int16(0))
	assert.Less(t, lo, int16(0))
}
