package rs

import "fmt"

// a0 is the "log of zero" sentinel used throughout the decoder.
const a0 = byte(fieldNN)

// Codec is a Reed-Solomon code over GF(256) with first-consecutive-root
// index fcr=1 and primitive element prim=1, UAT's fixed parameterization
// (matching every entry of fx25Tab's RS family). n is the codeword's
// transmitted length; when n < 255 the code is treated as a shortened
// (punctured) version of the full RS(255,255-nroots) code, with the
// missing leading 255-n symbols implicitly zero.
type Codec struct {
	n      int
	nroots int
	pad    int
}

// NewCodec builds a Codec for an n-byte codeword carrying nroots parity
// bytes (so K() = n-nroots data bytes).
func NewCodec(n, nroots int) *Codec {
	return &Codec{n: n, nroots: nroots, pad: fieldNN - n}
}

// N returns the codeword length in bytes.
func (c *Codec) N() int { return c.n }

// K returns the data (payload) length in bytes.
func (c *Codec) K() int { return c.n - c.nroots }

// Nroots returns the number of parity bytes.
func (c *Codec) Nroots() int { return c.nroots }

// MaxCorrectable returns the largest number of symbol errors this code is
// guaranteed to correct.
func (c *Codec) MaxCorrectable() int { return c.nroots / 2 }

func (c *Codec) generatorPoly() []byte {
	gp := make([]byte, c.nroots+1)
	gp[0] = 1
	root := 1 // fcr*prim = 1, incrementing by prim=1 each step
	for i := 0; i < c.nroots; i++ {
		gp[i+1] = 1
		for j := i; j > 0; j-- {
			if gp[j] != 0 {
				gp[j] = gp[j-1] ^ gf256.alphaTo[modnn(int(gf256.indexOf[gp[j]])+root)]
			} else {
				gp[j] = gp[j-1]
			}
		}
		gp[0] = gf256.alphaTo[modnn(int(gf256.indexOf[gp[0]])+root)]
		root++
	}
	idx := make([]byte, c.nroots+1)
	for i := range gp {
		idx[i] = gf256.indexOf[gp[i]]
	}
	return idx
}

// Encode returns the n-byte systematic codeword (data followed by parity)
// for a K()-length data block.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data) != c.K() {
		return nil, fmt.Errorf("rs: encode: got %d data bytes, want %d", len(data), c.K())
	}
	genpoly := c.generatorPoly()
	parity := make([]byte, c.nroots)

	for _, d := range data {
		feedback := gf256.indexOf[d^parity[0]]
		if feedback != a0 {
			for j := 1; j < c.nroots; j++ {
				parity[j] ^= gf256.alphaTo[modnn(int(feedback)+int(genpoly[c.nroots-j]))]
			}
		}
		copy(parity, parity[1:])
		if feedback != a0 {
			parity[c.nroots-1] = gf256.alphaTo[modnn(int(feedback)+int(genpoly[0]))]
		} else {
			parity[c.nroots-1] = 0
		}
	}

	out := make([]byte, c.n)
	copy(out, data)
	copy(out[c.K():], parity)
	return out, nil
}

// Decode attempts to locate and correct symbol errors in an n-byte
// codeword. It returns the K()-byte data payload, the number of symbol
// errors corrected, and ok=false if the block has more errors than this
// code can correct (an uncorrectable block, spec.md §4.2's sentinel-98
// case). Decode never needs erasure positions: every error location is
// found by the locator polynomial's roots, since UAT gives no indication
// of which bytes are suspect ahead of time.
func (c *Codec) Decode(codeword []byte) (data []byte, numErrors int, ok bool) {
	if len(codeword) != c.n {
		return nil, 0, false
	}
	buf := make([]byte, c.n)
	copy(buf, codeword)

	nroots := c.nroots
	pad := c.pad

	s := make([]byte, nroots)
	for i := 0; i < nroots; i++ {
		s[i] = buf[0]
	}
	for j := 1; j < c.n; j++ {
		for i := 0; i < nroots; i++ {
			if s[i] == 0 {
				s[i] = buf[j]
			} else {
				s[i] = buf[j] ^ gf256.alphaTo[modnn(int(gf256.indexOf[s[i]])+(1+i))]
			}
		}
	}
	var synError byte
	for i := 0; i < nroots; i++ {
		synError |= s[i]
		s[i] = gf256.indexOf[s[i]]
	}
	if synError == 0 {
		return buf[:c.K()], 0, true
	}

	lambda := make([]byte, nroots+1)
	lambda[0] = 1
	b := make([]byte, nroots+1)
	for i := 0; i <= nroots; i++ {
		b[i] = gf256.indexOf[lambda[i]]
	}

	t := make([]byte, nroots+1)
	el := 0
	for r := 1; r <= nroots; r++ {
		var discrR byte
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && s[r-i-1] != a0 {
				discrR ^= gf256.alphaTo[modnn(int(gf256.indexOf[lambda[i]])+int(s[r-i-1]))]
			}
		}
		discrRIdx := gf256.indexOf[discrR]
		if discrRIdx == a0 {
			copy(b[1:], b[:nroots])
			b[0] = a0
			continue
		}

		t[0] = lambda[0]
		for i := 0; i < nroots; i++ {
			if b[i] != a0 {
				t[i+1] = lambda[i+1] ^ gf256.alphaTo[modnn(int(discrRIdx)+int(b[i]))]
			} else {
				t[i+1] = lambda[i+1]
			}
		}
		if 2*el <= r-1 {
			el = r - el
			for i := 0; i <= nroots; i++ {
				if lambda[i] == 0 {
					b[i] = a0
				} else {
					b[i] = byte(modnn(int(gf256.indexOf[lambda[i]]) - int(discrRIdx) + fieldNN))
				}
			}
		} else {
			copy(b[1:], b[:nroots])
			b[0] = a0
		}
		copy(lambda, t[:nroots+1])
	}

	degLambda := 0
	for i := 0; i <= nroots; i++ {
		lambda[i] = gf256.indexOf[lambda[i]]
		if lambda[i] != a0 {
			degLambda = i
		}
	}

	reg := make([]byte, nroots+1)
	copy(reg[1:], lambda[1:nroots+1])
	root := make([]int, nroots)
	loc := make([]int, nroots)
	count := 0
	k := 0 // iprim-1, and iprim=1 for UAT's fcr=prim=1 parameterization
	for i := 1; i <= fieldNN; i, k = i+1, modnn(k+1) {
		q := byte(1)
		for j := degLambda; j > 0; j-- {
			if reg[j] != a0 {
				reg[j] = byte(modnn(int(reg[j]) + j))
				q ^= gf256.alphaTo[reg[j]]
			}
		}
		if q != 0 {
			continue
		}
		root[count] = i
		loc[count] = k
		count++
		if count == degLambda {
			break
		}
	}
	if degLambda != count {
		return nil, 0, false
	}

	omega := make([]byte, nroots+1)
	degOmega := 0
	for i := 0; i < nroots; i++ {
		var tmp byte
		jLimit := degLambda
		if i < jLimit {
			jLimit = i
		}
		for j := jLimit; j >= 0; j-- {
			if s[i-j] != a0 && lambda[j] != a0 {
				tmp ^= gf256.alphaTo[modnn(int(s[i-j])+int(lambda[j]))]
			}
		}
		if tmp != 0 {
			degOmega = i
		}
		omega[i] = gf256.indexOf[tmp]
	}
	omega[nroots] = a0

	limit := degLambda
	if nroots-1 < limit {
		limit = nroots - 1
	}
	limit &^= 1 // round down to even; lambda's formal derivative only has even-index terms

	for j := count - 1; j >= 0; j-- {
		var num1 byte
		for i := degOmega; i >= 0; i-- {
			if omega[i] != a0 {
				num1 ^= gf256.alphaTo[modnn(int(omega[i])+i*root[j])]
			}
		}
		// num2 = alpha_to[MODNN(root[j]*(fcr-1)+NN)] degenerates to
		// alpha^0=1 because UAT's fcr is always 1.
		const num2 = byte(1)

		var den byte
		for i := limit; i >= 0; i -= 2 {
			if lambda[i+1] != a0 {
				den ^= gf256.alphaTo[modnn(int(lambda[i+1])+i*root[j])]
			}
		}
		if den == 0 {
			return nil, 0, false
		}
		if num1 != 0 {
			pos := loc[j] - pad
			if pos < 0 || pos >= c.n {
				// Located in the punctured prefix that was never
				// transmitted; nothing to apply.
				continue
			}
			buf[pos] ^= gf256.alphaTo[modnn(int(gf256.indexOf[num1])+int(gf256.indexOf[num2])+fieldNN-int(gf256.indexOf[den]))]
		}
	}

	return buf[:c.K()], count, true
}
