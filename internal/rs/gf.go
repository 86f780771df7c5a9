// Package rs implements the unknown-position Reed-Solomon error correction
// used throughout the byte-error-correction stage (spec.md §4.2): a
// classical Berlekamp-Massey / Chien-search / Forney decoder over GF(256),
// ported from the generator-polynomial formulation in Phil Karn's public
// domain RS codec (as carried into doismellburning-samoyed's
// fx25_init.go/fx25_extract.go) rather than a Vandermonde/Cauchy matrix
// scheme, since UAT's RS blocks are defined against that classical field
// construction.
package rs

// fieldSize/fieldNN describe GF(2^8): 256 elements, 255 nonzero.
const (
	fieldSize = 256
	fieldNN   = fieldSize - 1
)

// primPoly is UAT's GF(256) generator polynomial, x^8+x^4+x^3+x^2+1 —
// the same primitive polynomial (0x11d) Karn's codec and its FX.25 port
// use.
const primPoly = 0x11d

// field holds the antilog (alphaTo) and log (indexOf) tables for GF(256)
// under primPoly. indexOf[0] holds the sentinel "log of zero" value
// fieldNN, and alphaTo[fieldNN] maps that sentinel back to 0, matching
// Karn's A0 convention.
type field struct {
	alphaTo [fieldNN + 1]byte
	indexOf [fieldNN + 1]byte
}

var gf256 = newField(primPoly)

func newField(poly int) *field {
	f := &field{}
	f.indexOf[0] = byte(fieldNN)
	f.alphaTo[fieldNN] = 0

	sr := 1
	for i := 0; i < fieldNN; i++ {
		f.indexOf[sr] = byte(i)
		f.alphaTo[i] = byte(sr)
		sr <<= 1
		if sr&fieldSize != 0 {
			sr ^= poly
		}
		sr &= fieldNN
	}
	return f
}

// modnn reduces x into [0, fieldNN).
func modnn(x int) int {
	for x >= fieldNN {
		x -= fieldNN
	}
	for x < 0 {
		x += fieldNN
	}
	return x
}
