package plagiarism

import (
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// HashMode selects the window hash implementation.
type HashMode string

const (
	// HashPoly is the polynomial hash with a small modulus. Collisions are
	// frequent and every hit is verified against the token content.
	HashPoly HashMode = "poly"
	// HashXX is a 64-bit xxhash, for large source documents where
	// verifying false positives dominates the scan.
	HashXX HashMode = "xxhash"
)

const (
	DefaultHashBase    = 256
	DefaultHashModulus = 101
)

// WindowHasher computes the hash of a window of tokens joined by single spaces.
// Implementations must depend on token content only.
type WindowHasher interface {
	Sum(window []string) uint64
}

// PolyHasher computes hash = (Base*hash + byte) mod Modulus over every byte
// of the space-joined window, starting from 0.
type PolyHasher struct {
	Base    uint64
	Modulus uint64
}

func (h PolyHasher) Sum(window []string) uint64 {
	var v uint64
	for i, tok := range window {
		if i > 0 {
			v = h.step(v, ' ')
		}
		for j := 0; j < len(tok); j++ {
			v = h.step(v, tok[j])
		}
	}
	return v
}

// step works in 128 bits so large moduli cannot overflow.
func (h PolyHasher) step(v uint64, b byte) uint64 {
	hi, lo := bits.Mul64(h.Base, v)
	var carry uint64
	lo, carry = bits.Add64(lo, uint64(b), 0)
	return bits.Rem64(hi+carry, lo, h.Modulus)
}

// XXHasher hashes the space-joined window with xxhash64.
type XXHasher struct{}

func (XXHasher) Sum(window []string) uint64 {
	d := xxhash.New()
	for i, tok := range window {
		if i > 0 {
			_, _ = d.WriteString(" ")
		}
		_, _ = d.WriteString(tok)
	}
	return d.Sum64()
}

// NewWindowHasher returns the hasher for mode.
func NewWindowHasher(mode HashMode, base, modulus uint64) (WindowHasher, error) {
	switch mode {
	case HashPoly, "":
		if base == 0 || modulus == 0 {
			return nil, fmt.Errorf("%w: hash base and modulus must be positive", ErrInvalidConfig)
		}
		return PolyHasher{Base: base, Modulus: modulus}, nil
	case HashXX:
		return XXHasher{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown hash mode %q", ErrInvalidConfig, mode)
	}
}
