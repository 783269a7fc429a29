package plagiarism

import (
	"errors"
	"math/big"
	"testing"
)

func TestPolyHasherKnownValue(t *testing.T) {
	h := PolyHasher{Base: DefaultHashBase, Modulus: DefaultHashModulus}
	// ((97 mod 101) * 256 + 98) mod 101
	if got := h.Sum([]string{"ab"}); got != 84 {
		t.Errorf("Sum(ab) = %d, want 84", got)
	}
	if got := h.Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %d, want 0", got)
	}
}

func TestPolyHasherLargeModulus(t *testing.T) {
	h := PolyHasher{Base: 1<<61 - 1, Modulus: 1<<63 - 25}
	window := []string{"overflow", "does", "not", "happen", "here"}

	want := new(big.Int)
	base := new(big.Int).SetUint64(h.Base)
	mod := new(big.Int).SetUint64(h.Modulus)
	for i, tok := range window {
		bs := []byte(tok)
		if i > 0 {
			bs = append([]byte{' '}, bs...)
		}
		for _, b := range bs {
			want.Mul(want, base)
			want.Add(want, big.NewInt(int64(b)))
			want.Mod(want, mod)
		}
	}

	if got := h.Sum(window); got != want.Uint64() {
		t.Errorf("Sum = %d, want %d", got, want.Uint64())
	}
}

func TestHashDependsOnContentOnly(t *testing.T) {
	doc := Tokenize("one two three one two three four one two three")
	for _, mode := range []HashMode{HashPoly, HashXX} {
		h, err := NewWindowHasher(mode, DefaultHashBase, DefaultHashModulus)
		if err != nil {
			t.Fatalf("new hasher %s: %v", mode, err)
		}
		fresh := h.Sum([]string{"one", "two", "three"})
		for _, i := range []int{0, 3, 7} {
			if got := h.Sum(doc[i : i+3]); got != fresh {
				t.Errorf("%s: window at %d hashed to %d, want %d", mode, i, got, fresh)
			}
		}
	}
}

func TestNewWindowHasher(t *testing.T) {
	tests := []struct {
		mode    HashMode
		base    uint64
		modulus uint64
		wantErr bool
	}{
		{mode: HashPoly, base: 256, modulus: 101},
		{mode: "", base: 256, modulus: 101},
		{mode: HashXX},
		{mode: HashPoly, base: 256, modulus: 0, wantErr: true},
		{mode: HashPoly, base: 0, modulus: 101, wantErr: true},
		{mode: "md5", wantErr: true},
	}
	for _, tt := range tests {
		_, err := NewWindowHasher(tt.mode, tt.base, tt.modulus)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewWindowHasher(%q, %d, %d): expected ErrInvalidConfig, got %v", tt.mode, tt.base, tt.modulus, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewWindowHasher(%q, %d, %d): %v", tt.mode, tt.base, tt.modulus, err)
		}
	}
}
