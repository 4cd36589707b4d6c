package bitwuzla

import (
	"fmt"
	"math"
	"math/big"
)

// FloatingPoint is a concrete IEEE 754 value: a packed sign/exponent/
// significand bit pattern plus the (e, s) format it was built with. It is
// the constant-folding counterpart of the word-blaster's symbolic circuit
// templates (wordblast.go, wordblast_ops.go) — both share the same unpack/classify logic, grounded on
// original_source/src/solver/fp/symfpu_wrapper.h's unpacked-float design,
// re-expressed here over *BitVector instead of symFPU's templated UnpackedFloat.
type FloatingPoint struct {
	ExpBits uint32
	SigBits uint32 // includes the implicit leading bit
	packed  *BitVector
}

func fpPackedWidth(e, s uint32) uint32 { return 1 + e + (s - 1) }

// newFPFromPacked wraps a packed bit pattern without reinterpreting it.
func newFPFromPacked(e, s uint32, packed *BitVector) *FloatingPoint {
	if packed.Width != fpPackedWidth(e, s) {
		internalErrorf("FP packed width mismatch: got %d want %d", packed.Width, fpPackedWidth(e, s))
	}
	return &FloatingPoint{ExpBits: e, SigBits: s, packed: packed}
}

// NewFPFromParts packs sign, (biased) exponent and trailing-significand
// bit-vectors into a FloatingPoint, per KindFPFp.
func NewFPFromParts(sign, exp, sig *BitVector) *FloatingPoint {
	if sign.Width != 1 {
		typeErrorf("fp.fp sign must be a 1-bit vector, got %d", sign.Width)
	}
	packed := sign.Concat(exp).Concat(sig)
	return newFPFromPacked(exp.Width, sig.Width+1, packed)
}

func fpExpBias(e uint32) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(e-1)), bigOne)
}

func (fp *FloatingPoint) sign() *BitVector { return fp.packed.Extract(fp.packed.Width-1, fp.packed.Width-1) }
func (fp *FloatingPoint) exponent() *BitVector {
	return fp.packed.Extract(fp.packed.Width-2, fp.SigBits-1)
}
func (fp *FloatingPoint) trailingSignificand() *BitVector {
	if fp.SigBits <= 1 {
		return NewBitVectorZero(0)
	}
	return fp.packed.Extract(fp.SigBits-2, 0)
}

func (fp *FloatingPoint) expAllOnes() bool { return fp.exponent().IsOnes() }
func (fp *FloatingPoint) expAllZero() bool { return fp.exponent().IsZero() }

func (fp *FloatingPoint) IsNaN() bool {
	return fp.expAllOnes() && !fp.trailingSignificand().IsZero()
}
func (fp *FloatingPoint) IsInf() bool {
	return fp.expAllOnes() && fp.trailingSignificand().IsZero()
}
func (fp *FloatingPoint) IsZero() bool {
	return fp.expAllZero() && fp.trailingSignificand().IsZero()
}
func (fp *FloatingPoint) IsNormal() bool {
	return !fp.expAllOnes() && !fp.expAllZero()
}
func (fp *FloatingPoint) IsSubnormal() bool {
	return fp.expAllZero() && !fp.trailingSignificand().IsZero()
}
func (fp *FloatingPoint) IsNeg() bool { return fp.sign().AsUint64() == 1 }
func (fp *FloatingPoint) IsPos() bool { return !fp.IsNeg() }

// NewFPZero, NewFPInf, NewFPNaN build the canonical special values.
func NewFPZero(e, s uint32, negative bool) *FloatingPoint {
	sign := NewBitVectorZero(1)
	if negative {
		sign = NewBitVectorOne(1)
	}
	return NewFPFromParts(sign, NewBitVectorZero(e), NewBitVectorZero(s-1))
}

func NewFPInf(e, s uint32, negative bool) *FloatingPoint {
	sign := NewBitVectorZero(1)
	if negative {
		sign = NewBitVectorOne(1)
	}
	return NewFPFromParts(sign, NewBitVectorOnes(e), NewBitVectorZero(s-1))
}

func NewFPNaN(e, s uint32) *FloatingPoint {
	sig := NewBitVectorZero(s - 1)
	if s > 1 {
		sig = NewBitVectorOne(s - 1)
	}
	return NewFPFromParts(NewBitVectorZero(1), NewBitVectorOnes(e), sig)
}

// NewFPFromFloat64 converts a native float64 by reinterpreting its IEEE bit
// pattern (math.Float64bits), so it accepts only the standard double format
// (11, 53); any other format raises an InternalError.
func NewFPFromFloat64(e, s uint32, v float64) *FloatingPoint {
	if e == 11 && s == 53 {
		bits := math.Float64bits(v)
		return newFPFromPacked(e, s, NewBitVectorFromUint64(64, bits))
	}
	internalErrorf("NewFPFromFloat64: only the (11,53) format is directly supported, got (%d,%d)", e, s)
	return nil
}

func (fp *FloatingPoint) PackedBV() *BitVector { return fp.packed.Copy() }

func (fp *FloatingPoint) Equal(o *FloatingPoint) bool {
	return fp.ExpBits == o.ExpBits && fp.SigBits == o.SigBits && fp.packed.Equal(o.packed)
}

// FPEqual implements SMT-LIB fp.eq (IEEE equality: +0 == -0, NaN != NaN).
func (fp *FloatingPoint) FPEqual(o *FloatingPoint) bool {
	if fp.IsNaN() || o.IsNaN() {
		return false
	}
	if fp.IsZero() && o.IsZero() {
		return true
	}
	return fp.Equal(o)
}

func (fp *FloatingPoint) Neg() *FloatingPoint {
	flipped := fp.sign().Not().Extract(0, 0)
	return NewFPFromParts(flipped, fp.exponent(), fp.trailingSignificand())
}

func (fp *FloatingPoint) Abs() *FloatingPoint {
	return NewFPFromParts(NewBitVectorZero(1), fp.exponent(), fp.trailingSignificand())
}

func (fp *FloatingPoint) String() string {
	if fp.IsNaN() {
		return fmt.Sprintf("(_ NaN %d %d)", fp.ExpBits, fp.SigBits)
	}
	if fp.IsInf() {
		if fp.IsNeg() {
			return "(_ -oo " + itoa(uint64(fp.ExpBits)) + " " + itoa(uint64(fp.SigBits)) + ")"
		}
		return "(_ +oo " + itoa(uint64(fp.ExpBits)) + " " + itoa(uint64(fp.SigBits)) + ")"
	}
	return fmt.Sprintf("(fp %s %s %s)", fp.sign(), fp.exponent(), fp.trailingSignificand())
}
