package bitwuzla

import (
	"fmt"
	"math/big"
	"strings"
)

var bigZero = big.NewInt(0)
var bigOne = big.NewInt(1)

// BitVector is an arbitrary-width, two's-complement-interpreted unsigned
// container. It is the concrete value payload carried by VALUE terms of BV
// sort, and the type every BV rewrite-rule constant-fold operates on.
//
// The backing representation is a big.Int masked to Width after every
// mutating operation, following borzacchiello-gosmt's BVConst: values are
// stored in their unsigned form and signed semantics are derived on demand,
// never stored separately.
type BitVector struct {
	Width uint32
	value *big.Int
}

func bvMask(width uint32) *big.Int {
	m := new(big.Int).Lsh(bigOne, uint(width))
	return m.Sub(m, bigOne)
}

func (bv *BitVector) normalize() {
	bv.value.And(bv.value, bvMask(bv.Width))
}

// NewBitVectorFromUint64 builds a width-bit BitVector from an unsigned value.
func NewBitVectorFromUint64(width uint32, v uint64) *BitVector {
	bv := &BitVector{Width: width, value: new(big.Int).SetUint64(v)}
	bv.normalize()
	return bv
}

// NewBitVectorFromInt64 builds a width-bit BitVector from a signed value,
// encoding negative inputs in two's complement.
func NewBitVectorFromInt64(width uint32, v int64) *BitVector {
	bv := &BitVector{Width: width, value: big.NewInt(v)}
	if v < 0 {
		bv.value.Add(bv.value, new(big.Int).Lsh(bigOne, uint(width)))
	}
	bv.normalize()
	return bv
}

// NewBitVectorFromBigInt builds a width-bit BitVector from an arbitrary
// (possibly negative, possibly out-of-range) big.Int, masking to width.
func NewBitVectorFromBigInt(width uint32, v *big.Int) *BitVector {
	bv := &BitVector{Width: width, value: new(big.Int).Set(v)}
	if bv.value.Sign() < 0 {
		m := new(big.Int).Lsh(bigOne, uint(width))
		bv.value.Mod(bv.value, m)
	}
	bv.normalize()
	return bv
}

// Named-constant constructors, per spec.md §6
// (mk_bv_zero/one/ones/min_signed/max_signed).
func NewBitVectorZero(width uint32) *BitVector { return NewBitVectorFromUint64(width, 0) }
func NewBitVectorOne(width uint32) *BitVector  { return NewBitVectorFromUint64(width, 1) }

func NewBitVectorOnes(width uint32) *BitVector {
	return &BitVector{Width: width, value: bvMask(width)}
}

func NewBitVectorMinSigned(width uint32) *BitVector {
	v := new(big.Int).Lsh(bigOne, uint(width-1))
	return &BitVector{Width: width, value: v}
}

func NewBitVectorMaxSigned(width uint32) *BitVector {
	v := new(big.Int).Lsh(bigOne, uint(width-1))
	v.Sub(v, bigOne)
	return &BitVector{Width: width, value: v}
}

// ParseBitVector parses str in the given base (2, 10, or 16) into a
// width-bit BitVector, accepting leading zeros and (for base 10) an
// optional leading '-' for the signed two's-complement encoding.
func ParseBitVector(width uint32, str string, base int) (*BitVector, error) {
	s := strings.TrimSpace(str)
	neg := false
	if base == 10 && strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v == nil {
		return nil, fmt.Errorf("invalid base-%d bit-vector literal %q", base, str)
	}
	if neg {
		v.Neg(v)
	}
	return NewBitVectorFromBigInt(width, v), nil
}

func (bv *BitVector) Copy() *BitVector {
	return &BitVector{Width: bv.Width, value: new(big.Int).Set(bv.value)}
}

func (bv *BitVector) IsZero() bool { return bv.value.Sign() == 0 }
func (bv *BitVector) IsOnes() bool { return bv.value.Cmp(bvMask(bv.Width)) == 0 }
func (bv *BitVector) IsNegative() bool {
	return bv.value.Bit(int(bv.Width)-1) == 1
}

// AsUint64 returns the unsigned value; undefined (truncated) if Width > 64.
func (bv *BitVector) AsUint64() uint64 { return bv.value.Uint64() }

// AsInt64 returns the signed two's-complement value; undefined if Width > 64.
func (bv *BitVector) AsInt64() int64 {
	if !bv.IsNegative() {
		return bv.value.Int64()
	}
	mag := new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(bv.Width)), bv.value)
	return -mag.Int64()
}

// AsBigInt returns the unsigned magnitude as a big.Int.
func (bv *BitVector) AsBigInt() *big.Int { return new(big.Int).Set(bv.value) }

// SignedBigInt returns the two's-complement-interpreted signed value.
func (bv *BitVector) SignedBigInt() *big.Int {
	if !bv.IsNegative() {
		return new(big.Int).Set(bv.value)
	}
	return new(big.Int).Sub(bv.value, new(big.Int).Lsh(bigOne, uint(bv.Width)))
}

// Bit returns bit i (0 = LSB) as 0 or 1.
func (bv *BitVector) Bit(i uint32) uint {
	if i >= bv.Width {
		internalErrorf("BitVector.Bit(%d) out of range for width %d", i, bv.Width)
	}
	return bv.value.Bit(int(i))
}

// ToString renders the value in the given base, zero-padded to Width for
// base 2 and 16.
func (bv *BitVector) ToString(base int) string {
	switch base {
	case 2:
		s := bv.value.Text(2)
		if pad := int(bv.Width) - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		return s
	case 16:
		nibbles := (bv.Width + 3) / 4
		s := bv.value.Text(16)
		if pad := int(nibbles) - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		return s
	case 10:
		return bv.value.Text(10)
	default:
		internalErrorf("ToString: unsupported base %d", base)
		return ""
	}
}

func (bv *BitVector) String() string { return fmt.Sprintf("#b%s", bv.ToString(2)) }

// Equal compares value and width.
func (bv *BitVector) Equal(o *BitVector) bool {
	return bv.Width == o.Width && bv.value.Cmp(o.value) == 0
}

func checkSameWidth(a, b *BitVector, op string) {
	if a.Width != b.Width {
		internalErrorf("BitVector.%s: width mismatch %d vs %d", op, a.Width, b.Width)
	}
}

// Arithmetic. Every helper returns a fresh BitVector; none mutate the
// receiver, unlike borzacchiello-gosmt's in-place BVConst methods, so a
// BitVector can be shared as an immutable VALUE term payload.

func (bv *BitVector) Not() *BitVector {
	r := new(big.Int).Not(bv.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Neg() *BitVector {
	r := new(big.Int).Neg(bv.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Add(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Add")
	r := new(big.Int).Add(bv.value, o.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Sub(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Sub")
	r := new(big.Int).Sub(bv.value, o.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Mul(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Mul")
	r := new(big.Int).Mul(bv.value, o.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) UDiv(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "UDiv")
	if o.IsZero() {
		return NewBitVectorOnes(bv.Width)
	}
	r := new(big.Int).Div(bv.value, o.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) URem(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "URem")
	if o.IsZero() {
		return bv.Copy()
	}
	r := new(big.Int).Mod(bv.value, o.value)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) SDiv(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "SDiv")
	if o.IsZero() {
		if bv.IsNegative() {
			return NewBitVectorOne(bv.Width)
		}
		return NewBitVectorOnes(bv.Width)
	}
	a, b := bv.SignedBigInt(), o.SignedBigInt()
	r := new(big.Int).Quo(a, b)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) SRem(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "SRem")
	if o.IsZero() {
		return bv.Copy()
	}
	a, b := bv.SignedBigInt(), o.SignedBigInt()
	r := new(big.Int).Rem(a, b)
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) SMod(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "SMod")
	if o.IsZero() {
		return bv.Copy()
	}
	a, b := bv.SignedBigInt(), o.SignedBigInt()
	r := new(big.Int).Mod(a, b)
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		r.Add(r, b)
	}
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) And(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "And")
	return NewBitVectorFromBigInt(bv.Width, new(big.Int).And(bv.value, o.value))
}
func (bv *BitVector) Or(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Or")
	return NewBitVectorFromBigInt(bv.Width, new(big.Int).Or(bv.value, o.value))
}
func (bv *BitVector) Xor(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Xor")
	return NewBitVectorFromBigInt(bv.Width, new(big.Int).Xor(bv.value, o.value))
}
func (bv *BitVector) Nand(o *BitVector) *BitVector { return bv.And(o).Not() }
func (bv *BitVector) Nor(o *BitVector) *BitVector  { return bv.Or(o).Not() }
func (bv *BitVector) Xnor(o *BitVector) *BitVector { return bv.Xor(o).Not() }

func shiftAmountTooLarge(o *BitVector) bool {
	return o.value.Cmp(big.NewInt(int64(o.Width))) >= 0
}

func (bv *BitVector) Shl(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Shl")
	if shiftAmountTooLarge(o) {
		return NewBitVectorZero(bv.Width)
	}
	r := new(big.Int).Lsh(bv.value, uint(o.value.Uint64()))
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Shr(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Shr")
	if shiftAmountTooLarge(o) {
		return NewBitVectorZero(bv.Width)
	}
	r := new(big.Int).Rsh(bv.value, uint(o.value.Uint64()))
	return NewBitVectorFromBigInt(bv.Width, r)
}

func (bv *BitVector) Ashr(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Ashr")
	if bv.IsNegative() {
		if shiftAmountTooLarge(o) {
			return NewBitVectorOnes(bv.Width)
		}
		s := bv.SignedBigInt()
		r := new(big.Int).Rsh(s, uint(o.value.Uint64()))
		return NewBitVectorFromBigInt(bv.Width, r)
	}
	return bv.Shr(o)
}

func (bv *BitVector) rotateAmount(n uint32) uint32 {
	if bv.Width == 0 {
		return 0
	}
	return n % bv.Width
}

func (bv *BitVector) Rol(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Rol")
	n := uint32(new(big.Int).Mod(o.value, big.NewInt(int64(bv.Width))).Uint64())
	return bv.Roli(n)
}

func (bv *BitVector) Ror(o *BitVector) *BitVector {
	checkSameWidth(bv, o, "Ror")
	n := uint32(new(big.Int).Mod(o.value, big.NewInt(int64(bv.Width))).Uint64())
	return bv.Rori(n)
}

func (bv *BitVector) Roli(n uint32) *BitVector {
	n = bv.rotateAmount(n)
	left := new(big.Int).Lsh(bv.value, uint(n))
	right := new(big.Int).Rsh(bv.value, uint(bv.Width-n))
	return NewBitVectorFromBigInt(bv.Width, new(big.Int).Or(left, right))
}

func (bv *BitVector) Rori(n uint32) *BitVector {
	n = bv.rotateAmount(n)
	return bv.Roli(bv.Width - n)
}

func (bv *BitVector) Concat(lower *BitVector) *BitVector {
	r := new(big.Int).Lsh(bv.value, uint(lower.Width))
	r.Or(r, lower.value)
	return NewBitVectorFromBigInt(bv.Width+lower.Width, r)
}

func (bv *BitVector) Extract(upper, lower uint32) *BitVector {
	if upper < lower || upper >= bv.Width {
		internalErrorf("Extract(%d,%d) out of range for width %d", upper, lower, bv.Width)
	}
	r := new(big.Int).Rsh(bv.value, uint(lower))
	return NewBitVectorFromBigInt(upper-lower+1, r)
}

func (bv *BitVector) ZeroExtend(n uint32) *BitVector {
	return &BitVector{Width: bv.Width + n, value: new(big.Int).Set(bv.value)}
}

func (bv *BitVector) SignExtend(n uint32) *BitVector {
	if n == 0 || !bv.IsNegative() {
		return bv.ZeroExtend(n)
	}
	ones := new(big.Int).Lsh(bvMask(n), uint(bv.Width))
	return NewBitVectorFromBigInt(bv.Width+n, new(big.Int).Or(bv.value, ones))
}

func (bv *BitVector) Repeat(n uint32) *BitVector {
	if n == 0 {
		internalErrorf("Repeat(0) is not defined")
	}
	r := bv.Copy()
	for i := uint32(1); i < n; i++ {
		r = r.Concat(bv)
	}
	return r
}

func (bv *BitVector) Redand() bool { return bv.IsOnes() }
func (bv *BitVector) Redor() bool  { return !bv.IsZero() }
func (bv *BitVector) Redxor() bool {
	parity := 0
	for i := uint32(0); i < bv.Width; i++ {
		parity ^= int(bv.Bit(i))
	}
	return parity == 1
}

func (bv *BitVector) Ult(o *BitVector) bool { checkSameWidth(bv, o, "Ult"); return bv.value.Cmp(o.value) < 0 }
func (bv *BitVector) Ule(o *BitVector) bool { checkSameWidth(bv, o, "Ule"); return bv.value.Cmp(o.value) <= 0 }
func (bv *BitVector) Ugt(o *BitVector) bool { return o.Ult(bv) }
func (bv *BitVector) Uge(o *BitVector) bool { return o.Ule(bv) }
func (bv *BitVector) Slt(o *BitVector) bool {
	checkSameWidth(bv, o, "Slt")
	return bv.SignedBigInt().Cmp(o.SignedBigInt()) < 0
}
func (bv *BitVector) Sle(o *BitVector) bool {
	checkSameWidth(bv, o, "Sle")
	return bv.SignedBigInt().Cmp(o.SignedBigInt()) <= 0
}
func (bv *BitVector) Sgt(o *BitVector) bool { return o.Slt(bv) }
func (bv *BitVector) Sge(o *BitVector) bool { return o.Sle(bv) }

func (bv *BitVector) Comp(o *BitVector) *BitVector {
	if bv.Equal(o) {
		return NewBitVectorOne(1)
	}
	return NewBitVectorZero(1)
}

// Overflow predicates, named directly after the BV kinds that use them.
func (bv *BitVector) Uaddo(o *BitVector) bool {
	checkSameWidth(bv, o, "Uaddo")
	sum := new(big.Int).Add(bv.value, o.value)
	return sum.Cmp(bvMask(bv.Width)) > 0
}

func (bv *BitVector) Usubo(o *BitVector) bool {
	checkSameWidth(bv, o, "Usubo")
	return bv.value.Cmp(o.value) < 0
}

func (bv *BitVector) Umulo(o *BitVector) bool {
	checkSameWidth(bv, o, "Umulo")
	prod := new(big.Int).Mul(bv.value, o.value)
	return prod.Cmp(bvMask(bv.Width)) > 0
}

func (bv *BitVector) Saddo(o *BitVector) bool {
	checkSameWidth(bv, o, "Saddo")
	sum := new(big.Int).Add(bv.SignedBigInt(), o.SignedBigInt())
	return sum.Cmp(NewBitVectorMaxSigned(bv.Width).SignedBigInt()) > 0 ||
		sum.Cmp(NewBitVectorMinSigned(bv.Width).SignedBigInt()) < 0
}

func (bv *BitVector) Ssubo(o *BitVector) bool {
	checkSameWidth(bv, o, "Ssubo")
	diff := new(big.Int).Sub(bv.SignedBigInt(), o.SignedBigInt())
	return diff.Cmp(NewBitVectorMaxSigned(bv.Width).SignedBigInt()) > 0 ||
		diff.Cmp(NewBitVectorMinSigned(bv.Width).SignedBigInt()) < 0
}

func (bv *BitVector) Sdivo(o *BitVector) bool {
	checkSameWidth(bv, o, "Sdivo")
	return bv.Equal(NewBitVectorMinSigned(bv.Width)) && o.Equal(NewBitVectorOnes(bv.Width))
}

func (bv *BitVector) Smulo(o *BitVector) bool {
	checkSameWidth(bv, o, "Smulo")
	prod := new(big.Int).Mul(bv.SignedBigInt(), o.SignedBigInt())
	return prod.Cmp(NewBitVectorMaxSigned(bv.Width).SignedBigInt()) > 0 ||
		prod.Cmp(NewBitVectorMinSigned(bv.Width).SignedBigInt()) < 0
}
