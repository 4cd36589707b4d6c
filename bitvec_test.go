package bitwuzla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVectorParseRoundTrip(t *testing.T) {
	tests := []struct {
		width uint32
		str   string
		base  int
		want  uint64
	}{
		{4, "1010", 2, 10},
		{4, "0010", 2, 2},
		{8, "255", 10, 255},
		{8, "00042", 10, 42},
		{8, "-1", 10, 255},
		{16, "beef", 16, 0xbeef},
		{1, "1", 2, 1},
		{64, "ffffffffffffffff", 16, 0xffffffffffffffff},
	}
	for _, tc := range tests {
		bv, err := ParseBitVector(tc.width, tc.str, tc.base)
		require.NoError(t, err, "parse %q base %d", tc.str, tc.base)
		assert.Equal(t, tc.want, bv.AsUint64(), "parse %q base %d", tc.str, tc.base)
	}

	_, err := ParseBitVector(8, "2g", 16)
	assert.Error(t, err)
}

func TestBitVectorToString(t *testing.T) {
	bv := NewBitVectorFromUint64(8, 5)
	assert.Equal(t, "00000101", bv.ToString(2))
	assert.Equal(t, "05", bv.ToString(16))
	assert.Equal(t, "5", bv.ToString(10))

	// Round trip through each base.
	for _, base := range []int{2, 10, 16} {
		got, err := ParseBitVector(8, bv.ToString(base), base)
		require.NoError(t, err)
		assert.True(t, got.Equal(bv), "base %d", base)
	}
}

func TestBitVectorArithmeticWraps(t *testing.T) {
	a := NewBitVectorFromUint64(8, 200)
	b := NewBitVectorFromUint64(8, 100)
	assert.Equal(t, uint64(44), a.Add(b).AsUint64())
	assert.Equal(t, uint64(100), a.Sub(b).AsUint64())
	assert.Equal(t, uint64(32), a.Mul(b).AsUint64())
	assert.True(t, a.Uaddo(b))
	assert.False(t, a.Usubo(b))
	assert.True(t, b.Usubo(a))
}

func TestBitVectorSignedSemantics(t *testing.T) {
	neg := NewBitVectorFromInt64(8, -3)
	assert.Equal(t, int64(-3), neg.AsInt64())
	assert.True(t, neg.IsNegative())

	// -7 / 2 truncates toward zero, -7 smod 2 follows the divisor's sign.
	a := NewBitVectorFromInt64(8, -7)
	b := NewBitVectorFromInt64(8, 2)
	assert.Equal(t, int64(-3), a.SDiv(b).AsInt64())
	assert.Equal(t, int64(-1), a.SRem(b).AsInt64())
	assert.Equal(t, int64(1), a.SMod(b).AsInt64())

	assert.True(t, a.Slt(b))
	assert.True(t, a.Ugt(b))
}

func TestBitVectorDivisionByZero(t *testing.T) {
	a := NewBitVectorFromUint64(4, 9)
	z := NewBitVectorZero(4)
	assert.True(t, a.UDiv(z).IsOnes())
	assert.Equal(t, uint64(9), a.URem(z).AsUint64())
	neg := NewBitVectorFromInt64(4, -3)
	assert.Equal(t, int64(1), neg.SDiv(z).AsInt64())
}

func TestBitVectorShiftsAndRotates(t *testing.T) {
	a := NewBitVectorFromUint64(8, 0b10010110)
	assert.Equal(t, uint64(0b00101100), a.Shl(NewBitVectorFromUint64(8, 1)).AsUint64())
	assert.Equal(t, uint64(0b01001011), a.Shr(NewBitVectorFromUint64(8, 1)).AsUint64())
	assert.Equal(t, uint64(0b11001011), a.Ashr(NewBitVectorFromUint64(8, 1)).AsUint64())
	assert.Equal(t, uint64(0), a.Shl(NewBitVectorFromUint64(8, 9)).AsUint64())
	assert.Equal(t, uint64(0b00101101), a.Roli(1).AsUint64())
	assert.Equal(t, uint64(0b01001011), a.Rori(1).AsUint64())
	assert.True(t, a.Roli(8).Equal(a))
}

func TestBitVectorExtractConcat(t *testing.T) {
	a := NewBitVectorFromUint64(8, 0xA5)
	assert.Equal(t, uint64(0xA), a.Extract(7, 4).AsUint64())
	assert.Equal(t, uint64(0x5), a.Extract(3, 0).AsUint64())
	assert.Equal(t, uint64(0xA5), a.Extract(7, 0).AsUint64())
	hi := NewBitVectorFromUint64(4, 0xA)
	lo := NewBitVectorFromUint64(4, 0x5)
	assert.True(t, hi.Concat(lo).Equal(a))
	assert.Equal(t, uint64(0xA5A5), a.Repeat(2).AsUint64())
}

func TestBitVectorExtensions(t *testing.T) {
	a := NewBitVectorFromInt64(4, -2)
	assert.Equal(t, uint64(0x0E), a.ZeroExtend(4).AsUint64())
	assert.Equal(t, int64(-2), a.SignExtend(4).AsInt64())
	assert.Equal(t, uint32(8), a.SignExtend(4).Width)
}

func TestBitVectorOverflowPredicates(t *testing.T) {
	maxS := NewBitVectorMaxSigned(8)
	one := NewBitVectorOne(8)
	minS := NewBitVectorMinSigned(8)
	ones := NewBitVectorOnes(8)
	assert.True(t, maxS.Saddo(one))
	assert.True(t, minS.Ssubo(one))
	assert.True(t, minS.Sdivo(ones))
	assert.False(t, one.Sdivo(ones))
	assert.True(t, maxS.Smulo(NewBitVectorFromUint64(8, 2)))
	assert.True(t, NewBitVectorFromUint64(8, 16).Umulo(NewBitVectorFromUint64(8, 16)))
	assert.False(t, NewBitVectorFromUint64(8, 15).Umulo(NewBitVectorFromUint64(8, 17)))
}

func TestBitVectorWidthOne(t *testing.T) {
	one := NewBitVectorOne(1)
	zero := NewBitVectorZero(1)
	assert.True(t, one.IsOnes())
	assert.True(t, one.IsNegative())
	assert.Equal(t, int64(-1), one.AsInt64())
	assert.Equal(t, uint64(1), one.Add(zero).AsUint64())
	assert.Equal(t, uint64(0), one.Add(one).AsUint64())
}

func TestBitVectorReductions(t *testing.T) {
	assert.True(t, NewBitVectorOnes(5).Redand())
	assert.False(t, NewBitVectorFromUint64(5, 0b10111).Redand())
	assert.True(t, NewBitVectorFromUint64(5, 0b00100).Redor())
	assert.False(t, NewBitVectorZero(5).Redor())
	assert.True(t, NewBitVectorFromUint64(5, 0b00111).Redxor())
	assert.False(t, NewBitVectorFromUint64(5, 0b00110).Redxor())
}
