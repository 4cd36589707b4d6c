package bitwuzla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fp16 builds an FP(5,11) value from its packed bit pattern.
func fp16(t *testing.T, bits uint64) *FloatingPoint {
	t.Helper()
	return newFPFromPacked(5, 11, NewBitVectorFromUint64(16, bits))
}

const (
	fp16PosZero = 0x0000
	fp16NegZero = 0x8000
	fp16Half    = 0x3800
	fp16One     = 0x3C00
	fp16OnePtFive = 0x3E00
	fp16Two     = 0x4000
	fp16TwoPtFive = 0x4100
	fp16Three   = 0x4200
	fp16Four    = 0x4400
	fp16PosInf  = 0x7C00
	fp16NegInf  = 0xFC00
)

func TestFloatingPointClassification(t *testing.T) {
	one := fp16(t, fp16One)
	assert.True(t, one.IsNormal())
	assert.True(t, one.IsPos())
	assert.False(t, one.IsNaN())

	nan := NewFPNaN(5, 11)
	assert.True(t, nan.IsNaN())
	assert.False(t, nan.IsInf())

	inf := NewFPInf(5, 11, true)
	assert.True(t, inf.IsInf())
	assert.True(t, inf.IsNeg())

	nz := NewFPZero(5, 11, true)
	assert.True(t, nz.IsZero())
	assert.True(t, nz.IsNeg())

	sub := fp16(t, 0x0001)
	assert.True(t, sub.IsSubnormal())
	assert.False(t, sub.IsNormal())
}

func TestFloatingPointIEEEEquality(t *testing.T) {
	pz := NewFPZero(5, 11, false)
	nz := NewFPZero(5, 11, true)
	assert.True(t, pz.FPEqual(nz))
	assert.False(t, pz.Equal(nz))
	nan := NewFPNaN(5, 11)
	assert.False(t, nan.FPEqual(nan))
}

func TestFloatingPointNegAbs(t *testing.T) {
	one := fp16(t, fp16One)
	assert.True(t, one.Neg().IsNeg())
	assert.True(t, one.Neg().Neg().Equal(one))
	assert.True(t, one.Neg().Abs().Equal(one))
}

// foldFP rewrites an FP operation over concrete operands and returns the
// resulting value payload.
func foldFP(t *testing.T, tm *TermManager, term Term) *FloatingPoint {
	t.Helper()
	rw := NewRewriter(tm, 1)
	got := rw.Rewrite(term)
	require.True(t, got.IsValue(), "did not fold: %s", got)
	return got.Value().FP()
}

func TestFPFoldArithmetic(t *testing.T) {
	tm := NewTermManager()
	rm := tm.MkRMValue(RNE)
	v := func(bits uint64) Term { return tm.MkFPValue(fp16(t, bits)) }

	tests := []struct {
		name string
		in   Term
		want uint64
	}{
		{"add", tm.MkFPAdd(rm, v(fp16OnePtFive), v(fp16TwoPtFive)), fp16Four},
		{"add-identity", tm.MkFPAdd(rm, v(fp16One), v(fp16PosZero)), fp16One},
		{"sub", tm.MkFPSub(rm, v(fp16TwoPtFive), v(fp16OnePtFive)), fp16One},
		{"sub-cancel", tm.MkFPSub(rm, v(fp16One), v(fp16One)), fp16PosZero},
		{"mul", tm.MkFPMul(rm, v(fp16OnePtFive), v(fp16Two)), fp16Three},
		{"div", tm.MkFPDiv(rm, v(fp16One), v(fp16Two)), fp16Half},
		{"sqrt", tm.MkFPSqrt(rm, v(fp16Four)), fp16Two},
		{"rti", tm.MkFPRti(rm, v(fp16TwoPtFive)), fp16Two},
		{"fma", tm.MkFPFma(rm, v(fp16One), v(fp16Two), v(fp16Two)), fp16Four},
		{"min-zeros", tm.MkFPMin(v(fp16PosZero), v(fp16NegZero)), fp16NegZero},
		{"max", tm.MkFPMax(v(fp16One), v(fp16Two)), fp16Two},
		{"add-inf", tm.MkFPAdd(rm, v(fp16PosInf), v(fp16One)), fp16PosInf},
	}
	for _, tc := range tests {
		got := foldFP(t, tm, tc.in)
		assert.Equal(t, uint64(tc.want), got.PackedBV().AsUint64(), tc.name)
	}
}

func TestFPFoldSpecialCases(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	rm := tm.MkRMValue(RNE)
	v := func(bits uint64) Term { return tm.MkFPValue(fp16(t, bits)) }

	// +inf + -inf and 0/0 are NaN.
	nanSum := foldFP(t, tm, tm.MkFPAdd(rm, v(fp16PosInf), v(fp16NegInf)))
	assert.True(t, nanSum.IsNaN())
	nanDiv := foldFP(t, tm, tm.MkFPDiv(rm, v(fp16PosZero), v(fp16PosZero)))
	assert.True(t, nanDiv.IsNaN())
	nanSqrt := foldFP(t, tm, tm.MkFPSqrt(rm, v(0xBC00))) // sqrt(-1)
	assert.True(t, nanSqrt.IsNaN())

	// NaN propagates and its predicate folds.
	isnan := rw.Rewrite(tm.MkFPIsNaN(tm.MkFPAdd(rm, v(fp16PosZero), tm.MkFPValueNaN(tm.MkFPSort(5, 11)))))
	assert.True(t, isnan.Equal(tm.MkTrue()))

	// Division by zero gives a signed infinity.
	inf := foldFP(t, tm, tm.MkFPDiv(rm, v(fp16One), v(fp16NegZero)))
	assert.True(t, inf.IsInf())
	assert.True(t, inf.IsNeg())
}

func TestFPFoldComparisons(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	v := func(bits uint64) Term { return tm.MkFPValue(fp16(t, bits)) }

	assert.True(t, rw.Rewrite(tm.MkFPLt(v(fp16One), v(fp16Two))).Equal(tm.MkTrue()))
	assert.True(t, rw.Rewrite(tm.MkFPLt(v(fp16Two), v(fp16One))).Equal(tm.MkFalse()))
	assert.True(t, rw.Rewrite(tm.MkFPEqual(v(fp16PosZero), v(fp16NegZero))).Equal(tm.MkTrue()))
	assert.True(t, rw.Rewrite(tm.MkFPLeq(v(fp16One), v(fp16One))).Equal(tm.MkTrue()))
	assert.True(t, rw.Rewrite(tm.MkFPGt(v(fp16NegInf), v(fp16One))).Equal(tm.MkFalse()))
	nan := tm.MkFPValueNaN(tm.MkFPSort(5, 11))
	assert.True(t, rw.Rewrite(tm.MkFPLt(nan, v(fp16One))).Equal(tm.MkFalse()))
	assert.True(t, rw.Rewrite(tm.MkFPEqual(nan, nan)).Equal(tm.MkFalse()))
}

func TestFPFoldRoundingModes(t *testing.T) {
	tm := NewTermManager()
	v := func(bits uint64) Term { return tm.MkFPValue(fp16(t, bits)) }
	// 2.5 rounds to 2 under RNE (ties to even) and to 3 under RNA.
	assert.Equal(t, uint64(fp16Two),
		foldFP(t, tm, tm.MkFPRti(tm.MkRMValue(RNE), v(fp16TwoPtFive))).PackedBV().AsUint64())
	assert.Equal(t, uint64(fp16Three),
		foldFP(t, tm, tm.MkFPRti(tm.MkRMValue(RNA), v(fp16TwoPtFive))).PackedBV().AsUint64())
	assert.Equal(t, uint64(fp16Two),
		foldFP(t, tm, tm.MkFPRti(tm.MkRMValue(RTZ), v(fp16TwoPtFive))).PackedBV().AsUint64())
	assert.Equal(t, uint64(fp16Three),
		foldFP(t, tm, tm.MkFPRti(tm.MkRMValue(RTP), v(fp16TwoPtFive))).PackedBV().AsUint64())
}

func TestFPFoldConversions(t *testing.T) {
	tm := NewTermManager()
	rm := tm.MkRMValue(RNE)

	// Unsigned 3 into FP16.
	three := foldFP(t, tm, tm.MkFPToFPFromUBV(rm, 5, 11, tm.MkBVValueUint64(tm.MkBVSort(8), 3)))
	assert.Equal(t, uint64(fp16Three), three.PackedBV().AsUint64())

	// Signed -2 into FP16.
	negTwo := foldFP(t, tm, tm.MkFPToFPFromSBV(rm, 5, 11, tm.MkBVValueInt64(tm.MkBVSort(8), -2)))
	assert.Equal(t, uint64(fp16Two|0x8000), negTwo.PackedBV().AsUint64())

	// Reinterpret packed bits.
	reinterp := foldFP(t, tm, tm.MkFPToFPFromBV(5, 11, tm.MkBVValueUint64(tm.MkBVSort(16), fp16One)))
	assert.Equal(t, uint64(fp16One), reinterp.PackedBV().AsUint64())

	// Widen FP16 -> FP32 and back.
	rw := NewRewriter(tm, 1)
	wide := rw.Rewrite(tm.MkFPToFPFromFP(rm, 8, 24, tm.MkFPValue(fp16(t, fp16OnePtFive))))
	require.True(t, wide.IsValue())
	back := foldFP(t, tm, tm.MkFPToFPFromFP(rm, 5, 11, wide))
	assert.Equal(t, uint64(fp16OnePtFive), back.PackedBV().AsUint64())

	// FP 2.5 to an unsigned 4-bit integer under RNE.
	toInt := rw.Rewrite(tm.MkFPToUBV(rm, 4, tm.MkFPValue(fp16(t, fp16TwoPtFive))))
	require.True(t, toInt.IsValue())
	assert.Equal(t, uint64(2), toInt.Value().BV().AsUint64())
}

func TestFPFoldRem(t *testing.T) {
	tm := NewTermManager()
	// rem(3, 2) = -1: the quotient 1.5 rounds to 2 (nearest even).
	got := foldFP(t, tm, tm.MkFPRem(tm.MkFPValue(fp16(t, fp16Three)), tm.MkFPValue(fp16(t, fp16Two))))
	assert.Equal(t, uint64(fp16One|0x8000), got.PackedBV().AsUint64())
	// rem(2.5, 1) = 0.5.
	got = foldFP(t, tm, tm.MkFPRem(tm.MkFPValue(fp16(t, fp16TwoPtFive)), tm.MkFPValue(fp16(t, fp16One))))
	assert.Equal(t, uint64(fp16Half), got.PackedBV().AsUint64())
}

func TestCheckSatFPNaNScenario(t *testing.T) {
	// fp.isNaN(fp.add(RNE, +0.0, NaN)) over FP(5,11) is satisfiable.
	tm, sc := newSolver(t)
	f16 := tm.MkFPSort(5, 11)
	rm := tm.MkRMValue(RNE)
	sum := tm.MkFPAdd(rm, tm.MkFPValueZero(f16, false), tm.MkFPValueNaN(f16))
	require.NoError(t, sc.Assert(tm.MkFPIsNaN(sum)))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Satisfiable, res)
}

func TestCheckSatSymbolicFP(t *testing.T) {
	// A symbolic FP constant forced to be NaN.
	tm, sc := newSolver(t)
	f16 := tm.MkFPSort(5, 11)
	x := tm.MkConst(f16, "x")
	require.NoError(t, sc.Assert(tm.MkFPIsNaN(x)))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)
	xv, err := sc.GetValue(x)
	require.NoError(t, err)
	require.True(t, xv.IsValue())
	assert.True(t, xv.Value().FP().IsNaN())
}

func TestCheckSatSymbolicFPArithmetic(t *testing.T) {
	// x + 1.0 = 2.0 under RNE on FP(3,4), kept tiny so the blasted
	// circuits stay small. The model must satisfy the equation when the
	// sum is refolded concretely.
	tm, sc := newSolver(t)
	f := tm.MkFPSort(3, 4)
	rm := tm.MkRMValue(RNE)
	one := tm.MkFPValue(newFPFromPacked(3, 4, NewBitVectorFromUint64(7, 0x18)))
	two := tm.MkFPValue(newFPFromPacked(3, 4, NewBitVectorFromUint64(7, 0x20)))
	x := tm.MkConst(f, "x")
	require.NoError(t, sc.Assert(tm.MkEqual(tm.MkFPAdd(rm, x, one), two)))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)
	xv, err := sc.GetValue(x)
	require.NoError(t, err)
	require.True(t, xv.IsValue())
	sum := foldFP(t, tm, tm.MkFPAdd(rm, xv, one))
	assert.Equal(t, uint64(0x20), sum.PackedBV().AsUint64())
}

func TestFPValueFromReal(t *testing.T) {
	tm := NewTermManager()
	f16 := tm.MkFPSort(5, 11)

	tests := []struct {
		real string
		rm   RoundingMode
		want uint64
	}{
		{"1.5", RNE, fp16OnePtFive},
		{"-2.5", RNE, fp16TwoPtFive | 0x8000},
		{"0.0", RNE, fp16PosZero},
		{"0.1", RNE, 0x2E66},
		{"0.1", RTP, 0x2E67},
		{"65504", RNE, 0x7BFF},  // largest half-precision normal
		{"65520", RNE, 0x7C00},  // rounds up to infinity
		{"65520", RTZ, 0x7BFF},  // truncates to the largest normal
	}
	for _, tc := range tests {
		got, err := tm.MkFPValueFromReal(f16, tc.rm, tc.real)
		require.NoError(t, err, tc.real)
		assert.Equal(t, tc.want, got.Value().FP().PackedBV().AsUint64(), "%s %s", tc.real, tc.rm)
	}

	_, err := tm.MkFPValueFromReal(f16, RNE, "abc")
	require.Error(t, err)

	q, err := tm.MkFPValueFromRational(f16, RNE, "1", "2")
	require.NoError(t, err)
	assert.Equal(t, uint64(fp16Half), q.Value().FP().PackedBV().AsUint64())
	_, err = tm.MkFPValueFromRational(f16, RNE, "1", "0")
	require.Error(t, err)
}

func TestRoundingModeParse(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want RoundingMode
	}{
		{"RNE", RNE}, {"roundNearestTiesToEven", RNE},
		{"RNA", RNA}, {"roundNearestTiesToAway", RNA},
		{"RTN", RTN}, {"roundTowardNegative", RTN},
		{"RTP", RTP}, {"roundTowardPositive", RTP},
		{"RTZ", RTZ}, {"roundTowardZero", RTZ},
	} {
		got, ok := ParseRoundingMode(tc.s)
		require.True(t, ok, tc.s)
		assert.Equal(t, tc.want, got, tc.s)
	}
	_, ok := ParseRoundingMode("nearest")
	assert.False(t, ok)
}
