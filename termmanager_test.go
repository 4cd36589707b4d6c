package bitwuzla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortHashConsing(t *testing.T) {
	tm := NewTermManager()
	assert.True(t, tm.MkBoolSort().Equal(tm.MkBoolSort()))
	assert.True(t, tm.MkBVSort(8).Equal(tm.MkBVSort(8)))
	assert.False(t, tm.MkBVSort(8).Equal(tm.MkBVSort(9)))
	assert.True(t, tm.MkFPSort(5, 11).Equal(tm.MkFPSort(5, 11)))
	assert.True(t, tm.MkRMSort().Equal(tm.MkRMSort()))

	arr := tm.MkArraySort(tm.MkBVSort(4), tm.MkBVSort(8))
	assert.True(t, arr.Equal(tm.MkArraySort(tm.MkBVSort(4), tm.MkBVSort(8))))
	assert.True(t, arr.ArrayIndex().Equal(tm.MkBVSort(4)))
	assert.True(t, arr.ArrayElement().Equal(tm.MkBVSort(8)))

	fn := tm.MkFunSort([]Sort{tm.MkBVSort(4)}, tm.MkBVSort(8))
	assert.True(t, fn.Equal(tm.MkFunSort([]Sort{tm.MkBVSort(4)}, tm.MkBVSort(8))))
	assert.True(t, tm.MkUninterpretedSort("U").Equal(tm.MkUninterpretedSort("U")))
	assert.False(t, tm.MkUninterpretedSort("U").Equal(tm.MkUninterpretedSort("V")))
}

func TestTermHashConsing(t *testing.T) {
	tm := NewTermManager()
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")

	a := tm.MkBVAdd(x, y)
	b := tm.MkBVAdd(x, y)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(tm.MkBVAdd(y, x)))

	e1 := tm.MkBVExtract(7, 4, x)
	e2 := tm.MkBVExtract(7, 4, x)
	assert.True(t, e1.Equal(e2))
	assert.False(t, e1.Equal(tm.MkBVExtract(7, 3, x)))

	v1 := tm.MkBVValueUint64(bv8, 42)
	v2 := tm.MkBVValueUint64(bv8, 42)
	assert.True(t, v1.Equal(v2))
}

func TestConstantsAreDistinct(t *testing.T) {
	tm := NewTermManager()
	bv8 := tm.MkBVSort(8)
	a := tm.MkConst(bv8, "x")
	b := tm.MkConst(bv8, "x")
	assert.False(t, a.Equal(b), "constants deduplicate by identity, not name")
}

func TestTypeInference(t *testing.T) {
	tm := NewTermManager()
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")

	assert.True(t, tm.MkBVAdd(x, x).Sort().Equal(bv8))
	assert.True(t, tm.MkBVUlt(x, x).Sort().IsBool())
	assert.True(t, tm.MkBVConcat(x, x).Sort().Equal(tm.MkBVSort(16)))
	assert.True(t, tm.MkBVExtract(3, 0, x).Sort().Equal(tm.MkBVSort(4)))
	assert.True(t, tm.MkBVZeroExtend(8, x).Sort().Equal(tm.MkBVSort(16)))
	assert.True(t, tm.MkBVRedand(x).Sort().Equal(tm.MkBVSort(1)))

	fn := tm.MkConst(tm.MkFunSort([]Sort{bv8}, tm.MkBoolSort()), "p")
	assert.True(t, tm.MkApply(fn, x).Sort().IsBool())

	arr := tm.MkConst(tm.MkArraySort(bv8, bv8), "a")
	assert.True(t, tm.MkSelect(arr, x).Sort().Equal(bv8))
	assert.True(t, tm.MkStore(arr, x, x).Sort().Equal(arr.Sort()))
}

func typeErrOf(fn func()) (err error) {
	defer Recover(&err)
	fn()
	return nil
}

func TestTypeErrors(t *testing.T) {
	tm := NewTermManager()
	bv8 := tm.MkBVSort(8)
	bv4 := tm.MkBVSort(4)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv4, "y")
	p := tm.MkConst(tm.MkBoolSort(), "p")

	cases := []func(){
		func() { tm.MkBVAdd(x, y) },               // width mismatch
		func() { tm.MkBVAdd(x, p) },               // non-BV operand
		func() { tm.MkAnd(x, x) },                 // non-Bool operand
		func() { tm.MkBVExtract(3, 5, x) },        // upper < lower
		func() { tm.MkBVExtract(8, 0, x) },        // upper >= width
		func() { tm.MkIte(p, x, y) },              // branch sort mismatch
		func() { tm.MkTerm(KindBVAdd, nil, x) },   // arity
		func() { tm.MkEqual(x, y) },               // sort mismatch
	}
	for i, fn := range cases {
		err := typeErrOf(fn)
		require.Error(t, err, "case %d", i)
		var e *Error
		require.ErrorAs(t, err, &e, "case %d", i)
		assert.Equal(t, TypeErrorKind, e.Kind, "case %d", i)
	}
}

func TestSortConstructorBounds(t *testing.T) {
	tm := NewTermManager()
	assert.Error(t, typeErrOf(func() { tm.MkBVSort(0) }))
	assert.Error(t, typeErrOf(func() { tm.MkFPSort(1, 11) }))
	assert.Error(t, typeErrOf(func() { tm.MkFPSort(5, 1) }))
	assert.Error(t, typeErrOf(func() { tm.MkFunSort(nil, tm.MkBoolSort()) }))
}

func TestBVValueStringAgreesWithUint64(t *testing.T) {
	tm := NewTermManager()
	bv8 := tm.MkBVSort(8)
	for _, v := range []uint64{0, 1, 42, 255} {
		bv := NewBitVectorFromUint64(8, v)
		for _, base := range []int{2, 10, 16} {
			fromStr, err := tm.MkBVValueString(bv8, bv.ToString(base), base)
			require.NoError(t, err)
			assert.True(t, fromStr.Equal(tm.MkBVValueUint64(bv8, v)), "v=%d base=%d", v, base)
		}
	}
}
