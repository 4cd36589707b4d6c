package bitwuzla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLevelZeroIsIdentity(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 0)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	term := tm.MkBVAdd(x, tm.MkBVZero(bv8))
	assert.True(t, rw.Rewrite(term).Equal(term))
}

func TestRewriteConstantFolding(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	bv8 := tm.MkBVSort(8)
	v := func(x uint64) Term { return tm.MkBVValueUint64(bv8, x) }

	tests := []struct {
		name string
		in   Term
		want Term
	}{
		{"add", tm.MkBVAdd(v(200), v(100)), v(44)},
		{"mul", tm.MkBVMul(v(16), v(16)), v(0)},
		{"udiv", tm.MkBVUDiv(v(9), v(2)), v(4)},
		{"udiv0", tm.MkBVUDiv(v(9), v(0)), v(255)},
		{"and", tm.MkBVAnd(v(0xF0), v(0x3C)), v(0x30)},
		{"extract", tm.MkBVExtract(3, 0, v(0xA5)), tm.MkBVValueUint64(tm.MkBVSort(4), 5)},
		{"ult", tm.MkBVUlt(v(3), v(4)), tm.MkTrue()},
		{"slt", tm.MkBVSlt(v(255), v(0)), tm.MkTrue()},
		{"uaddo", tm.MkBVUaddo(v(200), v(100)), tm.MkTrue()},
		{"smulo", tm.MkBVSmulo(v(127), v(2)), tm.MkTrue()},
		{"not", tm.MkNot(tm.MkFalse()), tm.MkTrue()},
		{"eq-values", tm.MkEqual(v(3), v(4)), tm.MkFalse()},
		{"ite", tm.MkIte(tm.MkTrue(), v(1), v(2)), v(1)},
	}
	for _, tc := range tests {
		got := rw.Rewrite(tc.in)
		assert.True(t, got.Equal(tc.want), "%s: got %s want %s", tc.name, got, tc.want)
	}
}

func TestRewriteAlgebraicIdentities(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 2)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	zero := tm.MkBVZero(bv8)
	ones := tm.MkBVOnes(bv8)

	assert.True(t, rw.Rewrite(tm.MkBVAdd(x, zero)).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVMul(x, tm.MkBVOne(bv8))).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVMul(x, zero)).Equal(zero))
	assert.True(t, rw.Rewrite(tm.MkBVAnd(x, ones)).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVAnd(x, zero)).Equal(zero))
	assert.True(t, rw.Rewrite(tm.MkBVOr(x, zero)).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVXor(x, x)).Equal(zero))
	assert.True(t, rw.Rewrite(tm.MkBVExtract(7, 0, x)).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVNot(tm.MkBVNot(x))).Equal(x))
	assert.True(t, rw.Rewrite(tm.MkBVSub(x, x)).Equal(zero))
	assert.True(t, rw.Rewrite(tm.MkEqual(x, x)).Equal(tm.MkTrue()))
	assert.True(t, rw.Rewrite(tm.MkBVUlt(x, x)).Equal(tm.MkFalse()))
	assert.True(t, rw.Rewrite(tm.MkBVUle(x, x)).Equal(tm.MkTrue()))
}

func TestRewriteBooleanStructure(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	p := tm.MkConst(tm.MkBoolSort(), "p")
	q := tm.MkConst(tm.MkBoolSort(), "q")

	assert.True(t, rw.Rewrite(tm.MkAnd(p, tm.MkTrue())).Equal(p))
	assert.True(t, rw.Rewrite(tm.MkAnd(p, tm.MkFalse())).Equal(tm.MkFalse()))
	assert.True(t, rw.Rewrite(tm.MkAnd(p, tm.MkNot(p))).Equal(tm.MkFalse()))
	assert.True(t, rw.Rewrite(tm.MkOr(p, tm.MkNot(p))).Equal(tm.MkTrue()))
	assert.True(t, rw.Rewrite(tm.MkNot(tm.MkNot(p))).Equal(p))
	assert.True(t, rw.Rewrite(tm.MkIte(p, tm.MkTrue(), tm.MkFalse())).Equal(p))

	// Nested conjunctions flatten.
	flat := rw.Rewrite(tm.MkAnd(tm.MkAnd(p, q), p))
	assert.Equal(t, KindAnd, flat.Kind())
	assert.Equal(t, 2, flat.NumChildren())
}

func TestRewriteNandMatchesNotAnd(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	bv16 := tm.MkBVSort(16)
	s := tm.MkConst(bv16, "s")
	u := tm.MkConst(bv16, "u")
	lhs := rw.Rewrite(tm.MkBVNand(s, u))
	rhs := rw.Rewrite(tm.MkBVNot(tm.MkBVAnd(s, u)))
	assert.True(t, lhs.Equal(rhs))
}

func TestRewriteSelectOverStore(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	bv8 := tm.MkBVSort(8)
	arr := tm.MkConst(tm.MkArraySort(bv8, bv8), "a")
	i := tm.MkBVValueUint64(bv8, 0)
	j := tm.MkBVValueUint64(bv8, 1)
	v := tm.MkBVValueUint64(bv8, 5)

	// Same index reads the stored value; a distinct concrete index reads
	// through the store.
	assert.True(t, rw.Rewrite(tm.MkSelect(tm.MkStore(arr, i, v), i)).Equal(v))
	assert.True(t, rw.Rewrite(tm.MkSelect(tm.MkStore(arr, i, v), j)).Equal(tm.MkSelect(arr, j)))

	// Symbolic index turns into the write-over-read conditional.
	k := tm.MkConst(bv8, "k")
	got := rw.Rewrite(tm.MkSelect(tm.MkStore(arr, i, v), k))
	assert.Equal(t, KindIte, got.Kind())

	// Constant arrays read their default value.
	ca := tm.MkConstArray(tm.MkArraySort(bv8, bv8), v)
	assert.True(t, rw.Rewrite(tm.MkSelect(ca, k)).Equal(v))
}

func TestRewriteBetaReduction(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 1)
	bv8 := tm.MkBVSort(8)
	v := tm.MkVar(bv8, "v")
	lam := tm.MkLambda(v, tm.MkBVAdd(v, tm.MkBVOne(bv8)))
	arg := tm.MkBVValueUint64(bv8, 41)
	assert.True(t, rw.Rewrite(tm.MkApply(lam, arg)).Equal(tm.MkBVValueUint64(bv8, 42)))
}

func TestRewriteIdempotent(t *testing.T) {
	tm := NewTermManager()
	rw := NewRewriter(tm, 2)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")
	p := tm.MkConst(tm.MkBoolSort(), "p")

	terms := []Term{
		tm.MkBVAdd(tm.MkBVMul(x, y), tm.MkBVValueUint64(bv8, 7)),
		tm.MkAnd(p, tm.MkBVUlt(x, y)),
		tm.MkIte(p, tm.MkBVSub(x, y), tm.MkBVNeg(y)),
		tm.MkBVSMod(x, y),
		tm.MkBVRol(x, y),
		tm.MkBVSignExtend(8, x),
	}
	for _, term := range terms {
		once := rw.Rewrite(term)
		twice := rw.Rewrite(once)
		require.True(t, twice.Equal(once), "rewrite not idempotent on %s", term)
	}
}

func TestRewriteDeterministic(t *testing.T) {
	mk := func() Term {
		tm := NewTermManager()
		rw := NewRewriter(tm, 2)
		bv8 := tm.MkBVSort(8)
		x := tm.MkConst(bv8, "x")
		return rw.Rewrite(tm.MkBVAdd(tm.MkBVMul(x, tm.MkBVValueUint64(bv8, 3)), x))
	}
	assert.Equal(t, mk().String(), mk().String())
}
