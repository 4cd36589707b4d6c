package bitwuzla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreprocessor(t *testing.T, opts Options) (*TermManager, *SolvingContext) {
	tm := NewTermManager()
	sc, err := NewSolvingContext(tm, opts)
	require.NoError(t, err)
	return tm, sc
}

func TestPreprocessVariableSubstitution(t *testing.T) {
	tm, sc := newTestPreprocessor(t, DefaultOptions())
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")

	require.NoError(t, sc.Assert(tm.MkEqual(x, tm.MkBVValueUint64(bv8, 7))))
	require.NoError(t, sc.Assert(tm.MkEqual(y, tm.MkBVAdd(x, x))))

	aborted := sc.pp.Process(nil)
	require.False(t, aborted)

	// Both assertions collapse to true; y's pinned value is recorded.
	for i := 0; i < sc.stack.Len(); i++ {
		assert.True(t, isTrue(sc.stack.Get(i)), "assertion %d: %s", i, sc.stack.Get(i))
	}
	subst := sc.pp.Substitutions()
	assert.Contains(t, subst, x)
}

func TestPreprocessOccurCheck(t *testing.T) {
	tm, sc := newTestPreprocessor(t, DefaultOptions())
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")

	// x = x + 1 must not substitute (and is in fact unsat).
	require.NoError(t, sc.Assert(tm.MkEqual(x, tm.MkBVAdd(x, tm.MkBVOne(bv8)))))
	require.False(t, sc.pp.Process(nil))
	subst := sc.pp.Substitutions()
	assert.NotContains(t, subst, x)
}

func TestPreprocessContradictingAnds(t *testing.T) {
	tm, sc := newTestPreprocessor(t, DefaultOptions())
	p := tm.MkConst(tm.MkBoolSort(), "p")
	q := tm.MkConst(tm.MkBoolSort(), "q")

	require.NoError(t, sc.Assert(tm.MkAnd(q, p, tm.MkNot(p))))
	require.False(t, sc.pp.Process(nil))
	assert.True(t, isFalse(sc.stack.Get(0)))
}

func TestPreprocessFlattenAnd(t *testing.T) {
	opts := DefaultOptions()
	opts.RewriteLevel = 0 // isolate the pass from the rewriter's own flattening
	opts.Preprocess.VariableSubst = false
	opts.Preprocess.SkeletonPreproc = false
	opts.Preprocess.EmbeddedConstr = false
	tm, sc := newTestPreprocessor(t, opts)
	p := tm.MkConst(tm.MkBoolSort(), "p")
	q := tm.MkConst(tm.MkBoolSort(), "q")
	r := tm.MkConst(tm.MkBoolSort(), "r")

	require.NoError(t, sc.Assert(tm.MkAnd(tm.MkAnd(p, q), r)))
	require.False(t, sc.pp.Process(nil))
	got := sc.stack.Get(0)
	assert.Equal(t, KindAnd, got.Kind())
	assert.Equal(t, 3, got.NumChildren())
}

func TestPreprocessTerminator(t *testing.T) {
	tm, sc := newTestPreprocessor(t, DefaultOptions())
	p := tm.MkConst(tm.MkBoolSort(), "p")
	require.NoError(t, sc.Assert(p))
	aborted := sc.pp.Process(func() bool { return true })
	assert.True(t, aborted)
}

func TestPreprocessFixedPointIsStable(t *testing.T) {
	tm, sc := newTestPreprocessor(t, DefaultOptions())
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")
	require.NoError(t, sc.Assert(tm.MkBVUlt(tm.MkBVAdd(x, y), tm.MkBVValueUint64(bv8, 200))))

	require.False(t, sc.pp.Process(nil))
	snapshot := sc.stack.Get(0)
	require.False(t, sc.pp.Process(nil))
	assert.True(t, sc.stack.Get(0).Equal(snapshot))
}

func TestBacktrackStackPopDiscardsLevels(t *testing.T) {
	bm := NewBacktrackManager()
	stack := NewAssertionStack(bm)
	tm := NewTermManager()
	p := tm.MkConst(tm.MkBoolSort(), "p")
	q := tm.MkConst(tm.MkBoolSort(), "q")

	stack.Append(p)
	bm.Push()
	stack.Append(q)
	assert.Equal(t, 2, stack.Len())
	assert.Equal(t, 0, stack.LevelOf(0))
	assert.Equal(t, 1, stack.LevelOf(1))

	bm.Pop()
	assert.Equal(t, 1, stack.Len())
	assert.True(t, stack.Get(0).Equal(p))
}

func TestAssertionViewCursor(t *testing.T) {
	bm := NewBacktrackManager()
	stack := NewAssertionStack(bm)
	view := NewAssertionView(stack, bm)
	tm := NewTermManager()
	p := tm.MkConst(tm.MkBoolSort(), "p")
	q := tm.MkConst(tm.MkBoolSort(), "q")

	stack.Append(p)
	i, ok := view.Next()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = view.Next()
	assert.False(t, ok)

	stack.Append(q)
	i, ok = view.Next()
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestBacktrackPopAtRootFails(t *testing.T) {
	bm := NewBacktrackManager()
	err := func() (err error) {
		defer Recover(&err)
		bm.Pop()
		return nil
	}()
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, UsageErrorKind, e.Kind)
}
