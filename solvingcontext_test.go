package bitwuzla

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolver(t *testing.T, mutate ...func(*Options)) (*TermManager, *SolvingContext) {
	tm := NewTermManager()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	sc, err := NewSolvingContext(tm, opts)
	require.NoError(t, err)
	return tm, sc
}

func incremental(o *Options) { o.Incremental = true }

func TestCheckSatDoubledAdditionOverflow(t *testing.T) {
	// (bvadd x x) = 3 over BV4 is unsat: doubling is always even.
	tm, sc := newSolver(t)
	bv4 := tm.MkBVSort(4)
	x := tm.MkConst(bv4, "x")
	require.NoError(t, sc.Assert(tm.MkEqual(tm.MkBVAdd(x, x), tm.MkBVValueUint64(bv4, 3))))
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkBVUaddo(x, x))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestCheckSatMulAssociativity(t *testing.T) {
	tm, sc := newSolver(t)
	bv4 := tm.MkBVSort(4)
	s := tm.MkConst(bv4, "s")
	x := tm.MkConst(bv4, "x")
	u := tm.MkConst(bv4, "t")
	lhs := tm.MkBVMul(s, tm.MkBVMul(x, u))
	rhs := tm.MkBVMul(tm.MkBVMul(s, x), u)
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(lhs, rhs))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestCheckSatTerminatorYieldsUnknown(t *testing.T) {
	tm, sc := newSolver(t, func(o *Options) { o.BVSolver = BVSolverProp })
	bv4 := tm.MkBVSort(4)
	s := tm.MkConst(bv4, "s")
	x := tm.MkConst(bv4, "x")
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(tm.MkBVMul(s, x), tm.MkBVMul(x, s)))))
	sc.SetTerminator(func() bool { return true })
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unknown, res)
	assert.Equal(t, "terminator", sc.ReasonUnknown())
}

func TestCheckSatExistsWitness(t *testing.T) {
	// ∃ x:BV8. c*x = 0 always holds (x = 0).
	tm, sc := newSolver(t)
	bv8 := tm.MkBVSort(8)
	c := tm.MkConst(bv8, "c")
	x := tm.MkVar(bv8, "x")
	body := tm.MkEqual(tm.MkBVMul(c, x), tm.MkBVZero(bv8))
	require.NoError(t, sc.Assert(tm.MkExists(x, body)))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Satisfiable, res)
}

func TestCheckSatStoreSelect(t *testing.T) {
	tm, sc := newSolver(t)
	bv8 := tm.MkBVSort(8)
	arr := tm.MkConst(tm.MkArraySort(bv8, bv8), "a")
	zero := tm.MkBVValueUint64(bv8, 0)
	five := tm.MkBVValueUint64(bv8, 5)
	read := tm.MkSelect(tm.MkStore(arr, zero, five), zero)
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(read, five))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestCheckSatNandNotAnd(t *testing.T) {
	tm, sc := newSolver(t)
	bv16 := tm.MkBVSort(16)
	s := tm.MkConst(bv16, "s")
	u := tm.MkConst(bv16, "t")
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(
		tm.MkBVNand(s, u), tm.MkBVNot(tm.MkBVAnd(s, u))))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestCheckSatModelValues(t *testing.T) {
	tm, sc := newSolver(t)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")
	require.NoError(t, sc.Assert(tm.MkEqual(tm.MkBVAdd(x, y), tm.MkBVValueUint64(bv8, 10))))
	require.NoError(t, sc.Assert(tm.MkBVUgt(x, y)))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)

	xv, err := sc.GetValue(x)
	require.NoError(t, err)
	yv, err := sc.GetValue(y)
	require.NoError(t, err)
	require.True(t, xv.IsValue())
	require.True(t, yv.IsValue())
	sum := xv.Value().BV().Add(yv.Value().BV())
	assert.Equal(t, uint64(10), sum.AsUint64())
	assert.True(t, xv.Value().BV().Ugt(yv.Value().BV()))

	// The model satisfies derived terms too.
	sv, err := sc.GetValue(tm.MkBVAdd(x, y))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), sv.Value().BV().AsUint64())
}

func TestGetValueBeforeSatFails(t *testing.T) {
	tm, sc := newSolver(t)
	x := tm.MkConst(tm.MkBVSort(8), "x")
	_, err := sc.GetValue(x)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, UsageErrorKind, e.Kind)
}

func TestPushPopIsolation(t *testing.T) {
	tm, sc := newSolver(t, incremental)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	require.NoError(t, sc.Assert(tm.MkEqual(x, tm.MkBVValueUint64(bv8, 1))))

	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)

	require.NoError(t, sc.Push(1))
	require.NoError(t, sc.Assert(tm.MkEqual(x, tm.MkBVValueUint64(bv8, 2))))
	res, err = sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)

	require.NoError(t, sc.Pop(1))
	res, err = sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Satisfiable, res)
}

func TestPushWithoutIncrementalFails(t *testing.T) {
	_, sc := newSolver(t)
	err := sc.Push(1)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, UsageErrorKind, e.Kind)
	assert.NoError(t, sc.Push(0))
}

func TestPopPastRootFails(t *testing.T) {
	_, sc := newSolver(t, incremental)
	require.NoError(t, sc.Push(1))
	err := sc.Pop(2)
	require.Error(t, err)
}

func TestAssertNonBoolFails(t *testing.T) {
	tm, sc := newSolver(t)
	err := sc.Assert(tm.MkBVValueUint64(tm.MkBVSort(8), 1))
	require.Error(t, err)
}

func TestCheckSatAssumptions(t *testing.T) {
	tm, sc := newSolver(t, incremental)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	require.NoError(t, sc.Assert(tm.MkBVUlt(x, tm.MkBVValueUint64(bv8, 3))))
	big := tm.MkBVUgt(x, tm.MkBVValueUint64(bv8, 5))

	res, err := sc.CheckSat(big)
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)

	failed, err := sc.GetUnsatAssumptions()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.True(t, failed[0].Equal(big))

	// Without the assumption the assertions are satisfiable again.
	res, err = sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Satisfiable, res)
}

func TestUnsatCore(t *testing.T) {
	tm, sc := newSolver(t, incremental, func(o *Options) { o.ProduceUnsatCores = true })
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	y := tm.MkConst(bv8, "y")
	a1 := tm.MkEqual(x, tm.MkBVValueUint64(bv8, 1))
	a2 := tm.MkEqual(x, tm.MkBVValueUint64(bv8, 2))
	a3 := tm.MkEqual(y, y)
	require.NoError(t, sc.Assert(a1))
	require.NoError(t, sc.Assert(a2))
	require.NoError(t, sc.Assert(a3))

	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Unsatisfiable, res)

	core, err := sc.GetUnsatCore()
	require.NoError(t, err)
	require.NotEmpty(t, core)
	inCore := func(a Term) bool {
		for _, c := range core {
			if c.Equal(a) {
				return true
			}
		}
		return false
	}
	assert.True(t, inCore(a1))
	assert.True(t, inCore(a2))
	assert.False(t, inCore(a3))
}

func TestUnsatCoreRequiresOption(t *testing.T) {
	tm, sc := newSolver(t)
	x := tm.MkConst(tm.MkBoolSort(), "x")
	require.NoError(t, sc.Assert(tm.MkAnd(x, tm.MkNot(x))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Unsatisfiable, res)
	_, err = sc.GetUnsatCore()
	require.Error(t, err)
}

func TestCongruenceFunctionApplications(t *testing.T) {
	tm, sc := newSolver(t)
	bv4 := tm.MkBVSort(4)
	f := tm.MkConst(tm.MkFunSort([]Sort{bv4}, bv4), "f")
	x := tm.MkConst(bv4, "x")
	y := tm.MkConst(bv4, "y")

	require.NoError(t, sc.Assert(tm.MkEqual(x, y)))
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(tm.MkApply(f, x), tm.MkApply(f, y)))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestCongruenceForcesDistinctArguments(t *testing.T) {
	tm, sc := newSolver(t)
	bv4 := tm.MkBVSort(4)
	f := tm.MkConst(tm.MkFunSort([]Sort{bv4}, bv4), "f")
	x := tm.MkConst(bv4, "x")
	y := tm.MkConst(bv4, "y")

	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(tm.MkApply(f, x), tm.MkApply(f, y)))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)

	xv, err := sc.GetValue(x)
	require.NoError(t, err)
	yv, err := sc.GetValue(y)
	require.NoError(t, err)
	assert.False(t, xv.Equal(yv), "f(x) != f(y) forces x != y")
}

func TestCongruenceArrayReads(t *testing.T) {
	tm, sc := newSolver(t)
	bv4 := tm.MkBVSort(4)
	arr := tm.MkConst(tm.MkArraySort(bv4, bv4), "a")
	i := tm.MkConst(bv4, "i")
	j := tm.MkConst(bv4, "j")

	require.NoError(t, sc.Assert(tm.MkEqual(i, j)))
	require.NoError(t, sc.Assert(tm.MkNot(tm.MkEqual(tm.MkSelect(arr, i), tm.MkSelect(arr, j)))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
}

func TestSimplifyOutcomes(t *testing.T) {
	tm, sc := newSolver(t, incremental)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")

	require.NoError(t, sc.Assert(tm.MkEqual(x, x)))
	res, err := sc.Simplify()
	require.NoError(t, err)
	assert.Equal(t, Satisfiable, res)

	require.NoError(t, sc.Push(1))
	p := tm.MkConst(tm.MkBoolSort(), "p")
	require.NoError(t, sc.Assert(tm.MkAnd(p, tm.MkNot(p))))
	res, err = sc.Simplify()
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, res)
	require.NoError(t, sc.Pop(1))

	require.NoError(t, sc.Assert(tm.MkBVUlt(x, tm.MkBVValueUint64(bv8, 10))))
	res, err = sc.Simplify()
	require.NoError(t, err)
	assert.Equal(t, Unknown, res)
}

func TestQuantifierUnsupportedReturnsUnknown(t *testing.T) {
	tm, sc := newSolver(t)
	bv8 := tm.MkBVSort(8)
	c := tm.MkConst(bv8, "c")
	x := tm.MkVar(bv8, "x")
	require.NoError(t, sc.Assert(tm.MkForall(x, tm.MkEqual(x, c))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unknown, res)
	assert.Equal(t, "unsupported quantifier", sc.ReasonUnknown())
}

func TestQuantifierSmallDomainExpansion(t *testing.T) {
	// ∀ x:BV2. x & c = x forces c = 0b11.
	tm, sc := newSolver(t)
	bv2 := tm.MkBVSort(2)
	c := tm.MkConst(bv2, "c")
	x := tm.MkVar(bv2, "x")
	require.NoError(t, sc.Assert(tm.MkForall(x, tm.MkEqual(tm.MkBVAnd(x, c), x))))
	res, err := sc.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Satisfiable, res)
	cv, err := sc.GetValue(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cv.Value().BV().AsUint64())
}

func TestRepeatedCheckSatRequiresIncremental(t *testing.T) {
	tm, sc := newSolver(t)
	require.NoError(t, sc.Assert(tm.MkTrue()))
	_, err := sc.CheckSat()
	require.NoError(t, err)
	_, err = sc.CheckSat()
	require.Error(t, err)
}

func TestDumpFormula(t *testing.T) {
	tm, sc := newSolver(t)
	bv8 := tm.MkBVSort(8)
	x := tm.MkConst(bv8, "x")
	shared := tm.MkBVAdd(x, tm.MkBVValueUint64(bv8, 1))
	require.NoError(t, sc.Assert(tm.MkEqual(tm.MkBVMul(shared, shared), tm.MkBVValueUint64(bv8, 4))))

	var buf bytes.Buffer
	require.NoError(t, sc.DumpFormula(&buf, "smt2"))
	out := buf.String()
	assert.Contains(t, out, "(set-logic ALL)")
	assert.Contains(t, out, "(declare-const x (_ BitVec 8))")
	assert.Contains(t, out, "(assert ")
	assert.Contains(t, out, "(check-sat)")
	// The shared sum is let-bound once.
	assert.Equal(t, 1, strings.Count(out, "(let ("))

	require.Error(t, sc.DumpFormula(&buf, "dimacs"))
}

func TestOptionsValidation(t *testing.T) {
	tm := NewTermManager()
	opts := DefaultOptions()
	opts.RewriteLevel = 3
	_, err := NewSolvingContext(tm, opts)
	require.Error(t, err)

	opts = DefaultOptions()
	opts.Verbosity = 9
	_, err = NewSolvingContext(tm, opts)
	require.Error(t, err)
}

func TestOptionsCopiedAtBind(t *testing.T) {
	tm := NewTermManager()
	opts := DefaultOptions()
	sc, err := NewSolvingContext(tm, opts)
	require.NoError(t, err)
	opts.ProduceModels = false
	assert.True(t, sc.Options().ProduceModels, "bound options are a copy")
}
